package main

import (
	"log/slog"

	"callrec-dashboard/internal/httpapi"
	"callrec-dashboard/pkg/logger"
	"callrec-dashboard/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// newRouter builds the gin engine: recovery, request logging and metrics
// first, then every API route.
// Keep this file free of business logic. Handlers delegate to internal modules.
func newRouter(log *slog.Logger, h httpapi.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(metrics.Middleware())

	httpapi.Register(r, h)
	return r
}
