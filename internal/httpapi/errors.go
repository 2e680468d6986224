package httpapi

import (
	"errors"
	"net/http"

	"callrec-dashboard/internal/auth"
	"callrec-dashboard/internal/groups"
	"callrec-dashboard/internal/identity/google"
	"callrec-dashboard/internal/recordings"
	"callrec-dashboard/internal/users"
	"callrec-dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto HTTP responses. Unknown errors are
// logged and reported as 500 without detail.
func writeError(c *gin.Context, err error) {
	status, msg := classify(err)
	if status >= 500 {
		logger.FromGin(c).Error("request failed", "err", err)
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, groups.ErrNotFound),
		errors.Is(err, recordings.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, recordings.ErrNoAudio):
		return http.StatusNotFound, "recording has no audio"
	case errors.Is(err, users.ErrInvalidArgument),
		errors.Is(err, groups.ErrInvalidArgument),
		errors.Is(err, recordings.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, users.ErrSelfModification):
		return http.StatusForbidden, "cannot change your own account"
	case errors.Is(err, recordings.ErrTooManyStreams):
		return http.StatusTooManyRequests, "too many concurrent audio streams"
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, google.ErrInvalidCode), errors.Is(err, google.ErrUnverified):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, google.ErrUnavailable), errors.Is(err, google.ErrBadUserinfo):
		return http.StatusBadGateway, "identity provider unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
