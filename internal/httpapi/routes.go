package httpapi

import (
	"net/http"

	"callrec-dashboard/internal/auth"
	"callrec-dashboard/internal/rbac"
	"callrec-dashboard/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Register wires every route onto r.
// Keep this free of business logic. Handlers delegate to internal modules.
func Register(r gin.IRouter, h Handlers) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	v1 := r.Group("/v1")

	// AUTH routes (public part of the sign-in flow)
	authGroup := v1.Group("/auth")
	{
		authGroup.GET("/google/url", h.GoogleAuthURL)
		authGroup.POST("/google/callback", h.GoogleCallback)
		authGroup.POST("/refresh", h.Refresh)
	}

	// signed in, any account status
	session := v1.Group("")
	session.Use(auth.RequireSession(h.Sessions))
	{
		session.POST("/auth/logout", h.Logout)
		me := session.Group("/me", rbac.LoadUser(h.Users))
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
	}

	// approved accounts
	approved := session.Group("")
	approved.Use(rbac.RequireApproved(h.Users))
	{
		recs := approved.Group("/recordings")
		recs.GET("", h.ListRecordings)
		recs.GET("/:id", h.GetRecording)
		recs.GET("/:id/audio", h.StreamAudio)
		recs.GET("/:id/url", h.AudioURL)
		recs.DELETE("/:id", rbac.RequireAdmin(), h.DeleteRecording)

		approved.GET("/stats", h.Stats)

		grp := approved.Group("/groups")
		grp.GET("", h.ListGroups)
		grp.POST("", h.CreateGroup)
		grp.DELETE("/:id", h.DeleteGroup)
	}

	// ADMIN routes
	admin := approved.Group("/users")
	admin.Use(rbac.RequireAdmin())
	{
		admin.GET("", h.ListUsers)
		admin.PATCH("/:uid/status", h.SetUserStatus)
		admin.PATCH("/:uid/role", h.SetUserRole)
		admin.PATCH("/:uid/name", h.RenameUser)
		admin.PATCH("/:uid/group", h.AssignUserGroup)
		admin.DELETE("/:uid", h.DeleteUser)
	}
}
