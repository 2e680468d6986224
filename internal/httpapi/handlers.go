package httpapi

import (
	"context"
	"time"

	"callrec-dashboard/internal/audit"
	"callrec-dashboard/internal/auth"
	"callrec-dashboard/internal/groups"
	"callrec-dashboard/internal/rbac"
	"callrec-dashboard/internal/recordings"
	"callrec-dashboard/internal/reporting"
	"callrec-dashboard/internal/users"

	"github.com/gin-gonic/gin"
)

// IdentityProvider runs the OAuth code flow. *google.Verifier satisfies it.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (users.Identity, error)
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Sessions *auth.Sessions
	States   auth.StateStore
	Identity IdentityProvider

	Users      *users.Service
	Groups     *groups.Service
	Recordings *recordings.Service
	Reporting  *reporting.Service

	Streams    recordings.StreamLimiter
	PresignTTL time.Duration
}

// actor describes the caller for audit records.
func actor(c *gin.Context) audit.Actor {
	a := audit.Actor{IP: c.ClientIP()}
	if u, ok := rbac.CurrentUser(c.Request.Context()); ok {
		a.UserID, a.Role = u.UID, string(u.Role)
		return a
	}
	if uid, err := auth.UserID(c.Request.Context()); err == nil {
		a.UserID = uid
	}
	return a
}
