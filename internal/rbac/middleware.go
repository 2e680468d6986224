package rbac

import (
	"context"
	"errors"
	"net/http"

	"callrec-dashboard/internal/auth"
	"callrec-dashboard/internal/users"
	"callrec-dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserLookup loads an account by uid. *users.Service satisfies it.
type UserLookup interface {
	Get(ctx context.Context, uid string) (users.AppUser, error)
}

// LoadUser loads the caller's account on every request, so role and status
// changes apply immediately. It must run after auth.RequireSession.
func LoadUser(lookup UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loadUser(c, lookup) {
			return
		}
		c.Next()
	}
}

// RequireApproved loads the caller's account and denies pending or rejected
// accounts with their status, so clients can show the waiting page.
func RequireApproved(lookup UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loadUser(c, lookup) {
			return
		}
		u, _ := CurrentUser(c.Request.Context())
		if !u.IsApproved() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account not approved", "status": u.Status})
			return
		}
		c.Next()
	}
}

func loadUser(c *gin.Context, lookup UserLookup) bool {
	uid, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return false
	}
	u, err := lookup.Get(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
			return false
		}
		logger.FromGin(c).Error("load current user failed", "user_id", uid, "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "user store unavailable"})
		return false
	}
	c.Request = c.Request.WithContext(WithUser(c.Request.Context(), u))
	return true
}

// RequireAnyRole allows access if the current account has any of the roles.
// Use after RequireApproved.
func RequireAnyRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}
	return func(c *gin.Context) {
		u, ok := CurrentUser(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account required"})
			return
		}
		if _, ok := allowedSet[string(u.Role)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireAdmin allows admins only.
func RequireAdmin() gin.HandlerFunc { return RequireAnyRole(RoleAdmin) }
