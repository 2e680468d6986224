package auth

import (
	"errors"
	"net/http"
	"strings"

	"callrec-dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

const ginSessionKey = "session"

// RequireSession verifies the bearer access token and attaches the Session
// to the request context. It does not perform RBAC checks; those belong to
// internal/rbac.
func RequireSession(s *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		sess, err := s.Authenticate(c.Request.Context(), strings.TrimPrefix(raw, bearerPrefix))
		if err != nil {
			if !errors.Is(err, ErrInvalidToken) {
				logger.FromGin(c).Error("session lookup failed", "err", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx := WithSession(c.Request.Context(), sess)
		ctx = logger.With(ctx, logger.FromGin(c).With("user_id", sess.UserID))
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginSessionKey, sess)
		c.Next()
	}
}

// SessionFromGin returns the session set by RequireSession.
func SessionFromGin(c *gin.Context) (Session, bool) {
	v, ok := c.Get(ginSessionKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}
