package httpapi

import (
	"net/http"

	"callrec-dashboard/internal/auth"
	"callrec-dashboard/internal/rbac"
	"callrec-dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// GoogleAuthURL starts sign-in: it issues a single-use state and returns the
// provider URL to redirect to.
func (h Handlers) GoogleAuthURL(c *gin.Context) {
	state, err := h.States.Issue(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": h.Identity.AuthCodeURL(state), "state": state})
}

type callbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// GoogleCallback finishes sign-in and opens a session. New accounts are
// created here; the response carries the account so clients can route
// pending users to the waiting page.
func (h Handlers) GoogleCallback(c *gin.Context) {
	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" || req.State == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "code and state required"})
		return
	}
	ok, err := h.States.Consume(c.Request.Context(), req.State)
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown or expired state"})
		return
	}

	id, err := h.Identity.Exchange(c.Request.Context(), req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	u, err := h.Users.SignIn(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	pair, err := h.Sessions.Start(u.UID)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.FromGin(c).Info("signed in", "user_id", u.UID, "status", u.Status)
	c.JSON(http.StatusOK, gin.H{"user": u, "tokens": pair})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refreshToken required"})
		return
	}
	pair, err := h.Sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": pair})
}

// Logout revokes the current access token and the refresh token, if sent.
func (h Handlers) Logout(c *gin.Context) {
	sess, ok := auth.SessionFromGin(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return
	}
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.Sessions.End(c.Request.Context(), sess, req.RefreshToken); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the caller's account, whatever its status.
func (h Handlers) Me(c *gin.Context) {
	u, ok := rbac.CurrentUser(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account required"})
		return
	}
	c.JSON(http.StatusOK, u)
}

type profileRequest struct {
	DisplayName string `json:"displayName"`
}

func (h Handlers) UpdateMe(c *gin.Context) {
	u, ok := rbac.CurrentUser(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account required"})
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Users.UpdateProfile(c.Request.Context(), u.UID, req.DisplayName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
