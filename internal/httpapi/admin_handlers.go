package httpapi

import (
	"net/http"

	"callrec-dashboard/internal/users"

	"github.com/gin-gonic/gin"
)

// usersResponse carries the full list and its status partition, so clients
// can re-derive every view from one response.
func usersResponse(list []users.AppUser) gin.H {
	p := users.Partition(list)
	return gin.H{
		"users":    list,
		"pending":  p.Pending,
		"approved": p.Approved,
		"rejected": p.Rejected,
	}
}

func (h Handlers) ListUsers(c *gin.Context) {
	list, err := h.Users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usersResponse(list))
}

type statusRequest struct {
	Status users.Status `json:"status"`
}

func (h Handlers) SetUserStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	h.respondUsers(c)(h.Users.SetStatus(c.Request.Context(), actor(c), c.Param("uid"), req.Status))
}

type roleRequest struct {
	Role users.Role `json:"role"`
}

func (h Handlers) SetUserRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	h.respondUsers(c)(h.Users.SetRole(c.Request.Context(), actor(c), c.Param("uid"), req.Role))
}

func (h Handlers) RenameUser(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	h.respondUsers(c)(h.Users.Rename(c.Request.Context(), actor(c), c.Param("uid"), req.DisplayName))
}

type groupAssignRequest struct {
	GroupID string `json:"groupId"`
}

// AssignUserGroup sets or, with an empty groupId, clears a user's group.
func (h Handlers) AssignUserGroup(c *gin.Context) {
	var req groupAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	h.respondUsers(c)(h.Users.AssignGroup(c.Request.Context(), actor(c), c.Param("uid"), req.GroupID))
}

func (h Handlers) DeleteUser(c *gin.Context) {
	h.respondUsers(c)(h.Users.Delete(c.Request.Context(), actor(c), c.Param("uid")))
}

func (h Handlers) respondUsers(c *gin.Context) func([]users.AppUser, error) {
	return func(list []users.AppUser, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, usersResponse(list))
	}
}

// --- Groups ---

func (h Handlers) ListGroups(c *gin.Context) {
	list, err := h.Groups.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": list})
}

type groupRequest struct {
	Name string `json:"name"`
}

func (h Handlers) CreateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	g, err := h.Groups.Add(c.Request.Context(), actor(c), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h Handlers) DeleteGroup(c *gin.Context) {
	if err := h.Groups.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
