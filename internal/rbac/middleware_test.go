package rbac

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"callrec-dashboard/internal/auth"
	"callrec-dashboard/internal/users"

	"github.com/gin-gonic/gin"
)

func withSession(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := auth.WithSession(c.Request.Context(), auth.Session{UserID: uid})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func router(uid string, chain ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{withSession(uid)}, chain...)
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/x", handlers...)
	return r
}

func do(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func seed() *users.MemoryRepo {
	return users.NewMemoryRepo(
		users.AppUser{UID: "admin", Role: users.RoleAdmin, Status: users.StatusApproved},
		users.AppUser{UID: "member", Role: users.RoleUser, Status: users.StatusApproved},
		users.AppUser{UID: "waiting", Role: users.RoleUser, Status: users.StatusPending},
		users.AppUser{UID: "blocked", Role: users.RoleUser, Status: users.StatusRejected},
	)
}

func TestRequireApproved(t *testing.T) {
	repo := seed()
	cases := []struct {
		uid    string
		code   int
		status string
	}{
		{"admin", http.StatusOK, ""},
		{"member", http.StatusOK, ""},
		{"waiting", http.StatusForbidden, "pending"},
		{"blocked", http.StatusForbidden, "rejected"},
		{"ghost", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		w := do(router(tc.uid, RequireApproved(repo)))
		if w.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.uid, tc.code, w.Code)
		}
		if tc.status != "" {
			var body map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["status"] != tc.status {
				t.Fatalf("%s: expected status %q in body, got %q", tc.uid, tc.status, body["status"])
			}
		}
	}
}

func TestRequireApproved_SeesStatusChangesImmediately(t *testing.T) {
	repo := seed()
	r := router("member", RequireApproved(repo))
	if w := do(r); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	rejected := users.StatusRejected
	if err := repo.Update(context.Background(), "member", users.Patch{Status: &rejected}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if w := do(r); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after rejection, got %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	repo := seed()
	if w := do(router("admin", RequireApproved(repo), RequireAdmin())); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
	if w := do(router("member", RequireApproved(repo), RequireAdmin())); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d", w.Code)
	}
	if w := do(router("member", RequireAdmin())); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without loaded account, got %d", w.Code)
	}
}
