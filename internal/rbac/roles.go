package rbac

import (
	"context"

	"callrec-dashboard/internal/users"
)

// Role names. Keep these stable; they are stored on user documents.
const (
	RoleAdmin = string(users.RoleAdmin)
	RoleUser  = string(users.RoleUser)
)

type ctxKey struct{}

// WithUser stores the caller's account in ctx.
func WithUser(ctx context.Context, u users.AppUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// CurrentUser returns the account loaded by RequireApproved.
func CurrentUser(ctx context.Context) (users.AppUser, bool) {
	u, ok := ctx.Value(ctxKey{}).(users.AppUser)
	return u, ok && u.UID != ""
}
