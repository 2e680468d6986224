package auth

import (
	"context"
	"errors"
	"time"
)

// Session is the signed-in caller of one request.
type Session struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

type ctxKey struct{}

var ErrNoSession = errors.New("no session in context")

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func SessionFrom(ctx context.Context) (Session, error) {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok && s.UserID != "" {
		return s, nil
	}
	return Session{}, ErrNoSession
}

func UserID(ctx context.Context) (string, error) {
	s, err := SessionFrom(ctx)
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}
