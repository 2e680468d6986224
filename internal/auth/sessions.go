package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"callrec-dashboard/pkg/logger"
)

var ErrInvalidToken = errors.New("invalid token")

// Sessions issues, authenticates and ends token-based sessions.
type Sessions struct {
	tokens *Manager
	deny   Denylist
	clock  func() time.Time
}

func NewSessions(tokens *Manager, deny Denylist) *Sessions {
	return &Sessions{tokens: tokens, deny: deny, clock: time.Now}
}

// Start issues a fresh token pair for userID.
func (s *Sessions) Start(userID string) (TokenPair, error) {
	return s.tokens.IssuePair(s.clock(), userID)
}

// Authenticate verifies an access token and that it was not revoked.
func (s *Sessions) Authenticate(ctx context.Context, accessToken string) (Session, error) {
	claims, err := s.verify(ctx, accessToken, TokenTypeAccess)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: claims.UserID, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Refresh rotates a refresh token: the old one is revoked and a new pair issued.
func (s *Sessions) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.verify(ctx, refreshToken, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return TokenPair{}, err
	}
	return s.Start(claims.UserID)
}

// End revokes the current access token and, when given, the refresh token
// belonging to the same user.
func (s *Sessions) End(ctx context.Context, sess Session, refreshToken string) error {
	if ttl := sess.ExpiresAt.Sub(s.clock()); sess.TokenID != "" {
		if err := s.deny.Revoke(ctx, sess.TokenID, ttl); err != nil {
			return fmt.Errorf("revoke access token: %w", err)
		}
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.Verify(refreshToken, TokenTypeRefresh, s.clock())
	if err != nil || claims.UserID != sess.UserID {
		logger.From(ctx).Debug("sign-out with unusable refresh token", "user_id", sess.UserID)
		return nil
	}
	return s.revoke(ctx, claims)
}

func (s *Sessions) verify(ctx context.Context, raw string, typ TokenType) (Claims, error) {
	claims, err := s.tokens.Verify(raw, typ, s.clock())
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	revoked, err := s.deny.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Claims{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Claims{}, fmt.Errorf("%w: revoked", ErrInvalidToken)
	}
	return claims, nil
}

func (s *Sessions) revoke(ctx context.Context, c Claims) error {
	ttl := c.ExpiresAt.Time.Sub(s.clock())
	if err := s.deny.Revoke(ctx, c.ID, ttl); err != nil {
		return fmt.Errorf("revoke %s token: %w", c.TokenType, err)
	}
	return nil
}
