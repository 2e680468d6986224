package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist remembers revoked token ids until the tokens would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisDenylist struct {
	rdb *redis.Client
}

func NewRedisDenylist(rdb *redis.Client) *RedisDenylist { return &RedisDenylist{rdb: rdb} }

func revokedKey(jti string) string { return "callrec:auth:revoked:" + jti }

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("jti required")
	}
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.rdb.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryDenylist is used in tests and single-process local runs.
type MemoryDenylist struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{until: map[string]time.Time{}, now: time.Now}
}

func (d *MemoryDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("jti required")
	}
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.until[jti] = d.now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.until[jti]
	if !ok {
		return false, nil
	}
	if !d.now().Before(exp) {
		delete(d.until, jti)
		return false, nil
	}
	return true, nil
}
