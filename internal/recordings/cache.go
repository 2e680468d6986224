package recordings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotCache keeps the last fetched recording list for a short time so
// dashboard, stats and filter requests share one store round trip.
type SnapshotCache interface {
	Load(ctx context.Context) ([]Recording, bool, error)
	Store(ctx context.Context, recs []Recording) error
	Invalidate(ctx context.Context) error
}

const snapshotKey = "callrec:recordings:snapshot"

// RedisCache stores the snapshot as one JSON value with a TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Load(ctx context.Context) ([]Recording, bool, error) {
	raw, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}
	var recs []Recording
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return recs, true, nil
}

func (c *RedisCache) Store(ctx context.Context, recs []Recording) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, snapshotKey, raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, snapshotKey).Err()
}

// MemoryCache is a process-local SnapshotCache used in tests.
type MemoryCache struct {
	mu   sync.Mutex
	recs []Recording
	ok   bool
}

func (c *MemoryCache) Load(ctx context.Context) ([]Recording, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ok {
		return nil, false, nil
	}
	return append([]Recording(nil), c.recs...), true, nil
}

func (c *MemoryCache) Store(ctx context.Context, recs []Recording) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recs = append([]Recording(nil), recs...)
	c.ok = true
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recs, c.ok = nil, false
	return nil
}
