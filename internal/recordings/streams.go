package recordings

import (
	"context"
	"errors"
	"sync"
	"time"

	"callrec-dashboard/pkg/utils"

	"github.com/redis/go-redis/v9"
)

var ErrTooManyStreams = errors.New("recordings: too many concurrent audio streams")

// StreamLimiter caps concurrent audio streams per user.
type StreamLimiter interface {
	// Acquire takes a slot for userID. The returned release must be called
	// once the stream ends.
	Acquire(ctx context.Context, userID string) (release func(), err error)
}

// RedisStreamLimiter shares the cap across API replicas. Slots expire after
// ttl so a crashed process cannot leak them.
type RedisStreamLimiter struct {
	rdb   *redis.Client
	limit int
	ttl   time.Duration
}

func NewRedisStreamLimiter(rdb *redis.Client, limit int, ttl time.Duration) *RedisStreamLimiter {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStreamLimiter{rdb: rdb, limit: limit, ttl: ttl}
}

func streamKey(userID string) string { return "callrec:streams:" + userID }

func (l *RedisStreamLimiter) Acquire(ctx context.Context, userID string) (func(), error) {
	key := streamKey(userID)
	ok, err := utils.AcquireConcurrencyCap(ctx, l.rdb, key, l.limit, l.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTooManyStreams
	}
	return func() {
		// The request context may already be canceled when the stream ends.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = utils.ReleaseConcurrencyCap(ctx, l.rdb, key)
	}, nil
}

// MemoryStreamLimiter is a process-local StreamLimiter.
type MemoryStreamLimiter struct {
	mu    sync.Mutex
	limit int
	open  map[string]int
}

func NewMemoryStreamLimiter(limit int) *MemoryStreamLimiter {
	return &MemoryStreamLimiter{limit: limit, open: map[string]int{}}
}

func (l *MemoryStreamLimiter) Acquire(ctx context.Context, userID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.open[userID] >= l.limit {
		return nil, ErrTooManyStreams
	}
	l.open[userID]++
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.open[userID]--; l.open[userID] <= 0 {
				delete(l.open, userID)
			}
		})
	}, nil
}
