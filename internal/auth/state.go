package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StateTTL bounds how long a sign-in may take between redirect and callback.
const StateTTL = 10 * time.Minute

// StateStore issues single-use OAuth state values.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	// Consume reports whether state was issued and not yet used.
	Consume(ctx context.Context, state string) (bool, error)
}

type RedisStateStore struct {
	rdb *redis.Client
}

func NewRedisStateStore(rdb *redis.Client) *RedisStateStore { return &RedisStateStore{rdb: rdb} }

func stateKey(s string) string { return "callrec:auth:state:" + s }

func (s *RedisStateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.rdb.Set(ctx, stateKey(state), 1, StateTTL).Err(); err != nil {
		return "", err
	}
	return state, nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	err := s.rdb.GetDel(ctx, stateKey(state)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: map[string]time.Time{}, now: time.Now}
}

func (s *MemoryStateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = s.now().Add(StateTTL)
	return state, nil
}

func (s *MemoryStateStore) Consume(ctx context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	if !ok {
		return false, nil
	}
	delete(s.states, state)
	return s.now().Before(exp), nil
}
