package recordings

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory recording repository for tests and local runs.
type MemoryRepo struct {
	mu   sync.Mutex
	recs []Recording

	// Err, when set, is returned by ListAll.
	Err error
}

func NewMemoryRepo(recs ...Recording) *MemoryRepo {
	return &MemoryRepo{recs: append([]Recording(nil), recs...)}
}

func (r *MemoryRepo) ListAll(ctx context.Context) ([]Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := append([]Recording(nil), r.recs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt > out[j].RecordedAt })
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Recording{}, ErrNotFound
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("recordings: id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.recs {
		if rec.ID == id {
			r.recs = append(r.recs[:i], r.recs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
