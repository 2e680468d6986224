package users

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory user repository for tests and local runs.
type MemoryRepo struct {
	mu    sync.Mutex
	users map[string]AppUser
}

func NewMemoryRepo(seed ...AppUser) *MemoryRepo {
	r := &MemoryRepo{users: make(map[string]AppUser)}
	for _, u := range seed {
		r.users[u.UID] = u
	}
	return r
}

func (r *MemoryRepo) Get(ctx context.Context, uid string) (AppUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return AppUser{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]AppUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AppUser, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].UID < out[j].UID
	})
	return out, nil
}

func (r *MemoryRepo) Register(ctx context.Context, uid string, build func(first bool) AppUser) (AppUser, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uid]; ok {
		return u, false, nil
	}
	u := build(len(r.users) == 0)
	r.users[uid] = u
	return u, true, nil
}

func (r *MemoryRepo) Update(ctx context.Context, uid string, p Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return ErrNotFound
	}
	p.apply(&u)
	r.users[uid] = u
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[uid]; !ok {
		return ErrNotFound
	}
	delete(r.users, uid)
	return nil
}
