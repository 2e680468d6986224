// Package groups manages named user groups. Groups are labels: assigning a
// user to one does not change what the user can see.
package groups

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"callrec-dashboard/internal/audit"
	"callrec-dashboard/internal/docstore"
	"callrec-dashboard/pkg/logger"
)

var (
	ErrNotFound        = errors.New("groups: not found")
	ErrInvalidArgument = errors.New("groups: invalid argument")
)

type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// Repository persists groups. List returns them oldest first.
type Repository interface {
	List(ctx context.Context) ([]Group, error)
	Create(ctx context.Context, g Group) error
	Delete(ctx context.Context, id string) error
}

type Auditor interface {
	Record(ctx context.Context, actor audit.Actor, typ audit.EventType, targetID, message string, metadata map[string]any) error
}

type Service struct {
	repo  Repository
	audit Auditor
	clock func() time.Time
}

func NewService(repo Repository, auditor Auditor) *Service {
	return &Service{repo: repo, audit: auditor, clock: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Group, error) {
	return s.repo.List(ctx)
}

// Add creates a group named name. Its id is the creation time in
// milliseconds; a collision within the same millisecond moves to the next one.
func (s *Service) Add(ctx context.Context, actor audit.Actor, name string) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, fmt.Errorf("%w: group name required", ErrInvalidArgument)
	}
	now := s.clock().UnixMilli()
	existing, err := s.repo.List(ctx)
	if err != nil {
		return Group{}, err
	}
	for _, g := range existing {
		if g.ID == strconv.FormatInt(now, 10) {
			now++
		}
	}
	g := Group{ID: strconv.FormatInt(now, 10), Name: name, CreatedAt: now}
	if err := s.repo.Create(ctx, g); err != nil {
		return Group{}, err
	}
	s.record(ctx, actor, audit.EventTypeGroupCreated, g.ID, "group created", map[string]any{"name": name})
	return g, nil
}

// Delete removes a group. Users keep a dangling groupId, shown as unassigned.
func (s *Service) Delete(ctx context.Context, actor audit.Actor, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidArgument
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, audit.EventTypeGroupDeleted, id, "group deleted", nil)
	return nil
}

func (s *Service) record(ctx context.Context, actor audit.Actor, typ audit.EventType, target, msg string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, actor, typ, target, msg, meta); err != nil {
		logger.From(ctx).Warn("audit append failed", "type", typ, "target", target, "err", err)
	}
}

const CollectionName = "groups"

type DocRepo struct {
	col *docstore.Collection
}

func NewDocRepo(store *docstore.Store) (*DocRepo, error) {
	col, err := store.Collection(CollectionName)
	if err != nil {
		return nil, err
	}
	return &DocRepo{col: col}, nil
}

func (r *DocRepo) List(ctx context.Context) ([]Group, error) {
	docs, err := r.col.List(ctx, "createdAt", false)
	if err != nil {
		return nil, err
	}
	out := make([]Group, 0, len(docs))
	for _, d := range docs {
		id := d.String("id")
		if id == "" {
			id = d.ID
		}
		out = append(out, Group{ID: id, Name: d.String("name"), CreatedAt: d.Int64("createdAt")})
	}
	return out, nil
}

func (r *DocRepo) Create(ctx context.Context, g Group) error {
	return r.col.Set(ctx, g.ID, g)
}

func (r *DocRepo) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// MemoryRepo is an in-memory group repository for tests.
type MemoryRepo struct {
	mu     sync.Mutex
	groups map[string]Group
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{groups: map[string]Group{}} }

func (r *MemoryRepo) List(ctx context.Context) ([]Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Group, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, g Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[g.ID] = g
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[id]; !ok {
		return ErrNotFound
	}
	delete(r.groups, id)
	return nil
}
