package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"callrec-dashboard/internal/audit"
	"callrec-dashboard/pkg/logger"
)

// Auditor records admin actions. *audit.Service satisfies it.
type Auditor interface {
	Record(ctx context.Context, actor audit.Actor, typ audit.EventType, targetID, message string, metadata map[string]any) error
}

// Service manages dashboard accounts.
//
// Account rules:
// - the very first account becomes an approved admin, every later one a pending user
// - admins cannot change their own role or status, nor delete themselves
// - admin commands return the refreshed user list
type Service struct {
	repo  Repository
	audit Auditor
	clock func() time.Time
}

func NewService(repo Repository, auditor Auditor) *Service {
	return &Service{repo: repo, audit: auditor, clock: time.Now}
}

// SignIn returns the account for id, creating it on first sign-in.
func (s *Service) SignIn(ctx context.Context, id Identity) (AppUser, error) {
	if strings.TrimSpace(id.Subject) == "" {
		return AppUser{}, fmt.Errorf("%w: identity subject required", ErrInvalidArgument)
	}
	now := s.clock().UnixMilli()
	u, created, err := s.repo.Register(ctx, id.Subject, func(first bool) AppUser {
		u := AppUser{
			UID:         id.Subject,
			Email:       id.Email,
			DisplayName: id.Name,
			Role:        RoleUser,
			Status:      StatusPending,
			CreatedAt:   now,
		}
		if id.Picture != "" {
			pic := id.Picture
			u.PhotoURL = &pic
		}
		if first {
			u.Role, u.Status = RoleAdmin, StatusApproved
		}
		return u
	})
	if err != nil {
		return AppUser{}, err
	}
	if created {
		logger.From(ctx).Info("user registered", "uid", u.UID, "role", u.Role, "status", u.Status)
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, uid string) (AppUser, error) {
	if uid == "" {
		return AppUser{}, ErrInvalidArgument
	}
	return s.repo.Get(ctx, uid)
}

func (s *Service) List(ctx context.Context) ([]AppUser, error) {
	return s.repo.List(ctx)
}

// Partition splits users by status. Users with an unknown status are left out.
func Partition(list []AppUser) Partitioned {
	p := Partitioned{Pending: []AppUser{}, Approved: []AppUser{}, Rejected: []AppUser{}}
	for _, u := range list {
		switch u.Status {
		case StatusPending:
			p.Pending = append(p.Pending, u)
		case StatusApproved:
			p.Approved = append(p.Approved, u)
		case StatusRejected:
			p.Rejected = append(p.Rejected, u)
		}
	}
	return p
}

// SetStatus approves or rejects uid.
func (s *Service) SetStatus(ctx context.Context, actor audit.Actor, uid string, status Status) ([]AppUser, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, fmt.Errorf("%w: status must be approved or rejected", ErrInvalidArgument)
	}
	if err := notSelf(actor, uid); err != nil {
		return nil, err
	}
	return s.apply(ctx, actor, uid, Patch{Status: &status}, audit.EventTypeUserStatus,
		"user "+string(status), map[string]any{"status": status})
}

// SetRole promotes or demotes uid.
func (s *Service) SetRole(ctx context.Context, actor audit.Actor, uid string, role Role) ([]AppUser, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be admin or user", ErrInvalidArgument)
	}
	if err := notSelf(actor, uid); err != nil {
		return nil, err
	}
	return s.apply(ctx, actor, uid, Patch{Role: &role}, audit.EventTypeUserRole,
		"user role changed", map[string]any{"role": role})
}

// Rename sets the display name of uid. Admins may rename themselves.
func (s *Service) Rename(ctx context.Context, actor audit.Actor, uid, displayName string) ([]AppUser, error) {
	name, err := cleanName(displayName)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, actor, uid, Patch{DisplayName: &name}, audit.EventTypeUserRenamed,
		"user renamed", map[string]any{"displayName": name})
}

// AssignGroup labels uid with groupID. An empty groupID clears the label.
func (s *Service) AssignGroup(ctx context.Context, actor audit.Actor, uid, groupID string) ([]AppUser, error) {
	groupID = strings.TrimSpace(groupID)
	p := Patch{ClearGroup: groupID == ""}
	if groupID != "" {
		p.GroupID = &groupID
	}
	return s.apply(ctx, actor, uid, p, audit.EventTypeUserGroup,
		"user group changed", map[string]any{"groupId": groupID})
}

// Delete removes the account of uid.
func (s *Service) Delete(ctx context.Context, actor audit.Actor, uid string) ([]AppUser, error) {
	if uid == "" {
		return nil, ErrInvalidArgument
	}
	if err := notSelf(actor, uid); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, uid); err != nil {
		return nil, err
	}
	s.record(ctx, actor, audit.EventTypeUserDeleted, uid, "user deleted", nil)
	return s.repo.List(ctx)
}

// UpdateProfile lets a user change their own display name.
func (s *Service) UpdateProfile(ctx context.Context, uid, displayName string) (AppUser, error) {
	if uid == "" {
		return AppUser{}, ErrInvalidArgument
	}
	name, err := cleanName(displayName)
	if err != nil {
		return AppUser{}, err
	}
	if err := s.repo.Update(ctx, uid, Patch{DisplayName: &name}); err != nil {
		return AppUser{}, err
	}
	return s.repo.Get(ctx, uid)
}

func (s *Service) apply(ctx context.Context, actor audit.Actor, uid string, p Patch, typ audit.EventType, msg string, meta map[string]any) ([]AppUser, error) {
	if uid == "" || p.empty() {
		return nil, ErrInvalidArgument
	}
	if err := s.repo.Update(ctx, uid, p); err != nil {
		return nil, err
	}
	s.record(ctx, actor, typ, uid, msg, meta)
	return s.repo.List(ctx)
}

func (s *Service) record(ctx context.Context, actor audit.Actor, typ audit.EventType, target, msg string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, actor, typ, target, msg, meta); err != nil {
		logger.From(ctx).Warn("audit append failed", "type", typ, "target", target, "err", err)
	}
}

func notSelf(actor audit.Actor, uid string) error {
	if actor.UserID != "" && actor.UserID == uid {
		return ErrSelfModification
	}
	return nil
}

func cleanName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", fmt.Errorf("%w: display name required", ErrInvalidArgument)
	}
	return name, nil
}
