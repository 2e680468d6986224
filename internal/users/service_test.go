package users

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"callrec-dashboard/internal/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *MemoryRepo, *audit.MemoryRepo) {
	repo := NewMemoryRepo()
	events := audit.NewMemoryRepo()
	svc := NewService(repo, audit.NewService(events))
	var tick atomic.Int64
	svc.clock = func() time.Time {
		return time.UnixMilli(1700000000000 + tick.Add(1))
	}
	return svc, repo, events
}

func TestSignIn_FirstUserIsApprovedAdmin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.SignIn(ctx, Identity{Subject: "u1", Email: "a@example.com", Name: "Admin", Picture: "https://img/a.png"})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, first.Role)
	assert.Equal(t, StatusApproved, first.Status)
	require.NotNil(t, first.PhotoURL)

	second, err := svc.SignIn(ctx, Identity{Subject: "u2", Email: "b@example.com", Name: "Bee"})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, second.Role)
	assert.Equal(t, StatusPending, second.Status)
	assert.Nil(t, second.PhotoURL)
}

func TestSignIn_ReturnsExistingAccount(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignIn(ctx, Identity{Subject: "u1", Name: "Admin"})
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, "u1", Patch{DisplayName: ptr("Renamed")}))

	again, err := svc.SignIn(ctx, Identity{Subject: "u1", Name: "Admin"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.DisplayName)
	assert.Equal(t, RoleAdmin, again.Role)
}

func TestSignIn_ConcurrentFirstSignInsYieldOneAdmin(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, uid := range []string{"a", "b", "c", "d", "e", "f"} {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			_, _ = svc.SignIn(ctx, Identity{Subject: uid})
		}(uid)
	}
	wg.Wait()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 6)
	admins := 0
	for _, u := range list {
		if u.IsAdmin() {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
}

func TestSignIn_RequiresSubject(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.SignIn(context.Background(), Identity{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAdminCommands(t *testing.T) {
	svc, _, events := newTestService()
	ctx := context.Background()
	_, _ = svc.SignIn(ctx, Identity{Subject: "admin", Name: "Admin"})
	_, _ = svc.SignIn(ctx, Identity{Subject: "u2", Name: "Bee"})
	actor := audit.Actor{UserID: "admin", Role: string(RoleAdmin)}

	list, err := svc.SetStatus(ctx, actor, "u2", StatusApproved)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "u2", list[0].UID, "newest first")
	assert.Equal(t, StatusApproved, list[0].Status)

	_, err = svc.SetRole(ctx, actor, "u2", RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Rename(ctx, actor, "u2", "  Bee Kim  ")
	require.NoError(t, err)
	_, err = svc.AssignGroup(ctx, actor, "u2", "1700000000000")
	require.NoError(t, err)

	u, err := svc.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, "Bee Kim", u.DisplayName)
	assert.Equal(t, "1700000000000", u.GroupID)

	_, err = svc.AssignGroup(ctx, actor, "u2", "")
	require.NoError(t, err)
	u, _ = svc.Get(ctx, "u2")
	assert.Empty(t, u.GroupID)

	list, err = svc.Delete(ctx, actor, "u2")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Len(t, events.Events(), 6)
}

func TestAdminCommands_RejectSelf(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, _ = svc.SignIn(ctx, Identity{Subject: "admin", Name: "Admin"})
	actor := audit.Actor{UserID: "admin"}

	_, err := svc.SetRole(ctx, actor, "admin", RoleUser)
	assert.ErrorIs(t, err, ErrSelfModification)
	_, err = svc.SetStatus(ctx, actor, "admin", StatusRejected)
	assert.ErrorIs(t, err, ErrSelfModification)
	_, err = svc.Delete(ctx, actor, "admin")
	assert.ErrorIs(t, err, ErrSelfModification)

	_, err = svc.Rename(ctx, actor, "admin", "Boss")
	assert.NoError(t, err)
}

func TestAdminCommands_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	actor := audit.Actor{UserID: "admin"}

	_, err := svc.SetStatus(ctx, actor, "u2", StatusPending)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.SetRole(ctx, actor, "u2", Role("owner"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.Rename(ctx, actor, "u2", "   ")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.SetStatus(ctx, actor, "missing", StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, _ = svc.SignIn(ctx, Identity{Subject: "u1", Name: "Old"})

	u, err := svc.UpdateProfile(ctx, "u1", " New Name ")
	require.NoError(t, err)
	assert.Equal(t, "New Name", u.DisplayName)

	_, err = svc.UpdateProfile(ctx, "u1", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPartition(t *testing.T) {
	list := []AppUser{
		{UID: "a", Status: StatusPending},
		{UID: "b", Status: StatusApproved},
		{UID: "c", Status: StatusRejected},
		{UID: "d", Status: StatusPending},
	}
	p := Partition(list)
	assert.Equal(t, []string{"a", "d"}, uids(p.Pending))
	assert.Equal(t, []string{"b"}, uids(p.Approved))
	assert.Equal(t, []string{"c"}, uids(p.Rejected))

	empty := Partition(nil)
	assert.NotNil(t, empty.Pending)
	assert.Empty(t, empty.Approved)
}

func uids(list []AppUser) []string {
	out := make([]string, 0, len(list))
	for _, u := range list {
		out = append(out, u.UID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
