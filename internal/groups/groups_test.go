package groups

import (
	"context"
	"testing"
	"time"

	"callrec-dashboard/internal/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroups_AddListDelete(t *testing.T) {
	events := audit.NewMemoryRepo()
	svc := NewService(NewMemoryRepo(), audit.NewService(events))
	svc.clock = func() time.Time { return time.UnixMilli(1700000000000) }
	ctx := context.Background()
	actor := audit.Actor{UserID: "u1"}

	a, err := svc.Add(ctx, actor, "  Sales ")
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", a.ID)
	assert.Equal(t, "Sales", a.Name)

	b, err := svc.Add(ctx, actor, "Support")
	require.NoError(t, err)
	assert.Equal(t, "1700000000001", b.ID, "same-millisecond ids must not collide")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Sales", list[0].Name)
	assert.Equal(t, "Support", list[1].Name)

	require.NoError(t, svc.Delete(ctx, actor, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, actor, a.ID), ErrNotFound)

	list, _ = svc.List(ctx)
	assert.Len(t, list, 1)
	assert.Len(t, events.Events(), 3)
}

func TestGroups_RejectsBlankName(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	_, err := svc.Add(context.Background(), audit.Actor{}, "   ")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
