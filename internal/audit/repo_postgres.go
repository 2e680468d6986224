package audit

import (
	"context"

	"callrec-dashboard/internal/docstore"
)

// CollectionName is the docstore table holding audit events.
const CollectionName = "audit_events"

// DocRepo appends events to the audit_events collection.
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

func (r *DocRepo) Append(ctx context.Context, e Event) error {
	return r.col.Set(ctx, e.ID, e)
}
