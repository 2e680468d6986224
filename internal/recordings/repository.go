package recordings

import (
	"context"
	"errors"
	"fmt"

	"callrec-dashboard/internal/docstore"
)

// CollectionName is the docstore table the upload app writes recordings to.
const CollectionName = "recordings"

// Repository abstracts recording persistence. ListAll returns recordings
// ordered by recordedAt, newest first.
type Repository interface {
	ListAll(ctx context.Context) ([]Recording, error)
	Get(ctx context.Context, id string) (Recording, error)
	Delete(ctx context.Context, id string) error
}

// DocRepo reads recordings from the shared document store.
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

func (r *DocRepo) ListAll(ctx context.Context) ([]Recording, error) {
	docs, err := r.col.List(ctx, "recordedAt", true)
	if err != nil {
		return nil, err
	}
	out := make([]Recording, 0, len(docs))
	for _, d := range docs {
		out = append(out, FromDocument(d))
	}
	return out, nil
}

func (r *DocRepo) Get(ctx context.Context, id string) (Recording, error) {
	d, err := r.col.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Recording{}, ErrNotFound
		}
		return Recording{}, err
	}
	return FromDocument(d), nil
}

func (r *DocRepo) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete recording %s: %w", id, err)
	}
	return nil
}

// FromDocument maps a stored document onto a Recording. Missing or malformed
// numbers become 0; callType is kept as written.
func FromDocument(d docstore.Document) Recording {
	return Recording{
		ID:            d.ID,
		PhoneNumber:   d.String("phoneNumber"),
		CallType:      CallType(d.String("callType")),
		Duration:      d.Count("duration"),
		RecordedAt:    d.Int64("recordedAt"),
		UploadedAt:    d.Int64("uploadedAt"),
		EmployeeName:  d.String("employeeName"),
		EmployeeID:    d.String("employeeId"),
		EmployeePhone: d.String("employeePhone"),
		FileSize:      d.Count("fileSize"),
		DownloadURL:   d.String("downloadUrl"),
		FileName:      d.String("fileName"),
	}
}
