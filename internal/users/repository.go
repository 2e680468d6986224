package users

import (
	"context"
	"errors"
	"fmt"

	"callrec-dashboard/internal/docstore"
)

const CollectionName = "users"

// Repository persists AppUsers.
type Repository interface {
	Get(ctx context.Context, uid string) (AppUser, error)
	// List returns users newest first.
	List(ctx context.Context) ([]AppUser, error)
	// Register returns the stored user for uid, or stores build(first) where
	// first reports whether no user existed yet. The check and the write
	// are atomic.
	Register(ctx context.Context, uid string, build func(first bool) AppUser) (AppUser, bool, error)
	Update(ctx context.Context, uid string, p Patch) error
	Delete(ctx context.Context, uid string) error
}

type DocRepo struct {
	store *docstore.Store
}

func NewDocRepo(store *docstore.Store) *DocRepo { return &DocRepo{store: store} }

func (r *DocRepo) col(s *docstore.Store) (*docstore.Collection, error) {
	return s.Collection(CollectionName)
}

func (r *DocRepo) Get(ctx context.Context, uid string) (AppUser, error) {
	col, err := r.col(r.store)
	if err != nil {
		return AppUser{}, err
	}
	d, err := col.Get(ctx, uid)
	if err != nil {
		return AppUser{}, mapErr(err)
	}
	return FromDocument(d), nil
}

func (r *DocRepo) List(ctx context.Context) ([]AppUser, error) {
	col, err := r.col(r.store)
	if err != nil {
		return nil, err
	}
	docs, err := col.List(ctx, "createdAt", true)
	if err != nil {
		return nil, err
	}
	out := make([]AppUser, 0, len(docs))
	for _, d := range docs {
		out = append(out, FromDocument(d))
	}
	return out, nil
}

func (r *DocRepo) Register(ctx context.Context, uid string, build func(first bool) AppUser) (AppUser, bool, error) {
	var (
		out     AppUser
		created bool
	)
	err := r.store.InTx(ctx, func(ctx context.Context, tx *docstore.Store) error {
		if err := tx.Lock(ctx, "users:register"); err != nil {
			return err
		}
		col, err := r.col(tx)
		if err != nil {
			return err
		}
		d, err := col.Get(ctx, uid)
		if err == nil {
			out = FromDocument(d)
			return nil
		}
		if !errors.Is(err, docstore.ErrNotFound) {
			return err
		}
		n, err := col.Count(ctx)
		if err != nil {
			return err
		}
		out = build(n == 0)
		created = true
		return col.Set(ctx, uid, out)
	})
	if err != nil {
		return AppUser{}, false, fmt.Errorf("register user %s: %w", uid, err)
	}
	return out, created, nil
}

func (r *DocRepo) Update(ctx context.Context, uid string, p Patch) error {
	col, err := r.col(r.store)
	if err != nil {
		return err
	}
	return mapErr(col.Update(ctx, uid, p.fields()))
}

func (r *DocRepo) Delete(ctx context.Context, uid string) error {
	col, err := r.col(r.store)
	if err != nil {
		return err
	}
	return mapErr(col.Delete(ctx, uid))
}

// FromDocument decodes a stored user. The document id wins over a missing uid field.
func FromDocument(d docstore.Document) AppUser {
	uid := d.String("uid")
	if uid == "" {
		uid = d.ID
	}
	return AppUser{
		UID:         uid,
		Email:       d.String("email"),
		DisplayName: d.String("displayName"),
		PhotoURL:    d.OptionalString("photoURL"),
		Role:        Role(d.String("role")),
		Status:      Status(d.String("status")),
		GroupID:     d.String("groupId"),
		CreatedAt:   d.Int64("createdAt"),
	}
}

func mapErr(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
