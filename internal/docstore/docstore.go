// Package docstore keeps schemaless JSON documents in Postgres, one table per
// collection. Each table has the shape:
//
//	CREATE TABLE <collection> (id TEXT PRIMARY KEY, doc JSONB NOT NULL);
//
// Documents keep the field names written by the upload app and the dashboard,
// so callers decode them leniently.
package docstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"callrec-dashboard/pkg/utils"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound          = errors.New("docstore: document not found")
	ErrInvalidCollection = errors.New("docstore: invalid collection name")
)

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// Document is one stored record. Data is the decoded JSON object.
type Document struct {
	ID   string
	Data map[string]any
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store hands out collections backed by a single *sql.DB (pgx stdlib driver).
type Store struct {
	db *sql.DB
	q  queryer
}

func New(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// Collection returns a handle on the named table.
func (s *Store) Collection(name string) (*Collection, error) {
	if !collectionName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return &Collection{name: name, table: pgx.Identifier{name}.Sanitize(), q: s.q}, nil
}

// InTx runs fn with a Store whose collections share one transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	if s.db == nil {
		return errors.New("docstore: transactions need a root store")
	}
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, &Store{q: tx})
	})
}

// Lock takes a transaction-scoped advisory lock keyed by name. It serializes
// read-then-write sequences such as "create the first user". Only meaningful
// inside InTx.
func (s *Store) Lock(ctx context.Context, name string) error {
	if _, err := s.q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, name); err != nil {
		return fmt.Errorf("docstore: advisory lock %q: %w", name, err)
	}
	return nil
}

// Ensure creates the tables for the named collections if they are missing.
func (s *Store) Ensure(ctx context.Context, names ...string) error {
	for _, name := range names {
		col, err := s.Collection(name)
		if err != nil {
			return err
		}
		q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, doc JSONB NOT NULL)`, col.table)
		if _, err := s.q.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("docstore: create %s: %w", name, err)
		}
	}
	return nil
}

// Collection is a table of JSON documents.
type Collection struct {
	name  string
	table string
	q     queryer
}

func (c *Collection) Name() string { return c.name }

// List returns every document ordered by the JSON field orderBy.
// Documents missing the field sort last.
func (c *Collection) List(ctx context.Context, orderBy string, desc bool) ([]Document, error) {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	q := fmt.Sprintf(`SELECT id, doc FROM %s ORDER BY doc->$1 %s NULLS LAST, id`, c.table, dir)
	rows, err := c.q.QueryContext(ctx, q, orderBy)
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", c.name, err)
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("docstore: scan %s: %w", c.name, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", c.name, err)
	}
	return out, nil
}

func (c *Collection) Get(ctx context.Context, id string) (Document, error) {
	q := fmt.Sprintf(`SELECT id, doc FROM %s WHERE id = $1`, c.table)
	d, err := scanDocument(c.q.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("docstore: get %s/%s: %w", c.name, id, err)
	}
	return d, nil
}

// Count returns the number of documents in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	var n int
	q := fmt.Sprintf(`SELECT count(*) FROM %s`, c.table)
	if err := c.q.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("docstore: count %s: %w", c.name, err)
	}
	return n, nil
}

// Set writes the whole document, replacing any previous version.
func (c *Collection) Set(ctx context.Context, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: encode %s/%s: %w", c.name, id, err)
	}
	q := fmt.Sprintf(`
INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc
`, c.table)
	if _, err := c.q.ExecContext(ctx, q, id, string(raw)); err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", c.name, id, err)
	}
	return nil
}

// Update merges fields into an existing document.
func (c *Collection) Update(ctx context.Context, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("docstore: encode %s/%s: %w", c.name, id, err)
	}
	q := fmt.Sprintf(`UPDATE %s SET doc = doc || $2::jsonb WHERE id = $1`, c.table)
	res, err := c.q.ExecContext(ctx, q, id, string(raw))
	if err != nil {
		return fmt.Errorf("docstore: update %s/%s: %w", c.name, id, err)
	}
	return requireOneRow(res)
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	res, err := c.q.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", c.name, id, err)
	}
	return requireOneRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(s rowScanner) (Document, error) {
	var (
		id  string
		raw []byte
	)
	if err := s.Scan(&id, &raw); err != nil {
		return Document{}, err
	}
	data := map[string]any{}
	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&data); err != nil {
			return Document{}, err
		}
	}
	return Document{ID: id, Data: data}, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
