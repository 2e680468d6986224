package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"callrec-dashboard/internal/audit"
	"callrec-dashboard/internal/config"
	"callrec-dashboard/internal/docstore"
	"callrec-dashboard/internal/groups"
	"callrec-dashboard/internal/recordings"
	"callrec-dashboard/internal/reporting"
	"callrec-dashboard/internal/users"
	"callrec-dashboard/pkg/utils"
)

// env is what a command runs against. Unlike the dashboard, the CLI reports
// store failures instead of printing an empty result.
type env struct {
	repo   recordings.Repository
	engine *recordings.Engine
	ensure func(ctx context.Context) error
	close  func() error
}

type opener func(ctx context.Context) (*env, error)

func (e *env) Close() {
	if e.close != nil {
		_ = e.close()
	}
}

func openStore(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := utils.OpenPostgres(ctx, utils.PgxDriver, cfg.PostgresDSN(), utils.PostgresPoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return nil, err
	}
	store := docstore.New(db)
	repo, err := recordings.NewDocRepo(store)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &env{
		repo:   repo,
		engine: recordings.NewEngine(recordings.KeyMode(cfg.Dashboard.GroupBy), cfg.Location()),
		ensure: func(ctx context.Context) error {
			return store.Ensure(ctx, recordings.CollectionName, users.CollectionName, groups.CollectionName, audit.CollectionName)
		},
		close: db.Close,
	}, nil
}

func (e *env) criteria(f filterFlags) (recordings.Criteria, error) {
	loc := e.engine.Location()
	start, err := recordings.ParseDate(f.start, loc)
	if err != nil {
		return recordings.Criteria{}, err
	}
	end, err := recordings.ParseDate(f.end, loc)
	if err != nil {
		return recordings.Criteria{}, err
	}
	return recordings.Criteria{Employee: f.employee, StartDate: start, EndDate: end, Query: f.query}, nil
}

func (e *env) filtered(ctx context.Context, f filterFlags) ([]recordings.Recording, error) {
	c, err := e.criteria(f)
	if err != nil {
		return nil, err
	}
	all, err := e.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	return e.engine.Filter(all, c), nil
}

func (e *env) list(ctx context.Context, w io.Writer, f filterFlags) error {
	recs, err := e.filtered(ctx, f)
	if err != nil {
		return err
	}
	return writeJSON(w, recs)
}

func (e *env) stats(ctx context.Context, w io.Writer, f filterFlags) error {
	recs, err := e.filtered(ctx, f)
	if err != nil {
		return err
	}
	rep := reporting.Aggregate(recs, e.engine.KeyMode())
	reporting.SortByTotalCalls(rep.PerEmployee)
	return writeJSON(w, rep)
}

func (e *env) employees(ctx context.Context, w io.Writer) error {
	all, err := e.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list recordings: %w", err)
	}
	return writeJSON(w, e.engine.Employees(all))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
