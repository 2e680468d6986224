package recordings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"callrec-dashboard/internal/audit"
	"callrec-dashboard/internal/objectstore"
	"callrec-dashboard/pkg/logger"
	"callrec-dashboard/pkg/metrics"
)

// ObjectStore is the part of the blob store the service needs.
type ObjectStore interface {
	Open(ctx context.Context, path string) (io.ReadCloser, objectstore.Info, error)
	Remove(ctx context.Context, path string) error
	PresignGet(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// Auditor records admin actions. *audit.Service satisfies it.
type Auditor interface {
	Record(ctx context.Context, actor audit.Actor, typ audit.EventType, targetID, message string, metadata map[string]any) error
}

// Service reads recordings, streams their audio and deletes them.
type Service struct {
	repo   Repository
	blobs  ObjectStore
	cache  SnapshotCache
	audit  Auditor
	engine *Engine
}

// NewService wires the service. cache and auditor may be nil.
func NewService(repo Repository, blobs ObjectStore, cache SnapshotCache, auditor Auditor, engine *Engine) *Service {
	if engine == nil {
		engine = NewEngine(KeyByEmployeeID, nil)
	}
	return &Service{repo: repo, blobs: blobs, cache: cache, audit: auditor, engine: engine}
}

func (s *Service) Engine() *Engine { return s.engine }

// List returns every recording, newest first. Errors are returned as-is.
func (s *Service) List(ctx context.Context) ([]Recording, error) {
	return s.repo.ListAll(ctx)
}

// Snapshot returns the full recording list for views that must always render.
// A failing store is logged and yields an empty list. refresh skips the cache.
func (s *Service) Snapshot(ctx context.Context, refresh bool) []Recording {
	log := logger.From(ctx)

	if s.cache != nil && !refresh {
		recs, ok, err := s.cache.Load(ctx)
		switch {
		case err != nil:
			log.Warn("recordings snapshot cache load failed", "err", err)
		case ok:
			metrics.CacheHit()
			return recs
		}
		metrics.CacheMiss()
	}

	recs, err := s.repo.ListAll(ctx)
	if err != nil {
		metrics.SnapshotFetchFailed()
		log.Error("fetch recordings failed", "err", err)
		return []Recording{}
	}
	if recs == nil {
		recs = []Recording{}
	}
	if s.cache != nil {
		if err := s.cache.Store(ctx, recs); err != nil {
			log.Warn("recordings snapshot cache store failed", "err", err)
		}
	}
	return recs
}

// Search filters the snapshot and returns the matches together with the
// employee keys of the whole snapshot.
func (s *Service) Search(ctx context.Context, c Criteria, refresh bool) ([]Recording, []string) {
	all := s.Snapshot(ctx, refresh)
	return s.engine.Filter(all, c), s.engine.Employees(all)
}

func (s *Service) Get(ctx context.Context, id string) (Recording, error) {
	if id == "" {
		return Recording{}, ErrInvalidArgument
	}
	return s.repo.Get(ctx, id)
}

// Delete removes the recording document, then its audio blob. A blob that
// cannot be removed is logged and left behind.
func (s *Service) Delete(ctx context.Context, actor audit.Actor, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log := logger.From(ctx).With("recording_id", id)

	if path := ObjectPath(rec.DownloadURL); path != "" && s.blobs != nil {
		if err := s.blobs.Remove(ctx, path); err != nil && !errors.Is(err, objectstore.ErrNotFound) {
			metrics.BlobRemoveFailed()
			log.Warn("remove recording audio failed", "path", path, "err", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn("recordings snapshot cache invalidate failed", "err", err)
		}
	}
	if s.audit != nil {
		meta := map[string]any{"fileName": rec.FileName, "employee": s.engine.KeyMode().Key(rec)}
		if err := s.audit.Record(ctx, actor, audit.EventTypeRecordingDeleted, id, "recording deleted", meta); err != nil {
			log.Warn("audit recording delete failed", "err", err)
		}
	}
	return nil
}

// Audio is an open audio stream. Callers must close Body.
type Audio struct {
	Recording Recording
	Body      io.ReadCloser
	Info      objectstore.Info
}

// OpenAudio opens the audio blob of recording id.
func (s *Service) OpenAudio(ctx context.Context, id string) (Audio, error) {
	rec, path, err := s.audioPath(ctx, id)
	if err != nil {
		return Audio{}, err
	}
	body, info, err := s.blobs.Open(ctx, path)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return Audio{}, ErrNoAudio
		}
		return Audio{}, fmt.Errorf("open audio %s: %w", id, err)
	}
	if info.Size == 0 {
		info.Size = rec.FileSize
	}
	return Audio{Recording: rec, Body: body, Info: info}, nil
}

// PresignAudio returns a time-limited GET URL for the audio of recording id.
func (s *Service) PresignAudio(ctx context.Context, id string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidArgument
	}
	_, path, err := s.audioPath(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.blobs.PresignGet(ctx, path, ttl)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return "", ErrNoAudio
		}
		return "", fmt.Errorf("presign audio %s: %w", id, err)
	}
	return u, nil
}

func (s *Service) audioPath(ctx context.Context, id string) (Recording, string, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return Recording{}, "", err
	}
	path := ObjectPath(rec.DownloadURL)
	if path == "" || s.blobs == nil {
		return Recording{}, "", ErrNoAudio
	}
	return rec, path, nil
}
