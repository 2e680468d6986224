package reporting

import (
	"context"
	"time"

	"callrec-dashboard/internal/recordings"
)

// Source supplies the recording list statistics are computed from.
// *recordings.Service satisfies it.
type Source interface {
	Snapshot(ctx context.Context, refresh bool) []recordings.Recording
	Engine() *recordings.Engine
}

type Service struct {
	src   Source
	clock func() time.Time
}

func NewService(src Source) *Service {
	return &Service{src: src, clock: time.Now}
}

// Dashboard aggregates every recording.
func (s *Service) Dashboard(ctx context.Context, refresh bool) Dashboard {
	return s.Stats(ctx, recordings.Criteria{}, refresh)
}

// Stats aggregates the recordings matching c, with per-employee rows sorted
// for display.
func (s *Service) Stats(ctx context.Context, c recordings.Criteria, refresh bool) Dashboard {
	eng := s.src.Engine()
	recs := eng.Filter(s.src.Snapshot(ctx, refresh), c)

	rep := Aggregate(recs, eng.KeyMode())
	SortByTotalCalls(rep.PerEmployee)
	return Dashboard{
		Report:      rep,
		GroupBy:     string(eng.KeyMode()),
		GeneratedAt: s.clock().UTC(),
	}
}
