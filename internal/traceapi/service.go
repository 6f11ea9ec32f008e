package traceapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/search"
	"github.com/roach88/algotrace/internal/sorting"
	"github.com/roach88/algotrace/internal/store"
)

// MaxStreamDelay caps the per-step delay a stream client may ask for.
const MaxStreamDelay = time.Second

// Service carries the dependencies shared by the handlers.
type Service struct {
	journal  *store.Store
	ids      engine.RunIDGenerator
	clock    *engine.Clock
	metrics  *Metrics
	gatherer prometheus.Gatherer
	delay    time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithJournal records every finished run in j.
func WithJournal(j *store.Store) Option {
	return func(s *Service) { s.journal = j }
}

// WithRunIDs replaces the UUIDv7 run ID generator.
func WithRunIDs(g engine.RunIDGenerator) Option {
	return func(s *Service) { s.ids = g }
}

// WithClock sets the logical clock stamped on runs.
func WithClock(c *engine.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithRegistry registers the metrics on reg and serves reg at /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Service) {
		s.metrics = NewMetrics(reg)
		s.gatherer = reg
	}
}

// WithStreamDelay sets the default per-step delay of /stream.
func WithStreamDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// NewService creates a Service. Without WithRegistry a private registry is
// used.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = engine.UUIDv7Generator{}
	}
	if s.clock == nil {
		s.clock = engine.NewClock()
	}
	if s.metrics == nil {
		reg := prometheus.NewRegistry()
		s.metrics = NewMetrics(reg)
		s.gatherer = reg
	}
	return s
}

// Metrics returns the collectors.
func (s *Service) Metrics() *Metrics { return s.metrics }

func (s *Service) newSortHandle() *sorting.Handle {
	return engine.NewRunHandle[ir.SortSnapshot](s.ids.Generate(), s.clock.Next())
}

func (s *Service) newSearchHandle() *search.Handle {
	return engine.NewRunHandle[ir.SearchSnapshot](s.ids.Generate(), s.clock.Next())
}

// finishSort observes a sort run and journals it. Journal failures are
// logged, never returned to the client.
func (s *Service) finishSort(ctx context.Context, h *sorting.Handle, alg sorting.Algorithm, input []int64, out ir.Outcome) {
	s.metrics.ObserveRun(string(store.KindSort), string(alg), out)
	if s.journal == nil {
		return
	}
	run, err := store.NewSortRun(h.ID(), h.Seq(), string(alg), input, 0, h.State().String(), h.Snapshots(), out)
	if err == nil {
		err = s.journal.WriteRun(context.WithoutCancel(ctx), run)
	}
	if err != nil {
		slog.Warn("failed to journal run", "run_id", h.ID(), "error", err)
	}
}

// finishSearch observes a search run and journals it.
func (s *Service) finishSearch(ctx context.Context, h *search.Handle, alg search.Algorithm, lines []string, out ir.Outcome) {
	s.metrics.ObserveRun(string(store.KindSearch), string(alg), out)
	if s.journal == nil {
		return
	}
	run, err := store.NewSearchRun(h.ID(), h.Seq(), string(alg), lines, h.State().String(), h.Snapshots(), out)
	if err == nil {
		err = s.journal.WriteRun(context.WithoutCancel(ctx), run)
	}
	if err != nil {
		slog.Warn("failed to journal run", "run_id", h.ID(), "error", err)
	}
}
