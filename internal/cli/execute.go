package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/search"
	"github.com/roach88/algotrace/internal/sorting"
	"github.com/roach88/algotrace/internal/store"
)

// executor runs workload cases on fresh RunHandles and journals every
// finished run. A nil store disables the journal.
type executor struct {
	store  *store.Store
	clock  *engine.Clock
	runIDs engine.RunIDGenerator
}

// newExecutor resumes the logical clock after the highest journaled seq so
// new runs always list after old ones.
func newExecutor(ctx context.Context, st *store.Store, runIDs engine.RunIDGenerator) (*executor, error) {
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}
	clock := engine.NewClock()
	if st != nil {
		seq, err := st.MaxSeq(ctx)
		if err != nil {
			return nil, err
		}
		clock = engine.NewClockAt(seq)
	}
	return &executor{store: st, clock: clock, runIDs: runIDs}, nil
}

// openJournal opens the journal at path, or returns nil for an empty path.
func openJournal(path string) (*store.Store, error) {
	if path == "" {
		return nil, nil
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("journal opened", "path", path)
	return st, nil
}

func closeJournal(st *store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// RunSummary is the printable summary of one finished run.
type RunSummary struct {
	Name      string     `json:"name,omitempty"`
	RunID     string     `json:"run_id"`
	Seq       int64      `json:"seq"`
	Kind      store.Kind `json:"kind"`
	Algorithm string     `json:"algorithm"`
	State     string     `json:"state"`
	Success   bool       `json:"success"`
	Reason    ir.Reason  `json:"reason,omitempty"`
	Steps     int        `json:"steps"`
	Final     []int64    `json:"final,omitempty"`
	Path      []ir.Coord `json:"path,omitempty"`
	Visited   int        `json:"visited,omitempty"`
	Metrics   ir.Metrics `json:"metrics"`
	TraceHash string     `json:"trace_hash"`
}

func newSummary(name string, run store.Run, out ir.Outcome) RunSummary {
	return RunSummary{
		Name:      name,
		RunID:     run.ID,
		Seq:       run.Seq,
		Kind:      run.Kind,
		Algorithm: run.Algorithm,
		State:     run.State,
		Success:   out.Success,
		Reason:    out.Reason,
		Steps:     out.Steps,
		Final:     out.Final,
		Path:      out.Path,
		Visited:   len(out.VisitOrder),
		Metrics:   out.Metrics,
		TraceHash: run.TraceHash,
	}
}

// sortRun is a finished sort run.
type sortRun struct {
	Handle  *sorting.Handle
	Outcome ir.Outcome
	Run     store.Run
}

// searchRun is a finished search or maze run. Lines holds the searched grid.
type searchRun struct {
	Handle  *search.Handle
	Outcome ir.Outcome
	Lines   []string
	Run     store.Run
}

func (e *executor) newSortHandle() *sorting.Handle {
	return engine.NewRunHandle[ir.SortSnapshot](e.runIDs.Generate(), e.clock.Next())
}

func (e *executor) newSearchHandle() *search.Handle {
	return engine.NewRunHandle[ir.SearchSnapshot](e.runIDs.Generate(), e.clock.Next())
}

// runSort runs c on h and journals it. h must be Idle.
func (e *executor) runSort(ctx context.Context, h *sorting.Handle, c ir.SortCase, opts ...sorting.Option) (*sortRun, error) {
	out, err := sorting.RunCase(ctx, c, h, opts...)
	if err != nil {
		return nil, err
	}
	run, err := store.NewSortRun(h.ID(), h.Seq(), c.Algorithm, c.Numbers, c.Seed, h.State().String(), h.Snapshots(), out)
	if err != nil {
		return nil, err
	}
	if err := e.journal(ctx, run); err != nil {
		return nil, err
	}
	return &sortRun{Handle: h, Outcome: out, Run: run}, nil
}

// runSearch runs c on h and journals it. h must be Idle.
func (e *executor) runSearch(ctx context.Context, h *search.Handle, c ir.SearchCase, opts ...search.Option) (*searchRun, error) {
	out, err := search.RunCase(ctx, c, h, opts...)
	if err != nil {
		return nil, err
	}
	return e.finishSearch(ctx, h, c.Algorithm, c.Grid, out)
}

// runMaze generates and solves c on h and journals it as a search run over
// the generated grid.
func (e *executor) runMaze(ctx context.Context, h *search.Handle, c ir.MazeCase, opts ...search.Option) (*searchRun, error) {
	g, out, err := search.RunMaze(ctx, c, h, opts...)
	if err != nil {
		return nil, err
	}
	return e.finishSearch(ctx, h, c.Algorithm, g.Lines(), out)
}

func (e *executor) finishSearch(ctx context.Context, h *search.Handle, algorithm string, lines []string, out ir.Outcome) (*searchRun, error) {
	run, err := store.NewSearchRun(h.ID(), h.Seq(), algorithm, lines, h.State().String(), h.Snapshots(), out)
	if err != nil {
		return nil, err
	}
	if err := e.journal(ctx, run); err != nil {
		return nil, err
	}
	return &searchRun{Handle: h, Outcome: out, Lines: lines, Run: run}, nil
}

func (e *executor) journal(ctx context.Context, run store.Run) error {
	if e.store == nil {
		return nil
	}
	// A cancelled run is still journaled.
	if err := e.store.WriteRun(context.WithoutCancel(ctx), run); err != nil {
		return fmt.Errorf("journal run %s: %w", run.ID, err)
	}
	slog.Debug("run journaled",
		"run_id", run.ID,
		"seq", run.Seq,
		"trace_hash", run.TraceHash,
	)
	return nil
}

// rerun re-executes a journaled run on a detached handle and returns the
// rebuilt run summary. Engines are deterministic for a given input and
// seed, so the trace hash must match the journal.
func rerun(ctx context.Context, run store.Run) (*sortRun, *searchRun, error) {
	switch run.Kind {
	case store.KindSort:
		values, err := run.SortInput()
		if err != nil {
			return nil, nil, err
		}
		h := engine.NewRunHandle[ir.SortSnapshot](run.ID, run.Seq)
		c := ir.SortCase{Name: run.ID, Algorithm: run.Algorithm, Numbers: values, Seed: run.Seed}
		out, err := sorting.RunCase(ctx, c, h, sorting.WithMaxAttempts(replayAttempts(run)))
		if err != nil {
			return nil, nil, err
		}
		rebuilt, err := store.NewSortRun(run.ID, run.Seq, run.Algorithm, values, run.Seed, h.State().String(), h.Snapshots(), out)
		if err != nil {
			return nil, nil, err
		}
		return &sortRun{Handle: h, Outcome: out, Run: rebuilt}, nil, nil

	case store.KindSearch:
		lines, err := run.SearchInput()
		if err != nil {
			return nil, nil, err
		}
		h := engine.NewRunHandle[ir.SearchSnapshot](run.ID, run.Seq)
		c := ir.SearchCase{Name: run.ID, Algorithm: run.Algorithm, Grid: lines}
		out, err := search.RunCase(ctx, c, h)
		if err != nil {
			return nil, nil, err
		}
		rebuilt, err := store.NewSearchRun(run.ID, run.Seq, run.Algorithm, lines, h.State().String(), h.Snapshots(), out)
		if err != nil {
			return nil, nil, err
		}
		return nil, &searchRun{Handle: h, Outcome: out, Lines: lines, Run: rebuilt}, nil

	default:
		return nil, nil, fmt.Errorf("run %s has unknown kind %q", run.ID, run.Kind)
	}
}

// replayAttempts recovers the bogo shuffle cap of a journaled sort run.
// A bogo trace is the initial snapshot, one snapshot per shuffle and, on
// success, the settled snapshot, so the step count bounds the shuffles and
// pins them exactly when the cap was hit.
func replayAttempts(run store.Run) int {
	if run.Reason == ir.ReasonAttemptsExhausted {
		return run.Steps - 1
	}
	return max(run.Steps, 1)
}

// runFailed maps an engine start error to a CLI error code.
func runFailed(f *OutputFormatter, what string, err error) error {
	code := ErrCodeInvalidRun
	if engine.IsAlgorithmError(err) {
		code = ErrCodeAlgorithm
	}
	return commandError(f, code, what, err)
}
