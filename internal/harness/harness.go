package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/grid"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/search"
	"github.com/roach88/algotrace/internal/sorting"
	"github.com/roach88/algotrace/internal/store"
	"github.com/roach88/algotrace/internal/testutil"
)

// Harness is the test execution engine.
// It runs one scenario against the real engines with a fixed run ID and
// a deterministic logical clock.
type Harness struct {
	store  *store.Store
	clock  *engine.Clock
	runIDs engine.RunIDGenerator
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Run the sort, search or maze case on a new RunHandle
// 3. Journal the finished run
// 4. Check the expect clause and evaluate assertions
//
// The returned error is non-nil only when the scenario cannot run at all
// (unknown algorithm, malformed grid, store failure). Expectation and
// assertion failures are reported through Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// Create fresh in-memory SQLite database
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  engine.NewClock(),
		runIDs: testutil.NewFixedRunID(scenario.RunID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult(scenario.Kind())
	switch result.Kind {
	case KindSort:
		err = h.runSort(ctx, scenario, result)
	case KindSearch:
		err = h.runSearch(ctx, scenario, result)
	case KindMaze:
		err = h.runMaze(ctx, scenario, result)
	}
	if err != nil {
		return nil, err
	}

	h.logger.Info("scenario run completed",
		"scenario", scenario.Name,
		"run_id", result.RunID,
		"state", result.State,
		"steps", result.Outcome.Steps,
	)

	if scenario.Expect != nil {
		checkExpectation(scenario.Expect, result)
	}

	// Evaluate assertions against the result
	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func (h *Harness) runSort(ctx context.Context, s *Scenario, result *Result) error {
	c := s.Sort.Case(s.Name)
	hp := engine.NewRunHandle[ir.SortSnapshot](h.runIDs.Generate(), h.clock.Next())

	var opts []sorting.Option
	if s.CancelAfter > 0 {
		opts = append(opts, sorting.WithPacer(testutil.NewCancelAfter(hp, s.CancelAfter)))
	}
	if s.MaxAttempts > 0 {
		opts = append(opts, sorting.WithMaxAttempts(s.MaxAttempts))
	}

	outcome, err := sorting.RunCase(ctx, c, hp, opts...)
	if err != nil {
		return fmt.Errorf("run sort case: %w", err)
	}

	snaps := hp.Snapshots()
	result.RunID = hp.ID()
	result.State = hp.State().String()
	result.Outcome = outcome
	result.SortTrace = snaps
	result.Input = slices.Clone(c.Numbers)

	run, err := store.NewSortRun(hp.ID(), hp.Seq(), c.Algorithm, c.Numbers, c.Seed, result.State, snaps, outcome)
	if err != nil {
		return fmt.Errorf("journal sort run: %w", err)
	}
	return h.journal(ctx, run)
}

func (h *Harness) runSearch(ctx context.Context, s *Scenario, result *Result) error {
	c := s.Search.Case(s.Name)
	hp := engine.NewRunHandle[ir.SearchSnapshot](h.runIDs.Generate(), h.clock.Next())

	outcome, err := search.RunCase(ctx, c, hp, h.searchOptions(s, hp)...)
	if err != nil {
		return fmt.Errorf("run search case: %w", err)
	}
	return h.finishSearch(ctx, hp, c.Algorithm, c.Grid, outcome, result)
}

func (h *Harness) runMaze(ctx context.Context, s *Scenario, result *Result) error {
	c := s.Maze.Case(s.Name)
	hp := engine.NewRunHandle[ir.SearchSnapshot](h.runIDs.Generate(), h.clock.Next())

	g, outcome, err := search.RunMaze(ctx, c, hp, h.searchOptions(s, hp)...)
	if err != nil {
		return fmt.Errorf("run maze case: %w", err)
	}
	return h.finishSearch(ctx, hp, c.Algorithm, g.Lines(), outcome, result)
}

func (h *Harness) searchOptions(s *Scenario, hp *search.Handle) []search.Option {
	if s.CancelAfter > 0 {
		return []search.Option{search.WithPacer(testutil.NewCancelAfter(hp, s.CancelAfter))}
	}
	return nil
}

func (h *Harness) finishSearch(ctx context.Context, hp *search.Handle, algorithm string, lines []string,
	outcome ir.Outcome, result *Result) error {
	snaps := hp.Snapshots()
	result.RunID = hp.ID()
	result.State = hp.State().String()
	result.Outcome = outcome
	result.SearchTrace = snaps
	result.Grid = lines

	run, err := store.NewSearchRun(hp.ID(), hp.Seq(), algorithm, lines, result.State, snaps, outcome)
	if err != nil {
		return fmt.Errorf("journal search run: %w", err)
	}
	return h.journal(ctx, run)
}

func (h *Harness) journal(ctx context.Context, run store.Run) error {
	if err := h.store.WriteRun(ctx, run); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	h.logger.Info("run journaled",
		"run_id", run.ID,
		"seq", run.Seq,
		"trace_hash", run.TraceHash,
	)
	return nil
}

// checkExpectation compares every set field of e against the result.
func checkExpectation(e *Expectation, r *Result) {
	out := r.Outcome

	if e.Success != nil && *e.Success != out.Success {
		r.AddErrorf("expect.success: expected %v, got %v (reason %q)", *e.Success, out.Success, out.Reason)
	}
	if e.Reason != "" && ir.Reason(e.Reason) != out.Reason {
		r.AddErrorf("expect.reason: expected %q, got %q", e.Reason, out.Reason)
	}
	if e.State != "" && e.State != r.State {
		r.AddErrorf("expect.state: expected %q, got %q", e.State, r.State)
	}
	if e.Steps != nil && *e.Steps != out.Steps {
		r.AddErrorf("expect.steps: expected %d, got %d", *e.Steps, out.Steps)
	}

	if e.Final != nil && !slices.Equal(e.Final, out.Final) {
		r.AddErrorf("expect.final: expected %v, got %v", e.Final, out.Final)
	}
	if e.Order != nil && !slices.Equal(e.Order, out.Order) {
		r.AddErrorf("expect.order: expected %v, got %v", e.Order, out.Order)
	}
	if e.History != nil {
		milestones := sorting.Milestones(r.SortTrace)
		got := make([][]int64, len(milestones))
		for i, m := range milestones {
			got[i] = m.Values
		}
		if !slices.EqualFunc(e.History, got, slices.Equal[[]int64]) {
			r.AddErrorf("expect.history: expected %v, got %v", e.History, got)
		}
	}

	if e.Path != nil {
		want, err := toCoords(e.Path)
		if err != nil {
			r.AddErrorf("expect.path: %v", err)
		} else if !slices.Equal(want, out.Path) {
			r.AddErrorf("expect.path: expected %v, got %v", want, out.Path)
		}
	}
	if e.PathLength != nil && *e.PathLength != len(out.Path) {
		r.AddErrorf("expect.path_length: expected %d, got %d", *e.PathLength, len(out.Path))
	}
	if e.Visited != nil && *e.Visited != len(out.VisitOrder) {
		r.AddErrorf("expect.visited: expected %d, got %d", *e.Visited, len(out.VisitOrder))
	}

	for _, name := range sortedMetricNames(e.Metrics) {
		got, ok := metricValue(out.Metrics, name)
		if !ok {
			r.AddErrorf("expect.metrics: unknown metric %q", name)
			continue
		}
		if got != e.Metrics[name] {
			r.AddErrorf("expect.metrics.%s: expected %d, got %d", name, e.Metrics[name], got)
		}
	}
}

func metricValue(m ir.Metrics, name string) (int64, bool) {
	switch name {
	case "comparisons":
		return m.Comparisons, true
	case "swaps":
		return m.Swaps, true
	case "accesses":
		return m.Accesses, true
	case "expanded":
		return m.Expanded, true
	default:
		return 0, false
	}
}

func sortedMetricNames(m map[string]int64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// toCoords converts YAML [row, col] pairs.
func toCoords(pairs [][]int) ([]ir.Coord, error) {
	out := make([]ir.Coord, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("cell %d: expected [row, col], got %v", i, p)
		}
		out[i] = ir.Coord{Row: p[0], Col: p[1]}
	}
	return out, nil
}

// parseGrid re-parses the grid rows recorded in a result.
func parseGrid(r *Result) (*grid.Grid, error) {
	if len(r.Grid) == 0 {
		return nil, fmt.Errorf("result has no grid")
	}
	return grid.Parse(r.Grid)
}
