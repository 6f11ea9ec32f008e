package harness

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Trace    []string // Snapshot summaries around the failure
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	// Header with assertion type
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nTrace:\n")
		for _, line := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
	}

	return buf.String()
}

// traceContext is the number of snapshots summarized on either side of a
// failing index.
const traceContext = 2

func sortLine(i int, s ir.SortSnapshot) string {
	tags := make([]string, len(s.Tags))
	for j, t := range s.Tags {
		tags[j] = t.String()
	}
	line := fmt.Sprintf("[%d] %v %v", i, s.Values, tags)
	if s.Milestone {
		line += " milestone"
	}
	return line
}

func searchLine(i int, s ir.SearchSnapshot) string {
	return fmt.Sprintf("[%d] current=%s frontier=%v", i, s.Current, s.Frontier)
}

// window summarizes snapshots around index i.
func window(r *Result, i int) []string {
	lo := max(0, i-traceContext)
	hi := min(r.Steps(), i+traceContext+1)
	var out []string
	for j := lo; j < hi; j++ {
		if r.Kind == KindSort {
			out = append(out, sortLine(j, r.SortTrace[j]))
		} else {
			out = append(out, searchLine(j, r.SearchTrace[j]))
		}
	}
	return out
}

// resolveIndex maps a negative index to one counted from the end.
func resolveIndex(index, n int) (int, bool) {
	if index < 0 {
		index += n
	}
	return index, index >= 0 && index < n
}

// assertSnapshot checks the snapshot at assertion.Index.
// For sorts, Values and Tags are compared when set. For searches, Current
// must equal the popped cell.
func assertSnapshot(r *Result, assertion Assertion) error {
	idx, ok := resolveIndex(assertion.Index, r.Steps())
	if !ok {
		return &AssertionError{
			Type:     AssertSnapshot,
			Expected: fmt.Sprintf("snapshot at index %d", assertion.Index),
			Actual:   fmt.Sprintf("trace has %d snapshots", r.Steps()),
		}
	}

	if r.Kind == KindSort {
		snap := r.SortTrace[idx]
		if assertion.Values != nil && !slices.Equal(assertion.Values, snap.Values) {
			return &AssertionError{
				Type:     AssertSnapshot,
				Expected: fmt.Sprintf("values %v at index %d", assertion.Values, idx),
				Actual:   fmt.Sprintf("values %v", snap.Values),
				Trace:    window(r, idx),
			}
		}
		if assertion.Tags != nil {
			got := make([]string, len(snap.Tags))
			for i, t := range snap.Tags {
				got[i] = t.String()
			}
			if !slices.Equal(assertion.Tags, got) {
				return &AssertionError{
					Type:     AssertSnapshot,
					Expected: fmt.Sprintf("tags %v at index %d", assertion.Tags, idx),
					Actual:   fmt.Sprintf("tags %v", got),
					Trace:    window(r, idx),
				}
			}
		}
		return nil
	}

	if len(assertion.Current) != 2 {
		return fmt.Errorf("snapshot assertion requires current as [row, col]")
	}
	want := ir.Coord{Row: assertion.Current[0], Col: assertion.Current[1]}
	if got := r.SearchTrace[idx].Current; got != want {
		return &AssertionError{
			Type:     AssertSnapshot,
			Expected: fmt.Sprintf("current %s at index %d", want, idx),
			Actual:   fmt.Sprintf("current %s", got),
			Trace:    window(r, idx),
		}
	}
	return nil
}

// assertDistinctStates collapses consecutive snapshots with equal values
// and compares the resulting sequence.
func assertDistinctStates(r *Result, assertion Assertion) error {
	var states [][]int64
	for _, snap := range r.SortTrace {
		if n := len(states); n > 0 && slices.Equal(states[n-1], snap.Values) {
			continue
		}
		states = append(states, snap.Values)
	}

	if !slices.EqualFunc(assertion.States, states, slices.Equal[[]int64]) {
		return &AssertionError{
			Type:     AssertDistinctStates,
			Expected: fmt.Sprintf("%d states %v", len(assertion.States), assertion.States),
			Actual:   fmt.Sprintf("%d states %v", len(states), states),
		}
	}
	return nil
}

// assertSortedPermutation checks that Final is non-decreasing and that
// Order maps it back onto the input.
func assertSortedPermutation(r *Result, assertion Assertion) error {
	out := r.Outcome
	if !slices.IsSorted(out.Final) {
		return &AssertionError{
			Type:     AssertSortedPermutation,
			Expected: "final values in non-decreasing order",
			Actual:   fmt.Sprintf("final %v", out.Final),
		}
	}
	if len(out.Order) != len(r.Input) || len(out.Final) != len(r.Input) {
		return &AssertionError{
			Type:     AssertSortedPermutation,
			Expected: fmt.Sprintf("final and order of length %d", len(r.Input)),
			Actual:   fmt.Sprintf("final %d, order %d", len(out.Final), len(out.Order)),
		}
	}

	seen := make([]bool, len(r.Input))
	for i, src := range out.Order {
		if src < 0 || src >= len(r.Input) || seen[src] {
			return &AssertionError{
				Type:     AssertSortedPermutation,
				Expected: "order to be a permutation of input indexes",
				Actual:   fmt.Sprintf("order %v", out.Order),
			}
		}
		seen[src] = true
		if r.Input[src] != out.Final[i] {
			return &AssertionError{
				Type:     AssertSortedPermutation,
				Expected: fmt.Sprintf("final[%d] = input[%d] = %d", i, src, r.Input[src]),
				Actual:   fmt.Sprintf("final[%d] = %d", i, out.Final[i]),
			}
		}
	}
	return nil
}

// assertValidPath checks that the path runs from start to end through open,
// 4-adjacent cells. An unsuccessful run must have no path.
func assertValidPath(r *Result, assertion Assertion) error {
	path := r.Outcome.Path
	if !r.Outcome.Success {
		if len(path) != 0 {
			return &AssertionError{
				Type:     AssertValidPath,
				Expected: "no path on an unsuccessful run",
				Actual:   fmt.Sprintf("path of %d cells", len(path)),
			}
		}
		return nil
	}

	g, err := parseGrid(r)
	if err != nil {
		return err
	}
	start, end, err := g.Endpoints()
	if err != nil {
		return err
	}

	if len(path) == 0 || path[0] != start || path[len(path)-1] != end {
		return &AssertionError{
			Type:     AssertValidPath,
			Expected: fmt.Sprintf("path from %s to %s", start, end),
			Actual:   fmt.Sprintf("path %v", path),
		}
	}
	for i, c := range path {
		if !g.Open(c) {
			return &AssertionError{
				Type:     AssertValidPath,
				Expected: "every path cell open",
				Actual:   fmt.Sprintf("path[%d] %s is a wall or out of bounds", i, c),
			}
		}
		if i > 0 && path[i-1].Manhattan(c) != 1 {
			return &AssertionError{
				Type:     AssertValidPath,
				Expected: "consecutive path cells adjacent",
				Actual:   fmt.Sprintf("path[%d] %s -> path[%d] %s", i-1, path[i-1], i, c),
			}
		}
	}
	return nil
}

// assertUniqueVisits checks that no cell appears twice in the visit order.
func assertUniqueVisits(r *Result, assertion Assertion) error {
	seen := make(map[ir.Coord]int, len(r.Outcome.VisitOrder))
	for i, c := range r.Outcome.VisitOrder {
		if j, dup := seen[c]; dup {
			return &AssertionError{
				Type:     AssertUniqueVisits,
				Expected: "each cell visited once",
				Actual:   fmt.Sprintf("%s visited at positions %d and %d", c, j, i),
			}
		}
		seen[c] = i
	}
	return nil
}

// journalRow flattens a journal row into the field names used by journal
// assertions.
func journalRow(run store.Run) map[string]any {
	return map[string]any{
		"id":             run.ID,
		"seq":            run.Seq,
		"kind":           string(run.Kind),
		"algorithm":      run.Algorithm,
		"input":          run.Input,
		"seed":           run.Seed,
		"state":          run.State,
		"success":        run.Success,
		"reason":         string(run.Reason),
		"steps":          int64(run.Steps),
		"comparisons":    run.Metrics.Comparisons,
		"swaps":          run.Metrics.Swaps,
		"accesses":       run.Metrics.Accesses,
		"expanded":       run.Metrics.Expanded,
		"trace_hash":     run.TraceHash,
		"engine_version": run.EngineVersion,
		"trace_version":  run.TraceVersion,
	}
}

// assertJournal reads the result's run from the journal and checks the
// expected fields (subset semantics - only fields in Expect are checked).
func assertJournal(ctx context.Context, st *store.Store, r *Result, assertion Assertion) error {
	run, err := st.ReadRun(ctx, r.RunID)
	if err != nil {
		return &AssertionError{
			Type:     AssertJournal,
			Expected: fmt.Sprintf("journal row for run %s", r.RunID),
			Actual:   fmt.Sprintf("read error: %v", err),
		}
	}
	row := journalRow(run)

	// Sort keys for deterministic error reporting
	keys := make([]string, 0, len(assertion.Expect))
	for k := range assertion.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		expectedValue := assertion.Expect[key]
		actualValue, exists := row[key]
		if !exists {
			return &AssertionError{
				Type:     AssertJournal,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q is not a journal field", key),
			}
		}
		if !journalValuesEqual(expectedValue, actualValue) {
			return &AssertionError{
				Type:     AssertJournal,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expectedValue, expectedValue),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, actualValue, actualValue),
			}
		}
	}
	return nil
}

// journalValuesEqual compares a YAML-decoded expected value against a
// journal field. YAML integers decode as int.
func journalValuesEqual(expected, actual any) bool {
	switch exp := expected.(type) {
	case int:
		got, ok := actual.(int64)
		return ok && int64(exp) == got
	case int64:
		got, ok := actual.(int64)
		return ok && exp == got
	case string:
		got, ok := actual.(string)
		return ok && exp == got
	case bool:
		got, ok := actual.(bool)
		return ok && exp == got
	default:
		return false
	}
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for journal assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertSnapshot:
			err = assertSnapshot(result, assertion)
		case AssertDistinctStates:
			err = assertDistinctStates(result, assertion)
		case AssertSortedPermutation:
			err = assertSortedPermutation(result, assertion)
		case AssertValidPath:
			err = assertValidPath(result, assertion)
		case AssertUniqueVisits:
			err = assertUniqueVisits(result, assertion)
		case AssertJournal:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: journal requires database context", i)
			} else {
				err = assertJournal(actx.Ctx, actx.Store, result, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
