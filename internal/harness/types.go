package harness

import (
	"fmt"

	"github.com/roach88/algotrace/internal/ir"
)

// Scenario kinds.
const (
	KindSort   = "sort"
	KindSearch = "search"
	KindMaze   = "maze"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation and assertion holds.
	Pass bool `json:"pass"`

	// RunID is the journal ID the run was recorded under.
	RunID string `json:"run_id"`

	// Kind is one of KindSort, KindSearch or KindMaze.
	Kind string `json:"kind"`

	// State is the terminal RunHandle state ("completed" or "cancelled").
	State string `json:"state"`

	Outcome ir.Outcome `json:"outcome"`

	// Exactly one of SortTrace and SearchTrace is set, depending on Kind.
	SortTrace   []ir.SortSnapshot   `json:"-"`
	SearchTrace []ir.SearchSnapshot `json:"-"`

	// Grid holds the searched grid rows for search and maze scenarios.
	Grid []string `json:"grid,omitempty"`

	// Input is the sort input for sort scenarios.
	Input []int64 `json:"input,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(kind string) *Result {
	return &Result{
		Pass:   true,
		Kind:   kind,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddErrorf is AddError with formatting.
func (r *Result) AddErrorf(format string, args ...any) {
	r.AddError(fmt.Sprintf(format, args...))
}

// Steps returns the number of recorded snapshots.
func (r *Result) Steps() int {
	if r.Kind == KindSort {
		return len(r.SortTrace)
	}
	return len(r.SearchTrace)
}

// CanonicalTrace returns the canonical JSON of the recorded trace and its
// outcome.
func (r *Result) CanonicalTrace() ([]byte, error) {
	if r.Kind == KindSort {
		return ir.CanonicalTrace(r.SortTrace, r.Outcome)
	}
	return ir.CanonicalTrace(r.SearchTrace, r.Outcome)
}
