package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/algotrace/internal/ir"
)

// Kind is the engine family of a journaled run.
type Kind string

const (
	KindSort   Kind = "sort"
	KindSearch Kind = "search"
)

// Run is one journal row.
type Run struct {
	ID        string `json:"id"`
	Seq       int64  `json:"seq"`
	Kind      Kind   `json:"kind"`
	Algorithm string `json:"algorithm"`

	// Input is the canonical JSON of the run input: an array of integers
	// for sort runs, an array of grid rows for search runs.
	Input string `json:"input"`
	Seed  int64  `json:"seed,omitempty"`

	State     string     `json:"state"`
	Success   bool       `json:"success"`
	Reason    ir.Reason  `json:"reason,omitempty"`
	Steps     int        `json:"steps"`
	Metrics   ir.Metrics `json:"metrics"`
	TraceHash string     `json:"trace_hash"`

	EngineVersion string `json:"engine_version"`
	TraceVersion  string `json:"trace_version"`
}

// NewSortRun summarizes a finished sort run for the journal.
func NewSortRun(id string, seq int64, algorithm string, input []int64, seed int64, state string,
	snapshots []ir.SortSnapshot, outcome ir.Outcome) (Run, error) {
	in, err := marshalInput(input)
	if err != nil {
		return Run{}, err
	}
	hash, err := ir.SortTraceHash(snapshots, outcome)
	if err != nil {
		return Run{}, fmt.Errorf("hash sort trace: %w", err)
	}
	return newRun(id, seq, KindSort, algorithm, in, seed, state, outcome, hash), nil
}

// NewSearchRun summarizes a finished search run for the journal.
func NewSearchRun(id string, seq int64, algorithm string, grid []string, state string,
	snapshots []ir.SearchSnapshot, outcome ir.Outcome) (Run, error) {
	in, err := marshalInput(grid)
	if err != nil {
		return Run{}, err
	}
	hash, err := ir.SearchTraceHash(snapshots, outcome)
	if err != nil {
		return Run{}, fmt.Errorf("hash search trace: %w", err)
	}
	return newRun(id, seq, KindSearch, algorithm, in, 0, state, outcome, hash), nil
}

func newRun(id string, seq int64, kind Kind, algorithm, input string, seed int64, state string,
	outcome ir.Outcome, hash string) Run {
	return Run{
		ID:            id,
		Seq:           seq,
		Kind:          kind,
		Algorithm:     algorithm,
		Input:         input,
		Seed:          seed,
		State:         state,
		Success:       outcome.Success,
		Reason:        outcome.Reason,
		Steps:         outcome.Steps,
		Metrics:       outcome.Metrics,
		TraceHash:     hash,
		EngineVersion: ir.EngineVersion,
		TraceVersion:  ir.TraceVersion,
	}
}

// marshalInput converts a run input to canonical JSON TEXT for storage.
func marshalInput(v any) (string, error) {
	switch in := v.(type) {
	case []int64:
		if in == nil {
			v = []int64{}
		}
	case []string:
		if in == nil {
			v = []string{}
		}
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal input: %w", err)
	}
	return string(data), nil
}

// SortInput decodes the input of a sort run.
func (r Run) SortInput() ([]int64, error) {
	if r.Kind != KindSort {
		return nil, fmt.Errorf("run %s is a %s run", r.ID, r.Kind)
	}
	var values []int64
	if err := json.Unmarshal([]byte(r.Input), &values); err != nil {
		return nil, fmt.Errorf("unmarshal sort input: %w", err)
	}
	return values, nil
}

// SearchInput decodes the grid rows of a search run.
func (r Run) SearchInput() ([]string, error) {
	if r.Kind != KindSearch {
		return nil, fmt.Errorf("run %s is a %s run", r.ID, r.Kind)
	}
	var lines []string
	if err := json.Unmarshal([]byte(r.Input), &lines); err != nil {
		return nil, fmt.Errorf("unmarshal search input: %w", err)
	}
	return lines, nil
}
