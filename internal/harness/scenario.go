package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/algotrace/internal/ir"
)

// Scenario defines a conformance test scenario.
// A scenario runs exactly one sort, search or maze case through the real
// engine and asserts on the recorded trace, the outcome and the journal row.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID is an optional fixed run ID for the journal row.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Exactly one of Sort, Search and Maze must be set.
	Sort   *SortStep   `yaml:"sort,omitempty"`
	Search *SearchStep `yaml:"search,omitempty"`
	Maze   *MazeStep   `yaml:"maze,omitempty"`

	// CancelAfter cancels the run once this many snapshots have been
	// recorded. Zero runs to completion.
	CancelAfter int `yaml:"cancel_after,omitempty"`

	// MaxAttempts overrides the bogo sort attempt cap.
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	// Expect validates the run outcome.
	Expect *Expectation `yaml:"expect,omitempty"`

	// Assertions validate the trace and journal.
	// Supported types: snapshot, distinct_states, sorted_permutation,
	// valid_path, unique_visits, journal
	Assertions []Assertion `yaml:"assertions"`
}

// SortStep is the sort case of a scenario.
type SortStep struct {
	Algorithm string  `yaml:"algorithm"`
	Numbers   []int64 `yaml:"numbers"`
	Seed      int64   `yaml:"seed,omitempty"`
}

// SearchStep is the search case of a scenario.
type SearchStep struct {
	Algorithm string   `yaml:"algorithm"`
	Grid      []string `yaml:"grid"`
}

// MazeStep is the maze case of a scenario.
type MazeStep struct {
	Algorithm string `yaml:"algorithm,omitempty"`
	Rows      int    `yaml:"rows"`
	Cols      int    `yaml:"cols"`
	Seed      int64  `yaml:"seed,omitempty"`
}

// Case converts the step to a workload case named name.
func (s SortStep) Case(name string) ir.SortCase {
	return ir.SortCase{Name: name, Algorithm: s.Algorithm, Numbers: s.Numbers, Seed: s.Seed}
}

// Case converts the step to a workload case named name.
func (s SearchStep) Case(name string) ir.SearchCase {
	return ir.SearchCase{Name: name, Algorithm: s.Algorithm, Grid: s.Grid}
}

// Case converts the step to a workload case named name. The algorithm
// defaults to "bfs".
func (s MazeStep) Case(name string) ir.MazeCase {
	alg := s.Algorithm
	if alg == "" {
		alg = "bfs"
	}
	return ir.MazeCase{Name: name, Algorithm: alg, Rows: s.Rows, Cols: s.Cols, Seed: s.Seed}
}

// Expectation specifies the expected outcome.
// Every field is optional; only set fields are validated.
type Expectation struct {
	Success *bool  `yaml:"success,omitempty"`
	Reason  string `yaml:"reason,omitempty"`
	State   string `yaml:"state,omitempty"`
	Steps   *int   `yaml:"steps,omitempty"`

	// Sort outcomes.
	Final   []int64   `yaml:"final,omitempty"`
	Order   []int     `yaml:"order,omitempty"`
	History [][]int64 `yaml:"history,omitempty"`

	// Search outcomes. Path cells are [row, col] pairs.
	Path       [][]int `yaml:"path,omitempty"`
	PathLength *int    `yaml:"path_length,omitempty"`
	Visited    *int    `yaml:"visited,omitempty"`

	// Metrics is a subset match on comparisons, swaps, accesses and
	// expanded.
	Metrics map[string]int64 `yaml:"metrics,omitempty"`
}

// Assertion validates the trace or the journal.
type Assertion struct {
	// Type specifies the assertion type:
	// - "snapshot": Check the snapshot at Index (Values/Tags or Current)
	// - "distinct_states": Check the sequence of distinct sort states
	// - "sorted_permutation": Check the final values sort the input
	// - "valid_path": Check the path is a chain of open adjacent cells
	// - "unique_visits": Check the visit order has no repeats
	// - "journal": Check journal row fields (subset match)
	Type string `yaml:"type"`

	// Index is the snapshot index (used by snapshot). Negative counts from
	// the end.
	Index int `yaml:"index,omitempty"`

	// Values and Tags are the expected sort snapshot (used by snapshot).
	Values []int64  `yaml:"values,omitempty"`
	Tags   []string `yaml:"tags,omitempty"`

	// Current is the expected popped cell as [row, col] (used by snapshot).
	Current []int `yaml:"current,omitempty"`

	// States is the expected distinct state sequence (used by distinct_states).
	States [][]int64 `yaml:"states,omitempty"`

	// Expect contains expected journal fields (used by journal).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertSnapshot          = "snapshot"
	AssertDistinctStates    = "distinct_states"
	AssertSortedPermutation = "sorted_permutation"
	AssertValidPath         = "valid_path"
	AssertUniqueVisits      = "unique_visits"
	AssertJournal           = "journal"
)

// Kind returns the scenario kind, or "" if no step is set.
func (s *Scenario) Kind() string {
	switch {
	case s.Sort != nil:
		return KindSort
	case s.Search != nil:
		return KindSearch
	case s.Maze != nil:
		return KindMaze
	default:
		return ""
	}
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks required fields and structural constraints.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	steps := 0
	for _, set := range []bool{s.Sort != nil, s.Search != nil, s.Maze != nil} {
		if set {
			steps++
		}
	}
	if steps != 1 {
		return fmt.Errorf("exactly one of sort, search or maze is required (found %d)", steps)
	}

	switch {
	case s.Sort != nil:
		if s.Sort.Algorithm == "" {
			return fmt.Errorf("sort.algorithm is required")
		}
		if s.Sort.Numbers == nil {
			return fmt.Errorf("sort.numbers is required (use [] for empty input)")
		}
	case s.Search != nil:
		if s.Search.Algorithm == "" {
			return fmt.Errorf("search.algorithm is required")
		}
		if len(s.Search.Grid) == 0 {
			return fmt.Errorf("search.grid is required and must be non-empty")
		}
	case s.Maze != nil:
		if s.Maze.Rows <= 0 || s.Maze.Cols <= 0 {
			return fmt.Errorf("maze.rows and maze.cols must be positive")
		}
	}

	if s.CancelAfter < 0 {
		return fmt.Errorf("cancel_after must be non-negative")
	}
	if s.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be non-negative")
	}
	if s.MaxAttempts > 0 && s.Sort == nil {
		return fmt.Errorf("max_attempts only applies to sort scenarios")
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, s.Kind()); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, kind string) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSnapshot:
		if kind == KindSort && a.Values == nil && a.Tags == nil {
			return fmt.Errorf("assertions[%d]: values or tags is required for snapshot", index)
		}
		if kind != KindSort && len(a.Current) != 2 {
			return fmt.Errorf("assertions[%d]: current must be [row, col] for snapshot", index)
		}
	case AssertDistinctStates:
		if kind != KindSort {
			return fmt.Errorf("assertions[%d]: distinct_states only applies to sort scenarios", index)
		}
		if len(a.States) == 0 {
			return fmt.Errorf("assertions[%d]: states list is required for distinct_states", index)
		}
	case AssertSortedPermutation:
		if kind != KindSort {
			return fmt.Errorf("assertions[%d]: sorted_permutation only applies to sort scenarios", index)
		}
	case AssertValidPath, AssertUniqueVisits:
		if kind == KindSort {
			return fmt.Errorf("assertions[%d]: %s only applies to search and maze scenarios", index, a.Type)
		}
	case AssertJournal:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for journal", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
