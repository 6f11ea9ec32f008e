package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/algotrace/internal/ir"
)

// GoldenBytes returns the canonical JSON compared against golden files:
// the scenario name, the canonical outcome, every snapshot in order and,
// for search and maze scenarios, the grid rows.
// Elapsed time is not part of the canonical outcome, so identical runs
// produce identical bytes.
func GoldenBytes(name string, result *Result) ([]byte, error) {
	var snaps []any
	if result.Kind == KindSort {
		snaps = make([]any, len(result.SortTrace))
		for i, s := range result.SortTrace {
			snaps[i] = s.CanonicalValue()
		}
	} else {
		snaps = make([]any, len(result.SearchTrace))
		for i, s := range result.SearchTrace {
			snaps[i] = s.CanonicalValue()
		}
	}

	m := map[string]any{
		"scenario_name": name,
		"kind":          result.Kind,
		"state":         result.State,
		"outcome":       result.Outcome.CanonicalValue(),
		"snapshots":     snaps,
	}
	if len(result.Grid) > 0 {
		m["grid"] = result.Grid
	}
	return ir.MarshalCanonical(m)
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := GoldenBytes(scenarioName, result)
	if err != nil {
		return err
	}

	// Compare with golden file using goldie
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
