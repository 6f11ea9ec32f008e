// Package harness provides conformance testing for the sort and search
// engines.
//
// A scenario runs one case through the real engine on a fresh RunHandle,
// journals it into an in-memory store and then checks the outcome, the
// recorded trace and the journal row.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: bubble_reversed
//	description: "Bubble sort on a small reversed input"
//	run_id: run-bubble        # optional, defaults to test-run-default
//	sort:                     # exactly one of sort, search, maze
//	  algorithm: bubble
//	  numbers: [5, 3, 8, 1]
//	cancel_after: 0           # optional, cancel after N snapshots
//	expect:
//	  success: true
//	  steps: 15
//	  final: [1, 3, 5, 8]
//	  metrics: { comparisons: 6, swaps: 4 }
//	assertions:
//	  - type: snapshot
//	    index: 0
//	    values: [5, 3, 8, 1]
//	  - type: sorted_permutation
//	  - type: journal
//	    expect: { state: completed, kind: sort }
//
// Search scenarios give the grid rows directly ('.' empty, '#' wall,
// 'S' start, 'E' end); maze scenarios give rows, cols and a seed.
//
// # Assertion Types
//
//   - snapshot: Checks values/tags (sort) or the popped cell (search) at an index
//   - distinct_states: Checks the sequence of distinct sort states
//   - sorted_permutation: Checks the final values are a sorted permutation of the input
//   - valid_path: Checks the path is a chain of open adjacent cells from S to E
//   - unique_visits: Checks no cell is visited twice
//   - journal: Reads the journal row and checks expected fields
//
// # Deterministic Testing
//
// The harness uses a fixed run ID, a logical clock starting at zero and an
// in-memory SQLite database per scenario. Bogo sort is seeded from the
// scenario and mazes are generated from their seed, so traces are
// byte-identical across runs and can be compared against golden files.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/bubble.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
