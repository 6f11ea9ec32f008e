package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return s
}

func TestRunSortScenario(t *testing.T) {
	s := mustParse(t, `
name: bubble_reversed
run_id: run-bubble
sort:
  algorithm: bubble
  numbers: [5, 3, 8, 1]
expect:
  success: true
  state: completed
  steps: 15
  final: [1, 3, 5, 8]
  order: [3, 1, 0, 2]
  history: [[5, 3, 8, 1], [3, 5, 1, 8], [3, 1, 5, 8], [1, 3, 5, 8]]
  metrics: { comparisons: 6, swaps: 4, accesses: 28, expanded: 0 }
assertions:
  - type: snapshot
    index: 0
    values: [5, 3, 8, 1]
    tags: [default, default, default, default]
  - type: snapshot
    index: -1
    tags: [settled, settled, settled, settled]
  - type: distinct_states
    states: [[5, 3, 8, 1], [3, 5, 8, 1], [3, 5, 1, 8], [3, 1, 5, 8], [1, 3, 5, 8]]
  - type: sorted_permutation
  - type: journal
    expect:
      id: run-bubble
      kind: sort
      algorithm: bubble
      state: completed
      success: true
      steps: 15
      swaps: 4
      input: "[5,3,8,1]"
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.True(t, result.Pass)
	assert.Equal(t, "run-bubble", result.RunID)
	assert.Equal(t, 15, result.Steps())
}

func TestRunSortScenarioReportsMismatches(t *testing.T) {
	s := mustParse(t, `
name: wrong
sort: { algorithm: insertion, numbers: [2, 1] }
expect:
  success: false
  final: [2, 1]
  metrics: { swaps: 9, bogus: 1 }
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "expect.success")
	assert.Contains(t, result.Errors[1], "expect.final")
	assert.Contains(t, result.Errors[2], `unknown metric "bogus"`)
	assert.Contains(t, result.Errors[3], "expect.metrics.swaps")
}

func TestRunSortScenarioCancelled(t *testing.T) {
	s := mustParse(t, `
name: cancelled
sort: { algorithm: bubble, numbers: [5, 3, 8, 1] }
cancel_after: 3
expect:
  success: false
  reason: cancelled
  state: cancelled
  steps: 3
  final: [3, 5, 8, 1]
assertions:
  - type: journal
    expect: { state: cancelled, reason: cancelled, steps: 3 }
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Nil(t, result.Outcome.Order)
}

func TestRunBogoScenarioAttemptsExhausted(t *testing.T) {
	s := mustParse(t, `
name: bogo_capped
sort: { algorithm: bogo, numbers: [9, 8, 7, 6, 5, 4, 3, 2], seed: 1 }
max_attempts: 1
expect:
  success: false
  reason: attempts_exhausted
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
}

func TestRunSearchScenario(t *testing.T) {
	s := mustParse(t, `
name: bfs_open_3x3
search:
  algorithm: bfs
  grid: ["S..", "...", "..E"]
expect:
  success: true
  steps: 9
  path: [[0, 0], [0, 1], [0, 2], [1, 2], [2, 2]]
  path_length: 5
  visited: 9
  metrics: { expanded: 9, accesses: 32, comparisons: 0 }
assertions:
  - type: snapshot
    index: 2
    current: [1, 0]
  - type: valid_path
  - type: unique_visits
  - type: journal
    expect: { kind: search, algorithm: bfs, expanded: 9, input: '["S..","...","..E"]' }
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"S..", "...", "..E"}, result.Grid)
}

func TestRunSearchScenarioUnreachable(t *testing.T) {
	s := mustParse(t, `
name: walled
search:
  algorithm: astar
  grid: ["S#.", "##.", "..E"]
expect:
  success: false
  reason: unreachable
  path_length: 0
  visited: 1
assertions:
  - type: valid_path
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
}

func TestRunMazeScenario(t *testing.T) {
	s := mustParse(t, `
name: maze
maze: { rows: 9, cols: 11, seed: 42, algorithm: dijkstra }
expect:
  success: true
assertions:
  - type: valid_path
  - type: unique_visits
  - type: journal
    expect: { kind: search, algorithm: dijkstra, state: completed }
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Grid, 9)
	assert.Len(t, result.Grid[0], 11)

	again, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, result.Grid, again.Grid)
	assert.Equal(t, result.Outcome.Path, again.Outcome.Path)
}

func TestRunUnknownAlgorithm(t *testing.T) {
	s := mustParse(t, `
name: bad
sort: { algorithm: shell, numbers: [1] }
expect: { success: true }
`)

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run sort case")
}

func TestRunMalformedGrid(t *testing.T) {
	s := mustParse(t, `
name: bad_grid
search: { algorithm: bfs, grid: ["S..", ".E"] }
expect: { success: true }
`)

	_, err := Run(s)
	require.Error(t, err)
}

func TestRunIsDeterministic(t *testing.T) {
	s := mustParse(t, `
name: bogo
sort: { algorithm: bogo, numbers: [3, 1, 2], seed: 11 }
expect: { success: true }
`)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := GoldenBytes(s.Name, first)
	require.NoError(t, err)
	b, err := GoldenBytes(s.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
