package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/search"
)

var openGrid = []string{"S..", "...", "..E"}

func TestSearchCommandText(t *testing.T) {
	out, err := execute(t, append([]string{"search", "bfs"}, openGrid...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "(bfs)")
	assert.Contains(t, out, "path 5")
	// The final path is drawn over the grid; endpoints keep their runes.
	assert.Contains(t, out, "  S")
	assert.Contains(t, out, "*")
}

func TestSearchCommandJSON(t *testing.T) {
	env, err := executeJSON(t, append([]string{"search", "astar"}, openGrid...)...)
	require.NoError(t, err)

	var result SearchResult
	decodeData(t, env, &result)
	assert.True(t, result.Success)
	assert.Equal(t, openGrid, result.Grid)
	require.Len(t, result.Path, 5)
	assert.Equal(t, ir.Coord{Row: 0, Col: 0}, result.Path[0])
	assert.Equal(t, ir.Coord{Row: 2, Col: 2}, result.Path[4])
	assert.Equal(t, len(result.VisitOrder), result.Visited)
	assert.Equal(t, result.Steps, len(result.VisitOrder))
}

func TestSearchCommandFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "grid.txt")
	require.NoError(t, os.WriteFile(file, []byte("S.#\n\n..E\n"), 0644))

	env, err := executeJSON(t, "search", "dfs", "--file", file)
	require.NoError(t, err)

	var result SearchResult
	decodeData(t, env, &result)
	assert.Equal(t, []string{"S.#", "..E"}, result.Grid)
	assert.True(t, result.Success)
}

func TestSearchCommandUnreachable(t *testing.T) {
	env, err := executeJSON(t, "search", "bfs", "S#E")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeUnsuccessful, env.Error.Code)

	var result SearchResult
	decodeData(t, env, &result)
	assert.Equal(t, ir.ReasonUnreachable, result.Reason)
	assert.Empty(t, result.Path)
}

func TestSearchCommandBadGrid(t *testing.T) {
	env, err := executeJSON(t, "search", "bfs", "S..", "..")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeInvalidRun, env.Error.Code)
}

func TestSearchCommandNoRows(t *testing.T) {
	env, err := executeJSON(t, "search", "bfs")
	require.Error(t, err)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeBadInput, env.Error.Code)
	assert.Contains(t, env.Error.Message, "no grid rows given")
}

func TestSearchCommandPlay(t *testing.T) {
	out, err := execute(t, append([]string{"search", "bfs", "--play"}, openGrid...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#0 pop (0,0)"), "output: %s", out)
}

func TestSearchCompare(t *testing.T) {
	env, err := executeJSON(t, append([]string{"search", "compare"}, openGrid...)...)
	require.NoError(t, err)

	var result CompareResult
	decodeData(t, env, &result)
	require.Len(t, result.Runs, len(search.Algorithms()))
	for i, a := range search.Algorithms() {
		run := result.Runs[i]
		assert.Equal(t, string(a), run.Algorithm)
		assert.True(t, run.Success, "%s should find the end", a)
		if a.Optimal() {
			assert.Len(t, run.Path, 5, "%s should find a shortest path", a)
		}
	}
	// Handles are created in requested order.
	for i := 1; i < len(result.Runs); i++ {
		assert.Greater(t, result.Runs[i].Seq, result.Runs[i-1].Seq)
	}
}

func TestSearchCompareText(t *testing.T) {
	out, err := execute(t, append([]string{"search", "compare", "--algorithms", "bfs,dfs"}, openGrid...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "ALGORITHM")
	assert.Contains(t, out, "bfs")
	assert.Contains(t, out, "dfs")
	assert.NotContains(t, out, "dijkstra")
}

func TestSearchCompareUnknownAlgorithm(t *testing.T) {
	env, err := executeJSON(t, append([]string{"search", "compare", "--algorithms", "bfs,teleport"}, openGrid...)...)
	require.Error(t, err)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeAlgorithm, env.Error.Code)
}

func TestGridRows(t *testing.T) {
	rows, err := gridRows([]string{"S.", ".E"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"S.", ".E"}, rows)

	_, err = gridRows(nil, "")
	assert.EqualError(t, err, "no grid rows given")

	_, err = gridRows([]string{"S."}, "grid.txt")
	assert.EqualError(t, err, "grid rows and --file are mutually exclusive")

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n  \n"), 0644))
	_, err = gridRows(nil, empty)
	assert.EqualError(t, err, empty+" has no grid rows")
}
