package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgorithmsJSON(t *testing.T) {
	env, err := executeJSON(t, "algorithms")
	require.NoError(t, err)

	var result AlgorithmsResult
	decodeData(t, env, &result)

	sorts := map[string]SortAlgorithmInfo{}
	for _, a := range result.Sort {
		sorts[a.Name] = a
	}
	assert.Len(t, sorts, 7)
	assert.True(t, sorts["merge"].Stable)
	assert.False(t, sorts["quick"].Stable)
	assert.True(t, sorts["bogo"].Probabilistic)

	searches := map[string]SearchAlgorithmInfo{}
	for _, a := range result.Search {
		searches[a.Name] = a
	}
	assert.Len(t, searches, 5)
	assert.Equal(t, "A*", searches["astar"].Display)
	assert.True(t, searches["dijkstra"].Optimal)
	assert.False(t, searches["dfs"].Optimal)
}

func TestAlgorithmsText(t *testing.T) {
	out, err := execute(t, "algorithms")
	require.NoError(t, err)
	assert.Contains(t, out, "Sort:")
	assert.Contains(t, out, "Search:")
	assert.Contains(t, out, "probabilistic")
	assert.Contains(t, out, "shortest path")
}
