package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/algotrace/internal/store"
)

func TestRunsListsNewestFirst(t *testing.T) {
	db := journalPath(t)
	first := journalSort(t, db, "bubble", "2", "1")
	second := journalSort(t, db, "heap", "2", "1")

	env, err := executeJSON(t, "runs", "--db", db)
	require.NoError(t, err)

	var result RunsResult
	decodeData(t, env, &result)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, second, result.Runs[0].ID)
	assert.Equal(t, first, result.Runs[1].ID)
}

func TestRunsFilters(t *testing.T) {
	db := journalPath(t)
	journalSort(t, db, "bubble", "2", "1")
	journalSort(t, db, "heap", "2", "1")
	_, err := execute(t, "search", "--db", db, "bfs", "S.E")
	require.NoError(t, err)

	env, err := executeJSON(t, "runs", "--db", db, "--kind", "search")
	require.NoError(t, err)
	var searches RunsResult
	decodeData(t, env, &searches)
	require.Len(t, searches.Runs, 1)
	assert.Equal(t, store.KindSearch, searches.Runs[0].Kind)

	env, err = executeJSON(t, "runs", "--db", db, "--algorithm", "heap")
	require.NoError(t, err)
	var heaps RunsResult
	decodeData(t, env, &heaps)
	require.Len(t, heaps.Runs, 1)
	assert.Equal(t, "heap", heaps.Runs[0].Algorithm)

	env, err = executeJSON(t, "runs", "--db", db, "--limit", "2")
	require.NoError(t, err)
	var limited RunsResult
	decodeData(t, env, &limited)
	assert.Len(t, limited.Runs, 2)
}

func TestRunsText(t *testing.T) {
	db := journalPath(t)
	id := journalSort(t, db, "insertion", "3", "2", "1")

	out, err := execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "RUN")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "insertion")
	assert.Contains(t, out, "1 run(s)")
}

func TestRunsEmpty(t *testing.T) {
	out, err := execute(t, "runs", "--db", journalPath(t))
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found in database.")

	env, err := executeJSON(t, "runs", "--db", journalPath(t))
	require.NoError(t, err)
	var result RunsResult
	decodeData(t, env, &result)
	assert.NotNil(t, result.Runs)
	assert.Zero(t, result.Count)
}

func TestRunsInvalidFlags(t *testing.T) {
	env, err := executeJSON(t, "runs", "--db", journalPath(t), "--kind", "maze")
	require.Error(t, err)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeBadInput, env.Error.Code)

	env, err = executeJSON(t, "runs", "--db", journalPath(t), "--limit", "0")
	require.Error(t, err)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeBadInput, env.Error.Code)
}
