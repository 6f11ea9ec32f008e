package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
)

func TestRunCase(t *testing.T) {
	out, err := RunCase(context.Background(), ir.SearchCase{
		Algorithm: "bfs",
		Grid:      []string{"S..", "...", "..E"},
	}, newHandle())
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Len(t, out.Path, 5)
}

func TestRunCase_InvalidGrid(t *testing.T) {
	h := newHandle()
	_, err := RunCase(context.Background(), ir.SearchCase{Algorithm: "bfs", Grid: []string{"S..", ".E"}}, h)
	require.Error(t, err)
	assert.True(t, engine.IsConfigError(err))
	assert.Equal(t, engine.StateIdle, h.State())
}

func TestRunCase_UnknownAlgorithm(t *testing.T) {
	_, err := RunCase(context.Background(), ir.SearchCase{Algorithm: "greedy", Grid: []string{"SE"}}, newHandle())
	assert.True(t, engine.IsAlgorithmError(err))
}

func TestRunMaze_Deterministic(t *testing.T) {
	c := ir.MazeCase{Rows: 9, Cols: 11, Seed: 42, Algorithm: "astar"}

	g1, out1, err := RunMaze(context.Background(), c, newHandle())
	require.NoError(t, err)
	g2, out2, err := RunMaze(context.Background(), c, newHandle())
	require.NoError(t, err)

	assert.Equal(t, g1.Lines(), g2.Lines())
	assert.True(t, out1.Success)
	assert.Equal(t, out1.Path, out2.Path)
	assert.Equal(t, out1.VisitOrder, out2.VisitOrder)
}

func TestRunMaze_InvalidDimensions(t *testing.T) {
	_, _, err := RunMaze(context.Background(), ir.MazeCase{Rows: 1, Cols: 1, Algorithm: "bfs"}, newHandle())
	require.Error(t, err)
	assert.True(t, engine.IsConfigError(err))
}
