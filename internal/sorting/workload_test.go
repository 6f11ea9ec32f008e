package sorting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
)

func TestRunCase(t *testing.T) {
	h := newHandle()
	out, err := RunCase(context.Background(), ir.SortCase{Algorithm: "Bubble", Numbers: []int64{5, 3, 8, 1}}, h)
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, []int64{1, 3, 5, 8}, out.Final)
	assert.Equal(t, 15, out.Steps)
}

func TestRunCase_UnknownAlgorithm(t *testing.T) {
	h := newHandle()
	_, err := RunCase(context.Background(), ir.SortCase{Algorithm: "shell", Numbers: []int64{1}}, h)
	require.Error(t, err)
	assert.True(t, engine.IsAlgorithmError(err))
	assert.Equal(t, engine.StateIdle, h.State())
}

func TestRunCase_BogoSeedReproduces(t *testing.T) {
	c := ir.SortCase{Algorithm: "bogo", Numbers: []int64{4, 2, 3, 1}, Seed: 11}

	h1, h2 := newHandle(), newHandle()
	out1, err := RunCase(context.Background(), c, h1, WithMaxAttempts(50))
	require.NoError(t, err)
	out2, err := RunCase(context.Background(), c, h2, WithMaxAttempts(50))
	require.NoError(t, err)

	hash1, err := ir.SortTraceHash(h1.Snapshots(), out1)
	require.NoError(t, err)
	hash2, err := ir.SortTraceHash(h2.Snapshots(), out2)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)
}
