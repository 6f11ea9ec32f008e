package sorting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/algotrace/internal/ir"
)

func TestBubble_DocumentedScenario(t *testing.T) {
	h := newHandle()
	out, err := Run(context.Background(), []int64{5, 3, 8, 1}, Bubble, h)
	require.NoError(t, err)

	require.True(t, out.Success)
	assert.Equal(t, []int64{1, 3, 5, 8}, out.Final)
	assert.Equal(t, []int{3, 1, 0, 2}, out.Order)
	assert.Equal(t, 15, out.Steps)
	assert.Equal(t, int64(6), out.Metrics.Comparisons)
	assert.Equal(t, int64(4), out.Metrics.Swaps)
	assert.Equal(t, int64(28), out.Metrics.Accesses)

	snaps := h.Snapshots()
	require.Len(t, snaps, 15)

	// The first swap exchanges 5 and 3; the pass ends with 8 settled.
	assert.Equal(t, []int64{5, 3, 8, 1}, snaps[1].Values)
	assert.Equal(t, []ir.Tag{ir.TagActive, ir.TagActive, ir.TagDefault, ir.TagDefault}, snaps[1].Tags)
	assert.Equal(t, []int64{3, 5, 8, 1}, snaps[2].Values)
	assert.Equal(t, []int64{3, 5, 1, 8}, snaps[5].Values)
	assert.Equal(t, []ir.Tag{ir.TagDefault, ir.TagDefault, ir.TagDefault, ir.TagSettled}, snaps[6].Tags)

	assert.Equal(t, [][]int64{
		{5, 3, 8, 1},
		{3, 5, 8, 1},
		{3, 5, 1, 8},
		{3, 1, 5, 8},
		{1, 3, 5, 8},
	}, distinctStates(snaps))

	last := snaps[len(snaps)-1]
	assert.Equal(t, []ir.Tag{ir.TagSettled, ir.TagSettled, ir.TagSettled, ir.TagSettled}, last.Tags)
}

func TestBubble_EarlyExitSettlesRemainder(t *testing.T) {
	h := newHandle()
	out, err := Run(context.Background(), []int64{1, 2, 3, 4}, Bubble, h)
	require.NoError(t, err)
	require.True(t, out.Success)

	// initial + 3 comparisons + early-exit milestone + final
	assert.Equal(t, 6, out.Steps)
	assert.Equal(t, int64(0), out.Metrics.Swaps)

	snaps := h.Snapshots()
	exit := snaps[4]
	assert.True(t, exit.Milestone)
	assert.Equal(t, []ir.Tag{ir.TagSettled, ir.TagSettled, ir.TagSettled, ir.TagSettled}, exit.Tags)
}

func TestBubble_EqualElementsNeverSwapped(t *testing.T) {
	h := newHandle()
	out, err := Run(context.Background(), []int64{2, 2, 2}, Bubble, h)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Metrics.Swaps)
	assert.Equal(t, []int{0, 1, 2}, out.Order)
}
