package sorting

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/algotrace/internal/ir"
)

var deterministic = []Algorithm{Selection, Bubble, Insertion, Merge, Quick, Heap}

func testInputs() map[string][]int64 {
	r := rand.New(rand.NewPCG(1, 2))
	random := make([]int64, 40)
	for i := range random {
		random[i] = r.Int64N(20) - 5
	}
	return map[string][]int64{
		"empty":      {},
		"single":     {7},
		"pair":       {2, 1},
		"sorted":     {1, 2, 3, 4, 5, 6},
		"reversed":   {9, 8, 7, 6, 5, 4, 3, 2, 1},
		"duplicates": {3, 1, 3, 1, 2, 2, 3},
		"negatives":  {0, -3, 5, -3, 12, -100},
		"random":     random,
	}
}

func TestSort_FinalIsSortedPermutation(t *testing.T) {
	for _, alg := range deterministic {
		for name, input := range testInputs() {
			t.Run(string(alg)+"/"+name, func(t *testing.T) {
				h := newHandle()
				out, err := Run(context.Background(), input, alg, h)
				require.NoError(t, err)
				require.True(t, out.Success)

				snaps := h.Snapshots()
				require.NotEmpty(t, snaps)
				last := snaps[len(snaps)-1]
				assert.Equal(t, sortedCopy(input), last.Values)
				assert.Equal(t, last.Values, out.Final)
				assert.Equal(t, len(snaps), out.Steps)

				for i, snap := range snaps {
					require.Len(t, snap.Values, len(input), "snapshot %d lost or gained elements", i)
					require.Len(t, snap.Tags, len(snap.Values), "snapshot %d tags/values mismatch", i)
					assert.ElementsMatch(t, input, snap.Values, "snapshot %d is not a permutation", i)
				}

				for _, tag := range last.Tags {
					assert.Equal(t, ir.TagSettled, tag)
				}
			})
		}
	}
}

func TestSort_OrderIsPermutation(t *testing.T) {
	input := []int64{4, 4, 1, 9, 0, 4}
	for _, alg := range deterministic {
		t.Run(string(alg), func(t *testing.T) {
			out, err := Run(context.Background(), input, alg, newHandle())
			require.NoError(t, err)

			require.Len(t, out.Order, len(input))
			for pos, from := range out.Order {
				assert.Equal(t, input[from], out.Final[pos])
			}
			seen := slices.Clone(out.Order)
			slices.Sort(seen)
			assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, seen)
		})
	}
}

func TestSort_Stability(t *testing.T) {
	input := []int64{3, 1, 3, 2, 1, 3, 2}
	for _, alg := range []Algorithm{Merge, Insertion, Bubble} {
		t.Run(string(alg), func(t *testing.T) {
			require.True(t, alg.Stable())

			out, err := Run(context.Background(), input, alg, newHandle())
			require.NoError(t, err)

			for pos := 1; pos < len(out.Final); pos++ {
				if out.Final[pos] == out.Final[pos-1] {
					assert.Less(t, out.Order[pos-1], out.Order[pos],
						"equal values at %d and %d swapped input order", pos-1, pos)
				}
			}
		})
	}
}

func TestSort_MilestonesStartWithInput(t *testing.T) {
	input := []int64{3, 1, 2}
	for _, alg := range deterministic {
		t.Run(string(alg), func(t *testing.T) {
			h := newHandle()
			_, err := Run(context.Background(), input, alg, h)
			require.NoError(t, err)

			milestones := Milestones(h.Snapshots())
			require.NotEmpty(t, milestones)
			assert.Equal(t, input, milestones[0].Values)
			assert.Equal(t, []int64{1, 2, 3}, milestones[len(milestones)-1].Values)
		})
	}
}

func TestSort_InputNotMutated(t *testing.T) {
	input := []int64{3, 2, 1}
	_, err := Run(context.Background(), input, Quick, newHandle())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, input)
}

func TestSort_Deterministic(t *testing.T) {
	input := []int64{5, 9, 1, 4, 4, 0, 7}
	for _, alg := range deterministic {
		t.Run(string(alg), func(t *testing.T) {
			a, b := newHandle(), newHandle()
			outA, err := Run(context.Background(), input, alg, a)
			require.NoError(t, err)
			outB, err := Run(context.Background(), input, alg, b)
			require.NoError(t, err)

			hashA, err := ir.SortTraceHash(a.Snapshots(), outA)
			require.NoError(t, err)
			hashB, err := ir.SortTraceHash(b.Snapshots(), outB)
			require.NoError(t, err)
			assert.Equal(t, hashA, hashB)
		})
	}
}

func TestSort_EqualElementsNeverSwapped(t *testing.T) {
	for _, alg := range deterministic {
		t.Run(string(alg)+"/all-equal", func(t *testing.T) {
			out, err := Run(context.Background(), []int64{4, 4, 4, 4}, alg, newHandle())
			require.NoError(t, err)
			assert.Equal(t, int64(0), out.Metrics.Swaps)
			assert.Equal(t, []int{0, 1, 2, 3}, out.Order)
		})
	}

	tests := []struct {
		name  string
		alg   Algorithm
		input []int64
		swaps int64
		order []int
	}{
		// Only the median-of-three swap of 2 and 1 moves anything; the
		// pivot move and the final pivot placement both meet equal values.
		{"quick pivot ties", Quick, []int64{2, 2, 1}, 1, []int{2, 1, 0}},
		// The first root extraction meets an equal value at the end.
		{"heap root ties", Heap, []int64{3, 1, 3}, 1, []int{1, 0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Run(context.Background(), tt.input, tt.alg, newHandle())
			require.NoError(t, err)
			assert.Equal(t, sortedCopy(tt.input), out.Final)
			assert.Equal(t, tt.swaps, out.Metrics.Swaps)
			assert.Equal(t, tt.order, out.Order)
		})
	}
}

func TestMerge_WriteBackKeepsEveryElement(t *testing.T) {
	h := newHandle()
	_, err := Run(context.Background(), []int64{2, 1}, Merge, h)
	require.NoError(t, err)

	var states [][]int64
	for _, snap := range h.Snapshots() {
		assert.ElementsMatch(t, []int64{2, 1}, snap.Values)
		states = append(states, snap.Values)
	}
	// Initial, two copies into the merge view, two write-backs, the merge
	// milestone and the settled snapshot.
	assert.Equal(t, [][]int64{{2, 1}, {2, 1}, {2, 1}, {1, 2}, {1, 2}, {1, 2}, {1, 2}}, states)
}
