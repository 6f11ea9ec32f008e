package sorting

import (
	"slices"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
)

func newHandle() *Handle {
	return engine.NewRunHandle[ir.SortSnapshot]("test-run", 0)
}

// distinctStates returns the value arrays of a trace with consecutive
// duplicates removed.
func distinctStates(snaps []ir.SortSnapshot) [][]int64 {
	var out [][]int64
	for _, s := range snaps {
		if len(out) == 0 || !slices.Equal(out[len(out)-1], s.Values) {
			out = append(out, s.Values)
		}
	}
	return out
}

func sortedCopy(v []int64) []int64 {
	out := slices.Clone(v)
	slices.Sort(out)
	return out
}
