package sorting

import "github.com/roach88/algotrace/internal/ir"

// History flattens the milestone snapshots of a trace into one sequence:
// the initial values followed by the full array after each outer pass,
// merge, partition, heap extraction or shuffle, concatenated.
//
// len(History(t)) is always a multiple of the input length.
func History(snapshots []ir.SortSnapshot) []int64 {
	var out []int64
	for _, snap := range snapshots {
		if snap.Milestone {
			out = append(out, snap.Values...)
		}
	}
	if out == nil {
		out = []int64{}
	}
	return out
}

// Milestones returns just the milestone snapshots.
func Milestones(snapshots []ir.SortSnapshot) []ir.SortSnapshot {
	var out []ir.SortSnapshot
	for _, snap := range snapshots {
		if snap.Milestone {
			out = append(out, snap)
		}
	}
	return out
}
