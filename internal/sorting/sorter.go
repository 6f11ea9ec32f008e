package sorting

import (
	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
)

// sorter is the working state of one sort run. Only the algorithm goroutine
// touches it.
type sorter struct {
	vals  []int64
	order []int    // order[i] = input index of vals[i]
	tags  []ir.Tag // persistent tags (Settled); transient marks are per snapshot
	rec   *engine.Recorder[ir.SortSnapshot]
	cfg   config
}

func newSorter(values []int64, rec *engine.Recorder[ir.SortSnapshot], cfg config) *sorter {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	return &sorter{
		vals:  clone(values),
		order: order,
		tags:  make([]ir.Tag, len(values)),
		rec:   rec,
		cfg:   cfg,
	}
}

// mark is a transient tag shown in a single snapshot.
type mark struct {
	idx int
	tag ir.Tag
}

func active(idx ...int) []mark {
	out := make([]mark, len(idx))
	for i, n := range idx {
		out[i] = mark{idx: n, tag: ir.TagActive}
	}
	return out
}

func pivot(idx int) mark {
	return mark{idx: idx, tag: ir.TagPivot}
}

// snapshot records the current values with the persistent tags overlaid by
// marks.
func (s *sorter) snapshot(milestone bool, marks ...mark) error {
	return s.record(milestone, nil, marks)
}

// snapshotAux is snapshot with the merge view attached.
func (s *sorter) snapshotAux(aux []int64, marks ...mark) error {
	return s.record(false, aux, marks)
}

func (s *sorter) record(milestone bool, aux []int64, marks []mark) error {
	tags := make([]ir.Tag, len(s.tags))
	copy(tags, s.tags)
	for _, m := range marks {
		tags[m.idx] = m.tag
	}
	snap := ir.SortSnapshot{
		Values:    clone(s.vals),
		Tags:      tags,
		Milestone: milestone,
	}
	if len(aux) > 0 {
		snap.Aux = clone(aux)
	}
	return s.rec.Record(snap)
}

// less compares vals[i] < vals[j] and counts it.
func (s *sorter) less(i, j int) bool {
	s.rec.Compare()
	return s.vals[i] < s.vals[j]
}

// swap exchanges two positions and counts it.
func (s *sorter) swap(i, j int) {
	s.rec.Swap()
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
	s.order[i], s.order[j] = s.order[j], s.order[i]
}

func (s *sorter) settle(i int) {
	s.tags[i] = ir.TagSettled
}

// settleRange settles every index in [lo, hi].
func (s *sorter) settleRange(lo, hi int) {
	for i := lo; i <= hi; i++ {
		s.tags[i] = ir.TagSettled
	}
}

// sortedRange scans [lo, hi] for a descent. Every comparison is a
// cancellation point.
func (s *sorter) sortedRange(lo, hi int) (bool, error) {
	for k := lo; k < hi; k++ {
		if err := s.rec.Checkpoint(); err != nil {
			return false, err
		}
		if s.less(k+1, k) {
			return false, nil
		}
	}
	return true, nil
}

func clone(v []int64) []int64 {
	out := make([]int64, len(v))
	copy(out, v)
	return out
}

func cloneInts(v []int) []int {
	out := make([]int, len(v))
	copy(out, v)
	return out
}
