package search

import (
	"container/heap"
	"slices"

	"github.com/roach88/algotrace/internal/ir"
)

// queue is the FIFO frontier of BFS.
type queue struct {
	items []ir.Coord
	head  int
}

func (q *queue) push(c ir.Coord) { q.items = append(q.items, c) }

func (q *queue) pop() (ir.Coord, bool) {
	if q.head == len(q.items) {
		return ir.Coord{}, false
	}
	c := q.items[q.head]
	q.head++
	return c, true
}

func (q *queue) view() []ir.Coord {
	return slices.Clone(q.items[q.head:])
}

// stack is the LIFO frontier of DFS. view lists the next pop first.
type stack struct {
	items []ir.Coord
}

func (s *stack) push(c ir.Coord) { s.items = append(s.items, c) }

func (s *stack) pop() (ir.Coord, bool) {
	n := len(s.items)
	if n == 0 {
		return ir.Coord{}, false
	}
	c := s.items[n-1]
	s.items = s.items[:n-1]
	return c, true
}

func (s *stack) view() []ir.Coord {
	out := slices.Clone(s.items)
	slices.Reverse(out)
	return out
}

// entry is one priority-queue item. g is the cost when pushed; stale
// entries (g above the best known distance) are discarded on pop.
type entry struct {
	at  ir.Coord
	key int
	g   int
	h   int
	seq int
}

func (a entry) less(b entry) bool {
	if a.key != b.key {
		return a.key < b.key
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

// entryHeap implements heap.Interface. Ties break on smaller heuristic,
// then on insertion sequence.
type entryHeap []entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].less(h[j]) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)        { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// priorityQueue wraps entryHeap with a sequence counter.
type priorityQueue struct {
	h   entryHeap
	seq int
}

func (pq *priorityQueue) push(at ir.Coord, key, g, h int) {
	heap.Push(&pq.h, entry{at: at, key: key, g: g, h: h, seq: pq.seq})
	pq.seq++
}

func (pq *priorityQueue) pop() (entry, bool) {
	if pq.h.Len() == 0 {
		return entry{}, false
	}
	return heap.Pop(&pq.h).(entry), true
}

// view lists the queued coordinates in pop order.
func (pq *priorityQueue) view() []ir.Coord {
	sorted := slices.Clone(pq.h)
	slices.SortFunc(sorted, func(a, b entry) int {
		if a.less(b) {
			return -1
		}
		if b.less(a) {
			return 1
		}
		return 0
	})
	out := make([]ir.Coord, len(sorted))
	for i, e := range sorted {
		out[i] = e.at
	}
	return out
}
