package search

import (
	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/grid"
	"github.com/roach88/algotrace/internal/ir"
)

// searcher is the working state of one search run. Only the algorithm
// goroutine touches it.
type searcher struct {
	g          *grid.Grid
	start, end ir.Coord
	rec        *engine.Recorder[ir.SearchSnapshot]

	prev   ir.Predecessors // discovered cells; start maps to itself
	closed []bool          // popped cells, by flat index
	order  []ir.Coord      // visit order, deduplicated
	nbuf   []ir.Coord
}

func newSearcher(g *grid.Grid, start, end ir.Coord, rec *engine.Recorder[ir.SearchSnapshot]) *searcher {
	prev := ir.NewPredecessors(g.Rows(), g.Cols())
	prev.Set(start, start)
	return &searcher{
		g:      g,
		start:  start,
		end:    end,
		rec:    rec,
		prev:   prev,
		closed: make([]bool, g.Len()),
		nbuf:   make([]ir.Coord, 0, len(grid.Directions)),
	}
}

func (s *searcher) index(c ir.Coord) int {
	return c.Row*s.g.Cols() + c.Col
}

// expand marks c popped and records the snapshot for this pop.
func (s *searcher) expand(c ir.Coord, frontier []ir.Coord) error {
	if !s.closed[s.index(c)] {
		s.closed[s.index(c)] = true
		s.order = append(s.order, c)
	}
	s.rec.Expand()
	return s.rec.Record(ir.SearchSnapshot{
		Current:  c,
		Frontier: frontier,
		Visited:  s.prev.Clone(),
	})
}

// neighbors returns the open neighbors of c in East, South, West, North
// order. The slice is reused by the next call.
func (s *searcher) neighbors(c ir.Coord) []ir.Coord {
	s.rec.Access(len(grid.Directions))
	s.nbuf = s.g.Neighbors(s.nbuf[:0], c)
	return s.nbuf
}

func (s *searcher) isClosed(c ir.Coord) bool {
	return s.closed[s.index(c)]
}
