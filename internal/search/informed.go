package search

import (
	"math"

	"github.com/roach88/algotrace/internal/ir"
)

// bestFirst parameterizes the priority-queue searches.
type bestFirst struct {
	// key computes the priority from the cost so far and the heuristic.
	key func(g, h int) int
	// heuristic is applied when set; otherwise h is always zero.
	heuristic bool
	// rescan enables the second neighbor pass of Swarm.
	rescan bool
}

func dijkstra(s *searcher) (bool, error) {
	return bestFirst{key: func(g, _ int) int { return g }}.run(s)
}

func astar(s *searcher) (bool, error) {
	return bestFirst{key: func(g, h int) int { return g + h }, heuristic: true}.run(s)
}

// swarm weights the heuristic at half the path cost (g + h/2, kept in
// integers as 2g + h) and scans the neighbors twice per pop: once to relax
// them, once to re-push every unvisited neighbor at its best known cost.
// The duplicates only change what the frontier shows; a coordinate already
// visited is skipped when popped again.
func swarm(s *searcher) (bool, error) {
	return bestFirst{key: func(g, h int) int { return 2*g + h }, heuristic: true, rescan: true}.run(s)
}

func (b bestFirst) h(s *searcher, c ir.Coord) int {
	if !b.heuristic {
		return 0
	}
	return c.Manhattan(s.end)
}

func (b bestFirst) run(s *searcher) (bool, error) {
	dist := make([]int, s.g.Len())
	for i := range dist {
		dist[i] = math.MaxInt
	}

	var pq priorityQueue
	dist[s.index(s.start)] = 0
	h0 := b.h(s, s.start)
	pq.push(s.start, b.key(0, h0), 0, h0)

	for {
		e, ok := pq.pop()
		if !ok {
			return false, nil
		}
		if s.isClosed(e.at) || e.g > dist[s.index(e.at)] {
			continue
		}
		if err := s.expand(e.at, pq.view()); err != nil {
			return false, err
		}
		if e.at == s.end {
			return true, nil
		}

		for _, n := range s.neighbors(e.at) {
			if s.isClosed(n) {
				continue
			}
			ng := e.g + 1
			if ng < dist[s.index(n)] {
				dist[s.index(n)] = ng
				s.prev.Set(n, e.at)
				hn := b.h(s, n)
				pq.push(n, b.key(ng, hn), ng, hn)
			}
		}

		if !b.rescan {
			continue
		}
		for _, n := range s.neighbors(e.at) {
			if s.isClosed(n) {
				continue
			}
			g := dist[s.index(n)]
			hn := b.h(s, n)
			pq.push(n, b.key(g, hn), g, hn)
		}
	}
}
