package search

import "github.com/roach88/algotrace/internal/ir"

// bfs explores with a FIFO queue. A cell's predecessor is fixed when it is
// first discovered, which yields shortest paths on a uniform grid.
func bfs(s *searcher) (bool, error) {
	var q queue
	q.push(s.start)
	for {
		c, ok := q.pop()
		if !ok {
			return false, nil
		}
		if err := s.expand(c, q.view()); err != nil {
			return false, err
		}
		if c == s.end {
			return true, nil
		}
		for _, n := range s.neighbors(c) {
			if !s.prev.Visited(n) {
				s.prev.Set(n, c)
				q.push(n)
			}
		}
	}
}

// dfs explores with a LIFO stack. Neighbors are pushed in reverse so that
// East is popped first. Like bfs, a predecessor is fixed on discovery.
func dfs(s *searcher) (bool, error) {
	var st stack
	st.push(s.start)
	var discovered []ir.Coord
	for {
		c, ok := st.pop()
		if !ok {
			return false, nil
		}
		if err := s.expand(c, st.view()); err != nil {
			return false, err
		}
		if c == s.end {
			return true, nil
		}
		discovered = discovered[:0]
		for _, n := range s.neighbors(c) {
			if !s.prev.Visited(n) {
				s.prev.Set(n, c)
				discovered = append(discovered, n)
			}
		}
		for i := len(discovered) - 1; i >= 0; i-- {
			st.push(discovered[i])
		}
	}
}
