package search

import (
	"context"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/grid"
	"github.com/roach88/algotrace/internal/ir"
)

// Handle is the run handle type for search runs.
type Handle = engine.RunHandle[ir.SearchSnapshot]

// runner explores from s.start and reports whether s.end was popped.
type runner func(s *searcher) (bool, error)

var runners = map[Algorithm]runner{
	BFS:      bfs,
	DFS:      dfs,
	Dijkstra: dijkstra,
	AStar:    astar,
	Swarm:    swarm,
}

type config struct {
	pacer engine.Pacer
}

// Option configures a search run.
type Option func(*config)

// WithPacer sets the inter-step suspension. Default: no delay.
func WithPacer(p engine.Pacer) Option {
	return func(c *config) { c.pacer = p }
}

// Run searches g from start to end with alg, recording one snapshot per
// frontier pop into h. The grid is only read.
//
// The returned error is non-nil only when the run never starts: an unknown
// algorithm, a grid without exactly one Start and one End, start or end not
// naming those cells, or a handle that is not Idle. An unreachable end and
// cancellation are reported through the Outcome.
func Run(ctx context.Context, g *grid.Grid, start, end ir.Coord, alg Algorithm, h *Handle, opts ...Option) (ir.Outcome, error) {
	fn, ok := runners[alg]
	if !ok {
		return ir.Outcome{}, engine.NewAlgorithmError("search", string(alg))
	}
	if err := checkEndpoints(g, start, end); err != nil {
		return ir.Outcome{}, err
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	rec, err := engine.Begin(ctx, h, cfg.pacer)
	if err != nil {
		return ir.Outcome{}, err
	}

	s := newSearcher(g, start, end, rec)
	found, err := fn(s)
	return rec.Finish(s.outcome(found, err))
}

// RunGrid is Run with start and end taken from the grid's Start and End
// cells.
func RunGrid(ctx context.Context, g *grid.Grid, alg Algorithm, h *Handle, opts ...Option) (ir.Outcome, error) {
	if g == nil {
		return ir.Outcome{}, engine.NewConfigError("no grid")
	}
	start, end, err := g.Endpoints()
	if err != nil {
		return ir.Outcome{}, engine.NewConfigError("%s", err.Error())
	}
	return Run(ctx, g, start, end, alg, h, opts...)
}

func checkEndpoints(g *grid.Grid, start, end ir.Coord) error {
	if g == nil {
		return engine.NewConfigError("no grid")
	}
	gs, ge, err := g.Endpoints()
	if err != nil {
		return engine.NewConfigError("%s", err.Error())
	}
	if start != gs || end != ge {
		return engine.NewConfigError("start %s and end %s do not match the grid's start %s and end %s",
			start, end, gs, ge)
	}
	return nil
}

func (s *searcher) outcome(found bool, err error) ir.Outcome {
	out := ir.Outcome{VisitOrder: cloneCoords(s.order)}
	switch {
	case err != nil:
		out.Reason = ir.ReasonCancelled
	case found:
		out.Success = true
		out.Path = ReconstructPath(s.prev, s.start, s.end)
	default:
		out.Reason = ir.ReasonUnreachable
	}
	return out
}

// ReconstructPath walks the predecessor map back from end to start and
// returns the path start-first. Returns nil if end was never reached.
func ReconstructPath(prev ir.Predecessors, start, end ir.Coord) []ir.Coord {
	if !prev.Visited(end) {
		return nil
	}
	path := []ir.Coord{end}
	for c := end; c != start; {
		p, ok := prev.Of(c)
		if !ok || p == c || len(path) > len(prev.Prev) {
			return nil
		}
		path = append(path, p)
		c = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func cloneCoords(cs []ir.Coord) []ir.Coord {
	if cs == nil {
		return nil
	}
	out := make([]ir.Coord, len(cs))
	copy(out, cs)
	return out
}
