package search

import (
	"math/rand/v2"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/grid"
	"github.com/roach88/algotrace/internal/ir"
)

// GenerateMaze builds a rows x cols maze by randomized depth-first carving
// from start, then repairs connectivity with ensurePath so that end is
// always reachable. The returned grid has start and end marked.
//
// Carving moves two cells at a time, blanking the wall in between, and tries
// the four directions in a shuffled order at every cell.
func GenerateMaze(rows, cols int, start, end ir.Coord, rng *rand.Rand) (*grid.Grid, error) {
	g, err := grid.Filled(rows, cols, grid.Wall)
	if err != nil {
		return nil, engine.NewConfigError("%s", err.Error())
	}
	if !g.InBounds(start) || !g.InBounds(end) {
		return nil, engine.NewConfigError("start %s and end %s must lie inside a %dx%d grid", start, end, rows, cols)
	}
	if start == end {
		return nil, engine.NewConfigError("start and end are the same cell %s", start)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	carve(g, start, rng)
	ensurePath(g, start, end)
	g.Set(start, grid.Start)
	g.Set(end, grid.End)
	return g, nil
}

// SeededRand returns the deterministic source used for a maze seed.
func SeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// DefaultEndpoints returns the conventional maze corners: top-left start and
// bottom-right end.
func DefaultEndpoints(rows, cols int) (start, end ir.Coord) {
	return ir.Coord{}, ir.Coord{Row: rows - 1, Col: cols - 1}
}

type carveFrame struct {
	at   ir.Coord
	dirs [4]ir.Coord
	next int
}

func carve(g *grid.Grid, from ir.Coord, rng *rand.Rand) {
	newFrame := func(c ir.Coord) carveFrame {
		f := carveFrame{at: c, dirs: grid.Directions}
		rng.Shuffle(len(f.dirs), func(i, j int) { f.dirs[i], f.dirs[j] = f.dirs[j], f.dirs[i] })
		return f
	}

	g.Set(from, grid.Empty)
	stack := []carveFrame{newFrame(from)}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.dirs) {
			stack = stack[:len(stack)-1]
			continue
		}
		d := top.dirs[top.next]
		top.next++

		between := ir.Coord{Row: top.at.Row + d.Row, Col: top.at.Col + d.Col}
		dest := ir.Coord{Row: top.at.Row + 2*d.Row, Col: top.at.Col + 2*d.Col}
		if !g.InBounds(dest) || g.At(dest) != grid.Wall {
			continue
		}
		g.Set(between, grid.Empty)
		g.Set(dest, grid.Empty)
		stack = append(stack, newFrame(dest))
	}
}

// ensurePath clears every wall on the Manhattan-monotone line from start to
// end, columns first, then rows.
func ensurePath(g *grid.Grid, start, end ir.Coord) {
	c := start
	clearWall(g, c)
	for c.Col != end.Col {
		c.Col += sign(end.Col - c.Col)
		clearWall(g, c)
	}
	for c.Row != end.Row {
		c.Row += sign(end.Row - c.Row)
		clearWall(g, c)
	}
}

func clearWall(g *grid.Grid, c ir.Coord) {
	if g.At(c) == grid.Wall {
		g.Set(c, grid.Empty)
	}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
