package search

import (
	"context"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/grid"
	"github.com/roach88/algotrace/internal/ir"
)

// RunCase parses c.Grid and runs a compiled search case.
func RunCase(ctx context.Context, c ir.SearchCase, h *Handle, opts ...Option) (ir.Outcome, error) {
	alg, err := ParseAlgorithm(c.Algorithm)
	if err != nil {
		return ir.Outcome{}, err
	}
	g, err := grid.Parse(c.Grid)
	if err != nil {
		return ir.Outcome{}, engine.NewConfigError("%s", err.Error())
	}
	return RunGrid(ctx, g, alg, h, opts...)
}

// RunMaze generates the maze of a compiled maze case from its seed and
// solves it between the default corners. The generated grid is returned
// even when the solve is cancelled.
func RunMaze(ctx context.Context, c ir.MazeCase, h *Handle, opts ...Option) (*grid.Grid, ir.Outcome, error) {
	alg, err := ParseAlgorithm(c.Algorithm)
	if err != nil {
		return nil, ir.Outcome{}, err
	}
	start, end := DefaultEndpoints(c.Rows, c.Cols)
	g, err := GenerateMaze(c.Rows, c.Cols, start, end, SeededRand(c.Seed))
	if err != nil {
		return nil, ir.Outcome{}, err
	}
	out, err := Run(ctx, g, start, end, alg, h, opts...)
	if err != nil {
		return nil, ir.Outcome{}, err
	}
	return g, out, nil
}
