package sorting

import (
	"context"

	"github.com/roach88/algotrace/internal/ir"
)

// RunCase runs a compiled workload case. c.Seed seeds the bogo shuffle so
// a case always reproduces the same trace; opts are applied after it.
func RunCase(ctx context.Context, c ir.SortCase, h *Handle, opts ...Option) (ir.Outcome, error) {
	alg, err := ParseAlgorithm(c.Algorithm)
	if err != nil {
		return ir.Outcome{}, err
	}
	return Run(ctx, c.Numbers, alg, h, append([]Option{WithSeed(c.Seed)}, opts...)...)
}
