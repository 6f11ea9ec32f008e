package sorting

import (
	"context"
	"math/rand/v2"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
)

// Handle is the run handle type for sort runs.
type Handle = engine.RunHandle[ir.SortSnapshot]

// runner executes one algorithm on a prepared sorter.
type runner func(s *sorter) error

var runners = map[Algorithm]runner{
	Selection: selectionSort,
	Bubble:    bubbleSort,
	Insertion: insertionSort,
	Merge:     mergeSort,
	Quick:     quickSort,
	Heap:      heapSort,
	Bogo:      bogoSort,
}

type config struct {
	pacer       engine.Pacer
	rng         *rand.Rand
	maxAttempts int
}

// Option configures a sort run.
type Option func(*config)

// WithPacer sets the inter-step suspension. Default: no delay.
func WithPacer(p engine.Pacer) Option {
	return func(c *config) { c.pacer = p }
}

// WithRand sets the random source used by bogo sort.
func WithRand(r *rand.Rand) Option {
	return func(c *config) { c.rng = r }
}

// WithSeed seeds the bogo sort shuffle deterministically.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	}
}

// WithMaxAttempts overrides the bogo sort attempt cap
// (default engine.DefaultMaxAttempts).
func WithMaxAttempts(n int) Option {
	return func(c *config) { c.maxAttempts = n }
}

// Run sorts a copy of values with alg, recording every micro-step into h.
//
// The returned error is non-nil only when the run never starts: an unknown
// algorithm or a handle that is not Idle. Cancellation and the bogo attempt
// cap are reported through the Outcome (Success=false with a Reason).
//
// A successful run ends with one snapshot where every index is Settled.
// A cancelled run stops at the micro-step where it observed the flag; its
// Outcome.Final equals the values of the last recorded snapshot.
func Run(ctx context.Context, values []int64, alg Algorithm, h *Handle, opts ...Option) (ir.Outcome, error) {
	fn, ok := runners[alg]
	if !ok {
		return ir.Outcome{}, engine.NewAlgorithmError("sort", string(alg))
	}

	cfg := config{maxAttempts: engine.DefaultMaxAttempts}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	rec, err := engine.Begin(ctx, h, cfg.pacer)
	if err != nil {
		return ir.Outcome{}, err
	}

	s := newSorter(values, rec, cfg)
	err = s.snapshot(true)
	if err == nil {
		err = fn(s)
	}
	if err == nil {
		s.settleRange(0, len(s.vals)-1)
		err = s.snapshot(false)
	}
	return rec.Finish(s.outcome(err))
}

// outcome builds the terminal summary for the error that ended the run.
func (s *sorter) outcome(err error) ir.Outcome {
	switch {
	case err == nil:
		return ir.Outcome{
			Success: true,
			Final:   clone(s.vals),
			Order:   cloneInts(s.order),
		}
	case engine.IsAttemptsExhausted(err):
		return ir.Outcome{
			Reason: ir.ReasonAttemptsExhausted,
			Final:  clone(s.vals),
			Order:  cloneInts(s.order),
		}
	default:
		// Engines only unwind with ErrCancelled otherwise.
		out := ir.Outcome{Reason: ir.ReasonCancelled}
		h := s.rec.Handle()
		if n := h.Len(); n > 0 {
			out.Final = clone(h.At(n - 1).Values)
		}
		return out
	}
}
