package replay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/roach88/algotrace/internal/engine"
)

// ErrAlreadyPlaying is returned by Play while another Play is running.
var ErrAlreadyPlaying = errors.New("replay: already playing")

// FrameFunc is called after every cursor move with the new index and its
// snapshot. It runs on the goroutine that moved the cursor.
type FrameFunc[S any] func(index int, snapshot S)

// Option configures a Controller.
type Option[S any] func(*Controller[S])

// WithOnFrame registers the frame callback.
func WithOnFrame[S any](fn FrameFunc[S]) Option[S] {
	return func(c *Controller[S]) { c.onFrame = fn }
}

// WithPacer replaces the interval pacer used by Play.
func WithPacer[S any](p engine.Pacer) Option[S] {
	return func(c *Controller[S]) { c.pacer = p }
}

// Controller holds a cursor over a Trace.
//
// INVARIANTS:
//   - 0 <= cursor <= max(Len()-1, 0)
//   - the cursor never points past the trace length observed when it moved
//
// All methods are safe for concurrent use. Step and ScrubTo may be called
// while Play runs; playback continues from wherever the cursor is.
type Controller[S any] struct {
	trace   Trace[S]
	onFrame FrameFunc[S]
	pacer   engine.Pacer

	mu      sync.Mutex
	cursor  int
	primed  bool          // the snapshot at cursor exists and has been shown
	stop    chan struct{} // non-nil while playing
	stopped bool
}

// New creates a controller with the cursor at 0.
func New[S any](trace Trace[S], opts ...Option[S]) *Controller[S] {
	c := &Controller[S]{trace: trace, primed: trace.Len() > 0}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cursor returns the current index.
func (c *Controller[S]) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Len returns the trace length.
func (c *Controller[S]) Len() int { return c.trace.Len() }

// Current returns the snapshot under the cursor, or false if the trace is
// empty.
func (c *Controller[S]) Current() (S, bool) {
	c.mu.Lock()
	i := c.cursor
	c.mu.Unlock()
	if i >= c.trace.Len() {
		var zero S
		return zero, false
	}
	return c.trace.At(i), true
}

// Step moves the cursor by delta, clamped to the trace. Returns the new
// index. At either bound the call is a no-op.
func (c *Controller[S]) Step(delta int) int {
	c.mu.Lock()
	target := c.cursor + delta
	c.mu.Unlock()
	return c.ScrubTo(target)
}

// ScrubTo moves the cursor to i, clamped to [0, Len()-1]. Returns the new
// index.
func (c *Controller[S]) ScrubTo(i int) int {
	c.mu.Lock()
	n := c.trace.Len()
	i = clamp(i, n)
	moved := n > 0 && (i != c.cursor || !c.primed)
	c.cursor = i
	if n > 0 {
		c.primed = true
	}
	c.mu.Unlock()

	if moved {
		c.emit(i)
	}
	return i
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func (c *Controller[S]) emit(i int) {
	if c.onFrame != nil {
		c.onFrame(i, c.trace.At(i))
	}
}

// Playing reports whether Play is running.
func (c *Controller[S]) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// Stop ends a running Play. Returns false if nothing was playing.
func (c *Controller[S]) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil || c.stopped {
		return false
	}
	close(c.stop)
	c.stopped = true
	return true
}

// Play advances the cursor one index per interval until the trace is done
// and the cursor is at its last index, Stop is called, or ctx ends.
//
// While the trace is still growing, Play waits at the frontier instead of
// failing. Returns nil on end-of-trace or Stop, ctx.Err() if ctx ended.
func (c *Controller[S]) Play(ctx context.Context, interval time.Duration) error {
	c.mu.Lock()
	if c.stop != nil {
		c.mu.Unlock()
		return ErrAlreadyPlaying
	}
	stop := make(chan struct{})
	c.stop, c.stopped = stop, false
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.stop, c.stopped = nil, false
		c.mu.Unlock()
	}()

	playCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-playCtx.Done():
		}
	}()

	pacer := c.pacer
	if pacer == nil {
		pacer = engine.NewPacer(interval)
	}

	for {
		from, next, ok := c.awaitNext(playCtx)
		if !ok {
			return ctx.Err()
		}
		if err := pacer.Wait(playCtx); err != nil {
			return ctx.Err()
		}

		c.mu.Lock()
		if c.position() != from {
			// Moved by Step or ScrubTo while waiting; continue from there.
			c.mu.Unlock()
			continue
		}
		c.cursor, c.primed = next, true
		c.mu.Unlock()
		c.emit(next)
	}
}

// position is the cursor with -1 standing for "nothing shown yet".
// Callers hold mu.
func (c *Controller[S]) position() int {
	if !c.primed {
		return -1
	}
	return c.cursor
}

// awaitNext blocks until the index after the cursor exists. ok is false
// when ctx ends, or when the trace is done and the cursor is already at
// its end.
func (c *Controller[S]) awaitNext(ctx context.Context) (from, next int, ok bool) {
	for {
		updated := c.trace.Updated()
		n := c.trace.Len()

		c.mu.Lock()
		from = c.position()
		c.mu.Unlock()
		next = from + 1

		if next < n {
			return from, next, true
		}
		select {
		case <-c.trace.Done():
			if c.trace.Len() > next {
				continue
			}
			return from, next, false
		default:
		}

		select {
		case <-ctx.Done():
			return from, next, false
		case <-updated:
		case <-c.trace.Done():
		}
	}
}
