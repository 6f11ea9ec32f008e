package testutil

import (
	"context"
	"sync"
	"sync/atomic"
)

// Canceller is implemented by engine.RunHandle.
type Canceller interface {
	Cancel() bool
}

// CancelAfter is a pacer that cancels its target once n steps have been
// paced. It never blocks.
//
// Thread-safety: CancelAfter is safe for concurrent use via internal mutex.
type CancelAfter struct {
	mu     sync.Mutex
	target Canceller
	n      int
	seen   int
}

// NewCancelAfter creates a pacer that calls target.Cancel on the nth Wait.
func NewCancelAfter(target Canceller, n int) *CancelAfter {
	return &CancelAfter{target: target, n: n}
}

// Wait counts one step.
func (p *CancelAfter) Wait(context.Context) error {
	p.mu.Lock()
	p.seen++
	fire := p.seen == p.n
	p.mu.Unlock()

	if fire {
		p.target.Cancel()
	}
	return nil
}

// Seen returns the number of steps paced so far.
func (p *CancelAfter) Seen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen
}

// ManualPacer blocks every Wait until the test releases it with Step.
// Runs paced by it advance in lockstep with the test.
type ManualPacer struct {
	tokens  chan struct{}
	waiting atomic.Int64
	passed  atomic.Int64
}

// NewManualPacer creates a pacer with no pending steps.
func NewManualPacer() *ManualPacer {
	return &ManualPacer{tokens: make(chan struct{})}
}

// Wait blocks until Step releases it or ctx is done.
func (p *ManualPacer) Wait(ctx context.Context) error {
	p.waiting.Add(1)
	defer p.waiting.Add(-1)

	select {
	case <-p.tokens:
		p.passed.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Step releases n waits, blocking until each has been taken or ctx is done.
func (p *ManualPacer) Step(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case p.tokens <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Waiting returns the number of goroutines blocked in Wait.
func (p *ManualPacer) Waiting() int {
	return int(p.waiting.Load())
}

// Passed returns the number of waits released so far.
func (p *ManualPacer) Passed() int {
	return int(p.passed.Load())
}
