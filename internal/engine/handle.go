package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/roach88/algotrace/internal/ir"
)

// State is the lifecycle position of a run.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// RunHandle is the single mutable coordination object of one run: the
// cancellation flag plus the growing trace.
//
// Thread-safety model:
//   - Start, Append, Finish: called by the single writer (the algorithm)
//   - Cancel: safe from any goroutine, idempotent
//   - Len, At, Snapshots, Updated, Done, Outcome, Wait: safe from any goroutine
//
// INVARIANTS:
//   - State moves Idle -> Running -> {Completed | Cancelled}, or
//     Idle -> Cancelled when cancelled before start
//   - The cancellation flag is monotone (false -> true, never reset)
//   - Once Cancel returns, Append refuses every further snapshot
//   - Recorded snapshots are never modified; Snapshots returns a view that
//     stays valid while the trace keeps growing
type RunHandle[S any] struct {
	id  string
	seq int64

	state     atomic.Int32
	cancelled atomic.Bool

	mu        sync.RWMutex
	snapshots []S
	updated   chan struct{} // Closed and replaced on every append; closed for good on finish
	stop      chan struct{} // Closed on Cancel
	done      chan struct{} // Closed on the terminal transition
	outcome   ir.Outcome
}

// NewRunHandle creates an Idle handle. seq orders runs in the journal; pass
// Clock.Next() or 0 when ordering does not matter.
func NewRunHandle[S any](id string, seq int64) *RunHandle[S] {
	return &RunHandle[S]{
		id:        id,
		seq:       seq,
		snapshots: make([]S, 0, 64),
		updated:   make(chan struct{}),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// ID returns the run identifier.
func (h *RunHandle[S]) ID() string { return h.id }

// Seq returns the logical sequence number stamped at creation.
func (h *RunHandle[S]) Seq() int64 { return h.seq }

// State returns the current lifecycle state.
func (h *RunHandle[S]) State() State { return State(h.state.Load()) }

// Start moves the handle from Idle to Running.
// Returns an InvalidState error if the handle was already started or
// cancelled before start.
func (h *RunHandle[S]) Start() error {
	if !h.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return NewStateError(h.id, h.State(), StateRunning)
	}
	return nil
}

// Cancel sets the cancellation flag. Returns true if this call set it.
//
// A Running handle stays Running until the algorithm observes the flag at
// its next suspension point and calls Finish. An Idle handle moves straight
// to Cancelled.
func (h *RunHandle[S]) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.cancelled.CompareAndSwap(false, true) {
		return false
	}
	close(h.stop)

	if h.state.CompareAndSwap(int32(StateIdle), int32(StateCancelled)) {
		h.outcome = ir.Outcome{Reason: ir.ReasonCancelled}
		close(h.updated)
		close(h.done)
	}
	return true
}

// Cancelled reports whether the cancellation flag is set.
func (h *RunHandle[S]) Cancelled() bool { return h.cancelled.Load() }

// Stopping returns a channel closed when Cancel is first called.
func (h *RunHandle[S]) Stopping() <-chan struct{} { return h.stop }

// Append records one snapshot. Returns false, recording nothing, if the run
// is cancelled or not Running.
func (h *RunHandle[S]) Append(s S) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled.Load() || h.State() != StateRunning {
		return false
	}
	h.snapshots = append(h.snapshots, s)

	// Wake every reader waiting on the previous channel.
	close(h.updated)
	h.updated = make(chan struct{})
	return true
}

// Finish publishes the outcome and moves the handle to its terminal state:
// Cancelled if the flag is set, Completed otherwise. A cancelled run always
// reports Success=false with ReasonCancelled. Steps is set to the trace
// length.
func (h *RunHandle[S]) Finish(outcome ir.Outcome) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	target := StateCompleted
	if h.cancelled.Load() {
		target = StateCancelled
		outcome.Success = false
		outcome.Reason = ir.ReasonCancelled
	}
	if !h.state.CompareAndSwap(int32(StateRunning), int32(target)) {
		return NewStateError(h.id, h.State(), target)
	}

	outcome.Steps = len(h.snapshots)
	h.outcome = outcome
	close(h.updated)
	close(h.done)
	return nil
}

// Len returns the number of recorded snapshots.
func (h *RunHandle[S]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.snapshots)
}

// At returns snapshot i. Panics if i is out of range, like a slice index.
func (h *RunHandle[S]) At(i int) S {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshots[i]
}

// Snapshots returns the trace recorded so far. The returned slice has its
// capacity clipped, so later appends never show through it.
func (h *RunHandle[S]) Snapshots() []S {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := len(h.snapshots)
	return h.snapshots[:n:n]
}

// Updated returns a channel closed at the next append or at finish.
//
// Fetch the channel before checking Len so an append in between is not
// missed:
//
//	for {
//	    ch := h.Updated()
//	    if h.Len() > i || h.State().Terminal() {
//	        break
//	    }
//	    select {
//	    case <-ctx.Done():
//	        return ctx.Err()
//	    case <-ch:
//	    }
//	}
func (h *RunHandle[S]) Updated() <-chan struct{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.updated
}

// Done returns a channel closed on the terminal transition.
func (h *RunHandle[S]) Done() <-chan struct{} { return h.done }

// Outcome returns the published outcome and whether the run is terminal.
func (h *RunHandle[S]) Outcome() (ir.Outcome, bool) {
	select {
	case <-h.done:
	default:
		return ir.Outcome{}, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.outcome, true
}

// Wait blocks until the run is terminal or ctx is done.
func (h *RunHandle[S]) Wait(ctx context.Context) (ir.Outcome, error) {
	select {
	case <-ctx.Done():
		return ir.Outcome{}, ctx.Err()
	case <-h.done:
	}
	out, _ := h.Outcome()
	return out, nil
}
