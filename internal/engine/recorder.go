package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/algotrace/internal/ir"
)

// Recorder is the TraceRecorder contract the engines talk to. It appends
// snapshots to a RunHandle, checks cancellation at every micro-step, applies
// the Pacer delay, and accumulates metrics.
//
// A Recorder is owned by the single algorithm goroutine and is not safe for
// concurrent use. Readers go through the RunHandle.
type Recorder[S any] struct {
	handle  *RunHandle[S]
	pacer   Pacer
	ctx     context.Context
	release context.CancelFunc
	started time.Time
	metrics ir.Metrics
}

// Begin starts h and returns a Recorder bound to it.
//
// ctx cancellation is folded into the handle: once ctx is done the handle is
// cancelled at the next suspension point. Cancelling the handle also wakes a
// Pacer wait in progress.
func Begin[S any](ctx context.Context, h *RunHandle[S], pacer Pacer) (*Recorder[S], error) {
	if err := h.Start(); err != nil {
		return nil, err
	}
	if pacer == nil {
		pacer = NoDelay{}
	}

	runCtx, release := context.WithCancel(ctx)
	go func() {
		select {
		case <-h.Stopping():
			release()
		case <-runCtx.Done():
		}
	}()

	slog.Debug("run started", "run_id", h.ID(), "seq", h.Seq())
	return &Recorder[S]{
		handle:  h,
		pacer:   pacer,
		ctx:     runCtx,
		release: release,
		started: time.Now(),
	}, nil
}

// Handle returns the handle being recorded into.
func (r *Recorder[S]) Handle() *RunHandle[S] { return r.handle }

// Cancelled reports whether the run must stop. A done context cancels the
// handle as a side effect.
func (r *Recorder[S]) Cancelled() bool {
	if r.handle.Cancelled() {
		return true
	}
	if r.ctx.Err() != nil {
		r.handle.Cancel()
		return true
	}
	return false
}

// Checkpoint is a suspension point without a snapshot.
// Returns ErrCancelled if the run must stop.
func (r *Recorder[S]) Checkpoint() error {
	if r.Cancelled() {
		return ErrCancelled
	}
	return nil
}

// Record appends one snapshot, then suspends for the pacer delay.
// Returns ErrCancelled, recording nothing, if the run must stop.
func (r *Recorder[S]) Record(s S) error {
	if r.Cancelled() {
		return ErrCancelled
	}
	if !r.handle.Append(s) {
		return ErrCancelled
	}
	if err := r.pacer.Wait(r.ctx); err != nil {
		r.handle.Cancel()
		return ErrCancelled
	}
	return nil
}

// Compare counts one comparison reading two elements.
func (r *Recorder[S]) Compare() {
	r.metrics.Comparisons++
	r.metrics.Accesses += 2
}

// Swap counts one swap (two reads, two writes).
func (r *Recorder[S]) Swap() {
	r.metrics.Swaps++
	r.metrics.Accesses += 4
}

// Access counts n element reads or writes.
func (r *Recorder[S]) Access(n int) {
	r.metrics.Accesses += int64(n)
}

// Expand counts one frontier pop.
func (r *Recorder[S]) Expand() {
	r.metrics.Expanded++
}

// Metrics returns the counters so far with Elapsed filled in.
func (r *Recorder[S]) Metrics() ir.Metrics {
	m := r.metrics
	m.Elapsed = time.Since(r.started)
	return m
}

// Finish stamps metrics on outcome, publishes it on the handle and releases
// the recorder. The returned outcome is the one readers will see.
func (r *Recorder[S]) Finish(outcome ir.Outcome) (ir.Outcome, error) {
	defer r.release()

	outcome.Metrics = r.Metrics()
	if err := r.handle.Finish(outcome); err != nil {
		return ir.Outcome{}, fmt.Errorf("finish run: %w", err)
	}
	final, _ := r.handle.Outcome()

	slog.Debug("run finished",
		"run_id", r.handle.ID(),
		"state", r.handle.State(),
		"steps", final.Steps,
		"success", final.Success,
		"reason", final.Reason,
	)
	return final, nil
}
