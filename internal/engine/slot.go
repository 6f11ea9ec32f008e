package engine

import (
	"context"
	"log/slog"
	"sync"
)

// Slot holds the current run for one subject (one sequence, one grid).
//
// Two runs must never write the same subject. Replace enforces this: it
// cancels the previous run and waits for its terminal state before
// installing the next one, so the caller may mutate the subject once
// Replace returns.
type Slot[S any] struct {
	mu      sync.Mutex
	current *RunHandle[S]
}

// Replace cancels the current run, waits for it to reach Completed or
// Cancelled, and installs next. If ctx ends first the previous run stays
// installed and ctx.Err() is returned.
func (s *Slot[S]) Replace(ctx context.Context, next *RunHandle[S]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev := s.current; prev != nil {
		if prev.Cancel() {
			slog.Debug("cancelling previous run", "run_id", prev.ID(), "next_run_id", next.ID())
		}
		select {
		case <-prev.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.current = next
	return nil
}

// Current returns the installed run, or nil.
func (s *Slot[S]) Current() *RunHandle[S] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Cancel cancels the installed run, if any, and waits for it to finish.
func (s *Slot[S]) Cancel(ctx context.Context) error {
	s.mu.Lock()
	prev := s.current
	s.mu.Unlock()

	if prev == nil {
		return nil
	}
	prev.Cancel()
	select {
	case <-prev.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
