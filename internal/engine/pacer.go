package engine

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer is the suspension point between micro-steps. Wait blocks for the
// configured inter-step delay or until ctx is done.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NoDelay is a Pacer that never suspends. Used by the HTTP twin and tests.
type NoDelay struct{}

// Wait returns immediately.
func (NoDelay) Wait(context.Context) error { return nil }

// RatePacer spaces steps at least delay apart using a token bucket of size
// one, so the first step runs immediately.
type RatePacer struct {
	delay   time.Duration
	limiter *rate.Limiter
}

// NewPacer returns NoDelay for a non-positive delay and a RatePacer
// otherwise.
func NewPacer(delay time.Duration) Pacer {
	if delay <= 0 {
		return NoDelay{}
	}
	return &RatePacer{
		delay:   delay,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Wait blocks until the next step is due.
func (p *RatePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Delay returns the configured inter-step delay.
func (p *RatePacer) Delay() time.Duration {
	return p.delay
}
