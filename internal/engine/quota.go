package engine

import "fmt"

// DefaultMaxAttempts is the bogo sort shuffle cap.
const DefaultMaxAttempts = 10000

// QuotaEnforcer counts attempts of a retry-until-done algorithm and enforces
// a hard cap.
//
// Bogo sort is the only algorithm without a termination bound by
// construction; the quota is what guarantees it stops.
type QuotaEnforcer struct {
	maxAttempts int
	current     int
}

// NewQuotaEnforcer creates an enforcer allowing maxAttempts attempts.
// A non-positive limit falls back to DefaultMaxAttempts.
func NewQuotaEnforcer(maxAttempts int) *QuotaEnforcer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &QuotaEnforcer{maxAttempts: maxAttempts}
}

// Check increments the attempt counter and validates against the limit.
//
// Returns AttemptsExhaustedError once the counter passes the limit. Call it
// before each attempt.
func (q *QuotaEnforcer) Check() error {
	q.current++
	if q.current > q.maxAttempts {
		return &AttemptsExhaustedError{Attempts: q.current - 1, Limit: q.maxAttempts}
	}
	return nil
}

// Current returns the number of attempts checked so far.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxAttempts returns the limit.
func (q *QuotaEnforcer) MaxAttempts() int {
	return q.maxAttempts
}

// AttemptsExhaustedError is returned when the attempt cap is reached.
type AttemptsExhaustedError struct {
	Attempts int // Attempts actually made
	Limit    int // Maximum allowed attempts
}

// Error implements the error interface.
func (e *AttemptsExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts (limit %d)", e.Attempts, e.Limit)
}
