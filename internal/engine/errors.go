package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while starting or running an
// algorithm.
//
// Only InvalidConfiguration, InvalidAlgorithm and InvalidState are returned
// to callers as errors. Cancelled, Unreachable and AttemptsExhausted are
// reported through the Outcome; the engines use them internally to unwind.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run, if any.
	RunID string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidConfiguration indicates the input cannot be run
	// (e.g. a grid without exactly one start and one end).
	ErrCodeInvalidConfiguration RuntimeErrorCode = "INVALID_CONFIGURATION"

	// ErrCodeInvalidAlgorithm indicates an unknown algorithm name.
	ErrCodeInvalidAlgorithm RuntimeErrorCode = "INVALID_ALGORITHM"

	// ErrCodeInvalidState indicates a handle used outside its lifecycle
	// (started twice, finished before start).
	ErrCodeInvalidState RuntimeErrorCode = "INVALID_STATE"

	// ErrCodeCancelled indicates the run observed its cancellation flag.
	ErrCodeCancelled RuntimeErrorCode = "CANCELLED"

	// ErrCodeUnreachable indicates the search end was never reached.
	ErrCodeUnreachable RuntimeErrorCode = "UNREACHABLE"

	// ErrCodeAttemptsExhausted indicates the bogo sort attempt cap was hit.
	ErrCodeAttemptsExhausted RuntimeErrorCode = "ATTEMPTS_EXHAUSTED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("%s: %s (run=%s)", e.Code, e.Message, e.RunID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrCancelled is returned by Recorder methods once the run is cancelled.
var ErrCancelled = &RuntimeError{Code: ErrCodeCancelled, Message: "run cancelled"}

// NewConfigError creates a RuntimeError for unusable input.
func NewConfigError(format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidConfiguration,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewAlgorithmError creates a RuntimeError for an unknown algorithm name.
func NewAlgorithmError(kind, name string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidAlgorithm,
		Message: fmt.Sprintf("unknown %s algorithm %q", kind, name),
		Details: map[string]string{"kind": kind, "name": name},
	}
}

// NewStateError creates a RuntimeError for a lifecycle violation.
func NewStateError(runID string, from, to State) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("cannot move run from %s to %s", from, to),
		RunID:   runID,
	}
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsCancelled returns true if the error is a cancellation.
// Uses errors.As to handle wrapped errors.
func IsCancelled(err error) bool {
	return hasCode(err, ErrCodeCancelled)
}

// IsConfigError returns true if the error is an invalid configuration.
func IsConfigError(err error) bool {
	return hasCode(err, ErrCodeInvalidConfiguration)
}

// IsAlgorithmError returns true if the error is an unknown algorithm name.
func IsAlgorithmError(err error) bool {
	return hasCode(err, ErrCodeInvalidAlgorithm)
}

// IsStateError returns true if the error is a lifecycle violation.
func IsStateError(err error) bool {
	return hasCode(err, ErrCodeInvalidState)
}

// IsAttemptsExhausted returns true if the error is an exhausted attempt cap.
// Matches both RuntimeError with ErrCodeAttemptsExhausted and
// AttemptsExhaustedError.
func IsAttemptsExhausted(err error) bool {
	if hasCode(err, ErrCodeAttemptsExhausted) {
		return true
	}
	var ae *AttemptsExhaustedError
	return errors.As(err, &ae)
}
