package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeErrorFormatting(t *testing.T) {
	err := NewStateError("run-7", StateCompleted, StateRunning)
	assert.Equal(t, "INVALID_STATE: cannot move run from completed to running (run=run-7)", err.Error())

	err = NewConfigError("grid has %d start cells", 0)
	assert.Equal(t, "INVALID_CONFIGURATION: grid has 0 start cells", err.Error())
}

func TestErrorPredicatesUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("sort: %w", ErrCancelled)
	assert.True(t, IsCancelled(wrapped))
	assert.False(t, IsConfigError(wrapped))

	algErr := fmt.Errorf("api: %w", NewAlgorithmError("sort", "shell"))
	assert.True(t, IsAlgorithmError(algErr))
	assert.Contains(t, algErr.Error(), `unknown sort algorithm "shell"`)

	assert.True(t, IsStateError(NewStateError("", StateIdle, StateCompleted)))
	assert.True(t, IsAttemptsExhausted(&RuntimeError{Code: ErrCodeAttemptsExhausted}))
	assert.False(t, IsCancelled(errors.New("plain")))
}
