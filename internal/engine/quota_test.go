package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaEnforcer_WithinLimit(t *testing.T) {
	q := NewQuotaEnforcer(10)

	for i := 0; i < 10; i++ {
		assert.NoError(t, q.Check(), "attempt %d should be allowed", i+1)
	}
	assert.Equal(t, 10, q.Current())
	assert.Equal(t, 10, q.MaxAttempts())
}

func TestQuotaEnforcer_ExceedsLimit(t *testing.T) {
	q := NewQuotaEnforcer(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Check())
	}

	err := q.Check()
	require.Error(t, err)

	var ae *AttemptsExhaustedError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 3, ae.Attempts)
	assert.Equal(t, 3, ae.Limit)
	assert.True(t, IsAttemptsExhausted(fmt.Errorf("bogo: %w", err)))
}

func TestQuotaEnforcer_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultMaxAttempts, NewQuotaEnforcer(0).MaxAttempts())
	assert.Equal(t, 10000, DefaultMaxAttempts)
}
