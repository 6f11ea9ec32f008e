package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCanceller struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCanceller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.calls == 1
}

func TestCancelAfter_FiresOnNthWait(t *testing.T) {
	target := &countingCanceller{}
	p := NewCancelAfter(target, 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}

	assert.Equal(t, 5, p.Seen())
	assert.Equal(t, 1, target.calls)
}

func TestCancelAfter_NeverFiresBeforeN(t *testing.T) {
	target := &countingCanceller{}
	p := NewCancelAfter(target, 10)

	require.NoError(t, p.Wait(context.Background()))
	assert.Zero(t, target.calls)
}

func TestManualPacer_StepReleasesWaits(t *testing.T) {
	p := NewManualPacer()
	ctx := context.Background()

	done := make(chan error, 2)
	go func() {
		for i := 0; i < 2; i++ {
			done <- p.Wait(ctx)
		}
	}()

	require.NoError(t, p.Step(ctx, 2))
	require.NoError(t, <-done)
	require.NoError(t, <-done)
	assert.Equal(t, 2, p.Passed())
}

func TestManualPacer_WaitHonoursContext(t *testing.T) {
	p := NewManualPacer()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- p.Wait(ctx) }()

	require.Eventually(t, func() bool { return p.Waiting() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Zero(t, p.Passed())
}

func TestManualPacer_StepHonoursContext(t *testing.T) {
	p := NewManualPacer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Step(ctx, 1), context.Canceled)
}
