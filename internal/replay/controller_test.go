package replay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
)

// frames collects OnFrame callbacks.
type frames struct {
	mu  sync.Mutex
	idx []int
}

func (f *frames) record(i int, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idx = append(f.idx, i)
}

func (f *frames) get() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.idx...)
}

func newController(trace Trace[int], f *frames) *Controller[int] {
	return New(trace, WithOnFrame[int](f.record), WithPacer[int](engine.NoDelay{}))
}

func TestController_StepClamps(t *testing.T) {
	var f frames
	c := newController(Static([]int{10, 20, 30}), &f)

	assert.Equal(t, 0, c.Step(-1))
	assert.Equal(t, 1, c.Step(+1))
	assert.Equal(t, 2, c.Step(+1))
	assert.Equal(t, 2, c.Step(+1))

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, 30, cur)

	// Moves at the bounds are no-ops and emit nothing.
	assert.Equal(t, []int{1, 2}, f.get())
}

func TestController_ScrubToClamps(t *testing.T) {
	c := newController(Static([]int{1, 2, 3, 4}), &frames{})

	assert.Equal(t, 3, c.ScrubTo(99))
	assert.Equal(t, 0, c.ScrubTo(-5))
	assert.Equal(t, 2, c.ScrubTo(2))
	assert.Equal(t, 2, c.Cursor())
}

func TestController_EmptyTrace(t *testing.T) {
	c := newController(Static[int](nil), &frames{})

	_, ok := c.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Step(1))
	assert.Equal(t, 0, c.ScrubTo(3))
	require.NoError(t, c.Play(context.Background(), time.Millisecond))
}

func TestController_PlayStaticToEnd(t *testing.T) {
	var f frames
	c := newController(Static([]int{1, 2, 3, 4, 5}), &f)

	require.NoError(t, c.Play(context.Background(), 0))
	assert.Equal(t, 4, c.Cursor())
	assert.Equal(t, []int{1, 2, 3, 4}, f.get())
	assert.False(t, c.Playing())

	// Already at the end of a finished trace.
	require.NoError(t, c.Play(context.Background(), 0))
	assert.Equal(t, []int{1, 2, 3, 4}, f.get())
}

func TestController_PlayFollowsGrowingTrace(t *testing.T) {
	h := engine.NewRunHandle[int]("live", 0)
	require.NoError(t, h.Start())

	var f frames
	c := newController(h, &f)

	played := make(chan error, 1)
	go func() { played <- c.Play(context.Background(), 0) }()

	for i := 0; i < 5; i++ {
		require.True(t, h.Append(i*10))
		time.Sleep(2 * time.Millisecond)
	}
	require.NoError(t, h.Finish(ir.Outcome{Success: true}))

	select {
	case err := <-played:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("playback did not end after the run finished")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, f.get())
	assert.Equal(t, 4, c.Cursor())
}

func TestController_StopWhileWaitingAtFrontier(t *testing.T) {
	h := engine.NewRunHandle[int]("live", 0)
	require.NoError(t, h.Start())
	require.True(t, h.Append(1))

	c := newController(h, &frames{})
	played := make(chan error, 1)
	go func() { played <- c.Play(context.Background(), 0) }()

	require.Eventually(t, c.Playing, time.Second, time.Millisecond)
	assert.True(t, c.Stop())

	select {
	case err := <-played:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not end playback")
	}
	assert.False(t, c.Playing())
	assert.False(t, c.Stop())
}

func TestController_PlayContextCancelled(t *testing.T) {
	h := engine.NewRunHandle[int]("live", 0)
	require.NoError(t, h.Start())

	c := newController(h, &frames{})
	ctx, cancel := context.WithCancel(context.Background())
	played := make(chan error, 1)
	go func() { played <- c.Play(ctx, 0) }()

	require.Eventually(t, c.Playing, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-played, context.Canceled)
}

func TestController_SecondPlayRejected(t *testing.T) {
	h := engine.NewRunHandle[int]("live", 0)
	require.NoError(t, h.Start())

	c := newController(h, &frames{})
	go func() { _ = c.Play(context.Background(), 0) }()
	require.Eventually(t, c.Playing, time.Second, time.Millisecond)

	assert.ErrorIs(t, c.Play(context.Background(), 0), ErrAlreadyPlaying)
	c.Stop()
}

func TestController_CancelledRunEndsPlayback(t *testing.T) {
	h := engine.NewRunHandle[int]("live", 0)
	require.NoError(t, h.Start())
	require.True(t, h.Append(1))
	require.True(t, h.Append(2))

	var f frames
	c := newController(h, &f)
	h.Cancel()
	require.NoError(t, h.Finish(ir.Outcome{}))

	require.NoError(t, c.Play(context.Background(), 0))
	assert.Equal(t, []int{1}, f.get())
}
