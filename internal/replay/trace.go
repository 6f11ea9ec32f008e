// Package replay steps, scrubs and plays back a recorded trace.
//
// A Controller works the same on a finished trace and on one that is still
// growing: playback never reads past the current length and waits at the
// frontier until the run appends more or ends.
package replay

// Trace is the read side of a recording. *engine.RunHandle satisfies it.
type Trace[S any] interface {
	Len() int
	At(i int) S
	// Updated returns a channel closed at the next append or when the
	// trace ends.
	Updated() <-chan struct{}
	// Done returns a channel closed once the trace will not grow again.
	Done() <-chan struct{}
}

var closed = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

type staticTrace[S any] struct {
	snapshots []S
}

// Static adapts a finished slice of snapshots to a Trace.
func Static[S any](snapshots []S) Trace[S] {
	return staticTrace[S]{snapshots: snapshots}
}

func (t staticTrace[S]) Len() int                 { return len(t.snapshots) }
func (t staticTrace[S]) At(i int) S               { return t.snapshots[i] }
func (t staticTrace[S]) Updated() <-chan struct{} { return closed }
func (t staticTrace[S]) Done() <-chan struct{}    { return closed }
