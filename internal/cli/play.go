package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/replay"
)

// ErrCodeUnsuccessful marks a run that finished without success.
const ErrCodeUnsuccessful = "E_RUN_UNSUCCESSFUL"

// playLive runs the engine through run while a replay controller plays h
// as it grows, calling frame for every snapshot in order. Without play it
// just calls run.
//
// The controller is created before the engine starts so the first snapshot
// is played too.
func playLive[S any](ctx context.Context, h *engine.RunHandle[S], play bool, frame replay.FrameFunc[S],
	run func(context.Context) error) error {
	if !play {
		return run(ctx)
	}

	ctrl := replay.New[S](h, replay.WithOnFrame(frame))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return run(gctx)
	})
	g.Go(func() error {
		// The engine paces itself; playback only follows.
		if err := ctrl.Play(gctx, 0); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	return g.Wait()
}

// playRecorded plays a finished trace at the given interval, starting
// from index from. The starting frame is rendered before playback.
func playRecorded[S any](ctx context.Context, snapshots []S, from int, interval time.Duration, frame replay.FrameFunc[S]) error {
	ctrl := replay.New(replay.Static(snapshots), replay.WithOnFrame(frame))
	// ScrubTo only emits when the cursor moves off index 0.
	if ctrl.ScrubTo(from) == 0 {
		if snap, ok := ctrl.Current(); ok {
			frame(0, snap)
		}
	}
	if err := ctrl.Play(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// reportRun prints a finished run and maps an unsuccessful outcome to
// exit code 1. details is rendered after the summary in text mode and
// data replaces the summary as the JSON payload when non-nil.
func reportRun(f *OutputFormatter, s RunSummary, data any, details func()) error {
	if f.JSON() {
		if data == nil {
			data = s
		}
		resp := CLIResponse{Status: "ok", Data: data, TraceID: s.RunID}
		if !s.Success {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeUnsuccessful,
				Message: unsuccessfulMessage(s),
			}
		}
		if err := f.Respond(resp); err != nil {
			return err
		}
	} else {
		printRunLine(f.Writer, s)
		if details != nil {
			details()
		}
		m := s.Metrics
		fmt.Fprintf(f.Writer, "  comparisons %d, swaps %d, accesses %d, expanded %d, elapsed %s\n",
			m.Comparisons, m.Swaps, m.Accesses, m.Expanded, m.Elapsed)
		fmt.Fprintf(f.Writer, "  run %s (seq %d, %s)\n", s.RunID, s.Seq, s.State)
		f.VerboseLog("trace hash %s", s.TraceHash)
	}

	if !s.Success {
		return NewExitError(ExitFailure, unsuccessfulMessage(s))
	}
	return nil
}

func unsuccessfulMessage(s RunSummary) string {
	reason := s.Reason
	if reason == ir.ReasonNone {
		reason = "unsuccessful"
	}
	return fmt.Sprintf("%s run %s: %s", s.Algorithm, s.RunID, reason)
}
