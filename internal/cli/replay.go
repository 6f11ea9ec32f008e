package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
	Limit    int
	Play     bool
	From     int
	Interval time.Duration
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID         string     `json:"run_id"`
	Kind          store.Kind `json:"kind"`
	Algorithm     string     `json:"algorithm"`
	Steps         int        `json:"steps"`
	TraceHash     string     `json:"trace_hash"`
	ReplayHash    string     `json:"replay_hash,omitempty"`
	Deterministic bool       `json:"deterministic"`
	Skipped       bool       `json:"skipped,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled runs and verify determinism",
		Long: `Re-execute journaled runs and verify that every trace is reproduced
byte for byte.

Each run is rebuilt from its journaled input, algorithm and seed, and the
hash of the rebuilt trace is compared with the journaled trace hash.
Cancelled runs stop at a timing-dependent step and are skipped.

With --play and --run the rebuilt trace of one run is played back in the
terminal, one snapshot per --interval, starting at --from.

Exit codes:
  0 - All runs are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  algotrace replay --db ./runs.db
  algotrace replay --db ./runs.db --run 01920000-0000-7000-8000-000000000000
  algotrace replay --db ./runs.db --run <id> --play --interval 50ms`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")
	cmd.Flags().IntVar(&opts.Limit, "limit", 1000, "maximum number of runs to verify")
	cmd.Flags().BoolVar(&opts.Play, "play", false, "play the trace of --run in the terminal")
	cmd.Flags().IntVar(&opts.From, "from", 0, "snapshot index to start playback at")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 100*time.Millisecond, "delay between played snapshots")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Play && opts.RunID == "" {
		return commandError(formatter, ErrCodeBadInput, "--play requires --run", nil)
	}

	// Open database
	st, err := store.Open(opts.Database)
	if err != nil {
		return commandError(formatter, ErrCodeDatabase, "failed to open database", err)
	}
	defer closeJournal(st)

	ctx, stop := signalContext(cmd)
	defer stop()

	// Get runs to process
	var runs []store.Run
	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, sql.ErrNoRows) {
			return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("run %s not found", opts.RunID), nil)
		}
		if err != nil {
			return commandError(formatter, ErrCodeDatabase, "failed to read run", err)
		}
		runs = []store.Run{run}
	} else {
		runs, err = st.ListRuns(ctx, store.ListFilter{Limit: opts.Limit})
		if err != nil {
			return commandError(formatter, ErrCodeDatabase, "failed to list runs", err)
		}
	}

	if opts.Play {
		return playRun(ctx, formatter, runs[0], opts)
	}

	if len(runs) == 0 {
		if formatter.JSON() {
			return outputReplayJSON(formatter, ReplayResult{
				Runs:             []ReplayRunResult{},
				AllDeterministic: true,
			})
		}
		fmt.Fprintln(formatter.Writer, "No runs found in database.")
		return nil
	}

	// Process each run
	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runs)),
		TotalRuns:        len(runs),
		AllDeterministic: true,
	}

	for _, run := range runs {
		runResult, err := replayAndVerifyRun(ctx, run)
		if err != nil {
			return commandError(formatter, ErrCodeInvalidRun, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}
		formatter.VerboseLog("replayed %s: %s", run.ID, runResult.ReplayHash)

		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	// Output results
	if formatter.JSON() {
		return outputReplayJSON(formatter, result)
	}

	return outputReplayText(formatter, result)
}

// replayAndVerifyRun rebuilds a single run and compares trace hashes.
func replayAndVerifyRun(ctx context.Context, run store.Run) (ReplayRunResult, error) {
	result := ReplayRunResult{
		RunID:     run.ID,
		Kind:      run.Kind,
		Algorithm: run.Algorithm,
		Steps:     run.Steps,
		TraceHash: run.TraceHash,
	}
	if run.State == engine.StateCancelled.String() {
		result.Skipped = true
		result.Deterministic = true
		return result, nil
	}

	sortRun, searchRun, err := rerun(ctx, run)
	if err != nil {
		return ReplayRunResult{}, err
	}
	var rebuilt store.Run
	if sortRun != nil {
		rebuilt = sortRun.Run
	} else {
		rebuilt = searchRun.Run
	}

	result.ReplayHash = rebuilt.TraceHash
	result.Deterministic = rebuilt.TraceHash == run.TraceHash && rebuilt.Steps == run.Steps
	return result, nil
}

// playRun rebuilds one run and plays it in the terminal.
func playRun(ctx context.Context, f *OutputFormatter, run store.Run, opts *ReplayOptions) error {
	if f.JSON() {
		return commandError(f, ErrCodeBadInput, "--play requires text output", nil)
	}

	sortRun, searchRun, err := rerun(ctx, run)
	if err != nil {
		return commandError(f, ErrCodeInvalidRun, fmt.Sprintf("failed to replay run %s", run.ID), err)
	}

	w := f.Writer
	if sortRun != nil {
		err = playRecorded(ctx, sortRun.Handle.Snapshots(), opts.From, opts.Interval,
			func(i int, s ir.SortSnapshot) { renderSortFrame(w, i, s) })
		if err != nil {
			return err
		}
		return reportRun(f, newSummary("", sortRun.Run, sortRun.Outcome), nil, func() {
			fmt.Fprintf(w, "  final: %v\n", sortRun.Outcome.Final)
		})
	}

	err = playRecorded(ctx, searchRun.Handle.Snapshots(), opts.From, opts.Interval,
		func(i int, s ir.SearchSnapshot) { renderSearchFrame(w, searchRun.Lines, i, s) })
	if err != nil {
		return err
	}
	return reportSearch(f, searchRun, false)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(f *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "determinism verification failed",
		}
	}

	if err := f.Respond(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(f *OutputFormatter, result ReplayResult) error {
	w := f.Writer

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s (%s %s)\n", status, run.RunID, run.Kind, run.Algorithm)

		switch {
		case run.Skipped:
			fmt.Fprintln(w, "  Skipped: cancelled runs are not reproducible")
		case f.Verbose:
			fmt.Fprintf(w, "  Steps: %d\n", run.Steps)
			fmt.Fprintf(w, "  Journaled hash: %s\n", run.TraceHash)
			fmt.Fprintf(w, "  Replayed hash:  %s\n", run.ReplayHash)
		default:
			fmt.Fprintf(w, "  Steps: %d\n", run.Steps)
		}

		if !run.Deterministic {
			fmt.Fprintln(w, "  Warning: Non-deterministic replay detected!")
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All runs verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
