package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/search"
	"github.com/roach88/algotrace/internal/sorting"
	"github.com/roach88/algotrace/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Delay    time.Duration

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// WorkloadResult holds the results of every case of one workload.
type WorkloadResult struct {
	Runs       []RunSummary `json:"runs"`
	Total      int          `json:"total"`
	Successful int          `json:"successful"`
	Cancelled  int          `json:"cancelled"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <workload-dir>",
		Short: "Run every case of a workload",
		Long: `Compile the CUE workload of a directory and run every sort, search and
maze case in declaration order.

With --db each finished run is recorded in the SQLite run journal so it can
later be listed, traced and replayed. Ctrl-C cancels the case in flight;
the cancelled run is still journaled.

Example:
  algotrace run ./workloads
  algotrace run --db ./runs.db ./workloads --delay 5ms`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkload(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (optional)")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "delay between recorded steps")

	return cmd
}

func runWorkload(opts *RunOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Compile workload
	slog.Info("compiling workload", "dir", dir)
	loadResult, loadErrors := LoadWorkloads(dir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return commandError(formatter, loadErr.Code, "failed to compile workload", loadErr)
		}
		return commandError(formatter, ErrCodeGeneric, "failed to compile workload", loadErrors[0])
	}
	w := loadResult.Workload
	slog.Info("workload compiled", "sorts", len(w.Sorts), "searches", len(w.Searches), "mazes", len(w.Mazes))

	st, err := openJournal(opts.Database)
	if err != nil {
		return commandError(formatter, ErrCodeDatabase, "failed to open database", err)
	}
	defer closeJournal(st)

	ctx, stop := signalContext(cmd)
	defer stop()

	ex, err := newExecutor(ctx, st, opts.RunIDs)
	if err != nil {
		return commandError(formatter, ErrCodeDatabase, "failed to read journal", err)
	}

	result := WorkloadResult{Runs: make([]RunSummary, 0, w.Len()), Total: w.Len()}
	record := func(s RunSummary) {
		result.Runs = append(result.Runs, s)
		if s.Success {
			result.Successful++
		}
		if s.Reason == ir.ReasonCancelled {
			result.Cancelled++
		}
		if !formatter.JSON() {
			printRunLine(formatter.Writer, s)
		}
	}

	pacer := engine.NewPacer(opts.Delay)
	for _, c := range w.Sorts {
		r, err := ex.runSort(ctx, ex.newSortHandle(), c, sorting.WithPacer(pacer))
		if err != nil {
			return runFailed(formatter, fmt.Sprintf("sort case %s failed to start", c.Name), err)
		}
		record(newSummary(c.Name, r.Run, r.Outcome))
	}
	for _, c := range w.Searches {
		r, err := ex.runSearch(ctx, ex.newSearchHandle(), c, search.WithPacer(pacer))
		if err != nil {
			return runFailed(formatter, fmt.Sprintf("search case %s failed to start", c.Name), err)
		}
		record(newSummary(c.Name, r.Run, r.Outcome))
	}
	for _, c := range w.Mazes {
		r, err := ex.runMaze(ctx, ex.newSearchHandle(), c, search.WithPacer(pacer))
		if err != nil {
			return runFailed(formatter, fmt.Sprintf("maze case %s failed to start", c.Name), err)
		}
		record(newSummary(c.Name, r.Run, r.Outcome))
	}

	if formatter.JSON() {
		return formatter.Respond(CLIResponse{Status: "ok", Data: result})
	}

	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "Run Summary: %d successful, %d unsuccessful, %d total\n",
		result.Successful, result.Total-result.Successful, result.Total)
	if result.Cancelled > 0 {
		fmt.Fprintf(formatter.Writer, "  %d run(s) cancelled\n", result.Cancelled)
	}
	return nil
}

// printRunLine writes the one-line text form of a run summary.
func printRunLine(w io.Writer, s RunSummary) {
	status := "✓"
	if !s.Success {
		status = "✗"
	}
	label := s.Name
	if label == "" {
		label = s.RunID
	}
	fmt.Fprintf(w, "%s %s/%s (%s): %d steps", status, s.Kind, label, s.Algorithm, s.Steps)
	if s.Reason != ir.ReasonNone {
		fmt.Fprintf(w, ", %s", s.Reason)
	}
	if s.Kind == store.KindSearch && s.Success {
		fmt.Fprintf(w, ", path %d, visited %d", len(s.Path), s.Visited)
	}
	fmt.Fprintln(w)
}

// signalContext returns the command context cancelled on SIGINT/SIGTERM.
// Uses the command's context if available (for testing).
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
