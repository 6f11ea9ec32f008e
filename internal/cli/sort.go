package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/sorting"
)

// SortOptions holds flags for the sort command.
type SortOptions struct {
	*RootOptions
	Database    string
	Seed        int64
	Delay       time.Duration
	MaxAttempts int
	Play        bool
	Snapshots   bool

	// RunIDs allows overriding the run ID generator (for testing).
	RunIDs engine.RunIDGenerator
}

// SortResult is the JSON payload of the sort command.
type SortResult struct {
	RunSummary
	Input     []int64           `json:"input"`
	Order     []int             `json:"order,omitempty"`
	History   [][]int64         `json:"history"`
	Snapshots []ir.SortSnapshot `json:"snapshots,omitempty"`
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SortOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sort <algorithm> <numbers...>",
		Short: "Run one sort algorithm and report its trace",
		Long: `Run one instrumented sort on the given integers.

Numbers may be given as separate arguments or comma-separated. With --play
every snapshot is drawn as it is recorded: '*' marks indices being compared
or swapped, '^' the pivot or running minimum, '=' settled indices.

Algorithms: selection, bubble, insertion, merge, quick, heap, bogo.

Examples:
  algotrace sort bubble 5 3 8 1
  algotrace sort quick 9,4,7,1,3 --play --delay 50ms
  algotrace sort bogo 3 1 2 --seed 7 --max-attempts 100
  algotrace sort merge 4 2 3 1 --format json --snapshots`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSortCommand(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (optional)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed for the bogo sort shuffle")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "delay between recorded steps")
	cmd.Flags().IntVar(&opts.MaxAttempts, "max-attempts", engine.DefaultMaxAttempts, "bogo sort shuffle cap")
	cmd.Flags().BoolVar(&opts.Play, "play", false, "draw every snapshot while the sort runs")
	cmd.Flags().BoolVar(&opts.Snapshots, "snapshots", false, "include every snapshot in JSON output")

	return cmd
}

func runSortCommand(opts *SortOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	numbers, err := parseNumbers(args[1:])
	if err != nil {
		return commandError(formatter, ErrCodeBadInput, "invalid numbers", err)
	}
	c := ir.SortCase{Name: "cli", Algorithm: args[0], Numbers: numbers, Seed: opts.Seed}

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

	h := ex.newSortHandle()
	sortOpts := []sorting.Option{
		sorting.WithPacer(engine.NewPacer(opts.Delay)),
		sorting.WithMaxAttempts(opts.MaxAttempts),
	}

	var r *sortRun
	frame := func(index int, s ir.SortSnapshot) { renderSortFrame(formatter.Writer, index, s) }
	err = playLive(ctx, h, opts.Play && !formatter.JSON(), frame, func(ctx context.Context) error {
		var err error
		r, err = ex.runSort(ctx, h, c, sortOpts...)
		return err
	})
	if err != nil {
		return runFailed(formatter, "sort failed to start", err)
	}

	summary := newSummary("", r.Run, r.Outcome)
	snaps := r.Handle.Snapshots()
	result := SortResult{
		RunSummary: summary,
		Input:      numbers,
		Order:      r.Outcome.Order,
		History:    milestoneValues(snaps),
	}
	if opts.Snapshots {
		result.Snapshots = snaps
	}

	return reportRun(formatter, summary, result, func() {
		fmt.Fprintf(formatter.Writer, "  input: %v\n", numbers)
		fmt.Fprintf(formatter.Writer, "  final: %v\n", r.Outcome.Final)
	})
}

// milestoneValues returns the values of every milestone snapshot.
func milestoneValues(snaps []ir.SortSnapshot) [][]int64 {
	history := [][]int64{}
	for _, s := range sorting.Milestones(snaps) {
		history = append(history, s.Values)
	}
	return history
}

// parseNumbers accepts integers as separate arguments, comma-separated, or
// both.
func parseNumbers(args []string) ([]int64, error) {
	numbers := []int64{}
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer", field)
			}
			numbers = append(numbers, n)
		}
	}
	return numbers, nil
}
