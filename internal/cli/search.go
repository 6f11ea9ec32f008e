package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/search"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Database  string
	File      string
	Delay     time.Duration
	Play      bool
	Snapshots bool

	// RunIDs allows overriding the run ID generator (for testing).
	RunIDs engine.RunIDGenerator
}

// SearchResult is the JSON payload of the search and maze commands.
type SearchResult struct {
	RunSummary
	Grid       []string            `json:"grid"`
	VisitOrder []ir.Coord          `json:"visit_order"`
	Snapshots  []ir.SearchSnapshot `json:"snapshots,omitempty"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <algorithm> [rows...]",
		Short: "Run one grid search and report its trace",
		Long: `Run one instrumented grid search from S to E.

Grid rows use '.' for empty, '#' for wall, 'S' for start and 'E' for end.
Rows are given as arguments or read from --file (one row per line).
With --play every frontier pop is drawn as it is recorded: '@' marks the
popped cell, '+' the frontier and 'o' visited cells.

Algorithms: bfs, dfs, dijkstra, astar, swarm.

Examples:
  algotrace search bfs "S.." "..." "..E"
  algotrace search astar --file grid.txt --play --delay 30ms
  algotrace search compare --file grid.txt`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearchCommand(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (optional)")
	cmd.Flags().StringVar(&opts.File, "file", "", "read grid rows from a file")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "delay between recorded steps")
	cmd.Flags().BoolVar(&opts.Play, "play", false, "draw every snapshot while the search runs")
	cmd.Flags().BoolVar(&opts.Snapshots, "snapshots", false, "include every snapshot in JSON output")

	cmd.AddCommand(newSearchCompareCommand(rootOpts))

	return cmd
}

func runSearchCommand(opts *SearchOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	lines, err := gridRows(args[1:], opts.File)
	if err != nil {
		return commandError(formatter, ErrCodeBadInput, "invalid grid", err)
	}
	c := ir.SearchCase{Name: "cli", Algorithm: args[0], Grid: lines}

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

	h := ex.newSearchHandle()
	var r *searchRun
	frame := func(index int, s ir.SearchSnapshot) { renderSearchFrame(formatter.Writer, lines, index, s) }
	err = playLive(ctx, h, opts.Play && !formatter.JSON(), frame, func(ctx context.Context) error {
		var err error
		r, err = ex.runSearch(ctx, h, c, search.WithPacer(engine.NewPacer(opts.Delay)))
		return err
	})
	if err != nil {
		return runFailed(formatter, "search failed to start", err)
	}

	return reportSearch(formatter, r, opts.Snapshots)
}

// reportSearch prints a finished search or maze run.
func reportSearch(f *OutputFormatter, r *searchRun, withSnapshots bool) error {
	summary := newSummary("", r.Run, r.Outcome)
	result := SearchResult{
		RunSummary: summary,
		Grid:       r.Lines,
		VisitOrder: r.Outcome.VisitOrder,
	}
	if withSnapshots {
		result.Snapshots = r.Handle.Snapshots()
	}

	return reportRun(f, summary, result, func() {
		if r.Outcome.Success {
			renderPath(f.Writer, r.Lines, r.Outcome.Path)
		}
	})
}

// gridRows returns the rows given as arguments, or the non-blank lines of
// file when set.
func gridRows(args []string, file string) ([]string, error) {
	if file == "" {
		if len(args) == 0 {
			return nil, fmt.Errorf("no grid rows given")
		}
		return args, nil
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("grid rows and --file are mutually exclusive")
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			rows = append(rows, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no grid rows", file)
	}
	return rows, nil
}

// CompareOptions holds flags for the search compare command.
type CompareOptions struct {
	*RootOptions
	Database   string
	File       string
	Algorithms []string

	// RunIDs allows overriding the run ID generator (for testing).
	RunIDs engine.RunIDGenerator
}

// CompareResult is the JSON payload of search compare.
type CompareResult struct {
	Grid []string     `json:"grid"`
	Runs []RunSummary `json:"runs"`
}

func newSearchCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare [rows...]",
		Short: "Run several search algorithms on the same grid",
		Long: `Run several search algorithms concurrently on the same grid and compare
path length, visited cells and expansions. Each algorithm gets its own run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args, cmd)
		},
	}

	names := make([]string, 0, len(search.Algorithms()))
	for _, a := range search.Algorithms() {
		names = append(names, string(a))
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (optional)")
	cmd.Flags().StringVar(&opts.File, "file", "", "read grid rows from a file")
	cmd.Flags().StringSliceVar(&opts.Algorithms, "algorithms", names, "algorithms to compare")

	return cmd
}

func runCompare(opts *CompareOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	lines, err := gridRows(args, opts.File)
	if err != nil {
		return commandError(formatter, ErrCodeBadInput, "invalid grid", err)
	}
	algs := make([]search.Algorithm, 0, len(opts.Algorithms))
	for _, name := range opts.Algorithms {
		a, err := search.ParseAlgorithm(name)
		if err != nil {
			return commandError(formatter, ErrCodeAlgorithm, "invalid algorithm", err)
		}
		algs = append(algs, a)
	}

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

	// Handles are created up front so seqs follow the requested order.
	handles := make([]*search.Handle, len(algs))
	for i := range algs {
		handles[i] = ex.newSearchHandle()
	}

	summaries := make([]RunSummary, len(algs))
	g, gctx := errgroup.WithContext(ctx)
	for i, alg := range algs {
		g.Go(func() error {
			c := ir.SearchCase{Name: string(alg), Algorithm: string(alg), Grid: lines}
			r, err := ex.runSearch(gctx, handles[i], c)
			if err != nil {
				return fmt.Errorf("%s: %w", alg, err)
			}
			summaries[i] = newSummary(string(alg), r.Run, r.Outcome)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return runFailed(formatter, "search failed to start", err)
	}

	if formatter.JSON() {
		return formatter.Respond(CLIResponse{Status: "ok", Data: CompareResult{Grid: lines, Runs: summaries}})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%-10s %-8s %6s %8s %9s %6s\n", "ALGORITHM", "RESULT", "PATH", "VISITED", "EXPANDED", "STEPS")
	for _, s := range summaries {
		result := "found"
		if !s.Success {
			result = string(s.Reason)
		}
		fmt.Fprintf(w, "%-10s %-8s %6d %8d %9d %6d\n",
			s.Algorithm, result, len(s.Path), s.Visited, s.Metrics.Expanded, s.Steps)
	}
	return nil
}
