package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/search"
)

// MazeOptions holds flags for the maze command.
type MazeOptions struct {
	*RootOptions
	Database  string
	Rows      int
	Cols      int
	Seed      int64
	Algorithm string
	Delay     time.Duration
	Play      bool
	Snapshots bool

	// RunIDs allows overriding the run ID generator (for testing).
	RunIDs engine.RunIDGenerator
}

// NewMazeCommand creates the maze command.
func NewMazeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MazeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "maze",
		Short: "Generate a maze and solve it",
		Long: `Generate a maze from a seed and solve it from the top-left corner to the
bottom-right corner. The same seed always generates the same maze.

Examples:
  algotrace maze --rows 9 --cols 21 --seed 42
  algotrace maze --rows 15 --cols 15 --algorithm astar --play --delay 20ms`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMazeCommand(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (optional)")
	cmd.Flags().IntVar(&opts.Rows, "rows", 11, "maze rows")
	cmd.Flags().IntVar(&opts.Cols, "cols", 21, "maze columns")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "maze generation seed")
	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", string(search.BFS), "search algorithm used to solve the maze")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "delay between recorded steps")
	cmd.Flags().BoolVar(&opts.Play, "play", false, "draw every snapshot while the solver runs")
	cmd.Flags().BoolVar(&opts.Snapshots, "snapshots", false, "include every snapshot in JSON output")

	return cmd
}

func runMazeCommand(opts *MazeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	c := ir.MazeCase{
		Name:      "cli",
		Rows:      opts.Rows,
		Cols:      opts.Cols,
		Seed:      opts.Seed,
		Algorithm: opts.Algorithm,
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

	// Live frames need the grid before the solver runs. The same seed
	// generates the same maze again inside runMaze.
	var lines []string
	start, end := search.DefaultEndpoints(c.Rows, c.Cols)
	if opts.Play && !formatter.JSON() {
		g, err := search.GenerateMaze(c.Rows, c.Cols, start, end, search.SeededRand(c.Seed))
		if err != nil {
			return runFailed(formatter, "maze generation failed", err)
		}
		lines = g.Lines()
	}

	h := ex.newSearchHandle()
	var r *searchRun
	frame := func(index int, s ir.SearchSnapshot) { renderSearchFrame(formatter.Writer, lines, index, s) }
	err = playLive(ctx, h, opts.Play && !formatter.JSON(), frame, func(ctx context.Context) error {
		var err error
		r, err = ex.runMaze(ctx, h, c, search.WithPacer(engine.NewPacer(opts.Delay)))
		return err
	})
	if err != nil {
		return runFailed(formatter, "maze failed to start", err)
	}

	return reportSearch(formatter, r, opts.Snapshots)
}
