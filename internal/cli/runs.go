package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/algotrace/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database  string
	Kind      string
	Algorithm string
	Limit     int
}

// RunsResult is the JSON payload of the runs command.
type RunsResult struct {
	Runs  []store.Run `json:"runs"`
	Count int         `json:"count"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List journaled runs",
		Long: `List journaled runs, newest first.

Examples:
  algotrace runs --db ./runs.db
  algotrace runs --db ./runs.db --kind sort --algorithm bogo
  algotrace runs --db ./runs.db --limit 10 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only list runs of this kind (sort|search)")
	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", "", "only list runs of this algorithm")
	cmd.Flags().IntVar(&opts.Limit, "limit", store.DefaultListLimit, "maximum number of runs to list")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	kind := store.Kind(opts.Kind)
	if kind != "" && kind != store.KindSort && kind != store.KindSearch {
		return commandError(formatter, ErrCodeBadInput, fmt.Sprintf("invalid kind %q: must be sort or search", opts.Kind), nil)
	}
	if opts.Limit < 1 {
		return commandError(formatter, ErrCodeBadInput, "--limit must be positive", nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return commandError(formatter, ErrCodeDatabase, "failed to open database", err)
	}
	defer closeJournal(st)

	runs, err := st.ListRuns(context.Background(), store.ListFilter{
		Kind:      kind,
		Algorithm: opts.Algorithm,
		Limit:     opts.Limit,
	})
	if err != nil {
		return commandError(formatter, ErrCodeDatabase, "failed to list runs", err)
	}
	if runs == nil {
		runs = []store.Run{}
	}

	if formatter.JSON() {
		return formatter.Respond(CLIResponse{Status: "ok", Data: RunsResult{Runs: runs, Count: len(runs)}})
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}
	fmt.Fprintf(w, "%-36s %6s %-6s %-10s %-9s %-7s %6s\n", "RUN", "SEQ", "KIND", "ALGORITHM", "STATE", "RESULT", "STEPS")
	for _, r := range runs {
		result := "ok"
		if !r.Success {
			result = string(r.Reason)
			if result == "" {
				result = "failed"
			}
		}
		fmt.Fprintf(w, "%-36s %6d %-6s %-10s %-9s %-7s %6d\n", r.ID, r.Seq, r.Kind, r.Algorithm, r.State, result, r.Steps)
	}
	fmt.Fprintf(w, "\n%d run(s)\n", len(runs))
	return nil
}
