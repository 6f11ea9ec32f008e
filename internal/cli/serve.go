package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/roach88/algotrace/internal/engine"
	"github.com/roach88/algotrace/internal/store"
	"github.com/roach88/algotrace/internal/traceapi"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr      string
	Database  string
	Delay     time.Duration
	LogFormat string // "json" | "text"
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sort and search engines over HTTP",
		Long: `Start the HTTP twin of the engines.

Routes:
  POST /sort/{algorithm}        sort a list of numbers
  GET  /sort/algorithms         list served sort algorithms
  POST /search/{algorithm}      search a grid
  POST /maze                    generate and solve a maze
  GET  /stream/sort/{algorithm} stream a sort over a websocket
  GET  /runs                    list journaled runs
  GET  /metrics                 Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.

Examples:
  algotrace serve
  algotrace serve --addr :9000 --db ./runs.db --log-format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", traceapi.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.Database, "db", store.MemoryPath, "path to SQLite run journal")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "default per-step delay of /stream (max 1s)")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "text", "server log format (json|text)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.LogFormat != "json" && opts.LogFormat != "text" {
		return commandError(formatter, ErrCodeBadInput, fmt.Sprintf("invalid log format %q: must be json or text", opts.LogFormat), nil)
	}
	if opts.Delay < 0 || opts.Delay > traceapi.MaxStreamDelay {
		return commandError(formatter, ErrCodeBadInput, fmt.Sprintf("--delay must be between 0 and %s", traceapi.MaxStreamDelay), nil)
	}
	configureServerLogging(cmd, opts.LogFormat, opts.Verbose)
	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return commandError(formatter, ErrCodeDatabase, "failed to open database", err)
	}
	defer closeJournal(st)

	ctx, stop := signalContext(cmd)
	defer stop()

	seq, err := st.MaxSeq(ctx)
	if err != nil {
		return commandError(formatter, ErrCodeDatabase, "failed to read journal", err)
	}

	svc := traceapi.NewService(
		traceapi.WithJournal(st),
		traceapi.WithClock(engine.NewClockAt(seq)),
		traceapi.WithStreamDelay(opts.Delay),
	)

	slog.Info("starting server",
		"addr", opts.Addr,
		"db", opts.Database,
		"resume_seq", seq,
	)
	if err := traceapi.ListenAndServe(ctx, opts.Addr, traceapi.NewRouter(svc)); err != nil {
		return commandError(formatter, ErrCodeGeneric, "server failed", err)
	}
	return nil
}

// configureServerLogging replaces the default logger with one at Info
// level, since request logs are the point of a running server.
func configureServerLogging(cmd *cobra.Command, format string, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), handlerOpts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}
