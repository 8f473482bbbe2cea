package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mdnav-hq/mdnav/pkg/cli"
	"mdnav-hq/mdnav/pkg/config"
	"mdnav-hq/mdnav/pkg/history"
	"mdnav-hq/mdnav/pkg/history/retention"
	"mdnav-hq/mdnav/pkg/history/storage"
	"mdnav-hq/mdnav/pkg/processing"
	"mdnav-hq/mdnav/pkg/watch"
)

// stdinPath selects standard input as the document.
const stdinPath = "-"

var queryFlags struct {
	format    string
	watch     bool
	noHistory bool
}

var queryCmd = &cobra.Command{
	Use:     "query <file|-> <query>",
	Aliases: []string{"q"},
	Short:   "Run a query against a markdown document",
	Long: `Run a query against a markdown file, or standard input when the file is "-".

Results are printed in the selected format. An empty result prints nothing
and exits 0; a query error prints a diagnostic and exits 1.

Examples:
  # Heading texts
  mdnav query README.md '.h2 | .text'

  # Code blocks in the Install section as raw markdown
  mdnav q README.md '.h2["Install"] >> .code' --format md

  # From stdin, as JSON
  cat notes.md | mdnav q - '[.link[external]] | count' --format json

  # Re-run whenever the file is saved
  mdnav q TODO.md '.list | .items[] | select(.checked == false)' --watch`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&queryFlags.format, "format", "f", "", "output format: plain, json, json-pretty, jsonl, md, tree, yaml (default from config)")
	queryCmd.Flags().BoolVarP(&queryFlags.watch, "watch", "w", false, "re-run the query whenever the file changes")
	queryCmd.Flags().BoolVar(&queryFlags.noHistory, "no-history", false, "do not record this run in the query history")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := config.Current()
	path, query := args[0], args[1]

	formatName := queryFlags.format
	if formatName == "" {
		formatName = cfg.Query.DefaultFormat
	}
	format, err := cli.ParseFormat(formatName)
	if err != nil {
		return cli.NewCommandError("query", err)
	}
	if queryFlags.watch && path == stdinPath {
		return cli.NewCommandError("query", fmt.Errorf("--watch needs a file, not stdin"))
	}

	ctx := commandContext(cmd)
	logger := slog.Default()

	var store history.Store
	if cfg.History.Enabled && !queryFlags.noHistory {
		store = openHistory(cfg.History, logger)
		if store != nil {
			defer store.Close()
		}
	}

	opts := []processing.Option{processing.WithLogger(logger)}
	if store != nil {
		opts = append(opts, processing.WithHistory(store))
	}
	proc := processing.NewProcessor(&cfg.Query, opts...)

	run := &queryRun{
		proc:      proc,
		formatter: cli.NewFormatter(format),
		path:      path,
		query:     query,
		out:       cmd.OutOrStdout(),
		in:        cmd.InOrStdin(),
	}

	if !queryFlags.watch {
		err := run.once(ctx, processing.SourceCLI)
		pruneHistory(ctx, store, cfg.History, logger)
		return err
	}

	ctx, cancel := cli.SetupSignalHandler(ctx)
	defer cancel()
	return run.watch(ctx, cfg.Watch, cmd.ErrOrStderr(), logger)
}

// queryRun is one query bound to one document path.
type queryRun struct {
	proc      *processing.Processor
	formatter cli.Formatter
	path      string
	query     string
	out       io.Writer
	in        io.Reader
}

// once reads the document, runs the query and prints the results.
func (r *queryRun) once(ctx context.Context, source string) error {
	content, err := r.read()
	if err != nil {
		return cli.NewCommandError("query", err)
	}

	res, err := r.proc.Process(ctx, &processing.Request{
		Content: content,
		Path:    r.path,
		Query:   r.query,
		Source:  source,
	})
	if err != nil {
		return &queryFailure{query: r.query, err: err}
	}
	return r.formatter.FormatTo(r.out, res.Values)
}

// watch prints the results once and again after every change to the file.
// Errors on re-runs are printed and watching continues; only a failure of
// the first run or of the watcher itself ends the command.
func (r *queryRun) watch(ctx context.Context, cfg config.WatchConfig, errOut io.Writer, logger *slog.Logger) error {
	if err := r.once(ctx, processing.SourceWatch); err != nil {
		return err
	}

	w, err := watch.New(watch.Config{Path: r.path, Debounce: cfg.Debounce}, logger)
	if err != nil {
		return cli.NewCommandError("query", err)
	}

	logger.Info("watching for changes", "path", r.path)
	return w.Watch(ctx, func() error {
		fmt.Fprintln(r.out, "---")
		if err := r.once(ctx, processing.SourceWatch); err != nil {
			reportError(errOut, err)
		}
		return nil
	})
}

func (r *queryRun) read() ([]byte, error) {
	if r.path == stdinPath {
		data, err := io.ReadAll(r.in)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}
	return data, nil
}

// openHistory opens the configured history store. A failure is logged and
// the query runs without history.
func openHistory(cfg config.HistoryConfig, logger *slog.Logger) history.Store {
	store, err := storage.Open(cfg, logger)
	if err != nil {
		logger.Warn("query history disabled", "error", err)
		return nil
	}
	return store
}

// pruneHistory applies retention after a CLI run so the history stays
// bounded without a running server.
func pruneHistory(ctx context.Context, store history.Store, cfg config.HistoryConfig, logger *slog.Logger) {
	if store == nil {
		return
	}
	pruner := retention.NewPruner(store, retention.FromConfig(cfg), retention.WithLogger(logger))
	if _, err := pruner.Prune(ctx); err != nil {
		logger.Warn("history pruning failed", "error", err)
	}
}
