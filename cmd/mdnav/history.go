package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mdnav-hq/mdnav/pkg/cli"
	"mdnav-hq/mdnav/pkg/config"
	"mdnav-hq/mdnav/pkg/history"
	"mdnav-hq/mdnav/pkg/history/storage"
	"mdnav-hq/mdnav/pkg/tql/value"
)

var historyFlags struct {
	limit  int
	status string
	format string
	clear  bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently run queries",
	Long: `List recorded query executions, newest first.

Examples:
  mdnav history
  mdnav history --status error --limit 5
  mdnav history --format json
  mdnav history --clear`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of entries to show")
	historyCmd.Flags().StringVar(&historyFlags.status, "status", "", "only show entries with this status (success, error)")
	historyCmd.Flags().StringVarP(&historyFlags.format, "format", "f", "", "output format; a table when empty")
	historyCmd.Flags().BoolVar(&historyFlags.clear, "clear", false, "delete all recorded entries")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := config.Current()
	if !cfg.History.Enabled {
		return cli.NewCommandError("history", fmt.Errorf("query history is disabled (history.enabled: false)"))
	}
	switch historyFlags.status {
	case "", history.StatusSuccess, history.StatusError:
	default:
		return cli.NewCommandError("history", fmt.Errorf("invalid status %q (valid: %s, %s)",
			historyFlags.status, history.StatusSuccess, history.StatusError))
	}

	var formatter cli.Formatter
	if historyFlags.format != "" {
		format, err := cli.ParseFormat(historyFlags.format)
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		formatter = cli.NewFormatter(format)
	}

	ctx := commandContext(cmd)
	store, err := storage.Open(cfg.History, nil)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if historyFlags.clear {
		n, err := store.Delete(ctx, &history.Filter{})
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		fmt.Fprintf(out, "Deleted %d entries\n", n)
		return nil
	}

	entries, err := store.List(ctx, &history.Filter{
		Status: historyFlags.status,
		Limit:  historyFlags.limit,
	})
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if formatter != nil {
		values := make([]value.Value, len(entries))
		for i, e := range entries {
			values[i] = e.Value()
		}
		return formatter.FormatTo(out, values)
	}
	return writeHistoryTable(out, entries)
}

func writeHistoryTable(w io.Writer, entries []*history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No queries recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSOURCE\tSTATUS\tRESULTS\tDURATION\tQUERY")
	for _, e := range entries {
		status := e.Status
		if e.ErrorKind != "" {
			status += " (" + e.ErrorKind + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Source,
			status,
			e.ResultCount,
			e.Duration.Round(time.Microsecond),
			e.Query,
		)
	}
	return tw.Flush()
}
