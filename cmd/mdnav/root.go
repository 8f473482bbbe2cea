package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mdnav-hq/mdnav/pkg/cli"
	"mdnav-hq/mdnav/pkg/config"
	"mdnav-hq/mdnav/pkg/telemetry/logging"
	"mdnav-hq/mdnav/pkg/tql/functions"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	queryHelp bool
)

var rootCmd = &cobra.Command{
	Use:   "mdnav",
	Short: "mdnav - query markdown documents like data",
	Long: `mdnav navigates markdown documents with a jq-like query language.

Queries select document elements (headings, code blocks, links, images,
tables, lists), scope them by section, and transform the results with
pipes and built-in functions.

Run 'mdnav query-help' for the query language reference.`,
	Version:           Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		if queryHelp {
			return cli.WriteQueryHelp(cmd.OutOrStdout(), functions.Default())
		}
		return cmd.Help()
	},
}

// queryFailure carries the query text with an error so Execute can print a
// caret diagnostic.
type queryFailure struct {
	query string
	err   error
}

func (e *queryFailure) Error() string { return e.err.Error() }
func (e *queryFailure) Unwrap() error { return e.err }

// Execute runs the root command and exits 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func reportError(w io.Writer, err error) {
	var qf *queryFailure
	if errors.As(err, &qf) {
		fmt.Fprint(w, cli.DescribeError(qf.err, qf.query))
		return
	}
	fmt.Fprint(w, cli.DescribeError(err, ""))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.Flags().BoolVar(&queryHelp, "query-help", false, "print the query language reference")
}

// loadConfig initializes the global configuration and the default logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Initialize(cfgFile)
	if err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())
	return nil
}

func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	logCfg := cfg.Telemetry.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	return logging.New(logging.FromConfig(logCfg, w))
}

// commandContext returns cmd's context, or Background when the command was
// not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
