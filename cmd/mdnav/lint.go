package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mdnav-hq/mdnav/pkg/tql/parser"
)

var lintCmd = &cobra.Command{
	Use:   "lint <query>",
	Short: "Check a query for syntax errors without running it",
	Long: `Parse a query and report syntax errors with a caret diagnostic.

Unknown functions and bad arguments are only detected when the query runs.

Examples:
  mdnav lint '.h2 | select(.level == 2)'
  mdnav lint '.h2[' # error`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	query := args[0]
	if _, err := parser.Parse(query); err != nil {
		return &queryFailure{query: query, err: err}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
