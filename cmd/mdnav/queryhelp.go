package main

import (
	"github.com/spf13/cobra"

	"mdnav-hq/mdnav/pkg/cli"
	"mdnav-hq/mdnav/pkg/tql/functions"
)

var queryHelpCmd = &cobra.Command{
	Use:     "query-help",
	Aliases: []string{"functions"},
	Short:   "Print the query language reference",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.WriteQueryHelp(cmd.OutOrStdout(), functions.Default())
	},
}

func init() {
	rootCmd.AddCommand(queryHelpCmd)
}
