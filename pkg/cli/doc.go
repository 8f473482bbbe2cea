/*
Package cli provides command-line helpers for the mdnav command.

Output Formatting:

Query results are rendered by a Formatter chosen from an OutputFormat:

	format, err := cli.ParseFormat("jsonp")
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, results); err != nil {
		return err
	}

The formats are plain, json, json-pretty (alias jsonp), jsonl, md, tree and
yaml. An empty result set renders nothing.

Errors:

DescribeError prints query errors with a caret pointing into the query:

	[unknown_function] "cunt"
	  |
	1 | .h | cunt
	  |      ^^^^
	  = suggestion: did you mean 'count'?

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, cancel := cli.SetupSignalHandler(cmd.Context())
	defer cancel()
*/
package cli
