/*
Package cli provides command-line interface utilities for hlyr.

The cli package includes output formatters, exit code mapping, and signal
handling used by the hlyr command.

Output Formatting:

Command results are printed as text, JSON, or YAML:

	formatter := cli.NewFormatter(cli.FormatJSON)
	table := cli.NewTable("ID", "NAME")
	table.Append("ollama", "Ollama")
	if err := formatter.FormatTo(os.Stdout, table); err != nil {
		return err
	}

Exit Codes:

ExitCode separates configuration errors (missing API key, unknown provider,
no model) from backend failures.

Signal Handling:

For cancellation on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
