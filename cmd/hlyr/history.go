package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"humanlayer/hlyr/pkg/cli"
	"humanlayer/hlyr/pkg/history"
	"humanlayer/hlyr/pkg/history/export"
	"humanlayer/hlyr/pkg/history/retention"
	"humanlayer/hlyr/pkg/history/storage"
)

var historyFlags struct {
	session  string
	provider string
	status   string
	since    time.Duration
	limit    int
	output   string
	format   string
	file     string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the chat history journal",
	Long: `List, show, export, and prune the turns recorded by chat.

Turns are recorded when history.enabled is set in humanlayer.yml (or
HUMANLAYER_HISTORY_ENABLED=true). The journal is a SQLite database at
history.path.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded turns, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Print the conversation of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded turns as JSON, JSON lines, or CSV",
	Long: `Export recorded turns, oldest first.

Examples:
  hlyr history export --format csv --file turns.csv
  hlyr history export --session 6f1c2a9e-... --format jsonl`,
	Args: cobra.NoArgs,
	RunE: runHistoryExport,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply history.retention now",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyExportCmd, historyPruneCmd)

	for _, cmd := range []*cobra.Command{historyListCmd, historyExportCmd} {
		cmd.Flags().StringVar(&historyFlags.session, "session", "", "only turns of this session")
		cmd.Flags().StringVar(&historyFlags.provider, "provider", "", "only turns sent to or answered by this provider")
		cmd.Flags().StringVar(&historyFlags.status, "status", "", "only turns with this status: success, error")
		cmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only turns newer than this (e.g. 24h)")
	}
	historyListCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of turns (0 for all)")
	historyListCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "text", "output format: text, json, yaml")
	historyExportCmd.Flags().StringVar(&historyFlags.format, "format", export.FormatJSON, "export format: json, jsonl, csv")
	historyExportCmd.Flags().StringVarP(&historyFlags.file, "file", "f", "", "write to this file instead of stdout")
}

// openHistory opens the configured journal.
func openHistory() (history.Storage, error) {
	cfg, err := loadConfig(false)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.History)
	if err != nil {
		return nil, cli.NewCommandError("history", err)
	}
	return store, nil
}

func historyQuery() (*history.Query, error) {
	switch historyFlags.status {
	case "", history.StatusSuccess, history.StatusError:
	default:
		return nil, cli.NewConfigError("status", fmt.Errorf("unknown status %q (valid: success, error)", historyFlags.status))
	}

	query := &history.Query{
		SessionID: historyFlags.session,
		Provider:  historyFlags.provider,
		Status:    historyFlags.status,
	}
	if historyFlags.since > 0 {
		start := time.Now().Add(-historyFlags.since)
		query.StartTime = &start
	}
	return query, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(historyFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err)
	}
	query, err := historyQuery()
	if err != nil {
		return err
	}
	query.Limit = historyFlags.limit

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	turns, err := store.Query(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	table := cli.NewTable("Session", "When", "Provider", "Status", "Latency", "Prompt")
	for _, turn := range turns {
		provider := turn.Provider
		if provider == "" {
			provider = turn.ActiveProvider
		}
		status := history.StatusSuccess
		if !turn.Succeeded() {
			status = history.StatusError
		}
		table.Append(
			turn.SessionID,
			humanize.Time(turn.Timestamp),
			provider,
			status,
			turn.Latency.Round(time.Millisecond).String(),
			truncate(turn.Prompt, 48),
		)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	turns, err := history.LoadSession(cmd.Context(), store, args[0])
	if err != nil {
		return cli.NewCommandError("history show", err)
	}
	if len(turns) == 0 {
		return cli.NewCommandError("history show", fmt.Errorf("session %s not found", args[0]))
	}

	out := cmd.OutOrStdout()
	for _, turn := range turns {
		fmt.Fprintf(out, "> %s\n", turn.Prompt)
		if turn.Reply != "" {
			fmt.Fprintln(out, turn.Reply)
		}
		if turn.Error != "" {
			fmt.Fprintf(out, "[error] %s\n", turn.Error)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) (err error) {
	exporter, err := export.New(historyFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err)
	}
	query, err := historyQuery()
	if err != nil {
		return err
	}
	query.Ascending = true

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	turns, err := store.Query(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("history export", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if historyFlags.file != "" {
		f, createErr := os.Create(historyFlags.file)
		if createErr != nil {
			return cli.NewCommandError("history export", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		w = f
	}

	if err := exporter.Export(cmd.Context(), turns, w); err != nil {
		return cli.NewCommandError("history export", err)
	}
	if historyFlags.file != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d turns to %s\n", len(turns), historyFlags.file)
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	pruner := retention.NewPruner(nil, cfg.History.Retention)
	if !pruner.Enabled() {
		fmt.Fprintln(cmd.OutOrStdout(), "No retention limits configured (history.retention.maxAge, history.retention.maxTurns)")
		return nil
	}

	store, err := storage.Open(cfg.History)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	defer store.Close()

	deleted, err := retention.NewPruner(store, cfg.History.Retention).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d turns\n", deleted)
	return nil
}

// truncate shortens s to n runes on one line.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
