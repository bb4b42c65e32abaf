package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"humanlayer/hlyr/pkg/cli"
	"humanlayer/hlyr/pkg/providerfactory"
	"humanlayer/hlyr/pkg/providers"
	"humanlayer/hlyr/pkg/telemetry/health"
)

var providersFlags struct {
	check   bool
	probe   bool
	timeout time.Duration
	output  string
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported providers",
	Long: `List every supported provider with its configured model.

With --check, each provider is initialized with its configured settings and
reported ready or not. --probe additionally asks the Ollama server whether the
configured model is available. The command fails if the active or failover
provider is not ready.

Examples:
  hlyr providers
  hlyr providers --check --probe`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().BoolVar(&providersFlags.check, "check", false, "check that each provider can be initialized")
	providersCmd.Flags().BoolVar(&providersFlags.probe, "probe", false, "with --check, contact the Ollama server")
	providersCmd.Flags().DurationVar(&providersFlags.timeout, "timeout", 5*time.Second, "timeout per check")
	providersCmd.Flags().StringVarP(&providersFlags.output, "output", "o", "text", "output format: text, json, yaml")
}

func runProviders(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(providersFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err)
	}

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	var results map[string]health.CheckResult
	if providersFlags.check || providersFlags.probe {
		checker := health.New(providersFlags.timeout)
		health.RegisterProviderChecks(checker, cfg, health.ProviderCheckOptions{Probe: providersFlags.probe})
		report := checker.Run(cmd.Context())

		results = make(map[string]health.CheckResult, len(report.Checks))
		for _, result := range report.Checks {
			results[result.Name] = result
		}
	}

	headers := []string{"ID", "Name", "Model", "Streaming", "Role"}
	if results != nil {
		headers = append(headers, "Status", "Message")
	}
	table := cli.NewTable(headers...)

	registry := providerfactory.NewRegistry()
	var notReady []providers.ProviderID
	for _, id := range registry.IDs() {
		adapter, err := registry.Lookup(id)
		if err != nil {
			return err
		}
		settings, _ := cfg.Providers.Get(id)

		role := ""
		switch id {
		case cfg.ActiveProvider:
			role = "active"
		case cfg.FailoverProvider:
			role = "failover"
		}

		row := []string{
			string(id),
			adapter.GetName(),
			settings.Model,
			yesNo(adapter.Capabilities().Streaming),
			role,
		}
		if results != nil {
			result := results[string(id)]
			row = append(row, result.Status, result.Message)
			if role != "" && !result.Healthy() {
				notReady = append(notReady, id)
			}
		}
		table.Append(row...)
	}

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table); err != nil {
		return err
	}
	if len(notReady) > 0 {
		return cli.NewCommandError("providers", fmt.Errorf("providers not ready: %v", notReady))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
