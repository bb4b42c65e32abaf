package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"humanlayer/hlyr/pkg/cli"
	"humanlayer/hlyr/pkg/config"
	"humanlayer/hlyr/pkg/providers/ollama"
)

var modelsFlags struct {
	host   string
	output string
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage models on the Ollama server",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models available on the Ollama server",
	Args:  cobra.NoArgs,
	RunE:  runModelsList,
}

var modelsPullCmd = &cobra.Command{
	Use:   "pull <model>",
	Short: "Download a model to the Ollama server",
	Long: `Download a model and wait until the pull finishes.

Examples:
  hlyr models pull llama3.2
  hlyr models pull qwen2.5:7b --host http://gpu-box:11434`,
	Args: cobra.ExactArgs(1),
	RunE: runModelsPull,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd, modelsPullCmd)

	modelsCmd.PersistentFlags().StringVar(&modelsFlags.host, "host", "", "Ollama server (default: providers.ollama.host)")
	modelsListCmd.Flags().StringVarP(&modelsFlags.output, "output", "o", "text", "output format: text, json, yaml")
}

// modelManager returns a manager for --host or the configured Ollama host.
func modelManager() (*ollama.ModelManager, *config.Config, error) {
	cfg, err := loadConfig(false)
	if err != nil {
		return nil, nil, err
	}
	host := modelsFlags.host
	if host == "" {
		host = cfg.Providers.Ollama.ProviderConfig().BaseURL
	}
	return ollama.NewModelManager(host), cfg, nil
}

func runModelsList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(modelsFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err)
	}

	manager, cfg, err := modelManager()
	if err != nil {
		return err
	}

	models, err := manager.ListModels(cmd.Context())
	if err != nil {
		return cli.NewCommandError("models list", err)
	}

	table := cli.NewTable("Name", "Size", "Parameters", "Modified", "Active")
	for _, m := range models {
		active := ""
		if ollama.SameModel(m.Name, cfg.Providers.Ollama.Model) {
			active = "*"
		}
		table.Append(
			m.Name,
			humanize.Bytes(uint64(max(m.Size, 0))),
			m.Details.ParameterSize,
			modified(m.ModifiedAt),
			active,
		)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table)
}

func modified(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func runModelsPull(cmd *cobra.Command, args []string) error {
	manager, _, err := modelManager()
	if err != nil {
		return err
	}

	name := args[0]
	fmt.Fprintf(cmd.OutOrStdout(), "Pulling %s...\n", name)
	if err := manager.DownloadModel(cmd.Context(), name); err != nil {
		return cli.NewCommandError("models pull", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pulled %s\n", name)
	return nil
}
