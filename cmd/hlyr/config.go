package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"humanlayer/hlyr/pkg/cli"
	"humanlayer/hlyr/pkg/config"
)

var configFlags struct {
	output string
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file, .env, and
HUMANLAYER_* environment overrides are applied. API keys are masked.

Examples:
  hlyr config show
  hlyr config show --output json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration and report every invalid field.

The command exits with status 2 if the configuration is invalid.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configValidateCmd)

	configShowCmd.Flags().StringVarP(&configFlags.output, "output", "o", "yaml", "output format: yaml, json")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(configFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err)
	}
	if format == cli.FormatText {
		format = cli.FormatYAML
	}

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cfg.Masked())
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", err)
	}

	out := cmd.OutOrStdout()
	if path, ok := configPath(); ok {
		fmt.Fprintf(out, "Configuration %s is valid\n", path)
	} else {
		fmt.Fprintln(out, "Configuration is valid (no config file, defaults and environment only)")
	}
	fmt.Fprintf(out, "  active provider:   %s\n", cfg.ActiveProvider)
	if cfg.FailoverProvider != "" {
		fmt.Fprintf(out, "  failover provider: %s\n", cfg.FailoverProvider)
	}
	return nil
}
