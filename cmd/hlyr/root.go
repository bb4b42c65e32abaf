package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"humanlayer/hlyr/pkg/cli"
	"humanlayer/hlyr/pkg/config"
	"humanlayer/hlyr/pkg/telemetry"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "hlyr",
	Short: "hlyr - multi-provider chat client with failover",
	Long: `hlyr sends chat requests to one of several chat-completion backends.

Requests go to the active provider. If it fails, hlyr retries once on the
failover provider and returns the original error if that is not possible.

Supported providers: ollama, lmstudio, togetherai, claude, gemini, qwen, codex.

Configuration is read from humanlayer.yml (or humanlayer.yaml) in the working
directory, a .env file, and HUMANLAYER_* environment variables.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with cli.ExitCode of its error.
func Execute() {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: search humanlayer.yml, humanlayer.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (json, text, console)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
}

// loadConfig loads the configuration with environment overrides and applies
// the logging flags. With validate set, an invalid configuration is an error
// and the result becomes the global configuration.
func loadConfig(validate bool) (*config.Config, error) {
	var cfg *config.Config
	if validate {
		if err := config.ReloadConfig(cfgFile); err != nil {
			return nil, cli.NewConfigError("", err)
		}
		// Copy so flag overrides do not leak into the global configuration
		copied := *config.GetConfig()
		cfg = &copied
	} else {
		loaded, err := config.LoadWithEnv(cfgFile)
		if err != nil {
			return nil, cli.NewConfigError("", err)
		}
		cfg = loaded
	}

	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if logFormat != "" {
		cfg.Telemetry.Logging.Format = logFormat
	}
	return cfg, nil
}

// setupTelemetry builds telemetry from cfg and installs its logger as the
// slog default. Logs go to the command's stderr.
func setupTelemetry(cmd *cobra.Command, cfg *config.Config) (*telemetry.Telemetry, error) {
	tel, err := telemetry.Setup(&cfg.Telemetry, cmd.ErrOrStderr())
	if err != nil {
		return nil, cli.NewConfigError("telemetry", err)
	}
	slog.SetDefault(tel.Logger())
	return tel, nil
}

// configPath returns the file loadConfig reads, if any.
func configPath() (string, bool) {
	if cfgFile != "" {
		return cfgFile, true
	}
	return config.FindConfigFile(".")
}
