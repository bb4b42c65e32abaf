package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"humanlayer/hlyr/pkg/providers"
)

// resetFlags restores every flag variable to its default so commands can be
// executed repeatedly within one test binary.
func resetFlags() {
	cfgFile, logLevel, logFormat, verbose = "", "", "", false

	chatFlags.provider = ""
	chatFlags.failover = ""
	chatFlags.system = ""
	chatFlags.stream = false
	chatFlags.bufferStream = false
	chatFlags.watch = false
	chatFlags.metricsFile = ""
	chatFlags.resume = ""
	chatFlags.noHistory = false

	configFlags.output = "yaml"

	modelsFlags.host = ""
	modelsFlags.output = "text"

	providersFlags.check = false
	providersFlags.probe = false
	providersFlags.timeout = 5 * time.Second
	providersFlags.output = "text"

	historyFlags.session = ""
	historyFlags.provider = ""
	historyFlags.status = ""
	historyFlags.since = 0
	historyFlags.limit = 20
	historyFlags.output = "text"
	historyFlags.format = "json"
	historyFlags.file = ""
}

// isolate runs the test in an empty directory with HUMANLAYER_* overrides cleared.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		"HUMANLAYER_ACTIVE_PROVIDER",
		"HUMANLAYER_FAILOVER_PROVIDER",
		"HUMANLAYER_OLLAMA_HOST",
		"HUMANLAYER_LMSTUDIO_BASEURL",
		"HUMANLAYER_LOG_LEVEL",
		"HUMANLAYER_LOG_FORMAT",
		"HUMANLAYER_TRACING_ENABLED",
		"HUMANLAYER_HISTORY_ENABLED",
		"HUMANLAYER_HISTORY_PATH",
		"HUMANLAYER_SECRETS_DIR",
	} {
		t.Setenv(key, "")
	}
	for _, id := range providers.SupportedProviders() {
		prefix := "HUMANLAYER_" + strings.ToUpper(string(id)) + "_"
		for _, field := range []string{"APIKEY", "MODEL", "BASE_URL", "TIMEOUT"} {
			t.Setenv(prefix+field, "")
		}
	}
	return dir
}

// writeConfig writes humanlayer.yml into dir.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "humanlayer.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// ollamaConfig returns a configuration with ollama active on host.
func ollamaConfig(host string) string {
	return fmt.Sprintf(`activeProvider: ollama
providers:
  ollama:
    host: %s
    model: llama2
`, host)
}

// execute runs the root command with args and stdin, returning stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}
