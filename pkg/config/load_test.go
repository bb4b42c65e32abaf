package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"humanlayer/hlyr/pkg/providers"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "humanlayer.yml", `
activeProvider: claude
failoverProvider: ollama
providers:
  claude:
    apiKey: sk-ant-test
  ollama:
    model: mistral
    timeout: 30s
telemetry:
  logging:
    level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ActiveProvider != providers.ProviderClaude {
		t.Errorf("ActiveProvider = %q", cfg.ActiveProvider)
	}
	if cfg.FailoverProvider != providers.ProviderOllama {
		t.Errorf("FailoverProvider = %q", cfg.FailoverProvider)
	}
	if cfg.Providers.Claude.APIKey != "sk-ant-test" {
		t.Errorf("Claude.APIKey = %q", cfg.Providers.Claude.APIKey)
	}
	// Fields not in the file keep their defaults, including inside a block
	if cfg.Providers.Claude.Model != DefaultClaudeModel {
		t.Errorf("Claude.Model = %q, want default", cfg.Providers.Claude.Model)
	}
	if cfg.Providers.Ollama.Host != DefaultOllamaHost {
		t.Errorf("Ollama.Host = %q, want default", cfg.Providers.Ollama.Host)
	}
	if cfg.Providers.Ollama.Model != "mistral" {
		t.Errorf("Ollama.Model = %q", cfg.Providers.Ollama.Model)
	}
	if cfg.Providers.Ollama.Timeout != 30*time.Second {
		t.Errorf("Ollama.Timeout = %v", cfg.Providers.Ollama.Timeout)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Logging.Format != DefaultLogFormat {
		t.Errorf("Logging.Format = %q, want default", cfg.Telemetry.Logging.Format)
	}
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "humanlayer.yaml", "activeProvider: gemini\n")
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ActiveProvider != providers.ProviderGemini {
		t.Errorf("ActiveProvider = %q, want gemini", cfg.ActiveProvider)
	}
}

func TestLoad_NoFileReturnsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ActiveProvider != DefaultActiveProvider {
		t.Errorf("ActiveProvider = %q, want default", cfg.ActiveProvider)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    filepath.Join(dir, "missing.yml"),
			wantErr: "failed to read",
		},
		{
			name:    "invalid yaml",
			path:    writeFile(t, dir, "bad.yml", "activeProvider: [unterminated\n"),
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfigFile_Order(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "humanlayer.yaml", "")
	writeFile(t, dir, "humanlayer.yml", "")

	path, ok := FindConfigFile(dir)
	if !ok {
		t.Fatal("expected a config file")
	}
	if filepath.Base(path) != "humanlayer.yml" {
		t.Errorf("found %s, want humanlayer.yml first", path)
	}

	if _, ok := FindConfigFile(t.TempDir()); ok {
		t.Error("expected no config file in an empty directory")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("HUMANLAYER_ACTIVE_PROVIDER", "codex")
	t.Setenv("HUMANLAYER_FAILOVER_PROVIDER", "qwen")
	t.Setenv("HUMANLAYER_CODEX_APIKEY", "sk-env")
	t.Setenv("HUMANLAYER_CODEX_MODEL", "gpt-4o")
	t.Setenv("HUMANLAYER_QWEN_BASE_URL", "http://qwen.local/v1")
	t.Setenv("HUMANLAYER_QWEN_TIMEOUT", "45s")
	t.Setenv("HUMANLAYER_GEMINI_TIMEOUT", "not-a-duration")
	t.Setenv("HUMANLAYER_OLLAMA_HOST", "http://ollama.local:11434")
	t.Setenv("HUMANLAYER_LMSTUDIO_BASEURL", "http://lmstudio.local/v1")
	t.Setenv("HUMANLAYER_LOG_LEVEL", "error")
	t.Setenv("HUMANLAYER_TRACING_ENABLED", "true")

	cfg := NewDefaultConfig()
	ApplyEnvOverrides(cfg)

	if cfg.ActiveProvider != providers.ProviderCodex {
		t.Errorf("ActiveProvider = %q", cfg.ActiveProvider)
	}
	if cfg.FailoverProvider != providers.ProviderQwen {
		t.Errorf("FailoverProvider = %q", cfg.FailoverProvider)
	}
	if cfg.Providers.Codex.APIKey != "sk-env" || cfg.Providers.Codex.Model != "gpt-4o" {
		t.Errorf("Codex = %+v", cfg.Providers.Codex)
	}
	if cfg.Providers.Qwen.BaseURL != "http://qwen.local/v1" {
		t.Errorf("Qwen.BaseURL = %q", cfg.Providers.Qwen.BaseURL)
	}
	if cfg.Providers.Qwen.Timeout != 45*time.Second {
		t.Errorf("Qwen.Timeout = %v", cfg.Providers.Qwen.Timeout)
	}
	if cfg.Providers.Gemini.Timeout != 0 {
		t.Errorf("invalid duration should be ignored, got %v", cfg.Providers.Gemini.Timeout)
	}
	if cfg.Providers.Ollama.Host != "http://ollama.local:11434" {
		t.Errorf("Ollama.Host = %q", cfg.Providers.Ollama.Host)
	}
	if cfg.Providers.LMStudio.BaseURL != "http://lmstudio.local/v1" {
		t.Errorf("LMStudio.BaseURL = %q", cfg.Providers.LMStudio.BaseURL)
	}
	if cfg.Telemetry.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Telemetry.Tracing.Enabled {
		t.Error("expected tracing enabled")
	}
}

func TestLoadConfigWithEnvOverrides_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "humanlayer.yml", `
activeProvider: claude
providers:
  claude:
    apiKey: from-file
`)
	t.Chdir(dir)
	t.Setenv("HUMANLAYER_CLAUDE_APIKEY", "from-env")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Providers.Claude.APIKey != "from-env" {
		t.Errorf("Claude.APIKey = %q, want from-env", cfg.Providers.Claude.APIKey)
	}
}

func TestLoadWithEnv_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "HUMANLAYER_GEMINI_APIKEY=from-dotenv\nHUMANLAYER_GEMINI_MODEL=gemini-dotenv\n")
	t.Chdir(dir)

	// Registered so t.Setenv restores the environment after the test
	t.Setenv("HUMANLAYER_GEMINI_APIKEY", "")
	os.Unsetenv("HUMANLAYER_GEMINI_APIKEY")
	t.Setenv("HUMANLAYER_GEMINI_MODEL", "from-environment")

	cfg, err := LoadWithEnv("")
	if err != nil {
		t.Fatalf("LoadWithEnv() error = %v", err)
	}
	if cfg.Providers.Gemini.APIKey != "from-dotenv" {
		t.Errorf("Gemini.APIKey = %q, want from-dotenv", cfg.Providers.Gemini.APIKey)
	}
	// godotenv does not override variables that are already set
	if cfg.Providers.Gemini.Model != "from-environment" {
		t.Errorf("Gemini.Model = %q, want from-environment", cfg.Providers.Gemini.Model)
	}
}

func TestLoadConfig_Validates(t *testing.T) {
	path := writeFile(t, t.TempDir(), "humanlayer.yml", "activeProvider: togetherai\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error for togetherai without a model")
	}
}

func TestLoadConfigWithEnvOverrides_ResolvesSecrets(t *testing.T) {
	dir := t.TempDir()
	secretsDir := filepath.Join(dir, "secrets")
	if err := os.Mkdir(secretsDir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(secretsDir, "anthropic-key"), []byte("sk-ant-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "humanlayer.yml", `
activeProvider: claude
failoverProvider: gemini
secrets:
  dir: `+secretsDir+`
providers:
  claude:
    apiKey: ${secret:anthropic-key}
  gemini:
    apiKey: ${secret:gemini-key}
  qwen:
    apiKey: ${secret:never-set}
`)
	t.Chdir(dir)
	t.Setenv("HUMANLAYER_CLAUDE_APIKEY", "")
	t.Setenv("HUMANLAYER_GEMINI_APIKEY", "")
	t.Setenv("HUMANLAYER_QWEN_APIKEY", "")
	t.Setenv("HUMANLAYER_SECRET_GEMINI_KEY", "gm-env")
	t.Setenv("HUMANLAYER_SECRET_NEVER_SET", "")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Providers.Claude.APIKey != "sk-ant-file" {
		t.Errorf("Claude.APIKey = %q, want sk-ant-file", cfg.Providers.Claude.APIKey)
	}
	if cfg.Providers.Gemini.APIKey != "gm-env" {
		t.Errorf("Gemini.APIKey = %q, want gm-env", cfg.Providers.Gemini.APIKey)
	}
	// Unused providers keep the reference without failing the load
	if cfg.Providers.Qwen.APIKey != "${secret:never-set}" {
		t.Errorf("Qwen.APIKey = %q", cfg.Providers.Qwen.APIKey)
	}
}

func TestLoadConfigWithEnvOverrides_UnresolvedSecret(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "humanlayer.yml", `
activeProvider: claude
providers:
  claude:
    apiKey: ${secret:missing-key}
`)
	t.Chdir(dir)
	t.Setenv("HUMANLAYER_CLAUDE_APIKEY", "")
	t.Setenv("HUMANLAYER_SECRET_MISSING_KEY", "")

	_, err := LoadConfigWithEnvOverrides(path)
	if err == nil || !strings.Contains(err.Error(), "providers.claude.apiKey") {
		t.Fatalf("expected unresolved secret error, got %v", err)
	}
}

func TestLoadWithEnv_BadSecretsDir(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "humanlayer.yml", "secrets:\n  dir: "+filepath.Join(dir, "missing")+"\n")
	t.Chdir(dir)
	t.Setenv("HUMANLAYER_SECRETS_DIR", "")

	_, err := LoadWithEnv(path)
	if err == nil || !strings.Contains(err.Error(), "secrets.dir") {
		t.Fatalf("expected secrets.dir error, got %v", err)
	}
}

func TestHistoryDefaultsAndOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.History.Enabled || cfg.History.Driver != DefaultHistoryDriver || cfg.History.Path != DefaultHistoryPath {
		t.Fatalf("unexpected history defaults %+v", cfg.History)
	}

	t.Setenv("HUMANLAYER_HISTORY_ENABLED", "true")
	t.Setenv("HUMANLAYER_HISTORY_PATH", "/tmp/journal.db")
	t.Setenv("HUMANLAYER_SECRETS_DIR", "/run/secrets")
	ApplyEnvOverrides(cfg)

	if !cfg.History.Enabled || cfg.History.Path != "/tmp/journal.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Secrets.Dir != "/run/secrets" {
		t.Errorf("Secrets.Dir = %q", cfg.Secrets.Dir)
	}
}

func TestLoad_HistoryRetention(t *testing.T) {
	path := writeFile(t, t.TempDir(), "humanlayer.yml", `
history:
  enabled: true
  driver: sqlite3
  retention:
    maxAge: 720h
    maxTurns: 500
    schedule: "@daily"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	h := cfg.History
	if h.Driver != "sqlite3" || h.Path != DefaultHistoryPath {
		t.Errorf("History = %+v", h)
	}
	if h.Retention.MaxAge != 720*time.Hour || h.Retention.MaxTurns != 500 || h.Retention.Schedule != "@daily" {
		t.Errorf("Retention = %+v", h.Retention)
	}
}
