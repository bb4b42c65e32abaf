package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"humanlayer/hlyr/pkg/providers"
	"humanlayer/hlyr/pkg/secrets"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HUMANLAYER_"

// SearchPlaces are the file names FindConfigFile looks for, in order.
var SearchPlaces = []string{"humanlayer.yml", "humanlayer.yaml"}

// DotEnvFile is loaded into the environment before overrides are applied.
// Variables already set in the environment are kept.
var DotEnvFile = ".env"

// FindConfigFile returns the first of SearchPlaces present in dir.
func FindConfigFile(dir string) (string, bool) {
	for _, name := range SearchPlaces {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load reads configuration without environment overrides or validation.
// Values in the file are merged over NewDefaultConfig: fields the file does
// not set keep their defaults. An empty path searches the working
// directory; if no file is found the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path == "" {
		found, ok := FindConfigFile(".")
		if !ok {
			return cfg, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfig loads configuration from path and validates it.
// The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// variable overrides. Environment variables always take precedence over
// file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file and merge over defaults
// 2. Load DotEnvFile into the environment (a missing file is not an error)
// 3. Apply HUMANLAYER_* environment variable overrides
// 4. Resolve ${secret:name} references in provider API keys
// 5. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadWithEnv(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadWithEnv is LoadConfigWithEnvOverrides without validation.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	ApplyEnvOverrides(cfg)

	if err := ResolveSecrets(context.Background(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveSecrets replaces ${secret:name} references in provider API keys,
// looking in cfg.Secrets.Dir first and then the environment. A reference
// that cannot be resolved is logged and left in place; Validate rejects it
// on the active and failover providers. Only an unusable secrets directory
// is returned as an error.
func ResolveSecrets(ctx context.Context, cfg *Config) error {
	var sources []secrets.Source
	if cfg.Secrets.Dir != "" {
		files, err := secrets.NewFileSource(cfg.Secrets.Dir)
		if err != nil {
			return fmt.Errorf("secrets.dir: %w", err)
		}
		sources = append(sources, files)
	}
	sources = append(sources, secrets.NewEnvSource(cfg.Secrets.EnvPrefix))
	resolver := secrets.NewResolver(sources...)

	for _, id := range providers.SupportedProviders() {
		settings, _ := cfg.Providers.Get(id)
		if !secrets.HasReference(settings.APIKey) {
			continue
		}
		value, err := resolver.Resolve(ctx, settings.APIKey)
		if err != nil {
			slog.Warn("unresolved secret reference", "field", "providers."+string(id)+".apiKey", "error", err)
			continue
		}
		settings.APIKey = value
	}
	return nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides applies HUMANLAYER_* environment variables to cfg.
//
// Supported variables:
//   - HUMANLAYER_ACTIVE_PROVIDER, HUMANLAYER_FAILOVER_PROVIDER
//   - HUMANLAYER_OLLAMA_HOST, HUMANLAYER_LMSTUDIO_BASEURL
//   - HUMANLAYER_<ID>_APIKEY, HUMANLAYER_<ID>_MODEL
//   - HUMANLAYER_<ID>_BASE_URL, HUMANLAYER_<ID>_TIMEOUT
//   - HUMANLAYER_LOG_LEVEL, HUMANLAYER_LOG_FORMAT
//   - HUMANLAYER_TRACING_ENABLED, HUMANLAYER_TRACING_ENDPOINT
//   - HUMANLAYER_HISTORY_ENABLED, HUMANLAYER_HISTORY_PATH
//   - HUMANLAYER_SECRETS_DIR
//
// Values that fail to parse are ignored.
func ApplyEnvOverrides(cfg *Config) {
	if val := os.Getenv(EnvPrefix + "ACTIVE_PROVIDER"); val != "" {
		cfg.ActiveProvider = providers.ProviderID(val)
	}
	if val := os.Getenv(EnvPrefix + "FAILOVER_PROVIDER"); val != "" {
		cfg.FailoverProvider = providers.ProviderID(val)
	}

	for _, id := range providers.SupportedProviders() {
		settings, _ := cfg.Providers.Get(id)
		applyProviderEnvOverrides(settings, id)
	}

	if val := os.Getenv(EnvPrefix + "OLLAMA_HOST"); val != "" {
		cfg.Providers.Ollama.Host = val
	}
	if val := os.Getenv(EnvPrefix + "LMSTUDIO_BASEURL"); val != "" {
		cfg.Providers.LMStudio.BaseURL = val
	}

	if val := os.Getenv(EnvPrefix + "LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv(EnvPrefix + "LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv(EnvPrefix + "TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv(EnvPrefix + "TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv(EnvPrefix + "HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv(EnvPrefix + "HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	if val := os.Getenv(EnvPrefix + "SECRETS_DIR"); val != "" {
		cfg.Secrets.Dir = val
	}
}

// applyProviderEnvOverrides applies HUMANLAYER_<ID>_<FIELD> overrides.
func applyProviderEnvOverrides(settings *ProviderSettings, id providers.ProviderID) {
	prefix := EnvPrefix + strings.ToUpper(string(id)) + "_"

	if val := os.Getenv(prefix + "APIKEY"); val != "" {
		settings.APIKey = val
	}
	if val := os.Getenv(prefix + "MODEL"); val != "" {
		settings.Model = val
	}
	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		settings.BaseURL = val
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			settings.Timeout = d
		}
	}
}
