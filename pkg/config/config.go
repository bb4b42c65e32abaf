package config

import (
	"time"

	"humanlayer/hlyr/pkg/providers"
)

// Config is the root configuration structure for hlyr.
// It names the active and failover providers, holds the settings of every
// supported provider, and configures telemetry.
type Config struct {
	// ActiveProvider is the provider requests are sent to.
	// Default: "ollama"
	ActiveProvider providers.ProviderID `yaml:"activeProvider" json:"activeProvider" validate:"required"`

	// FailoverProvider is tried once when the active provider fails.
	// Optional; empty disables failover.
	FailoverProvider providers.ProviderID `yaml:"failoverProvider,omitempty" json:"failoverProvider,omitempty"`

	// Providers contains the settings of every supported provider.
	Providers ProvidersConfig `yaml:"providers" json:"providers"`

	// Telemetry contains logging, metrics, and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`

	// History configures the chat history journal.
	History HistoryConfig `yaml:"history" json:"history"`

	// Secrets configures resolution of ${secret:name} references in API keys.
	Secrets SecretsConfig `yaml:"secrets" json:"secrets"`
}

// ProvidersConfig holds one settings block per supported provider.
type ProvidersConfig struct {
	Ollama     ProviderSettings `yaml:"ollama" json:"ollama"`
	LMStudio   ProviderSettings `yaml:"lmstudio" json:"lmstudio"`
	TogetherAI ProviderSettings `yaml:"togetherai" json:"togetherai"`
	Claude     ProviderSettings `yaml:"claude" json:"claude"`
	Gemini     ProviderSettings `yaml:"gemini" json:"gemini"`
	Qwen       ProviderSettings `yaml:"qwen" json:"qwen"`
	Codex      ProviderSettings `yaml:"codex" json:"codex"`
}

// ProviderSettings contains configuration for a single provider.
type ProviderSettings struct {
	// Host is the Ollama server address.
	// Example: "http://localhost:11434"
	Host string `yaml:"host,omitempty" json:"host,omitempty" validate:"omitempty,url"`

	// BaseURL overrides the API endpoint of OpenAI-compatible and hosted providers.
	// Example: "http://localhost:1234/v1"
	BaseURL string `yaml:"baseURL,omitempty" json:"baseURL,omitempty" validate:"omitempty,url"`

	// APIKey is the authentication key. Required by hosted providers.
	// May be a ${secret:name} reference.
	APIKey string `yaml:"apiKey,omitempty" json:"apiKey,omitempty"`

	// Model is the model identifier sent with every request.
	Model string `yaml:"model" json:"model"`

	// MaxTokens caps generated tokens where the backend requires a limit.
	MaxTokens int `yaml:"maxTokens,omitempty" json:"maxTokens,omitempty" validate:"gte=0"`

	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty" validate:"gte=0"`
}

// ProviderConfig converts the settings into an adapter configuration.
// Host takes precedence over BaseURL.
func (s ProviderSettings) ProviderConfig() providers.ProviderConfig {
	baseURL := s.BaseURL
	if s.Host != "" {
		baseURL = s.Host
	}
	return providers.ProviderConfig{
		BaseURL:   baseURL,
		APIKey:    s.APIKey,
		Model:     s.Model,
		MaxTokens: s.MaxTokens,
		Timeout:   s.Timeout,
	}
}

// Get returns a pointer to the settings block for id.
func (p *ProvidersConfig) Get(id providers.ProviderID) (*ProviderSettings, bool) {
	switch id {
	case providers.ProviderOllama:
		return &p.Ollama, true
	case providers.ProviderLMStudio:
		return &p.LMStudio, true
	case providers.ProviderTogetherAI:
		return &p.TogetherAI, true
	case providers.ProviderClaude:
		return &p.Claude, true
	case providers.ProviderGemini:
		return &p.Gemini, true
	case providers.ProviderQwen:
		return &p.Qwen, true
	case providers.ProviderCodex:
		return &p.Codex, true
	default:
		return nil, false
	}
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "warn"
	Level string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn warning error"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "console"
	Format string `yaml:"format" json:"format" validate:"omitempty,oneof=json text console"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"addSource,omitempty" json:"addSource,omitempty"`

	// Redact masks credentials in log entries.
	// Default: true
	Redact bool `yaml:"redact" json:"redact"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redactPatterns,omitempty" json:"redactPatterns,omitempty" validate:"dive"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name" json:"name" validate:"required"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern" json:"pattern" validate:"required"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement" json:"replacement"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Namespace is the metric name prefix.
	// Default: "hlyr"
	Namespace string `yaml:"namespace" json:"namespace"`

	// LatencyBuckets defines histogram buckets for provider latency (seconds).
	// Default: [0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60]
	LatencyBuckets []float64 `yaml:"latencyBuckets,omitempty" json:"latencyBuckets,omitempty"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler" json:"sampler" validate:"omitempty,oneof=always never ratio"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	SampleRatio float64 `yaml:"sampleRatio" json:"sampleRatio" validate:"gte=0,lte=1"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint" json:"endpoint" validate:"required_if=Enabled true"`

	// ServiceName is the service name in traces.
	// Default: "hlyr"
	ServiceName string `yaml:"serviceName" json:"serviceName"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp" json:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure" json:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" json:"timeout" validate:"gte=0"`
}

// HistoryConfig configures where chat turns are journaled.
type HistoryConfig struct {
	// Enabled records every chat turn.
	// Default: false
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Driver selects the SQLite driver.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver" json:"driver" validate:"omitempty,oneof=sqlite sqlite3"`

	// Path is the database file path.
	// Default: "hlyr_history.db"
	Path string `yaml:"path" json:"path" validate:"required_if=Enabled true"`

	// Retention bounds the journal size.
	Retention RetentionConfig `yaml:"retention" json:"retention"`
}

// RetentionConfig controls pruning of the history journal.
type RetentionConfig struct {
	// MaxAge deletes turns older than this. Zero keeps turns forever.
	MaxAge time.Duration `yaml:"maxAge,omitempty" json:"maxAge,omitempty" validate:"gte=0"`

	// MaxTurns keeps at most this many turns, deleting the oldest. Zero means unlimited.
	MaxTurns int64 `yaml:"maxTurns,omitempty" json:"maxTurns,omitempty" validate:"gte=0"`

	// Schedule is a cron expression for pruning during long chat sessions.
	// Empty disables scheduled pruning.
	// Example: "@hourly"
	Schedule string `yaml:"schedule,omitempty" json:"schedule,omitempty"`
}

// SecretsConfig configures where ${secret:name} references are looked up.
// Dir is searched before the environment.
type SecretsConfig struct {
	// EnvPrefix prefixes the environment variable holding a secret.
	// Default: "HUMANLAYER_SECRET_"
	EnvPrefix string `yaml:"envPrefix" json:"envPrefix"`

	// Dir holds one file per secret, named after the secret.
	// Example: "/run/secrets/hlyr"
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`
}
