package config

import (
	"time"

	"humanlayer/hlyr/pkg/providers"
)

// Default values for configuration fields.
const (
	DefaultActiveProvider = providers.ProviderOllama

	// Provider defaults
	DefaultOllamaHost      = "http://localhost:11434"
	DefaultOllamaModel     = "llama2"
	DefaultLMStudioBaseURL = "http://localhost:1234/v1"
	DefaultLMStudioModel   = "lmstudio-model"
	DefaultClaudeModel     = "claude-3-opus-20240229"
	DefaultGeminiModel     = "gemini-pro"
	DefaultQwenModel       = "qwen-turbo"
	DefaultCodexModel      = "code-davinci-002"

	// Logging defaults
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
	DefaultLogRedact = true

	// Metrics defaults
	DefaultMetricsNamespace = "hlyr"

	// Tracing defaults
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingServiceName = "hlyr"
	DefaultOTLPInsecure       = true
	DefaultOTLPTimeout        = 10 * time.Second

	// History defaults
	DefaultHistoryDriver = "sqlite"
	DefaultHistoryPath   = "hlyr_history.db"

	// Secrets defaults
	DefaultSecretsEnvPrefix = "HUMANLAYER_SECRET_"
)

// DefaultLatencyBuckets are the provider latency histogram buckets (seconds).
var DefaultLatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// NewDefaultConfig returns a configuration holding every default. The
// TogetherAI model has no default and must be configured before use.
func NewDefaultConfig() *Config {
	return &Config{
		ActiveProvider: DefaultActiveProvider,
		Providers: ProvidersConfig{
			Ollama:     ProviderSettings{Host: DefaultOllamaHost, Model: DefaultOllamaModel},
			LMStudio:   ProviderSettings{BaseURL: DefaultLMStudioBaseURL, Model: DefaultLMStudioModel},
			TogetherAI: ProviderSettings{},
			Claude:     ProviderSettings{Model: DefaultClaudeModel},
			Gemini:     ProviderSettings{Model: DefaultGeminiModel},
			Qwen:       ProviderSettings{Model: DefaultQwenModel},
			Codex:      ProviderSettings{Model: DefaultCodexModel},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLogLevel,
				Format: DefaultLogFormat,
				Redact: DefaultLogRedact,
			},
			Metrics: MetricsConfig{
				Namespace:      DefaultMetricsNamespace,
				LatencyBuckets: append([]float64(nil), DefaultLatencyBuckets...),
			},
			Tracing: TracingConfig{
				Sampler:     DefaultTracingSampler,
				SampleRatio: DefaultTracingSampleRatio,
				Endpoint:    DefaultTracingEndpoint,
				ServiceName: DefaultTracingServiceName,
				OTLP: OTLPConfig{
					Insecure: DefaultOTLPInsecure,
					Timeout:  DefaultOTLPTimeout,
				},
			},
		},
		History: HistoryConfig{
			Driver: DefaultHistoryDriver,
			Path:   DefaultHistoryPath,
		},
		Secrets: SecretsConfig{
			EnvPrefix: DefaultSecretsEnvPrefix,
		},
	}
}

// ApplyDefaults fills fields a file left empty after decoding. Provider
// blocks are already merged by decoding onto NewDefaultConfig.
func ApplyDefaults(cfg *Config) {
	if cfg.ActiveProvider == "" {
		cfg.ActiveProvider = DefaultActiveProvider
	}

	logging := &cfg.Telemetry.Logging
	if logging.Level == "" {
		logging.Level = DefaultLogLevel
	}
	if logging.Format == "" {
		logging.Format = DefaultLogFormat
	}

	metrics := &cfg.Telemetry.Metrics
	if metrics.Namespace == "" {
		metrics.Namespace = DefaultMetricsNamespace
	}
	if len(metrics.LatencyBuckets) == 0 {
		metrics.LatencyBuckets = append([]float64(nil), DefaultLatencyBuckets...)
	}

	tracing := &cfg.Telemetry.Tracing
	if tracing.Sampler == "" {
		tracing.Sampler = DefaultTracingSampler
	}
	if tracing.ServiceName == "" {
		tracing.ServiceName = DefaultTracingServiceName
	}
	if tracing.OTLP.Timeout == 0 {
		tracing.OTLP.Timeout = DefaultOTLPTimeout
	}

	if cfg.History.Driver == "" {
		cfg.History.Driver = DefaultHistoryDriver
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.Secrets.EnvPrefix == "" {
		cfg.Secrets.EnvPrefix = DefaultSecretsEnvPrefix
	}
}
