package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"humanlayer/hlyr/pkg/config"
	"humanlayer/hlyr/pkg/routing"
	"humanlayer/hlyr/pkg/telemetry/logging"
	"humanlayer/hlyr/pkg/telemetry/metrics"
	"humanlayer/hlyr/pkg/telemetry/tracing"
)

// Telemetry holds the logger, metrics, and tracer of one process.
type Telemetry struct {
	logger  *slog.Logger
	metrics *metrics.ProviderMetrics
	tracer  *tracing.Tracer
}

// Setup builds logging, metrics, and tracing from cfg. Logs are written to
// w, or os.Stderr when w is nil.
func Setup(cfg *config.TelemetryConfig, w io.Writer) (*Telemetry, error) {
	if cfg == nil {
		return nil, errors.New("telemetry config is nil")
	}

	logger, err := logging.New(LoggingConfig(cfg.Logging, w))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := tracing.New(&cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &Telemetry{
		logger:  logger,
		metrics: metrics.NewProviderMetrics(cfg.Metrics, nil),
		tracer:  tracer,
	}, nil
}

// LoggingConfig converts the file configuration into a logging.Config.
func LoggingConfig(cfg config.LoggingConfig, w io.Writer) logging.Config {
	patterns := make([]logging.Pattern, 0, len(cfg.RedactPatterns))
	for _, p := range cfg.RedactPatterns {
		patterns = append(patterns, logging.Pattern{
			Name:        p.Name,
			Pattern:     p.Pattern,
			Replacement: p.Replacement,
		})
	}

	return logging.Config{
		Level:          cfg.Level,
		Format:         cfg.Format,
		AddSource:      cfg.AddSource,
		Redact:         cfg.Redact,
		RedactPatterns: patterns,
		Writer:         w,
	}
}

// Logger returns the configured logger.
func (t *Telemetry) Logger() *slog.Logger {
	return t.logger
}

// Metrics returns the provider metrics.
func (t *Telemetry) Metrics() *metrics.ProviderMetrics {
	return t.metrics
}

// Tracer returns the tracer.
func (t *Telemetry) Tracer() *tracing.Tracer {
	return t.tracer
}

// RouterOptions wires the logger, metrics, and tracer into a router.
func (t *Telemetry) RouterOptions() []routing.Option {
	return []routing.Option{
		routing.WithLogger(t.logger),
		routing.WithRecorder(t.metrics),
		routing.WithTracer(t.tracer.Tracer()),
	}
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.tracer.Shutdown(ctx)
}
