// Package telemetry groups hlyr's observability packages.
//
// # Components
//
//   - logging: slog construction with credential redaction and request context
//   - metrics: Prometheus counters and histograms fed by the router
//   - tracing: OpenTelemetry tracer provider with an OTLP gRPC exporter
//   - health: concurrent provider readiness checks
//
// Setup builds all three runtime components from config.TelemetryConfig:
//
//	tel, err := telemetry.Setup(&cfg.Telemetry, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	router := routing.NewRouter(registry, source, tel.RouterOptions()...)
package telemetry
