// Package tracing sets up OpenTelemetry tracing for hlyr.
//
// New builds a tracer provider from config.TracingConfig, exporting spans
// over OTLP gRPC. When tracing is disabled the returned Tracer hands out
// noop spans. The router creates its request spans from Tracer():
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	router := routing.NewRouter(registry, source, routing.WithTracer(tracer.Tracer()))
//
// # Sampling
//
// The sampler is "always", "never", or "ratio" (TraceIDRatioBased with
// sampleRatio), always wrapped in ParentBased.
package tracing
