// Package metrics records provider routing metrics with Prometheus.
//
// ProviderMetrics implements routing.Recorder. Pass it to the router with
// routing.WithRecorder and every adapter call, failover, and streamed
// fragment is counted:
//
//	pm := metrics.NewProviderMetrics(cfg.Telemetry.Metrics, nil)
//	router := routing.NewRouter(registry, source, routing.WithRecorder(pm))
//
// # Exposition
//
// Long-running processes mount Handler on an HTTP server. The CLI exits
// after a single conversation, so it writes a textfile instead:
//
//	defer pm.WriteToTextfile("/var/lib/node_exporter/hlyr.prom")
//
// # Metrics
//
// With the default "hlyr" namespace:
//
//	hlyr_provider_requests_total{provider, outcome}
//	hlyr_provider_latency_seconds{provider}
//	hlyr_failover_total{from, to, outcome}
//	hlyr_stream_fragments_total{provider}
package metrics
