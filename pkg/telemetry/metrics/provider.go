package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"humanlayer/hlyr/pkg/config"
)

// ProviderMetrics tracks provider calls, failovers, and streamed fragments.
// It satisfies routing.Recorder.
//
// Metrics:
//   - hlyr_provider_requests_total: Adapter calls by provider and outcome
//   - hlyr_provider_latency_seconds: Adapter call latency
//   - hlyr_failover_total: Failover attempts after a primary failure
//   - hlyr_stream_fragments_total: Fragments delivered to the caller
type ProviderMetrics struct {
	registry *prometheus.Registry

	// Adapter call counter
	requests *prometheus.CounterVec

	// Adapter call latency histogram
	latency *prometheus.HistogramVec

	// Failover counter
	failovers *prometheus.CounterVec

	// Streamed fragment counter
	fragments *prometheus.CounterVec
}

// NewProviderMetrics creates provider metrics and registers them with
// registry. A nil registry gets a fresh one.
func NewProviderMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = config.DefaultLatencyBuckets
	}

	pm := &ProviderMetrics{
		registry: registry,

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_requests_total",
				Help:      "Total number of adapter calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_latency_seconds",
				Help:      "Adapter call latency in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"provider"},
		),

		failovers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "failover_total",
				Help:      "Total number of failover attempts after a primary failure",
			},
			[]string{"from", "to", "outcome"},
		),

		fragments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "stream_fragments_total",
				Help:      "Total number of streamed fragments delivered to the caller",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		pm.requests,
		pm.latency,
		pm.failovers,
		pm.fragments,
	)

	return pm
}

// RecordRequest records one adapter call.
//
// Parameters:
//   - provider: Provider name (e.g., "Claude", "Ollama")
//   - outcome: "success" or "error"
//   - duration: Time until the response, or for streams until the last fragment
func (pm *ProviderMetrics) RecordRequest(provider, outcome string, duration time.Duration) {
	pm.requests.WithLabelValues(provider, outcome).Inc()
	pm.latency.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordFailover records the outcome of a failover after a primary failure.
// to is empty when no failover was available.
func (pm *ProviderMetrics) RecordFailover(from, to, outcome string) {
	pm.failovers.WithLabelValues(from, to, outcome).Inc()
}

// RecordFragment records one fragment delivered to the caller.
func (pm *ProviderMetrics) RecordFragment(provider string) {
	pm.fragments.WithLabelValues(provider).Inc()
}

// Registry returns the Prometheus registry the metrics are registered with.
func (pm *ProviderMetrics) Registry() *prometheus.Registry {
	return pm.registry
}
