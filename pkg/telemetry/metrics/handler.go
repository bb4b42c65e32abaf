package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler exposing the registry in the Prometheus
// exposition format.
//
// Example:
//
//	pm := metrics.NewProviderMetrics(cfg.Telemetry.Metrics, nil)
//	http.Handle("/metrics", pm.Handler())
func (pm *ProviderMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		pm.registry,
		promhttp.HandlerOpts{
			// Enable OpenMetrics encoding (preferred over Prometheus text format)
			EnableOpenMetrics: true,

			ErrorHandling: promhttp.ContinueOnError,
		},
	)
}

// WriteToTextfile writes every metric to path in the text format read by
// the node exporter's textfile collector. A CLI run is too short to be
// scraped, so the chat command writes its metrics here on exit.
func (pm *ProviderMetrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, pm.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
