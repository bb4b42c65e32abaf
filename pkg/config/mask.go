package config

import (
	"humanlayer/hlyr/pkg/providers"
	"humanlayer/hlyr/pkg/telemetry/logging"
)

// Masked returns a copy of cfg with every provider API key masked, for display.
func (cfg *Config) Masked() *Config {
	masked := *cfg
	masked.Telemetry.Logging.RedactPatterns = append([]RedactPattern(nil), cfg.Telemetry.Logging.RedactPatterns...)
	masked.Telemetry.Metrics.LatencyBuckets = append([]float64(nil), cfg.Telemetry.Metrics.LatencyBuckets...)

	for _, id := range providers.SupportedProviders() {
		settings, _ := masked.Providers.Get(id)
		settings.APIKey = MaskSensitiveValue(settings.APIKey)
	}
	return &masked
}

// MaskSensitiveValue hides a secret, keeping a short prefix of long values.
func MaskSensitiveValue(value string) string {
	return logging.RedactAPIKey(value)
}
