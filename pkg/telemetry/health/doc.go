// Package health runs readiness checks for hlyr's providers.
//
// A Checker runs named checks concurrently, each bounded by a timeout, and
// aggregates them into a Report. RegisterProviderChecks adds one check per
// supported provider that initializes a fresh adapter with its configured
// settings, so a missing API key or model is reported before the first
// request. With Probe set, the Ollama check also asks the server whether
// the configured model is present.
//
//	checker := health.New(5 * time.Second)
//	health.RegisterProviderChecks(checker, cfg, health.ProviderCheckOptions{Probe: true})
//	report := checker.Run(ctx)
package health
