package health

import (
	"context"

	"humanlayer/hlyr/pkg/config"
	"humanlayer/hlyr/pkg/providerfactory"
	"humanlayer/hlyr/pkg/providers"
	"humanlayer/hlyr/pkg/providers/ollama"
)

// ProviderCheckOptions controls RegisterProviderChecks.
type ProviderCheckOptions struct {
	// Probe also contacts local backends. The Ollama check lists the models
	// on the configured host and fails if the configured model is missing.
	Probe bool
}

// RegisterProviderChecks registers one check per supported provider, named
// by provider ID. A check initializes a fresh adapter with the provider's
// settings and fails on a missing credential or model. Checks never touch
// the adapters a router is using.
func RegisterProviderChecks(c *Checker, cfg *config.Config, opts ProviderCheckOptions) {
	for _, id := range providers.SupportedProviders() {
		settings, _ := cfg.Providers.Get(id)
		pc := settings.ProviderConfig()
		c.RegisterCheck(string(id), providerCheck(id, pc, opts))
	}
}

func providerCheck(id providers.ProviderID, pc providers.ProviderConfig, opts ProviderCheckOptions) CheckFunc {
	return func(ctx context.Context) error {
		adapter, err := providerfactory.NewProvider(id)
		if err != nil {
			return err
		}
		if err := adapter.Initialize(pc); err != nil {
			return err
		}
		if pc.Model == "" {
			return &providers.MissingModelError{Provider: string(id)}
		}

		if opts.Probe && id == providers.ProviderOllama {
			return probeOllama(ctx, pc)
		}
		return nil
	}
}

func probeOllama(ctx context.Context, pc providers.ProviderConfig) error {
	models, err := ollama.NewModelManager(pc.BaseURL).ListModels(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		if ollama.SameModel(m.Name, pc.Model) {
			return nil
		}
	}
	return &ollama.ModelNotFoundError{Model: pc.Model}
}
