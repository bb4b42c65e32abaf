package routing

import (
	"log/slog"

	"humanlayer/hlyr/pkg/providers"
)

// resolveFailover returns the initialized failover adapter for a failed call
// on active. It reports false when the source names no failover, when the
// failover is the active provider itself, when the identifier or its
// configuration cannot be resolved, when needStream is set and the adapter
// cannot stream, or when its initialization fails.
//
// The source is read on every call so configuration reloads apply to the
// next failure.
func (r *Router) resolveFailover(logger *slog.Logger, active *binding, needStream bool) (*binding, bool) {
	reason, failover := r.lookupFailover(active, needStream)
	if failover != nil {
		logger.Info("attempting failover",
			"from", active.name(),
			"provider", failover.name(),
		)
		return failover, true
	}

	r.stats.failoversUnavailable.Add(1)
	r.recorder.RecordFailover(active.name(), "", OutcomeUnavailable)
	logger.Error("failover not configured or failed, returning original error",
		"provider", active.name(),
		"reason", reason,
	)
	return nil, false
}

func (r *Router) lookupFailover(active *binding, needStream bool) (string, *binding) {
	if r.source == nil {
		return "no configuration source", nil
	}

	id, ok := r.source.FailoverProvider()
	if !ok || id == "" {
		return "no failover provider configured", nil
	}
	if id == active.id {
		return "failover provider is the active provider", nil
	}

	provider, err := r.registry.Lookup(id)
	if err != nil {
		return err.Error(), nil
	}

	cfg, ok := r.source.ProviderConfig(id)
	if !ok {
		return "failover provider " + string(id) + " has no configuration", nil
	}

	if needStream {
		if _, ok := providers.AsStreamer(provider); !ok {
			return "failover provider " + provider.GetName() + " does not support streaming", nil
		}
	}

	if err := provider.Initialize(cfg); err != nil {
		return "failover initialization failed: " + err.Error(), nil
	}

	return "", &binding{id: id, provider: provider}
}
