package config

import (
	"sync/atomic"

	"humanlayer/hlyr/pkg/providers"
)

// Source is a concurrency-safe holder of the current configuration. It
// implements routing.ConfigSource; Store replaces the configuration
// atomically, so readers see either the old or the new value.
type Source struct {
	cfg atomic.Pointer[Config]
}

// NewSource creates a Source holding cfg. A nil cfg holds the defaults.
func NewSource(cfg *Config) *Source {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	s := &Source{}
	s.cfg.Store(cfg)
	return s
}

// Config returns the current configuration. Callers must not modify it.
func (s *Source) Config() *Config {
	return s.cfg.Load()
}

// Store replaces the current configuration.
func (s *Source) Store(cfg *Config) {
	if cfg != nil {
		s.cfg.Store(cfg)
	}
}

// ActiveProvider returns the configured active provider.
func (s *Source) ActiveProvider() providers.ProviderID {
	return s.Config().ActiveProvider
}

// FailoverProvider returns the configured failover provider, if any.
func (s *Source) FailoverProvider() (providers.ProviderID, bool) {
	id := s.Config().FailoverProvider
	return id, id != ""
}

// ProviderConfig returns the adapter configuration for id.
func (s *Source) ProviderConfig(id providers.ProviderID) (providers.ProviderConfig, bool) {
	cfg := s.Config()
	settings, ok := cfg.Providers.Get(id)
	if !ok {
		return providers.ProviderConfig{}, false
	}
	return settings.ProviderConfig(), true
}

// Configuration keys accepted by Get.
const (
	KeyActiveProvider   = "activeProvider"
	KeyFailoverProvider = "failoverProvider"
	KeyProviders        = "providers"
)

// Get returns the value of a top-level configuration key: the active
// provider ID, the failover provider ID, or a copy of ProvidersConfig.
func (s *Source) Get(key string) (any, bool) {
	cfg := s.Config()
	switch key {
	case KeyActiveProvider:
		return cfg.ActiveProvider, true
	case KeyFailoverProvider:
		if cfg.FailoverProvider == "" {
			return nil, false
		}
		return cfg.FailoverProvider, true
	case KeyProviders:
		return cfg.Providers, true
	default:
		return nil, false
	}
}
