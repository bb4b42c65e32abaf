package providerfactory

import (
	"fmt"
	"sort"

	"humanlayer/hlyr/pkg/providers"
)

// Registry is a fixed mapping from provider identifier to adapter instance.
// It is built once and never mutated, so it is safe for concurrent use.
type Registry struct {
	adapters map[providers.ProviderID]providers.Provider
	ids      []providers.ProviderID
}

// NewRegistry constructs one adapter for every supported identifier.
func NewRegistry() *Registry {
	adapters := make(map[providers.ProviderID]providers.Provider, len(providers.SupportedProviders()))
	for _, id := range providers.SupportedProviders() {
		provider, err := NewProvider(id)
		if err != nil {
			// Every supported identifier has a constructor
			panic(fmt.Sprintf("providerfactory: %v", err))
		}
		adapters[id] = provider
	}
	return &Registry{
		adapters: adapters,
		ids:      providers.SupportedProviders(),
	}
}

// NewRegistryWith builds a registry from explicit adapters. Identifiers are
// listed in supported order first, then any others sorted.
func NewRegistryWith(adapters map[providers.ProviderID]providers.Provider) *Registry {
	copied := make(map[providers.ProviderID]providers.Provider, len(adapters))
	for id, provider := range adapters {
		copied[id] = provider
	}

	var ids []providers.ProviderID
	for _, id := range providers.SupportedProviders() {
		if _, ok := copied[id]; ok {
			ids = append(ids, id)
		}
	}
	var extra []providers.ProviderID
	for id := range copied {
		if !id.Valid() {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return &Registry{
		adapters: copied,
		ids:      append(ids, extra...),
	}
}

// Lookup returns the adapter for id, or an *UnknownProviderError.
func (r *Registry) Lookup(id providers.ProviderID) (providers.Provider, error) {
	provider, ok := r.adapters[id]
	if !ok {
		return nil, &providers.UnknownProviderError{Provider: string(id)}
	}
	return provider, nil
}

// IDs returns the registered identifiers in stable order.
func (r *Registry) IDs() []providers.ProviderID {
	ids := make([]providers.ProviderID, len(r.ids))
	copy(ids, r.ids)
	return ids
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	return len(r.adapters)
}
