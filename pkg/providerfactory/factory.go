package providerfactory

import (
	"log/slog"

	"humanlayer/hlyr/pkg/providers"
	"humanlayer/hlyr/pkg/providers/anthropic"
	"humanlayer/hlyr/pkg/providers/gemini"
	"humanlayer/hlyr/pkg/providers/ollama"
	"humanlayer/hlyr/pkg/providers/openai"
)

// NewProvider constructs the unbound adapter for id. Constructors perform no
// I/O and read no credentials; the adapter must be initialized before use.
//
// Supported identifiers:
//   - "ollama": native Ollama API
//   - "lmstudio", "togetherai", "qwen", "codex": OpenAI-compatible APIs
//   - "claude": Anthropic Messages API
//   - "gemini": Gemini generateContent API
//
// Example:
//
//	provider, err := providerfactory.NewProvider(providers.ProviderCodex)
//	if err != nil {
//	    return err
//	}
//	err = provider.Initialize(providers.ProviderConfig{APIKey: "sk-...", Model: "code-davinci-002"})
func NewProvider(id providers.ProviderID) (providers.Provider, error) {
	var provider providers.Provider

	switch id {
	case providers.ProviderOllama:
		provider = ollama.NewProvider()
	case providers.ProviderLMStudio:
		provider = openai.NewLMStudio()
	case providers.ProviderTogetherAI:
		provider = openai.NewTogetherAI()
	case providers.ProviderClaude:
		provider = anthropic.NewProvider()
	case providers.ProviderGemini:
		provider = gemini.NewProvider()
	case providers.ProviderQwen:
		provider = openai.NewQwen()
	case providers.ProviderCodex:
		provider = openai.NewCodex()
	default:
		return nil, &providers.UnknownProviderError{Provider: string(id)}
	}

	slog.Debug("provider constructed",
		"id", id,
		"name", provider.GetName(),
		"streaming", provider.Capabilities().Streaming,
	)

	return provider, nil
}
