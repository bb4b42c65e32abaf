package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"humanlayer/hlyr/pkg/providers"
)

// Variant describes one OpenAI-compatible backend.
type Variant struct {
	// Name is the stable provider name reported by GetName
	Name string

	// DefaultBaseURL is used when the configuration carries no endpoint
	DefaultBaseURL string

	// RequireAPIKey makes Initialize fail without a credential
	RequireAPIKey bool

	// PlaceholderKey is sent when no credential is configured and none is required
	PlaceholderKey string

	// Streaming declares the streaming capability
	Streaming bool
}

// Known OpenAI-compatible variants.
var (
	Codex = Variant{
		Name:           "Codex",
		DefaultBaseURL: "https://api.openai.com/v1",
		RequireAPIKey:  true,
		Streaming:      true,
	}

	Qwen = Variant{
		Name:           "Qwen",
		DefaultBaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
		RequireAPIKey:  true,
		Streaming:      true,
	}

	TogetherAI = Variant{
		Name:           "TogetherAI",
		DefaultBaseURL: "https://api.together.xyz/v1",
		RequireAPIKey:  true,
	}

	LMStudio = Variant{
		Name:           "LMStudio",
		DefaultBaseURL: "http://localhost:1234/v1",
		PlaceholderKey: "not-needed",
	}
)

// Provider is the adapter for OpenAI-compatible chat completion APIs.
type Provider struct {
	*providers.HTTPProvider
	variant Variant
}

// NewProvider creates an unbound adapter for variant. It performs no I/O.
func NewProvider(variant Variant) *Provider {
	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(variant.Name),
		variant:      variant,
	}
}

// NewCodex creates the Codex adapter.
func NewCodex() *Provider { return NewProvider(Codex) }

// NewQwen creates the Qwen adapter.
func NewQwen() *Provider { return NewProvider(Qwen) }

// NewTogetherAI creates the TogetherAI adapter.
func NewTogetherAI() *Provider { return NewProvider(TogetherAI) }

// NewLMStudio creates the LM Studio adapter.
func NewLMStudio() *Provider { return NewProvider(LMStudio) }

// Initialize validates cfg and rebinds the HTTP client.
func (p *Provider) Initialize(cfg providers.ProviderConfig) error {
	if cfg.APIKey == "" {
		if p.variant.RequireAPIKey {
			return &providers.MissingCredentialError{
				Provider: p.variant.Name,
				Field:    "api_key",
			}
		}
		cfg.APIKey = p.variant.PlaceholderKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = p.variant.DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	p.Bind(cfg)

	slog.Info("provider initialized",
		"provider", p.variant.Name,
		"base_url", cfg.BaseURL,
		"model", cfg.Model,
	)
	return nil
}

// Capabilities reports the variant's declared capabilities.
func (p *Provider) Capabilities() providers.Capabilities {
	return providers.Capabilities{Streaming: p.variant.Streaming}
}

// SendCompletion sends one chat completion request.
// The response's Native field holds a *ChatCompletion.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	cfg, err := p.RequireModel()
	if err != nil {
		return nil, err
	}

	var completion ChatCompletion
	raw, err := p.DoJSONRequest(ctx, http.MethodPost, cfg.BaseURL+"/chat/completions",
		transformRequest(req, cfg, false), &completion, p.headers(cfg, false))
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "completion request succeeded",
		"provider", p.GetName(),
		"model", completion.Model,
	)

	model := completion.Model
	if model == "" {
		model = cfg.Model
	}
	return &providers.ChatResponse{
		Provider: p.GetName(),
		Model:    model,
		Content:  completion.text(),
		Native:   &completion,
		Raw:      json.RawMessage(raw),
	}, nil
}

// StreamCompletion opens a streaming chat completion and yields
// choices[0].delta.content of every chunk.
func (p *Provider) StreamCompletion(ctx context.Context, req *providers.ChatRequest) (<-chan *providers.StreamChunk, error) {
	cfg, err := p.RequireModel()
	if err != nil {
		return nil, err
	}

	body, err := p.OpenStream(ctx, cfg.BaseURL+"/chat/completions",
		transformRequest(req, cfg, true), p.headers(cfg, true))
	if err != nil {
		return nil, err
	}

	reader := newStreamReader(p.GetName(), body)
	return providers.Pump(ctx, p.GetName(), body, reader.Read), nil
}

func (p *Provider) headers(cfg providers.ProviderConfig, stream bool) map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
		"Content-Type":  "application/json",
	}
	if stream {
		headers["Accept"] = "text/event-stream"
	}
	return headers
}
