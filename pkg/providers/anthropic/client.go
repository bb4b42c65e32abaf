package anthropic

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"humanlayer/hlyr/pkg/providers"
)

const (
	// Name is the stable provider name.
	Name = "Claude"

	// DefaultBaseURL is the Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultAnthropicVersion is the API version to use.
	DefaultAnthropicVersion = "2023-06-01"

	// DefaultMaxTokens is sent when the configuration sets no limit.
	DefaultMaxTokens = 1024
)

// Provider is the Claude adapter for Anthropic's Messages API.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates an unbound Claude adapter. It performs no I/O.
func NewProvider() *Provider {
	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(Name),
	}
}

// Initialize validates cfg and rebinds the HTTP client.
func (p *Provider) Initialize(cfg providers.ProviderConfig) error {
	if cfg.APIKey == "" {
		return &providers.MissingCredentialError{Provider: Name, Field: "api_key"}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	p.Bind(cfg)

	slog.Info("provider initialized",
		"provider", Name,
		"base_url", cfg.BaseURL,
		"model", cfg.Model,
	)
	return nil
}

// Capabilities reports that Claude streams.
func (p *Provider) Capabilities() providers.Capabilities {
	return providers.Capabilities{Streaming: true}
}

// SendCompletion sends one messages request.
// The response's Native field holds a *MessageResponse.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	cfg, err := p.RequireModel()
	if err != nil {
		return nil, err
	}

	var message MessageResponse
	raw, err := p.DoJSONRequest(ctx, http.MethodPost, cfg.BaseURL+"/v1/messages",
		transformRequest(req, cfg, false), &message, headers(cfg, false))
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "completion request succeeded",
		"provider", Name,
		"model", message.Model,
		"stop_reason", message.StopReason,
	)

	model := message.Model
	if model == "" {
		model = cfg.Model
	}
	return &providers.ChatResponse{
		Provider: Name,
		Model:    model,
		Content:  message.text(),
		Native:   &message,
		Raw:      json.RawMessage(raw),
	}, nil
}

// StreamCompletion opens a streaming messages request and yields only the
// text of content_block_delta/text_delta events.
func (p *Provider) StreamCompletion(ctx context.Context, req *providers.ChatRequest) (<-chan *providers.StreamChunk, error) {
	cfg, err := p.RequireModel()
	if err != nil {
		return nil, err
	}

	body, err := p.OpenStream(ctx, cfg.BaseURL+"/v1/messages",
		transformRequest(req, cfg, true), headers(cfg, true))
	if err != nil {
		return nil, err
	}

	reader := newStreamReader(Name, body)
	return providers.Pump(ctx, Name, body, reader.Read), nil
}

func headers(cfg providers.ProviderConfig, stream bool) map[string]string {
	h := map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": DefaultAnthropicVersion,
		"Content-Type":      "application/json",
	}
	if stream {
		h["Accept"] = "text/event-stream"
	}
	return h
}
