package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"humanlayer/hlyr/pkg/providers"
)

const (
	// Name is the stable provider name.
	Name = "Gemini"

	// DefaultBaseURL is the Generative Language API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Provider is the Gemini adapter for the generateContent REST API.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates an unbound Gemini adapter. It performs no I/O.
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

// Capabilities reports that Gemini streams.
func (p *Provider) Capabilities() providers.Capabilities {
	return providers.Capabilities{Streaming: true}
}

// SendCompletion sends the session's history and new turn in one
// generateContent call. The response's Native field holds a
// *GenerateContentResponse.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	cfg, err := p.RequireModel()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", cfg.BaseURL, url.PathEscape(cfg.Model))

	var generated GenerateContentResponse
	raw, err := p.DoJSONRequest(ctx, http.MethodPost, endpoint,
		transformRequest(req, cfg), &generated, headers(cfg))
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "completion request succeeded",
		"provider", Name,
		"model", cfg.Model,
		"candidates", len(generated.Candidates),
	)

	return &providers.ChatResponse{
		Provider: Name,
		Model:    cfg.Model,
		Content:  generated.text(),
		Native:   &generated,
		Raw:      json.RawMessage(raw),
	}, nil
}

// StreamCompletion opens streamGenerateContent with alt=sse and yields the
// text of each event.
func (p *Provider) StreamCompletion(ctx context.Context, req *providers.ChatRequest) (<-chan *providers.StreamChunk, error) {
	cfg, err := p.RequireModel()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", cfg.BaseURL, url.PathEscape(cfg.Model))

	h := headers(cfg)
	h["Accept"] = "text/event-stream"

	body, err := p.OpenStream(ctx, endpoint, transformRequest(req, cfg), h)
	if err != nil {
		return nil, err
	}

	reader := newStreamReader(body)
	return providers.Pump(ctx, Name, body, reader.Read), nil
}

func headers(cfg providers.ProviderConfig) map[string]string {
	return map[string]string{
		"x-goog-api-key": cfg.APIKey,
		"Content-Type":   "application/json",
	}
}
