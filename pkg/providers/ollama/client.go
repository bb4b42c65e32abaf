package ollama

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
	Name = "Ollama"

	// DefaultHost is the local Ollama server.
	DefaultHost = "http://localhost:11434"
)

// Provider is the adapter for a local Ollama server. No credential is needed.
type Provider struct {
	*providers.HTTPProvider
}

// NewProvider creates an unbound Ollama adapter. It performs no I/O.
func NewProvider() *Provider {
	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(Name),
	}
}

// Initialize binds the HTTP client to cfg.BaseURL (the Ollama host), or to
// DefaultHost when none is configured.
func (p *Provider) Initialize(cfg providers.ProviderConfig) error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultHost
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	p.Bind(cfg)

	slog.Info("provider initialized",
		"provider", Name,
		"host", cfg.BaseURL,
		"model", cfg.Model,
	)
	return nil
}

// Capabilities reports that Ollama streams.
func (p *Provider) Capabilities() providers.Capabilities {
	return providers.Capabilities{Streaming: true}
}

// SendCompletion sends a non-streaming /api/chat request.
// The response's Native field holds a *ChatResponse.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	cfg, err := p.RequireModel()
	if err != nil {
		return nil, err
	}

	var chat ChatResponse
	raw, err := p.DoJSONRequest(ctx, http.MethodPost, cfg.BaseURL+"/api/chat",
		transformRequest(req, cfg, false), &chat, nil)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "completion request succeeded",
		"provider", Name,
		"model", chat.Model,
		"eval_count", chat.EvalCount,
	)

	model := chat.Model
	if model == "" {
		model = cfg.Model
	}
	return &providers.ChatResponse{
		Provider: Name,
		Model:    model,
		Content:  chat.Message.Content,
		Native:   &chat,
		Raw:      json.RawMessage(raw),
	}, nil
}

// StreamCompletion opens a streaming /api/chat request and yields
// message.content of every NDJSON line.
func (p *Provider) StreamCompletion(ctx context.Context, req *providers.ChatRequest) (<-chan *providers.StreamChunk, error) {
	cfg, err := p.RequireModel()
	if err != nil {
		return nil, err
	}

	body, err := p.OpenStream(ctx, cfg.BaseURL+"/api/chat", transformRequest(req, cfg, true), nil)
	if err != nil {
		return nil, err
	}

	reader := newStreamReader(body)
	return providers.Pump(ctx, Name, body, reader.Read), nil
}
