package ollama

import (
	"time"

	"humanlayer/hlyr/pkg/providers"
)

// Ollama native /api/chat wire types.

// ChatRequest is an /api/chat request.
type ChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

// Message is a message in Ollama format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the native response value returned in
// providers.ChatResponse.Native. Each NDJSON line of a stream has the same
// shape, with Done set on the last one.
type ChatResponse struct {
	Model              string    `json:"model"`
	CreatedAt          time.Time `json:"created_at"`
	Message            Message   `json:"message"`
	Done               bool      `json:"done"`
	DoneReason         string    `json:"done_reason,omitempty"`
	TotalDuration      int64     `json:"total_duration,omitempty"`
	LoadDuration       int64     `json:"load_duration,omitempty"`
	PromptEvalCount    int       `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration int64     `json:"prompt_eval_duration,omitempty"`
	EvalCount          int       `json:"eval_count,omitempty"`
	EvalDuration       int64     `json:"eval_duration,omitempty"`

	// Error is set by the server when a streamed request fails mid-way
	Error string `json:"error,omitempty"`
}

// transformRequest builds the wire request. Ollama's native API accepts an
// explicit stream flag and defaults to streaming when it is absent.
func transformRequest(req *providers.ChatRequest, cfg providers.ProviderConfig, stream bool) *ChatRequest {
	turns := req.Turns()
	messages := make([]Message, len(turns))
	for i, msg := range turns {
		messages[i] = Message{Role: msg.Role, Content: msg.Content}
	}

	wire := &ChatRequest{
		Model:    cfg.Model,
		Messages: messages,
		Stream:   stream,
	}
	if cfg.MaxTokens > 0 {
		wire.Options = map[string]any{"num_predict": cfg.MaxTokens}
	}
	return wire
}
