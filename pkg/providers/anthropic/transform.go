package anthropic

import (
	"strings"

	"humanlayer/hlyr/pkg/providers"
)

// Anthropic Messages API wire types.

// MessagesRequest is an Anthropic messages request.
type MessagesRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	System    string    `json:"system,omitempty"`
	MaxTokens int       `json:"max_tokens"`
	Stream    bool      `json:"stream,omitempty"`
}

// Message is a message in Anthropic format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContentBlock is a response content block.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MessageResponse is the native response value returned in
// providers.ChatResponse.Native.
type MessageResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   string         `json:"stop_reason"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        Usage          `json:"usage"`
}

// Usage is token usage as reported by the backend.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// StreamEvent is an event in the Messages SSE stream. Only the fields the
// adapter reads are decoded.
type StreamEvent struct {
	Type  string       `json:"type"`
	Index int          `json:"index,omitempty"`
	Delta *StreamDelta `json:"delta,omitempty"`
	Error *APIError    `json:"error,omitempty"`
}

// StreamDelta is the delta of a content_block_delta or message_delta event.
type StreamDelta struct {
	Type       string `json:"type,omitempty"`
	Text       string `json:"text,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

// APIError is the body of an in-stream error event.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// transformRequest builds the wire request. System turns are lifted into the
// top-level system field, joined by blank lines.
func transformRequest(req *providers.ChatRequest, cfg providers.ProviderConfig, stream bool) *MessagesRequest {
	turns := req.Turns()
	wire := &MessagesRequest{
		Model:     cfg.Model,
		Messages:  make([]Message, 0, len(turns)),
		MaxTokens: cfg.MaxTokens,
		Stream:    stream,
	}
	if wire.MaxTokens <= 0 {
		wire.MaxTokens = DefaultMaxTokens
	}

	var system []string
	for _, msg := range turns {
		if msg.Role == providers.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		wire.Messages = append(wire.Messages, Message{Role: msg.Role, Content: msg.Content})
	}
	wire.System = strings.Join(system, "\n\n")

	return wire
}

// text concatenates the response's text blocks.
func (r *MessageResponse) text() string {
	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

// textDelta returns the text of a text_delta event and whether the event
// carried one.
func (e *StreamEvent) textDelta() (string, bool) {
	if e.Type != "content_block_delta" || e.Delta == nil || e.Delta.Type != "text_delta" {
		return "", false
	}
	return e.Delta.Text, true
}
