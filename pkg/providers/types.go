package providers

import (
	"encoding/json"
	"time"
)

// ProviderID identifies one of the supported chat backends.
type ProviderID string

// Supported provider identifiers.
const (
	ProviderOllama     ProviderID = "ollama"
	ProviderLMStudio   ProviderID = "lmstudio"
	ProviderTogetherAI ProviderID = "togetherai"
	ProviderClaude     ProviderID = "claude"
	ProviderGemini     ProviderID = "gemini"
	ProviderQwen       ProviderID = "qwen"
	ProviderCodex      ProviderID = "codex"
)

// supportedProviders is ordered; SupportedProviders and the registry rely on it.
var supportedProviders = []ProviderID{
	ProviderOllama,
	ProviderLMStudio,
	ProviderTogetherAI,
	ProviderClaude,
	ProviderGemini,
	ProviderQwen,
	ProviderCodex,
}

// SupportedProviders returns every supported provider identifier in a stable order.
// The returned slice is a copy and safe to modify.
func SupportedProviders() []ProviderID {
	ids := make([]ProviderID, len(supportedProviders))
	copy(ids, supportedProviders)
	return ids
}

// ParseProviderID converts a string into a ProviderID.
// It returns an *UnknownProviderError if the value is not a supported identifier.
func ParseProviderID(s string) (ProviderID, error) {
	id := ProviderID(s)
	if !id.Valid() {
		return "", &UnknownProviderError{Provider: s}
	}
	return id, nil
}

// Valid reports whether id is one of the supported identifiers.
func (id ProviderID) Valid() bool {
	for _, known := range supportedProviders {
		if id == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (id ProviderID) String() string {
	return string(id)
}

// Message represents a single turn in a conversation.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role" yaml:"role"`

	// Content is the message text content
	Content string `json:"content" yaml:"content"`
}

// Payload is the provider-family specific body of a ChatRequest.
// The set of implementations is closed: Conversation and ChatSession.
type Payload interface {
	payload()
}

// Conversation is the payload for chat-style backends: an ordered list of turns.
type Conversation struct {
	Messages []Message `json:"messages"`
}

// ChatSession is the payload for backends that keep prior context separate
// from the new turn (Gemini's startChat/sendMessage model).
type ChatSession struct {
	// History is the prior conversation context
	History []Message `json:"history"`

	// Messages is the new turn
	Messages []Message `json:"messages"`
}

func (Conversation) payload() {}
func (ChatSession) payload()  {}

// ChatRequest is a provider-agnostic chat request. Routing code passes it
// through untouched; only adapters look inside the payload.
type ChatRequest struct {
	Payload Payload `json:"payload"`
}

// NewConversation builds a ChatRequest with a Conversation payload.
func NewConversation(messages ...Message) *ChatRequest {
	return &ChatRequest{Payload: Conversation{Messages: messages}}
}

// NewChatSession builds a ChatRequest with a ChatSession payload.
func NewChatSession(history, messages []Message) *ChatRequest {
	return &ChatRequest{Payload: ChatSession{History: history, Messages: messages}}
}

// Turns flattens the payload into one ordered list of messages: history first,
// then the new turn. It returns nil for a nil request or payload.
func (r *ChatRequest) Turns() []Message {
	if r == nil {
		return nil
	}
	switch p := r.Payload.(type) {
	case Conversation:
		return p.Messages
	case *Conversation:
		return p.Messages
	case ChatSession:
		return joinTurns(p.History, p.Messages)
	case *ChatSession:
		return joinTurns(p.History, p.Messages)
	default:
		return nil
	}
}

// Session splits the payload into history and new turn. A Conversation has
// no history; all of its turns are the new turn.
func (r *ChatRequest) Session() (history, messages []Message) {
	if r == nil {
		return nil, nil
	}
	switch p := r.Payload.(type) {
	case Conversation:
		return nil, p.Messages
	case *Conversation:
		return nil, p.Messages
	case ChatSession:
		return p.History, p.Messages
	case *ChatSession:
		return p.History, p.Messages
	default:
		return nil, nil
	}
}

func joinTurns(history, messages []Message) []Message {
	turns := make([]Message, 0, len(history)+len(messages))
	turns = append(turns, history...)
	return append(turns, messages...)
}

// ChatResponse is the result of a single-shot request.
//
// Native holds the decoded provider-specific response value and is not
// normalized. Content is the plain-text projection of the reply.
type ChatResponse struct {
	// Provider is the name of the adapter that answered
	Provider string `json:"provider"`

	// Model is the model that generated the response
	Model string `json:"model"`

	// Content is the generated text
	Content string `json:"content"`

	// Native is the provider-native response value (e.g. *openai.ChatCompletion)
	Native any `json:"-"`

	// Raw is the response body exactly as received
	Raw json.RawMessage `json:"raw,omitempty"`
}

// StreamChunk is a single element of a streaming response.
// Exactly one of Delta or Error is meaningful; an Error chunk is always the last.
type StreamChunk struct {
	// Delta is one text fragment, ready to concatenate
	Delta string `json:"delta"`

	// Error is set if the stream failed
	Error error `json:"-"`
}

// Capabilities describes the optional operations an adapter supports.
type Capabilities struct {
	// Streaming reports whether the adapter implements Streamer
	Streaming bool
}

// ProviderConfig contains the settings a single adapter needs.
type ProviderConfig struct {
	// BaseURL is the API endpoint base URL (Ollama host, LM Studio baseURL)
	BaseURL string

	// APIKey is the authentication key
	APIKey string

	// Model is the model identifier sent with every request
	Model string

	// MaxTokens caps the generated tokens for backends that require a limit
	MaxTokens int

	// Timeout is the HTTP request timeout (zero means no timeout)
	Timeout time.Duration
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
