package openai

import (
	"humanlayer/hlyr/pkg/providers"
)

// OpenAI-compatible chat completions wire types.

// ChatCompletionRequest is an OpenAI chat completion request.
type ChatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Stream    bool          `json:"stream,omitempty"`
}

// ChatMessage is a message in OpenAI format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletion is the native response value returned in
// providers.ChatResponse.Native.
type ChatCompletion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice is a completion choice.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage is token usage as reported by the backend. It is passed through
// untouched and never aggregated.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionChunk is one element of the SSE stream.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// ChunkChoice is a choice in a stream chunk.
type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason string     `json:"finish_reason,omitempty"`
}

// ChunkDelta is the incremental content in a stream chunk.
type ChunkDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// transformRequest builds the wire request. A ChatSession payload is sent
// as its history followed by the new turn.
func transformRequest(req *providers.ChatRequest, cfg providers.ProviderConfig, stream bool) *ChatCompletionRequest {
	turns := req.Turns()
	messages := make([]ChatMessage, len(turns))
	for i, msg := range turns {
		messages[i] = ChatMessage{Role: msg.Role, Content: msg.Content}
	}

	return &ChatCompletionRequest{
		Model:     cfg.Model,
		Messages:  messages,
		MaxTokens: cfg.MaxTokens,
		Stream:    stream,
	}
}

// text returns the first choice's message content.
func (c *ChatCompletion) text() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Message.Content
}

// delta returns the first choice's delta content, or "" when absent.
func (c *ChatCompletionChunk) delta() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}
