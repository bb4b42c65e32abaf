package gemini

import (
	"strings"

	"humanlayer/hlyr/pkg/providers"
)

// Gemini generateContent wire types.

// GenerateContentRequest is a generateContent request.
type GenerateContentRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is one turn of a Gemini conversation.
type Content struct {
	// Role is "user" or "model"; empty for system instructions
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one piece of a turn.
type Part struct {
	Text string `json:"text,omitempty"`
}

// GenerationConfig holds optional generation limits.
type GenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

// GenerateContentResponse is the native response value returned in
// providers.ChatResponse.Native. Each SSE event of a stream has the same shape.
type GenerateContentResponse struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
}

// Candidate is one generated candidate.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
	Index        int      `json:"index,omitempty"`
}

// PromptFeedback reports why a prompt was blocked.
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// UsageMetadata is token usage as reported by the backend.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// transformRequest builds the wire request from the session's history and new
// turn. System turns become the system instruction and assistant turns are
// sent with the "model" role.
func transformRequest(req *providers.ChatRequest, cfg providers.ProviderConfig) *GenerateContentRequest {
	history, messages := req.Session()

	wire := &GenerateContentRequest{
		Contents: make([]Content, 0, len(history)+len(messages)),
	}

	var system []string
	for _, turns := range [][]providers.Message{history, messages} {
		for _, msg := range turns {
			if msg.Role == providers.RoleSystem {
				system = append(system, msg.Content)
				continue
			}
			wire.Contents = append(wire.Contents, Content{
				Role:  toGeminiRole(msg.Role),
				Parts: []Part{{Text: msg.Content}},
			})
		}
	}

	if len(system) > 0 {
		wire.SystemInstruction = &Content{Parts: []Part{{Text: strings.Join(system, "\n\n")}}}
	}
	if cfg.MaxTokens > 0 {
		wire.GenerationConfig = &GenerationConfig{MaxOutputTokens: cfg.MaxTokens}
	}

	return wire
}

func toGeminiRole(role string) string {
	if role == providers.RoleAssistant || role == "model" {
		return "model"
	}
	return "user"
}

// text concatenates the text parts of the first candidate.
func (r *GenerateContentResponse) text() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}
