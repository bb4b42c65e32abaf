package providers

import (
	"errors"
	"reflect"
	"testing"
)

func TestSupportedProviders(t *testing.T) {
	expected := []ProviderID{"ollama", "lmstudio", "togetherai", "claude", "gemini", "qwen", "codex"}

	got := SupportedProviders()
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("SupportedProviders() = %v, want %v", got, expected)
	}

	// Mutating the copy must not affect later calls
	got[0] = "mutated"
	if SupportedProviders()[0] != ProviderOllama {
		t.Error("SupportedProviders() returned shared slice")
	}
}

func TestParseProviderID(t *testing.T) {
	tests := []struct {
		input   string
		want    ProviderID
		wantErr bool
	}{
		{"ollama", ProviderOllama, false},
		{"codex", ProviderCodex, false},
		{"gemini", ProviderGemini, false},
		{"Ollama", "", true},
		{"nonexistent", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProviderID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownProvider) {
					t.Errorf("expected ErrUnknownProvider, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseProviderID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestChatRequestTurns(t *testing.T) {
	hist := []Message{{Role: RoleUser, Content: "earlier"}, {Role: RoleAssistant, Content: "reply"}}
	turn := []Message{{Role: RoleUser, Content: "now"}}

	tests := []struct {
		name        string
		req         *ChatRequest
		wantTurns   []Message
		wantHistory []Message
	}{
		{
			name:      "conversation",
			req:       NewConversation(turn...),
			wantTurns: turn,
		},
		{
			name:        "chat session",
			req:         NewChatSession(hist, turn),
			wantTurns:   append(append([]Message{}, hist...), turn...),
			wantHistory: hist,
		},
		{
			name:        "pointer payload",
			req:         &ChatRequest{Payload: &ChatSession{History: hist, Messages: turn}},
			wantTurns:   append(append([]Message{}, hist...), turn...),
			wantHistory: hist,
		},
		{
			name: "nil payload",
			req:  &ChatRequest{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Turns(); !reflect.DeepEqual(got, tt.wantTurns) {
				t.Errorf("Turns() = %v, want %v", got, tt.wantTurns)
			}
			history, _ := tt.req.Session()
			if !reflect.DeepEqual(history, tt.wantHistory) {
				t.Errorf("Session() history = %v, want %v", history, tt.wantHistory)
			}
		})
	}
}

func TestChatRequestNil(t *testing.T) {
	var req *ChatRequest
	if req.Turns() != nil {
		t.Error("expected nil turns for nil request")
	}
	if h, m := req.Session(); h != nil || m != nil {
		t.Error("expected nil session for nil request")
	}
}
