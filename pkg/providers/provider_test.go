package providers

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	streaming bool
}

func (s *stubProvider) Initialize(ProviderConfig) error { return nil }
func (s *stubProvider) GetName() string                 { return "Stub" }
func (s *stubProvider) Capabilities() Capabilities      { return Capabilities{Streaming: s.streaming} }
func (s *stubProvider) SendCompletion(context.Context, *ChatRequest) (*ChatResponse, error) {
	return &ChatResponse{Provider: "Stub"}, nil
}

type stubStreamer struct {
	stubProvider
}

func (s *stubStreamer) StreamCompletion(context.Context, *ChatRequest) (<-chan *StreamChunk, error) {
	ch := make(chan *StreamChunk)
	close(ch)
	return ch, nil
}

func TestAsStreamer(t *testing.T) {
	tests := []struct {
		name string
		p    Provider
		want bool
	}{
		{"nil provider", nil, false},
		{"no method, no flag", &stubProvider{}, false},
		{"flag without method", &stubProvider{streaming: true}, false},
		{"method without flag", &stubStreamer{}, false},
		{"method and flag", &stubStreamer{stubProvider{streaming: true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := AsStreamer(tt.p)
			if ok != tt.want {
				t.Errorf("AsStreamer() ok = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestCollectText(t *testing.T) {
	t.Run("concatenates fragments", func(t *testing.T) {
		ch := make(chan *StreamChunk, 3)
		ch <- &StreamChunk{Delta: "A"}
		ch <- &StreamChunk{Delta: " "}
		ch <- &StreamChunk{Delta: "B"}
		close(ch)

		text, err := CollectText(ch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "A B" {
			t.Errorf("expected %q, got %q", "A B", text)
		}
	})

	t.Run("keeps partial text and returns error", func(t *testing.T) {
		boom := errors.New("boom")
		ch := make(chan *StreamChunk, 2)
		ch <- &StreamChunk{Delta: "partial"}
		ch <- &StreamChunk{Error: boom}
		close(ch)

		text, err := CollectText(ch)
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
		if text != "partial" {
			t.Errorf("expected %q, got %q", "partial", text)
		}
	})
}
