package providers

import (
	"context"
	"strings"
)

// Provider is the interface all chat backend adapters implement.
//
// Adapters are constructed without any I/O. Initialize validates the
// backend-mandatory settings and binds the underlying HTTP client; it may be
// called again to rebind. SendCompletion must not be called before a model has
// been resolved, and reports a *NotConfiguredError if it is.
//
// Example usage:
//
//	p := ollama.NewProvider()
//	if err := p.Initialize(providers.ProviderConfig{Model: "llama2"}); err != nil {
//	    return err
//	}
//
//	resp, err := p.SendCompletion(ctx, providers.NewConversation(
//	    providers.Message{Role: providers.RoleUser, Content: "Hello!"},
//	))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Content)
type Provider interface {
	// Initialize validates cfg and binds the backend client.
	// Returns a *MissingCredentialError if a hosted backend has no API key.
	Initialize(cfg ProviderConfig) error

	// SendCompletion performs one round trip to the backend.
	// The returned response carries the provider-native value in Native.
	SendCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// GetName returns the stable human-readable provider name (e.g. "Ollama").
	GetName() string

	// Capabilities reports which optional operations the adapter supports.
	Capabilities() Capabilities
}

// Streamer is implemented by adapters that can stream text fragments.
//
// The returned channel yields plain-text fragments in emission order and is
// closed when the stream ends. If the stream fails, the final chunk carries
// the error. Cancelling ctx stops the stream and closes the channel.
//
// Callers should obtain a Streamer through AsStreamer rather than a type
// assertion, so the adapter's declared capabilities are honored.
type Streamer interface {
	StreamCompletion(ctx context.Context, req *ChatRequest) (<-chan *StreamChunk, error)
}

// AsStreamer returns p as a Streamer if p declares the streaming capability
// and implements the method set.
func AsStreamer(p Provider) (Streamer, bool) {
	if p == nil || !p.Capabilities().Streaming {
		return nil, false
	}
	s, ok := p.(Streamer)
	return s, ok
}

// CollectText drains a stream and concatenates its fragments.
// It returns the text received so far together with the first error chunk,
// which for a router stream cut short by its context is the context error.
func CollectText(chunks <-chan *StreamChunk) (string, error) {
	var sb strings.Builder
	var streamErr error
	for chunk := range chunks {
		if chunk == nil {
			continue
		}
		if chunk.Error != nil {
			if streamErr == nil {
				streamErr = chunk.Error
			}
			continue
		}
		sb.WriteString(chunk.Delta)
	}
	return sb.String(), streamErr
}
