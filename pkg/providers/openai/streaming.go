package openai

import (
	"encoding/json"
	"fmt"
	"io"

	"humanlayer/hlyr/pkg/providers"
)

// streamReader reads Server-Sent Events from an OpenAI-compatible stream.
type streamReader struct {
	name   string
	events *providers.SSEReader
	done   bool
}

func newStreamReader(name string, body io.Reader) *streamReader {
	return &streamReader{
		name:   name,
		events: providers.NewSSEReader(body),
	}
}

// Read returns the content delta of the next chunk.
// It returns io.EOF at the [DONE] marker or when the body ends.
func (s *streamReader) Read() (string, error) {
	if s.done {
		return "", io.EOF
	}

	event, err := s.events.Next()
	if err != nil {
		return "", err
	}

	if event.Data == "[DONE]" {
		s.done = true
		return "", io.EOF
	}

	var chunk ChatCompletionChunk
	if err := json.Unmarshal([]byte(event.Data), &chunk); err != nil {
		return "", &providers.ParseError{
			Provider:    s.name,
			RawResponse: event.Data,
			Cause:       fmt.Errorf("failed to parse stream chunk: %w", err),
		}
	}

	return chunk.delta(), nil
}
