package gemini

import (
	"encoding/json"
	"fmt"
	"io"

	"humanlayer/hlyr/pkg/providers"
)

// streamReader reads streamGenerateContent?alt=sse events.
type streamReader struct {
	events *providers.SSEReader
}

func newStreamReader(body io.Reader) *streamReader {
	return &streamReader{events: providers.NewSSEReader(body)}
}

// Read returns the concatenated text of the next event's first candidate.
// It returns io.EOF when the body ends.
func (s *streamReader) Read() (string, error) {
	event, err := s.events.Next()
	if err != nil {
		return "", err
	}
	if event.Data == "" {
		return "", nil
	}

	var chunk GenerateContentResponse
	if err := json.Unmarshal([]byte(event.Data), &chunk); err != nil {
		return "", &providers.ParseError{
			Provider:    Name,
			RawResponse: event.Data,
			Cause:       fmt.Errorf("failed to parse stream chunk: %w", err),
		}
	}

	if chunk.PromptFeedback != nil && chunk.PromptFeedback.BlockReason != "" {
		return "", &providers.StreamError{
			Provider: Name,
			Message:  "prompt blocked: " + chunk.PromptFeedback.BlockReason,
		}
	}

	return chunk.text(), nil
}
