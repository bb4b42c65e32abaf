package anthropic

import (
	"encoding/json"
	"fmt"
	"io"

	"humanlayer/hlyr/pkg/providers"
)

// streamReader reads the Messages SSE stream and keeps only text deltas.
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

// Read returns the next text delta. Events without text (message_start,
// content_block_start, ping, message_delta, input_json_delta) are skipped.
// It returns io.EOF after message_stop or when the body ends.
func (s *streamReader) Read() (string, error) {
	for {
		if s.done {
			return "", io.EOF
		}

		sse, err := s.events.Next()
		if err != nil {
			return "", err
		}
		if sse.Data == "" {
			continue
		}

		var event StreamEvent
		if err := json.Unmarshal([]byte(sse.Data), &event); err != nil {
			return "", &providers.ParseError{
				Provider:    s.name,
				RawResponse: sse.Data,
				Cause:       fmt.Errorf("failed to parse stream event: %w", err),
			}
		}
		if event.Type == "" {
			event.Type = sse.Event
		}

		switch event.Type {
		case "message_stop":
			s.done = true
			return "", io.EOF
		case "error":
			message := "stream error event"
			if event.Error != nil {
				message = event.Error.Message
			}
			return "", &providers.StreamError{Provider: s.name, Message: message}
		}

		if text, ok := event.textDelta(); ok && text != "" {
			return text, nil
		}
	}
}
