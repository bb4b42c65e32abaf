package ollama

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"humanlayer/hlyr/pkg/providers"
)

// streamReader reads Ollama's newline-delimited JSON stream.
type streamReader struct {
	scanner *bufio.Scanner
	done    bool
}

func newStreamReader(body io.Reader) *streamReader {
	return &streamReader{scanner: providers.NewLineScanner(body)}
}

// Read returns message.content of the next line. It returns io.EOF after
// the line with done set, or when the body ends.
func (s *streamReader) Read() (string, error) {
	for {
		if s.done {
			return "", io.EOF
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}

		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		var chunk ChatResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return "", &providers.ParseError{
				Provider:    Name,
				RawResponse: line,
				Cause:       fmt.Errorf("failed to parse stream line: %w", err),
			}
		}

		if chunk.Error != "" {
			return "", &providers.StreamError{Provider: Name, Message: chunk.Error}
		}
		if chunk.Done {
			s.done = true
		}
		return chunk.Message.Content, nil
	}
}
