package providers

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// maxLineSize bounds a single SSE or NDJSON line.
const maxLineSize = 1024 * 1024

// SSEEvent is one Server-Sent Event. Multi-line data fields are joined with "\n".
type SSEEvent struct {
	// Event is the value of the "event:" field, empty if absent
	Event string

	// Data is the joined value of the "data:" fields
	Data string
}

// SSEReader reads Server-Sent Events from a response body.
type SSEReader struct {
	scanner *bufio.Scanner
}

// NewSSEReader creates an SSE reader over r.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{scanner: NewLineScanner(r)}
}

// NewLineScanner returns a line scanner sized for streamed JSON payloads.
func NewLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// Next reads the next complete event. It returns io.EOF when the stream ends.
func (r *SSEReader) Next() (*SSEEvent, error) {
	var eventType string
	var dataLines []string

	for r.scanner.Scan() {
		line := r.scanner.Text()

		// Empty line marks end of event
		if line == "" {
			if eventType != "" || len(dataLines) > 0 {
				return &SSEEvent{Event: eventType, Data: strings.Join(dataLines, "\n")}, nil
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimPrefix(line, "data:")
			dataLines = append(dataLines, strings.TrimPrefix(data, " "))
		}
		// Ignore other SSE fields (id, retry, comments)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	// Flush a trailing event without a blank line
	if eventType != "" || len(dataLines) > 0 {
		return &SSEEvent{Event: eventType, Data: strings.Join(dataLines, "\n")}, nil
	}
	return nil, io.EOF
}

// ReadFunc yields the next text fragment of a stream. It returns io.EOF when
// the stream ended normally. An empty fragment with a nil error is skipped.
type ReadFunc func() (string, error)

// Pump runs read on its own goroutine and forwards fragments to the returned
// channel until the stream ends, fails, or ctx is cancelled. A failure is
// delivered as a final chunk carrying the error. body is closed when the
// goroutine exits.
func Pump(ctx context.Context, provider string, body io.Closer, read ReadFunc) <-chan *StreamChunk {
	chunks := make(chan *StreamChunk, 16)

	go func() {
		defer close(chunks)
		defer body.Close()

		for {
			if ctx.Err() != nil {
				return
			}

			delta, err := read()
			if err == io.EOF {
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case chunks <- &StreamChunk{Error: wrapStreamError(provider, err)}:
				case <-ctx.Done():
				}
				return
			}
			if delta == "" {
				continue
			}

			select {
			case chunks <- &StreamChunk{Delta: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks
}

func wrapStreamError(provider string, err error) error {
	switch err.(type) {
	case *StreamError, *ParseError, *ProviderError:
		return err
	}
	return &StreamError{
		Provider: provider,
		Message:  "failed to read stream",
		Cause:    err,
	}
}
