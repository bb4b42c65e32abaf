package history

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// Turn statuses used in queries.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Turn is one journaled chat exchange.
type Turn struct {
	// ID uniquely identifies the turn (UUID)
	ID string `json:"id"`

	// SessionID groups the turns of one chat run
	SessionID string `json:"session_id"`

	// Timestamp is when the user message was sent
	Timestamp time.Time `json:"timestamp"`

	// ActiveProvider is the provider ID the request was sent to
	ActiveProvider string `json:"active_provider"`

	// Provider is the display name of the adapter that answered. It is empty
	// on error and for streamed replies.
	Provider string `json:"provider,omitempty"`

	// Model is the model reported by the backend
	Model string `json:"model,omitempty"`

	// Stream is true when the reply was streamed
	Stream bool `json:"stream"`

	// Prompt is the user message
	Prompt string `json:"prompt"`

	// Reply is the assistant message, possibly partial when Error is set
	Reply string `json:"reply,omitempty"`

	// Error is the message of the error that ended the turn
	Error string `json:"error,omitempty"`

	// Latency is the time from request to full reply
	Latency time.Duration `json:"-"`
}

// MarshalJSON encodes Latency as whole milliseconds in "latency_ms".
func (t Turn) MarshalJSON() ([]byte, error) {
	type plain Turn
	return json.Marshal(struct {
		plain
		LatencyMs int64 `json:"latency_ms"`
	}{plain(t), t.Latency.Milliseconds()})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *Turn) UnmarshalJSON(data []byte) error {
	type plain Turn
	aux := struct {
		*plain
		LatencyMs int64 `json:"latency_ms"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Latency = time.Duration(aux.LatencyMs) * time.Millisecond
	return nil
}

// Succeeded reports whether the turn produced a reply.
func (t *Turn) Succeeded() bool {
	return t.Error == ""
}

// Query filters turns. Zero fields match everything.
type Query struct {
	SessionID string
	Provider  string

	// Status is StatusSuccess or StatusError
	Status string

	StartTime *time.Time
	EndTime   *time.Time

	// Limit caps the number of turns returned; zero means no limit
	Limit  int
	Offset int

	// Ascending returns the oldest turns first; the default is newest first
	Ascending bool
}

// Storage persists turns. Implementations are safe for concurrent use.
type Storage interface {
	// Store persists a turn.
	Store(ctx context.Context, turn *Turn) error

	// Query returns the turns matching query ordered by timestamp.
	Query(ctx context.Context, query *Query) ([]*Turn, error)

	// Count returns the number of turns matching query.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes the turns matching query and returns how many were removed.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases the backend.
	Close() error
}

// Exporter writes turns in a file format.
type Exporter interface {
	Export(ctx context.Context, turns []*Turn, w io.Writer) error
}
