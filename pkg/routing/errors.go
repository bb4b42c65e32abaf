package routing

import (
	"errors"
	"fmt"
)

// Routing errors that can be checked with errors.Is().
var (
	// ErrNoActiveProvider is returned when a request is issued before any
	// provider has been made active.
	ErrNoActiveProvider = errors.New("no active provider is set")

	// ErrStreamingUnsupported is returned when the active provider cannot stream.
	ErrStreamingUnsupported = errors.New("streaming unsupported")
)

// StreamingUnsupportedError is returned by RequestStream when the active
// adapter does not declare the streaming capability.
type StreamingUnsupportedError struct {
	// Provider is the name of the active provider
	Provider string
}

// Error implements the error interface.
func (e *StreamingUnsupportedError) Error() string {
	return fmt.Sprintf("active provider %s does not support streaming", e.Provider)
}

// Is implements error matching for errors.Is().
func (e *StreamingUnsupportedError) Is(target error) bool {
	return target == ErrStreamingUnsupported
}
