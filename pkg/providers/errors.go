package providers

import (
	"errors"
	"fmt"
	"time"
)

// Error classes that can be checked with errors.Is().
var (
	// ErrUnknownProvider is returned when an identifier is not a supported provider.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrMissingCredential is returned when a hosted backend has no API key.
	ErrMissingCredential = errors.New("missing credential")

	// ErrMissingModel is returned when configuration resolves no model for a provider.
	ErrMissingModel = errors.New("missing model")

	// ErrNotConfigured is returned when a request is issued on an adapter without a model.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrBackend matches every failure surfaced by a backend call.
	ErrBackend = errors.New("backend error")
)

// UnknownProviderError is returned when a provider identifier is not in the
// supported set.
type UnknownProviderError struct {
	// Provider is the identifier that was requested
	Provider string
}

// Error implements the error interface.
func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("provider %s not found", e.Provider)
}

// Is implements error matching for errors.Is().
func (e *UnknownProviderError) Is(target error) bool {
	return target == ErrUnknownProvider
}

// MissingCredentialError is returned by Initialize when the configuration
// lacks a credential the backend requires.
type MissingCredentialError struct {
	// Provider is the name of the provider
	Provider string

	// Field is the configuration field that is missing
	Field string
}

// Error implements the error interface.
func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s provider requires an API key (missing %q)", e.Provider, e.Field)
}

// Is implements error matching for errors.Is().
func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// MissingModelError is returned when configuration resolves no model for a
// provider that is about to be used.
type MissingModelError struct {
	// Provider is the provider identifier
	Provider string
}

// Error implements the error interface.
func (e *MissingModelError) Error() string {
	return fmt.Sprintf("provider %q has no model configured", e.Provider)
}

// Is implements error matching for errors.Is().
func (e *MissingModelError) Is(target error) bool {
	return target == ErrMissingModel
}

// NotConfiguredError is returned when SendCompletion or StreamCompletion runs
// before a model has been resolved. It is a programming-contract violation,
// not a backend failure.
type NotConfiguredError struct {
	// Provider is the name of the provider
	Provider string
}

// Error implements the error interface.
func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("%s provider is not configured with a model.", e.Provider)
}

// Is implements error matching for errors.Is().
func (e *NotConfiguredError) Is(target error) bool {
	return target == ErrNotConfigured
}

// ProviderError represents a general provider error.
// It includes the provider name, HTTP status code, and underlying error.
type ProviderError struct {
	// Provider is the name of the provider that returned the error
	Provider string

	// StatusCode is the HTTP status code (0 if not applicable)
	StatusCode int

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is().
func (e *ProviderError) Is(target error) bool {
	return target == ErrBackend
}

// AuthError represents an authentication failure.
// This occurs when the provider rejects the API key (HTTP 401 or 403).
type AuthError struct {
	// Provider is the name of the provider that rejected authentication
	Provider string

	// Message is the error message from the provider
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %q authentication failed: %s", e.Provider, e.Message)
}

// Is implements error matching for errors.Is().
func (e *AuthError) Is(target error) bool {
	return target == ErrBackend
}

// RateLimitError represents a rate limit exceeded error (HTTP 429).
// It includes the retry-after duration if provided by the provider.
type RateLimitError struct {
	// Provider is the name of the provider that rate limited the request
	Provider string

	// RetryAfter is the duration the provider asked for (informational only)
	RetryAfter time.Duration

	// Message is the error message from the provider
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider %q rate limit exceeded (retry after %s): %s",
			e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("provider %q rate limit exceeded: %s", e.Provider, e.Message)
}

// Is implements error matching for errors.Is().
func (e *RateLimitError) Is(target error) bool {
	return target == ErrBackend
}

// TimeoutError represents a request timeout or cancellation.
type TimeoutError struct {
	// Provider is the name of the provider where the timeout occurred
	Provider string

	// Timeout is the configured timeout duration
	Timeout time.Duration

	// Cause is the context or transport error
	Cause error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
	}
	return fmt.Sprintf("provider %q request cancelled: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is().
func (e *TimeoutError) Is(target error) bool {
	return target == ErrBackend
}

// ParseError represents a response parsing failure.
// This occurs when the provider returns a malformed response.
type ParseError struct {
	// Provider is the name of the provider that returned the malformed response
	Provider string

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is().
func (e *ParseError) Is(target error) bool {
	return target == ErrBackend
}

// StreamError represents an error that occurred during streaming.
// This is sent through the stream channel to indicate an error.
type StreamError struct {
	// Provider is the name of the provider where the error occurred
	Provider string

	// Message is the error message
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %q stream error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %q stream error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *StreamError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is().
func (e *StreamError) Is(target error) bool {
	return target == ErrBackend
}

// IsConfigurationError reports whether err belongs to the configuration class
// (unknown provider, missing credential or model, not configured) rather than
// being a backend failure.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnknownProvider) ||
		errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrMissingModel) ||
		errors.Is(err, ErrNotConfigured)
}
