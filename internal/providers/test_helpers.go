package providers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"humanlayer/hlyr/pkg/providers"
)

// TestConfig returns a provider configuration pointing at baseURL.
func TestConfig(baseURL, model string) providers.ProviderConfig {
	return providers.ProviderConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   model,
		Timeout: 5 * time.Second,
	}
}

// TestMessage creates a test message.
func TestMessage(role, content string) providers.Message {
	return providers.Message{
		Role:    role,
		Content: content,
	}
}

// TestConversation creates a conversation request with a single user turn.
func TestConversation(content string) *providers.ChatRequest {
	return providers.NewConversation(TestMessage(providers.RoleUser, content))
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorType fails the test if err does not wrap an error of the
// expected pointer type.
func AssertErrorType(t *testing.T, err error, expectedType any) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var ok bool
	switch expectedType.(type) {
	case *providers.AuthError:
		var target *providers.AuthError
		ok = errors.As(err, &target)
	case *providers.RateLimitError:
		var target *providers.RateLimitError
		ok = errors.As(err, &target)
	case *providers.TimeoutError:
		var target *providers.TimeoutError
		ok = errors.As(err, &target)
	case *providers.ProviderError:
		var target *providers.ProviderError
		ok = errors.As(err, &target)
	case *providers.ParseError:
		var target *providers.ParseError
		ok = errors.As(err, &target)
	case *providers.StreamError:
		var target *providers.StreamError
		ok = errors.As(err, &target)
	case *providers.MissingCredentialError:
		var target *providers.MissingCredentialError
		ok = errors.As(err, &target)
	case *providers.NotConfiguredError:
		var target *providers.NotConfiguredError
		ok = errors.As(err, &target)
	default:
		t.Fatalf("unknown error type: %T", expectedType)
	}

	if !ok {
		t.Fatalf("expected %T, got %T: %v", expectedType, err, err)
	}
}

// AssertContains fails the test if haystack doesn't contain needle.
func AssertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

// WithTimeout runs a function with a timeout context.
func WithTimeout(t *testing.T, timeout time.Duration, fn func(ctx context.Context)) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		fn(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timeout after %s", timeout)
	}
}

// CollectStreamChunks collects all fragments from a stream channel.
// It returns the fragments received before the first error chunk.
func CollectStreamChunks(t *testing.T, chunks <-chan *providers.StreamChunk) ([]string, error) {
	t.Helper()

	var collected []string
	for chunk := range chunks {
		if chunk.Error != nil {
			return collected, chunk.Error
		}
		collected = append(collected, chunk.Delta)
	}

	return collected, nil
}

// WaitForCondition waits for a condition to become true within a timeout.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if condition() {
			return
		}

		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %s: %s", timeout, message)
		}

		<-ticker.C
	}
}
