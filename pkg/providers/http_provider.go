package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// HTTPProvider is the base implementation for HTTP-based provider adapters.
// It owns the adapter's bound configuration and HTTP client and performs
// single round trips with typed error classification.
//
// Concrete adapters embed *HTTPProvider and implement the rest of the
// Provider interface. The zero binding has no model, so requests fail with
// *NotConfiguredError until Bind has been called with a model.
type HTTPProvider struct {
	// name is the stable provider name reported by GetName
	name string

	// mu protects config, client and bound
	mu sync.RWMutex

	// config is the configuration from the last successful Bind
	config ProviderConfig

	// client is rebuilt on every Bind
	client *http.Client

	// bound reports whether Bind has been called
	bound bool
}

// NewHTTPProvider creates an unbound HTTP provider base. It performs no I/O.
func NewHTTPProvider(name string) *HTTPProvider {
	return &HTTPProvider{
		name:   name,
		client: newHTTPClient(0),
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// GetName returns the provider's stable name.
func (p *HTTPProvider) GetName() string {
	return p.name
}

// Bind stores cfg and rebuilds the HTTP client for its endpoint and timeout.
// Idle connections of the previous client are released.
func (p *HTTPProvider) Bind(cfg ProviderConfig) {
	client := newHTTPClient(cfg.Timeout)

	p.mu.Lock()
	previous := p.client
	p.config = cfg
	p.client = client
	p.bound = true
	p.mu.Unlock()

	if previous != nil {
		previous.CloseIdleConnections()
	}

	slog.Debug("provider bound",
		"provider", p.name,
		"base_url", cfg.BaseURL,
		"model", cfg.Model,
	)
}

// GetConfig returns the configuration from the last Bind.
func (p *HTTPProvider) GetConfig() ProviderConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config
}

// IsBound reports whether Bind has been called at least once.
func (p *HTTPProvider) IsBound() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bound
}

// RequireModel returns a snapshot of the bound configuration, or a
// *NotConfiguredError if no model has been resolved.
func (p *HTTPProvider) RequireModel() (ProviderConfig, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.bound || p.config.Model == "" {
		return ProviderConfig{}, &NotConfiguredError{Provider: p.name}
	}
	return p.config, nil
}

func (p *HTTPProvider) httpClient() (*http.Client, time.Duration) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client, p.config.Timeout
}

// DoRequest performs exactly one HTTP round trip and classifies failures.
// A non-2xx status is returned as *AuthError, *RateLimitError or
// *ProviderError with the response body as message. On success the caller
// owns resp.Body.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	client, timeout := p.httpClient()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.DebugContext(ctx, "sending request to provider",
		"provider", p.name,
		"method", method,
		"url", url,
	)

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &TimeoutError{Provider: p.name, Cause: ctxErr}
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &TimeoutError{Provider: p.name, Timeout: timeout, Cause: err}
		}
		return nil, &ProviderError{
			Provider: p.name,
			Message:  err.Error(),
			Cause:    err,
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	errorBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &AuthError{
			Provider: p.name,
			Message:  string(errorBody),
		}
	case http.StatusTooManyRequests:
		return nil, &RateLimitError{
			Provider:   p.name,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    string(errorBody),
		}
	default:
		return nil, &ProviderError{
			Provider:   p.name,
			StatusCode: resp.StatusCode,
			Message:    string(errorBody),
		}
	}
}

// DoJSONRequest marshals reqBody, performs the request and decodes the
// response into respBody. It returns the raw response bytes.
func (p *HTTPProvider) DoJSONRequest(ctx context.Context, method, url string, reqBody, respBody any, headers map[string]string) ([]byte, error) {
	var bodyBytes []byte
	if reqBody != nil {
		var err error
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := p.DoRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ParseError{
			Provider: p.name,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return nil, &ParseError{
				Provider:    p.name,
				RawResponse: string(responseBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return responseBytes, nil
}

// OpenStream marshals reqBody and performs the request, returning the
// response body for incremental reading.
func (p *HTTPProvider) OpenStream(ctx context.Context, url string, reqBody any, headers map[string]string) (io.ReadCloser, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := p.DoRequest(ctx, http.MethodPost, url, bodyBytes, headers)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
