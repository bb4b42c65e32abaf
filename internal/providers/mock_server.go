package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// StreamFormat selects how MockResponse.StreamChunks are framed on the wire.
type StreamFormat int

const (
	// StreamSSE frames every chunk as "data: <chunk>\n\n" and ends with [DONE]
	StreamSSE StreamFormat = iota

	// StreamSSENoDone frames chunks like StreamSSE without the [DONE] marker
	StreamSSENoDone

	// StreamRawSSE writes chunks as complete, pre-formatted SSE events
	StreamRawSSE

	// StreamNDJSON writes one chunk per line
	StreamNDJSON
)

// MockServer is a mock HTTP server for testing provider adapters.
// It simulates backend responses including errors and streams, and records
// every request it receives.
type MockServer struct {
	server    *httptest.Server
	responses map[string]MockResponse
	requests  []RecordedRequest
	mu        sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       any
	Delay      time.Duration
	Headers    map[string]string

	// StreamChunks switches the response to streaming mode
	StreamChunks []string
	StreamFormat StreamFormat

	// FailAfter aborts the connection after that many chunks (0 means never)
	FailAfter int
}

// RecordedRequest is a request captured by the mock server.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into v.
func (r RecordedRequest) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets a mock response for a specific path.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responses[path] = response
}

// GetRequestCount returns the number of requests received.
func (ms *MockServer) GetRequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.requests)
}

// Requests returns a copy of every recorded request.
func (ms *MockServer) Requests() []RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]RecordedRequest, len(ms.requests))
	copy(out, ms.requests)
	return out
}

// LastRequest returns the most recent request, or false if none arrived.
func (ms *MockServer) LastRequest() (RecordedRequest, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if len(ms.requests) == 0 {
		return RecordedRequest{}, false
	}
	return ms.requests[len(ms.requests)-1], true
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	if len(response.StreamChunks) > 0 {
		ms.handleStream(w, r, response)
		return
	}

	status := response.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		case []byte:
			_, _ = w.Write(v)
		default:
			_ = json.NewEncoder(w).Encode(response.Body)
		}
	}
}

func (ms *MockServer) handleStream(w http.ResponseWriter, r *http.Request, response MockResponse) {
	if response.StreamFormat == StreamNDJSON {
		w.Header().Set("Content-Type", "application/x-ndjson")
	} else {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)

	for i, chunk := range response.StreamChunks {
		if response.FailAfter > 0 && i == response.FailAfter {
			abort(w)
			return
		}

		switch response.StreamFormat {
		case StreamNDJSON:
			fmt.Fprintf(w, "%s\n", chunk)
		case StreamRawSSE:
			fmt.Fprintf(w, "%s\n", strings.TrimRight(chunk, "\n")+"\n")
		default:
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		flusher.Flush()

		select {
		case <-time.After(5 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
	}

	if response.StreamFormat == StreamSSE {
		fmt.Fprintf(w, "data: [DONE]\n\n")
		flusher.Flush()
	}
}

// abort drops the connection mid-body so the client sees a read error.
func abort(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic(http.ErrAbortHandler)
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic(http.ErrAbortHandler)
	}
	_ = conn.Close()
}

// MockOpenAIResponse creates a mock OpenAI-compatible chat completion response.
func MockOpenAIResponse(content string, model string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
}

// MockOpenAIStreamChunk creates a mock OpenAI-compatible streaming chunk.
func MockOpenAIStreamChunk(delta string, finishReason string) string {
	choice := map[string]any{
		"index": 0,
		"delta": map[string]any{
			"content": delta,
		},
	}
	if finishReason != "" {
		choice["finish_reason"] = finishReason
	}
	chunk := map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion.chunk",
		"created": time.Now().Unix(),
		"model":   "gpt-4",
		"choices": []map[string]any{choice},
	}

	bytes, _ := json.Marshal(chunk)
	return string(bytes)
}

// MockAnthropicResponse creates a mock Anthropic messages response.
func MockAnthropicResponse(content string, model string) map[string]any {
	return map[string]any{
		"id":   "msg_123",
		"type": "message",
		"role": "assistant",
		"content": []map[string]any{
			{
				"type": "text",
				"text": content,
			},
		},
		"model":       model,
		"stop_reason": "end_turn",
		"usage": map[string]any{
			"input_tokens":  10,
			"output_tokens": 20,
		},
	}
}

// MockAnthropicStreamEvent creates a mock Anthropic stream event.
func MockAnthropicStreamEvent(eventType string, data any) string {
	var eventData string

	if data != nil {
		bytes, _ := json.Marshal(data)
		eventData = string(bytes)
	}

	return fmt.Sprintf("event: %s\ndata: %s\n", eventType, eventData)
}

// MockAnthropicTextDelta creates a content_block_delta event carrying text.
func MockAnthropicTextDelta(text string) string {
	return MockAnthropicStreamEvent("content_block_delta", map[string]any{
		"type":  "content_block_delta",
		"index": 0,
		"delta": map[string]any{
			"type": "text_delta",
			"text": text,
		},
	})
}

// MockGeminiResponse creates a mock Gemini generateContent response.
func MockGeminiResponse(content string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": content}},
				},
				"finishReason": "STOP",
			},
		},
		"usageMetadata": map[string]any{
			"promptTokenCount":     10,
			"candidatesTokenCount": 20,
			"totalTokenCount":      30,
		},
	}
}

// MockGeminiStreamChunk creates one streamGenerateContent SSE payload.
func MockGeminiStreamChunk(text string) string {
	bytes, _ := json.Marshal(MockGeminiResponse(text))
	return string(bytes)
}

// MockOllamaResponse creates a mock Ollama /api/chat response.
func MockOllamaResponse(content string, model string) map[string]any {
	return map[string]any{
		"model":      model,
		"created_at": "2024-01-01T00:00:00Z",
		"message": map[string]any{
			"role":    "assistant",
			"content": content,
		},
		"done":        true,
		"done_reason": "stop",
	}
}

// MockOllamaStreamLine creates one NDJSON line of an Ollama chat stream.
func MockOllamaStreamLine(content string, done bool) string {
	bytes, _ := json.Marshal(map[string]any{
		"model":      "llama2",
		"created_at": "2024-01-01T00:00:00Z",
		"message": map[string]any{
			"role":    "assistant",
			"content": content,
		},
		"done": done,
	})
	return string(bytes)
}

// MockErrorResponse creates a mock error response.
func MockErrorResponse(statusCode int, message string) MockResponse {
	body := map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    "invalid_request_error",
			"code":    statusCode,
		},
	}

	return MockResponse{
		StatusCode: statusCode,
		Body:       body,
	}
}

// MockAuthError creates a 401 authentication error response.
func MockAuthError() MockResponse {
	return MockErrorResponse(http.StatusUnauthorized, "Invalid API key")
}

// MockRateLimitError creates a 429 rate limit error response.
func MockRateLimitError(retryAfter int) MockResponse {
	response := MockErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded")
	response.Headers = map[string]string{
		"Retry-After": fmt.Sprintf("%d", retryAfter),
	}
	return response
}

// MockServerError creates a 500 internal server error response.
func MockServerError() MockResponse {
	return MockErrorResponse(http.StatusInternalServerError, "Internal server error")
}
