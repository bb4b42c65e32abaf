package routing

import (
	"context"
	"sync"

	"humanlayer/hlyr/pkg/providers"
)

// MockProvider is a scriptable providers.Provider for router tests.
// It records every call and replays the configured reply, fragments or
// failures. All methods are safe for concurrent use.
type MockProvider struct {
	name string

	mu        sync.Mutex
	streaming bool
	reply     string
	sendErr   error
	initErr   error
	fragments []string
	openErr   error
	failAfter int
	streamErr error
	hold      bool

	config      providers.ProviderConfig
	initCalls   int
	sendCalls   int
	streamCalls int
}

// NewMockProvider creates a mock adapter with the given name. It streams,
// replies "mock response", and yields no fragments until configured.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		name:      name,
		streaming: true,
		reply:     "mock response",
		failAfter: -1,
	}
}

// SetStreaming sets the declared streaming capability.
func (m *MockProvider) SetStreaming(streaming bool) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streaming = streaming
	return m
}

// SetReply sets the content returned by SendCompletion.
func (m *MockProvider) SetReply(content string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = content
	return m
}

// SetError makes SendCompletion fail with err.
func (m *MockProvider) SetError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
	return m
}

// SetInitError makes Initialize fail with err.
func (m *MockProvider) SetInitError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initErr = err
	return m
}

// SetFragments sets the fragments yielded by StreamCompletion.
func (m *MockProvider) SetFragments(fragments ...string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fragments = fragments
	return m
}

// SetStreamOpenError makes StreamCompletion fail before returning a channel.
func (m *MockProvider) SetStreamOpenError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
	return m
}

// SetStreamFailure makes the stream deliver err as its final chunk after
// yielding the first after fragments.
func (m *MockProvider) SetStreamFailure(after int, err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = after
	m.streamErr = err
	return m
}

// SetHold keeps the stream open after the last fragment until its context
// is cancelled.
func (m *MockProvider) SetHold(hold bool) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hold = hold
	return m
}

// GetName returns the mock provider name.
func (m *MockProvider) GetName() string {
	return m.name
}

// Capabilities reports the configured streaming capability.
func (m *MockProvider) Capabilities() providers.Capabilities {
	m.mu.Lock()
	defer m.mu.Unlock()
	return providers.Capabilities{Streaming: m.streaming}
}

// Initialize records cfg. A failed Initialize keeps the previous config.
func (m *MockProvider) Initialize(cfg providers.ProviderConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initCalls++
	if m.initErr != nil {
		return m.initErr
	}
	m.config = cfg
	return nil
}

// SendCompletion returns the configured reply or error.
func (m *MockProvider) SendCompletion(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	m.mu.Lock()
	m.sendCalls++
	cfg, reply, err := m.config, m.reply, m.sendErr
	m.mu.Unlock()

	if cfg.Model == "" {
		return nil, &providers.NotConfiguredError{Provider: m.name}
	}
	if err != nil {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &providers.TimeoutError{Provider: m.name, Cause: ctxErr}
	}
	return &providers.ChatResponse{
		Provider: m.name,
		Model:    cfg.Model,
		Content:  reply,
	}, nil
}

// StreamCompletion yields the configured fragments.
func (m *MockProvider) StreamCompletion(ctx context.Context, req *providers.ChatRequest) (<-chan *providers.StreamChunk, error) {
	m.mu.Lock()
	m.streamCalls++
	cfg := m.config
	openErr := m.openErr
	fragments := append([]string(nil), m.fragments...)
	failAfter, streamErr, hold := m.failAfter, m.streamErr, m.hold
	m.mu.Unlock()

	if cfg.Model == "" {
		return nil, &providers.NotConfiguredError{Provider: m.name}
	}
	if openErr != nil {
		return nil, openErr
	}

	chunks := make(chan *providers.StreamChunk)
	go func() {
		defer close(chunks)
		for i, fragment := range fragments {
			if i == failAfter {
				break
			}
			select {
			case chunks <- &providers.StreamChunk{Delta: fragment}:
			case <-ctx.Done():
				return
			}
		}
		if failAfter >= 0 {
			select {
			case chunks <- &providers.StreamChunk{Error: streamErr}:
			case <-ctx.Done():
			}
			return
		}
		if hold {
			<-ctx.Done()
		}
	}()
	return chunks, nil
}

// Config returns the configuration of the last successful Initialize.
func (m *MockProvider) Config() providers.ProviderConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// InitCalls returns the number of Initialize calls.
func (m *MockProvider) InitCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initCalls
}

// SendCalls returns the number of SendCompletion calls.
func (m *MockProvider) SendCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sendCalls
}

// StreamCalls returns the number of StreamCompletion calls.
func (m *MockProvider) StreamCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streamCalls
}

// MockSource is an in-memory routing.ConfigSource.
type MockSource struct {
	mu       sync.Mutex
	active   providers.ProviderID
	failover providers.ProviderID
	configs  map[providers.ProviderID]providers.ProviderConfig
}

// NewMockSource creates an empty source.
func NewMockSource() *MockSource {
	return &MockSource{configs: make(map[providers.ProviderID]providers.ProviderConfig)}
}

// SetActive sets the active provider identifier.
func (s *MockSource) SetActive(id providers.ProviderID) *MockSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = id
	return s
}

// SetFailover sets the failover provider identifier. An empty id clears it.
func (s *MockSource) SetFailover(id providers.ProviderID) *MockSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failover = id
	return s
}

// SetConfig sets the configuration block for id.
func (s *MockSource) SetConfig(id providers.ProviderID, cfg providers.ProviderConfig) *MockSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[id] = cfg
	return s
}

// ClearConfig removes the configuration block for id.
func (s *MockSource) ClearConfig(id providers.ProviderID) *MockSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.configs, id)
	return s
}

// ActiveProvider implements routing.ConfigSource.
func (s *MockSource) ActiveProvider() providers.ProviderID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// FailoverProvider implements routing.ConfigSource.
func (s *MockSource) FailoverProvider() (providers.ProviderID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failover, s.failover != ""
}

// ProviderConfig implements routing.ConfigSource.
func (s *MockSource) ProviderConfig(id providers.ProviderID) (providers.ProviderConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.configs[id]
	return cfg, ok
}
