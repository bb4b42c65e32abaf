package config

import (
	"sync"
	"testing"

	"humanlayer/hlyr/pkg/providers"
)

func TestSource_ConfigSource(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.ActiveProvider = providers.ProviderClaude
	cfg.FailoverProvider = providers.ProviderOllama
	cfg.Providers.Claude.APIKey = "sk-ant"

	s := NewSource(cfg)

	if s.ActiveProvider() != providers.ProviderClaude {
		t.Errorf("ActiveProvider() = %q", s.ActiveProvider())
	}

	id, ok := s.FailoverProvider()
	if !ok || id != providers.ProviderOllama {
		t.Errorf("FailoverProvider() = %q, %v", id, ok)
	}

	pc, ok := s.ProviderConfig(providers.ProviderOllama)
	if !ok {
		t.Fatal("expected ollama config")
	}
	if pc.BaseURL != DefaultOllamaHost || pc.Model != DefaultOllamaModel {
		t.Errorf("ollama config = %+v", pc)
	}

	if _, ok := s.ProviderConfig("nonexistent"); ok {
		t.Error("expected no config for an unknown provider")
	}
}

func TestSource_NoFailover(t *testing.T) {
	s := NewSource(nil)

	if _, ok := s.FailoverProvider(); ok {
		t.Error("expected no failover provider by default")
	}
	if _, ok := s.Get(KeyFailoverProvider); ok {
		t.Error("expected Get(failoverProvider) to report absence")
	}
}

func TestSource_Get(t *testing.T) {
	s := NewSource(nil)

	active, ok := s.Get(KeyActiveProvider)
	if !ok || active != providers.ProviderOllama {
		t.Errorf("Get(activeProvider) = %v, %v", active, ok)
	}

	value, ok := s.Get(KeyProviders)
	if !ok {
		t.Fatal("expected providers")
	}
	pc, ok := value.(ProvidersConfig)
	if !ok {
		t.Fatalf("Get(providers) returned %T", value)
	}
	pc.Ollama.Model = "changed"
	if s.Config().Providers.Ollama.Model == "changed" {
		t.Error("Get(providers) must return a copy")
	}

	if _, ok := s.Get("unknown"); ok {
		t.Error("expected unknown key to be absent")
	}
}

func TestSource_Store(t *testing.T) {
	s := NewSource(nil)

	next := NewDefaultConfig()
	next.FailoverProvider = providers.ProviderLMStudio
	s.Store(next)

	if id, _ := s.FailoverProvider(); id != providers.ProviderLMStudio {
		t.Errorf("FailoverProvider() = %q after Store", id)
	}

	s.Store(nil)
	if s.Config() != next {
		t.Error("Store(nil) must keep the current configuration")
	}
}

func TestSource_ConcurrentAccess(t *testing.T) {
	s := NewSource(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Store(NewDefaultConfig())
		}()
		go func() {
			defer wg.Done()
			_ = s.ActiveProvider()
			_, _ = s.ProviderConfig(providers.ProviderOllama)
		}()
	}
	wg.Wait()
}
