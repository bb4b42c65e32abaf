package health

import (
	"context"
	"errors"
	"testing"
	"time"

	testhelpers "humanlayer/hlyr/internal/providers"
	"humanlayer/hlyr/pkg/config"
	"humanlayer/hlyr/pkg/providers"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{"default timeout", 0, 5 * time.Second},
		{"custom timeout", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}
			if len(checker.ListChecks()) != 0 {
				t.Errorf("expected no checks, got %v", checker.ListChecks())
			}
		})
	}
}

func TestChecker_Run(t *testing.T) {
	checker := New(50 * time.Millisecond)
	failure := errors.New("backend down")

	checker.RegisterCheck("b-healthy", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("a-failing", func(ctx context.Context) error { return failure })
	checker.RegisterCheck("c-slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	report := checker.Run(context.Background())

	if report.Status != StatusDegraded {
		t.Errorf("Status = %q, want degraded", report.Status)
	}
	if len(report.Checks) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Checks))
	}

	want := []struct {
		name   string
		status string
	}{
		{"a-failing", StatusUnhealthy},
		{"b-healthy", StatusOK},
		{"c-slow", StatusUnhealthy},
	}
	for i, w := range want {
		got := report.Checks[i]
		if got.Name != w.name || got.Status != w.status {
			t.Errorf("check %d = %s/%s, want %s/%s", i, got.Name, got.Status, w.name, w.status)
		}
	}
	if !errors.Is(report.Checks[0].Err, failure) {
		t.Errorf("expected the check error to be kept, got %v", report.Checks[0].Err)
	}
}

func TestChecker_RunEmpty(t *testing.T) {
	report := New(0).Run(context.Background())

	if report.Status != StatusReady {
		t.Errorf("Status = %q, want ready", report.Status)
	}
}

func TestChecker_RegisterReplaces(t *testing.T) {
	checker := New(0)
	checker.RegisterCheck("x", func(ctx context.Context) error { return errors.New("old") })
	checker.RegisterCheck("x", func(ctx context.Context) error { return nil })

	report := checker.Run(context.Background())
	if report.Status != StatusReady || len(report.Checks) != 1 {
		t.Errorf("unexpected report %+v", report)
	}
}

func resultFor(t *testing.T, report Report, name string) CheckResult {
	t.Helper()
	for _, r := range report.Checks {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no result for %s", name)
	return CheckResult{}
}

func TestRegisterProviderChecks(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Providers.Claude.APIKey = "sk-ant-test"

	checker := New(time.Second)
	RegisterProviderChecks(checker, cfg, ProviderCheckOptions{})

	if got := len(checker.ListChecks()); got != len(providers.SupportedProviders()) {
		t.Fatalf("registered %d checks, want %d", got, len(providers.SupportedProviders()))
	}

	report := checker.Run(context.Background())

	tests := []struct {
		id      providers.ProviderID
		healthy bool
		wantErr error
	}{
		{providers.ProviderOllama, true, nil},
		{providers.ProviderLMStudio, true, nil},
		{providers.ProviderClaude, true, nil},
		{providers.ProviderGemini, false, providers.ErrMissingCredential},
		{providers.ProviderTogetherAI, false, providers.ErrMissingCredential},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			result := resultFor(t, report, string(tt.id))
			if result.Healthy() != tt.healthy {
				t.Errorf("Healthy() = %v, want %v (%s)", result.Healthy(), tt.healthy, result.Message)
			}
			if tt.wantErr != nil && !errors.Is(result.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", result.Err, tt.wantErr)
			}
		})
	}
}

func TestRegisterProviderChecks_MissingModel(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Providers.TogetherAI.APIKey = "together-key"

	checker := New(time.Second)
	RegisterProviderChecks(checker, cfg, ProviderCheckOptions{})

	result := resultFor(t, checker.Run(context.Background()), "togetherai")
	if !errors.Is(result.Err, providers.ErrMissingModel) {
		t.Errorf("Err = %v, want missing model", result.Err)
	}
}

func TestRegisterProviderChecks_ProbeOllama(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/api/tags", testhelpers.MockResponse{
		StatusCode: 200,
		Body: map[string]any{
			"models": []map[string]any{{"name": "llama2:latest"}},
		},
	})

	tests := []struct {
		name    string
		model   string
		healthy bool
	}{
		{"model available", "llama2", true},
		{"model missing", "mistral", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			cfg.Providers.Ollama.Host = mock.URL()
			cfg.Providers.Ollama.Model = tt.model

			checker := New(time.Second)
			RegisterProviderChecks(checker, cfg, ProviderCheckOptions{Probe: true})

			result := resultFor(t, checker.Run(context.Background()), "ollama")
			if result.Healthy() != tt.healthy {
				t.Errorf("Healthy() = %v, want %v (%s)", result.Healthy(), tt.healthy, result.Message)
			}
		})
	}
}
