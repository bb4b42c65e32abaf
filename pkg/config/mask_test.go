package config

import "testing"

func TestMaskSensitiveValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"short", "***"},
		{"12345678", "***"},
		{"sk-ant-api03-secret", "sk-a***"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MaskSensitiveValue(tt.input); got != tt.want {
				t.Errorf("MaskSensitiveValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfig_Masked(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Providers.Claude.APIKey = "sk-ant-api03-secret"
	cfg.Providers.Qwen.APIKey = "qwen-secret-key"

	masked := cfg.Masked()

	if masked.Providers.Claude.APIKey != "sk-a***" {
		t.Errorf("Claude.APIKey = %q", masked.Providers.Claude.APIKey)
	}
	if masked.Providers.Qwen.APIKey != "qwen***" {
		t.Errorf("Qwen.APIKey = %q", masked.Providers.Qwen.APIKey)
	}
	if masked.Providers.Ollama.APIKey != "" {
		t.Errorf("empty key should stay empty, got %q", masked.Providers.Ollama.APIKey)
	}
	if cfg.Providers.Claude.APIKey != "sk-ant-api03-secret" {
		t.Error("Masked modified the original configuration")
	}
	if masked.Providers.Claude.Model != cfg.Providers.Claude.Model {
		t.Error("Masked changed a non-secret field")
	}
}
