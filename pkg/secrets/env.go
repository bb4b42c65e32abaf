package secrets

import (
	"context"
	"os"
	"strings"
)

// DefaultEnvPrefix prefixes the environment variables EnvSource reads.
const DefaultEnvPrefix = "HUMANLAYER_SECRET_"

// EnvSource reads secrets from environment variables.
//
// Secret "anthropic-api-key" is read from HUMANLAYER_SECRET_ANTHROPIC_API_KEY
// with the default prefix.
type EnvSource struct {
	Prefix string
}

// NewEnvSource creates an environment source. An empty prefix uses
// DefaultEnvPrefix.
func NewEnvSource(prefix string) *EnvSource {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return &EnvSource{Prefix: prefix}
}

// GetSecret returns the value of the variable for name. Empty values count
// as missing.
func (s *EnvSource) GetSecret(ctx context.Context, name string) (string, error) {
	value := os.Getenv(s.variable(name))
	if value == "" {
		return "", &NotFoundError{Secret: name, Source: "environment variable " + s.variable(name)}
	}
	return value, nil
}

// Name returns "env".
func (s *EnvSource) Name() string {
	return "env"
}

// Supports always reports true so the environment acts as the fallback.
func (s *EnvSource) Supports(name string) bool {
	return true
}

func (s *EnvSource) variable(name string) string {
	return s.Prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
