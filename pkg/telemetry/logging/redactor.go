package logging

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Pattern is a named redaction rule applied to string values.
type Pattern struct {
	Name        string
	Pattern     string
	Replacement string
}

// Redactor masks credentials in log attributes.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
	PatternEmail       = "email"
)

var defaultPatterns = []Pattern{
	// OpenAI and Anthropic style keys
	{PatternAPIKey, `sk-[a-zA-Z0-9_\-]+`, "sk-***"},
	{PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternPassword, `(password|passwd|pwd)[:=]\s*[^\s]+`, "$1: ***"},
	{PatternEmail, `([a-zA-Z0-9._%+-])[a-zA-Z0-9._%+-]*@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`, "$1***@$2"},
}

// sensitiveKeys are attribute keys whose values are always masked.
// Keys are compared lowercased with "-" folded to "_".
var sensitiveKeys = map[string]bool{
	"api_key":        true,
	"apikey":         true,
	"authorization":  true,
	"x_api_key":      true,
	"x_goog_api_key": true,
	"password":       true,
	"secret":         true,
	"token":          true,
	"access_token":   true,
}

// NewRedactor creates a Redactor with the built-in patterns followed by
// custom. It fails if a custom pattern does not compile.
func NewRedactor(custom []Pattern) (*Redactor, error) {
	r := &Redactor{}
	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regexp.MustCompile(p.Pattern),
			replacement: p.Replacement,
		})
	}

	for _, p := range custom {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p.Name, err)
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r, nil
}

// RedactString applies every pattern to value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, pattern := range r.patterns {
		value = pattern.regex.ReplaceAllString(value, pattern.replacement)
	}
	return value
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr that masks sensitive keys
// and redacts string and error values.
func (r *Redactor) ReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, RedactAPIKey(a.Value.Resolve().String()))
	}

	switch a.Value.Kind() {
	case slog.KindString:
		a.Value = slog.StringValue(r.RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			a.Value = slog.StringValue(r.RedactString(err.Error()))
		}
	}
	return a
}

// IsSensitiveKey reports whether an attribute key names a credential.
func IsSensitiveKey(key string) bool {
	normalized := strings.ReplaceAll(strings.ToLower(key), "-", "_")
	return sensitiveKeys[normalized]
}

// RedactAPIKey masks an API key, keeping a four character prefix when the
// key is long enough to stay unidentifiable.
func RedactAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "***"
}
