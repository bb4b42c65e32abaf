package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
)

// referencePattern matches ${secret:name}.
var referencePattern = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// HasReference reports whether value contains a ${secret:name} reference.
func HasReference(value string) bool {
	return referencePattern.MatchString(value)
}

// Resolver replaces secret references with values from its sources.
type Resolver struct {
	sources []Source
}

// NewResolver creates a resolver that asks sources in order.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// GetSecret returns the value of name from the first supporting source that
// has it.
func (r *Resolver) GetSecret(ctx context.Context, name string) (string, error) {
	var lastErr error
	for _, source := range r.sources {
		if !source.Supports(name) {
			continue
		}

		value, err := source.GetSecret(ctx, name)
		if err != nil {
			slog.Debug("secret source failed", "source", source.Name(), "secret", redactName(name), "error", err)
			lastErr = err
			continue
		}
		return value, nil
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", &NotFoundError{Secret: name}
}

// Resolve replaces every reference in input. References that cannot be
// resolved stay in the output and are reported together in the error.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	var errs []error

	output := referencePattern.ReplaceAllStringFunc(input, func(match string) string {
		name := referencePattern.FindStringSubmatch(match)[1]
		value, err := r.GetSecret(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to resolve %s: %w", match, err))
			return match
		}
		return value
	})

	return output, errors.Join(errs...)
}

// redactName keeps the first and last two characters of a secret name.
func redactName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}
