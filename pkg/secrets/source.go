package secrets

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Source that holds no value for a name.
var ErrNotFound = errors.New("secret not found")

// Source retrieves secret values by name.
type Source interface {
	// GetSecret returns the value of name, or an error wrapping ErrNotFound.
	GetSecret(ctx context.Context, name string) (string, error)

	// Name identifies the source in logs and errors.
	Name() string

	// Supports reports whether the source may hold name.
	Supports(name string) bool
}

// NotFoundError reports a secret that no source could provide.
type NotFoundError struct {
	Secret string
	Source string
}

func (e *NotFoundError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("secret %q not found", e.Secret)
	}
	return fmt.Sprintf("secret %q not found in %s", e.Secret, e.Source)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
