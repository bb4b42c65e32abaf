package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"humanlayer/hlyr/pkg/providers"
	"humanlayer/hlyr/pkg/secrets"
)

// validate is the shared validator instance. It is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML key.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "providers.claude.model").
	Field string

	// Message is a human-readable error message.
	Message string

	// Err is the typed error behind the message, if any
	Err error
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the typed error behind the field error.
func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Unwrap exposes the typed field errors to errors.Is and errors.As, so a
// *providers.MissingModelError or *providers.UnknownProviderError can be
// matched through a ValidationError.
func (e ValidationError) Unwrap() []error {
	var errs []error
	for _, fe := range e.Errors {
		if fe.Err != nil {
			errs = append(errs, fe.Err)
		}
	}
	return errs
}

// Validate checks struct tags and the provider rules:
//   - activeProvider and failoverProvider name supported providers
//   - failoverProvider differs from activeProvider
//   - the active and failover providers have a model (*providers.MissingModelError)
//   - the active and failover API keys hold no unresolved ${secret:name}
//
// All errors are collected and returned together as a ValidationError.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateTags(cfg)...)
	errs = append(errs, validateProviders(cfg)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateTags(cfg *Config) []FieldError {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "config", Message: err.Error(), Err: err}}
	}

	errs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: tagMessage(fe),
		})
	}
	return errs
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return fmt.Sprintf("is required when %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return fmt.Sprintf("must be a valid URL (got %q)", fe.Value())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("validation failed on '%s' tag", fe.Tag())
	}
}

func requireModel(cfg *Config, id providers.ProviderID, role string) []FieldError {
	settings, _ := cfg.Providers.Get(id)
	if settings.Model != "" {
		return nil
	}
	return []FieldError{{
		Field:   "providers." + string(id) + ".model",
		Message: "is required for the " + role + " provider",
		Err:     &providers.MissingModelError{Provider: string(id)},
	}}
}

func validateProviders(cfg *Config) []FieldError {
	var errs []FieldError

	activeKnown := cfg.ActiveProvider.Valid()
	if cfg.ActiveProvider != "" && !activeKnown {
		errs = append(errs, FieldError{
			Field:   "activeProvider",
			Message: fmt.Sprintf("unknown provider %q", cfg.ActiveProvider),
			Err:     &providers.UnknownProviderError{Provider: string(cfg.ActiveProvider)},
		})
	}

	if cfg.FailoverProvider != "" {
		switch {
		case !cfg.FailoverProvider.Valid():
			errs = append(errs, FieldError{
				Field:   "failoverProvider",
				Message: fmt.Sprintf("unknown provider %q", cfg.FailoverProvider),
				Err:     &providers.UnknownProviderError{Provider: string(cfg.FailoverProvider)},
			})
		case cfg.FailoverProvider == cfg.ActiveProvider:
			errs = append(errs, FieldError{
				Field:   "failoverProvider",
				Message: "must differ from activeProvider",
			})
		}
	}

	if activeKnown {
		errs = append(errs, requireModel(cfg, cfg.ActiveProvider, "active")...)
	}
	if cfg.FailoverProvider.Valid() && cfg.FailoverProvider != cfg.ActiveProvider {
		errs = append(errs, requireModel(cfg, cfg.FailoverProvider, "failover")...)
	}

	for _, id := range []providers.ProviderID{cfg.ActiveProvider, cfg.FailoverProvider} {
		settings, ok := cfg.Providers.Get(id)
		if ok && secrets.HasReference(settings.APIKey) {
			errs = append(errs, FieldError{
				Field:   "providers." + string(id) + ".apiKey",
				Message: "contains an unresolved secret reference",
				Err:     secrets.ErrNotFound,
			})
		}
	}

	return errs
}
