package cli

import (
	"context"
	"errors"
	"fmt"

	"humanlayer/hlyr/pkg/providers"
	"humanlayer/hlyr/pkg/routing"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
	ExitInterrupted = 130
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError wrapping err.
func NewConfigError(field string, err error) *ConfigError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &ConfigError{
		Field:   field,
		Message: msg,
		Err:     err,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps err to a process exit code. Configuration problems exit
// with ExitConfigError so scripts can tell them apart from backend failures.
func ExitCode(err error) int {
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &cfgErr),
		providers.IsConfigurationError(err),
		errors.Is(err, routing.ErrNoActiveProvider),
		errors.Is(err, routing.ErrStreamingUnsupported):
		return ExitConfigError
	default:
		return ExitFailure
	}
}
