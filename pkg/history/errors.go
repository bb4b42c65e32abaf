package history

import "fmt"

// StorageError represents an error from the storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "memory")
	Operation string // Operation that failed ("store", "query", "delete", etc.)
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// ExportError represents an error while exporting turns.
type ExportError struct {
	Format    string
	TurnCount int
	Cause     error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("history export error [format=%s, turn_count=%d]: %v", e.Format, e.TurnCount, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, turnCount int, cause error) *ExportError {
	return &ExportError{
		Format:    format,
		TurnCount: turnCount,
		Cause:     cause,
	}
}
