package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSource reads secrets from one file per secret in a directory.
// Surrounding whitespace is trimmed from file contents.
type FileSource struct {
	dir string
}

// NewFileSource creates a file source over dir, which must exist.
func NewFileSource(dir string) (*FileSource, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve secrets directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat secrets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets directory %s is not a directory", dir)
	}
	return &FileSource{dir: abs}, nil
}

// GetSecret reads <dir>/<name>. The file must be a regular file with mode
// 0600 or 0400.
func (s *FileSource) GetSecret(ctx context.Context, name string) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Secret: name, Source: s.dir}
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret %q is not a regular file", name)
	}
	if mode := info.Mode().Perm(); mode != 0o600 && mode != 0o400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	// #nosec G304 - path is confined to dir above
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Name returns "file".
func (s *FileSource) Name() string {
	return "file"
}

// Supports reports whether a file named name exists in the directory.
func (s *FileSource) Supports(name string) bool {
	path, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// path joins name to the directory, rejecting names that escape it.
func (s *FileSource) path(name string) (string, error) {
	path := filepath.Join(s.dir, name)
	if filepath.Dir(path) != s.dir {
		return "", fmt.Errorf("invalid secret name %q", name)
	}
	return path, nil
}
