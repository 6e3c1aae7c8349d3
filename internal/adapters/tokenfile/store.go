package tokenfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"kitecover/internal/ports"
)

// Store implements ports.TokenStore on a plain local file holding the raw
// access-token string. No locking: a single process owns the file.
type Store struct {
	path string
}

// New creates a token store at the given path.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: token path is empty", ports.ErrConfigurationError)
	}
	return &Store{path: path}, nil
}

// Load returns the persisted token, or an empty string if none exists yet.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading token file %s: %w: %w", s.path, ports.ErrTokenStore, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save overwrites the persisted token. The file is created 0600 since it
// holds a live session credential.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating token directory: %w: %w", ports.ErrTokenStore, err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("writing token file %s: %w: %w", s.path, ports.ErrTokenStore, err)
	}
	return nil
}
