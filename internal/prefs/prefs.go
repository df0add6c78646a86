// Package prefs persists the board's local display preferences. Today that
// is a single value: the logo image override, kept outside the shared store
// on purpose so it survives reconnects but never syncs across displays.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const logoFile = "logo_url"

// Store is a file-backed single-key preference store.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates the preference directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// LogoURL returns the saved logo override, if any.
func (s *Store) LogoURL() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(s.dir, logoFile))
	if err != nil {
		return "", false
	}
	url := strings.TrimSpace(string(data))
	return url, url != ""
}

// SetLogoURL saves the logo override.
func (s *Store) SetLogoURL(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(filepath.Join(s.dir, logoFile), []byte(url), 0o644); err != nil {
		return fmt.Errorf("write logo preference: %w", err)
	}
	return nil
}

// Clear removes the override; a new game starts with the stock logo.
func (s *Store) Clear() error {
	err := os.Remove(filepath.Join(s.dir, logoFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear logo preference: %w", err)
	}
	return nil
}
