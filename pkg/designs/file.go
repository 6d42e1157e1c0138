package designs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/naseej/meshdesign/pkg/errors"
)

// FileStore persists designs as JSON files in a config directory, one
// file per design. Intended for CLI use.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based design store.
// If baseDir is empty, defaults to ~/.config/meshdesign/designs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "meshdesign", "designs")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create designs dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// validName rejects names that would escape the designs directory.
func validName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidDesign, "design name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return errors.New(errors.ErrCodeInvalidDesign, "design name contains path separators")
	}
	return nil
}

func (s *FileStore) designPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Get retrieves a design by name.
func (s *FileStore) Get(_ context.Context, name string) (Design, error) {
	if err := validName(name); err != nil {
		return Design{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.designPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Design{}, errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
		}
		return Design{}, fmt.Errorf("read design file: %w", err)
	}

	var d Design
	if err := json.Unmarshal(data, &d); err != nil {
		return Design{}, fmt.Errorf("parse design: %w", err)
	}
	return d, nil
}

// Set stores a design, overwriting any existing file with the same name.
func (s *FileStore) Set(_ context.Context, d Design) error {
	if err := validName(d.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}
	if err := os.WriteFile(s.designPath(d.Name), data, 0o600); err != nil {
		return fmt.Errorf("write design file: %w", err)
	}
	return nil
}

// Delete removes a design file. No-op if absent.
func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.designPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove design file: %w", err)
	}
	return nil
}

// List returns the names of all stored designs, sorted.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read designs dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Close does nothing.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
