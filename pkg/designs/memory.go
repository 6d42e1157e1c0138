package designs

import (
	"context"
	"sort"
	"sync"

	"github.com/naseej/meshdesign/pkg/errors"
)

// MemoryStore is a volatile design store backed by a process-local map.
// Safe for concurrent use; best suited for tests and ephemeral demos.
type MemoryStore struct {
	mu      sync.RWMutex
	designs map[string]Design
}

// NewMemoryStore creates an empty in-memory design store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{designs: make(map[string]Design)}
}

// Get retrieves a design by name.
func (s *MemoryStore) Get(_ context.Context, name string) (Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.designs[name]
	if !ok {
		return Design{}, errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
	}
	return d, nil
}

// Set stores a design, overwriting any existing design with the same name.
func (s *MemoryStore) Set(_ context.Context, d Design) error {
	if d.Name == "" {
		return errors.New(errors.ErrCodeInvalidDesign, "design name cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.designs[d.Name] = d
	return nil
}

// Delete removes a design. No-op if absent.
func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.designs, name)
	return nil
}

// List returns all design names, sorted.
func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.designs))
	for name := range s.designs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close does nothing.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
