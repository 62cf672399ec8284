package store

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory template store for tests and short-lived
// processes. Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	sources map[string]storedSource
	closed  bool
}

type storedSource struct {
	source  string
	updated time.Time
}

// NewMemoryStore creates a new in-memory template store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sources: make(map[string]storedSource)}
}

// Save implements Store.
func (m *MemoryStore) Save(name, source string) error {
	if err := validateName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.sources[name] = storedSource{source: source, updated: time.Now().UTC()}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrStoreClosed
	}
	s, ok := m.sources[name]
	if !ok {
		return "", ErrNotFound
	}
	return s.source, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.sources))
	for name, s := range m.sources {
		infos = append(infos, Info{
			Name:    name,
			Size:    int64(len(s.source)),
			Updated: s.updated,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.sources, name)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.sources = nil
	return nil
}
