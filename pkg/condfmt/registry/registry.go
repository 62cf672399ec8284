package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrDuplicate indicates a name is already registered under the
// registry's comparison rules.
var ErrDuplicate = errors.New("duplicate name")

// Entry is a registered value with its stable 1-based ID.
type Entry[V any] struct {
	ID    int
	Name  string
	Value V
}

// Registry maps names to values and to stable 1-based IDs assigned in
// registration order. It uses sync.RWMutex for read-heavy workloads.
//
// Names are compared case-sensitively unless the registry was created
// with Fold. The name recorded for an entry is the one first registered.
type Registry[V any] struct {
	mu      sync.RWMutex
	fold    bool
	byKey   map[string]*Entry[V]
	ordered []*Entry[V] // index = ID-1; nil for deleted slots
}

// New creates an empty case-sensitive registry.
func New[V any]() *Registry[V] {
	return &Registry[V]{byKey: make(map[string]*Entry[V])}
}

// Fold creates an empty registry whose names compare case-insensitively.
func Fold[V any]() *Registry[V] {
	r := New[V]()
	r.fold = true
	return r
}

// NewWith creates a registry with the given case sensitivity.
func NewWith[V any](caseSensitive bool) *Registry[V] {
	if caseSensitive {
		return New[V]()
	}
	return Fold[V]()
}

// CaseSensitive reports whether names are compared case-sensitively.
func (r *Registry[V]) CaseSensitive() bool {
	return !r.fold
}

// Key returns the lookup key for name under this registry's comparison.
func (r *Registry[V]) Key(name string) string {
	if r.fold {
		return strings.ToLower(name)
	}
	return name
}

// Register adds a new entry and returns its ID.
// Returns ErrDuplicate if the name is already present.
func (r *Registry[V]) Register(name string, value V) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.Key(name)
	if existing, ok := r.byKey[key]; ok {
		return 0, fmt.Errorf("%w: %q collides with %q", ErrDuplicate, name, existing.Name)
	}
	return r.insert(key, name, value).ID, nil
}

// Set adds or replaces the value for name. A replaced entry keeps its ID.
func (r *Registry[V]) Set(name string, value V) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.Key(name)
	if existing, ok := r.byKey[key]; ok {
		existing.Value = value
		return existing.ID
	}
	return r.insert(key, name, value).ID
}

func (r *Registry[V]) insert(key, name string, value V) *Entry[V] {
	e := &Entry[V]{ID: len(r.ordered) + 1, Name: name, Value: value}
	r.ordered = append(r.ordered, e)
	r.byKey[key] = e
	return e
}

// Lookup returns the entry registered under name.
func (r *Registry[V]) Lookup(name string) (Entry[V], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byKey[r.Key(name)]
	if !ok {
		return Entry[V]{}, false
	}
	return *e, true
}

// Get returns the value registered under name.
func (r *Registry[V]) Get(name string) (V, bool) {
	e, ok := r.Lookup(name)
	return e.Value, ok
}

// ByID returns the entry with the given ID.
func (r *Registry[V]) ByID(id int) (Entry[V], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 1 || id > len(r.ordered) || r.ordered[id-1] == nil {
		return Entry[V]{}, false
	}
	return *r.ordered[id-1], true
}

// Has returns true if name is registered.
func (r *Registry[V]) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Delete removes name. Its ID is never reused.
func (r *Registry[V]) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.Key(name)
	e, ok := r.byKey[key]
	if !ok {
		return
	}
	delete(r.byKey, key)
	r.ordered[e.ID-1] = nil
}

// Names returns the registered names in registration order.
func (r *Registry[V]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byKey))
	for _, e := range r.ordered {
		if e != nil {
			names = append(names, e.Name)
		}
	}
	return names
}

// Entries returns a snapshot of all entries in registration order.
func (r *Registry[V]) Entries() []Entry[V] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry[V], 0, len(r.byKey))
	for _, e := range r.ordered {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}

// Len returns the number of live entries.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// GetOrCreate returns the value for name, creating it with factory if it
// doesn't exist. The factory is called at most once per name under
// concurrent access; a factory error leaves the registry unchanged.
func (r *Registry[V]) GetOrCreate(name string, factory func() (V, error)) (V, error) {
	key := r.Key(name)

	// Fast path: check if already exists
	r.mu.RLock()
	if e, ok := r.byKey[key]; ok {
		v := e.Value
		r.mu.RUnlock()
		return v, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if e, ok := r.byKey[key]; ok {
		return e.Value, nil
	}

	v, err := factory()
	if err != nil {
		var zero V
		return zero, err
	}
	r.insert(key, name, v)
	return v, nil
}
