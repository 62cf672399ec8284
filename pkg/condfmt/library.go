package condfmt

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/condfmt/pkg/condfmt/registry"
	"github.com/randalmurphal/condfmt/pkg/condfmt/store"
)

// Library keeps named template sources in a store and caches their
// compiled form. Sources are validated by compiling them before they are
// stored; stored sources are compiled lazily on first use.
//
// A Library is safe for concurrent use.
type Library struct {
	ctor  *Constructor
	store store.Store
	cache *registry.Registry[*Template]
}

// NewLibrary creates a library compiling with ctor and persisting to s.
// A nil store uses a fresh in-memory store.
func NewLibrary(ctor *Constructor, s store.Store) *Library {
	if s == nil {
		s = store.NewMemoryStore()
	}
	return &Library{
		ctor:  ctor,
		store: s,
		cache: registry.New[*Template](),
	}
}

// Put compiles src and, when it compiles, stores it under name.
func (l *Library) Put(name, src string) (*Template, error) {
	tmpl, err := l.ctor.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	if err := l.store.Save(name, src); err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	l.cache.Set(name, tmpl)
	return tmpl, nil
}

// Get returns the compiled template stored under name.
// Returns ErrTemplateNotFound if nothing is stored under name.
func (l *Library) Get(name string) (*Template, error) {
	return l.cache.GetOrCreate(name, func() (*Template, error) {
		src, err := l.store.Load(name)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		tmpl, err := l.ctor.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		return tmpl, nil
	})
}

// Render renders the template stored under name.
func (l *Library) Render(ctx context.Context, name string, params any, opts ...RenderOption) (string, error) {
	tmpl, err := l.Get(name)
	if err != nil {
		return "", err
	}
	return tmpl.Execute(ctx, params, opts...)
}

// Delete removes name from the store and the cache.
func (l *Library) Delete(name string) error {
	if err := l.store.Delete(name); err != nil {
		return fmt.Errorf("template %q: %w", name, err)
	}
	l.cache.Delete(name)
	return nil
}

// Names returns the stored template names in name order.
func (l *Library) Names() ([]string, error) {
	infos, err := l.store.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names, nil
}

// Constructor returns the library's constructor.
func (l *Library) Constructor() *Constructor { return l.ctor }

// Close closes the underlying store.
func (l *Library) Close() error {
	return l.store.Close()
}
