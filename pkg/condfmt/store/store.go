// Package store provides persistent storage for named template sources.
package store

import (
	"errors"
	"time"
)

// Store persists template sources by name.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the source for name, overwriting any previous source.
	Save(name, source string) error

	// Load retrieves the source stored under name.
	// Returns ErrNotFound if nothing is stored under name.
	Load(name string) (string, error)

	// List returns metadata for every stored template, ordered by name.
	// Returns empty slice (not error) if the store is empty.
	List() ([]Info, error)

	// Delete removes the source stored under name.
	// Returns nil if nothing is stored under name.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the source.
type Info struct {
	Name    string
	Size    int64
	Updated time.Time
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no template is stored under a name.
	ErrNotFound = errors.New("template source not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("template store closed")

	// ErrInvalidName indicates an empty template name.
	ErrInvalidName = errors.New("invalid template name")
)

func validateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	return nil
}
