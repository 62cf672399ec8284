package store

import (
	"errors"
	"sort"
)

// Overlay layers a writable store over a read-only base. Loads and listings
// see both, with the writable store winning on a shared name. Save and
// Delete touch only the writable store, so base entries are never copied
// into it.
type Overlay struct {
	top  Store
	base Store
}

// NewOverlay returns a Store that writes to top and falls back to base.
func NewOverlay(top, base Store) *Overlay {
	return &Overlay{top: top, base: base}
}

// Save implements Store.
func (o *Overlay) Save(name, source string) error {
	return o.top.Save(name, source)
}

// Load implements Store.
func (o *Overlay) Load(name string) (string, error) {
	src, err := o.top.Load(name)
	if errors.Is(err, ErrNotFound) {
		return o.base.Load(name)
	}
	return src, err
}

// List implements Store.
func (o *Overlay) List() ([]Info, error) {
	top, err := o.top.List()
	if err != nil {
		return nil, err
	}
	base, err := o.base.List()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(top))
	infos := make([]Info, 0, len(top)+len(base))
	for _, info := range top {
		seen[info.Name] = struct{}{}
		infos = append(infos, info)
	}
	for _, info := range base {
		if _, ok := seen[info.Name]; ok {
			continue
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

// Delete implements Store. Entries that exist only in the base stay visible.
func (o *Overlay) Delete(name string) error {
	return o.top.Delete(name)
}

// Close implements Store, closing both layers.
func (o *Overlay) Close() error {
	return errors.Join(o.top.Close(), o.base.Close())
}
