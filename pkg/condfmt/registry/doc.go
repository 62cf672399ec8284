// Package registry provides an ordered registry mapping names to values and
// stable 1-based IDs.
//
// condfmt uses it for the placeholder Name Table, the format-code and
// specifier-code registries, and the Library's compiled-template cache.
//
// # Basic Usage
//
//	r := registry.Fold[int]() // case-insensitive names
//	id, err := r.Register("Name", 42)
//	// id == 1
//
//	e, ok := r.Lookup("NAME")
//	// e.ID == 1, e.Name == "Name", e.Value == 42
//
//	_, err = r.Register("name", 7)
//	// errors.Is(err, registry.ErrDuplicate)
//
// # IDs
//
// IDs are assigned in registration order starting at 1 and are never
// reused, even after Delete. Set replaces a value while keeping its ID.
//
// # Lazy Initialization
//
// GetOrCreate is atomic: the factory runs at most once per name, and a
// failing factory leaves nothing behind.
//
//	tmpl, err := cache.GetOrCreate("greeting", func() (*condfmt.Template, error) {
//	    return ctor.Compile(src)
//	})
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use.
package registry
