package condfmt

import "fmt"

// CodeType controls when a format code runs.
type CodeType int

const (
	// Standard codes run at render time, once per render call per occurrence.
	Standard CodeType = iota
	// Early codes run once per occurrence while the template is compiled.
	Early
)

// String returns the code type name.
func (t CodeType) String() string {
	switch t {
	case Standard:
		return "standard"
	case Early:
		return "early"
	default:
		return "unknown"
	}
}

// Resolver produces the replacement text for a placeholder. group is nil
// for placeholders outside any conditional group.
type Resolver func(name string, params any, tok *Specifier, group *Group) (string, error)

// FormatFunc is a standard format code. It mutates text in place. For a
// group-local code text holds the group's assembled text; for a global code
// it holds the whole output. param is the occurrence's parameter string, or
// "" when none was given.
type FormatFunc func(text *string, params any, param string, group *Group) error

// EarlyFunc is an early format code. It runs once per occurrence during
// compilation, receiving the enclosing group (nil outside groups) and the
// template being compiled.
type EarlyFunc func(name, param string, group *Group, tmpl *Template) error

// SpecifierFunc is a specifier code. It transforms a placeholder's resolved
// value before it is emitted.
type SpecifierFunc func(value string, params any, tok *Specifier, group *Group) (string, error)

// formatCode is a format-code registry entry.
type formatCode struct {
	typ    CodeType
	format FormatFunc
	early  EarlyFunc
}

// RequireAllCode is the name of the built-in early format code that sets
// FlagRequireAll on its enclosing group.
const RequireAllCode = "!a"

// requireAll implements the built-in "!a" code.
func requireAll(name, _ string, group *Group, _ *Template) error {
	if group == nil {
		return fmt.Errorf("%w: %s must be used inside a conditional group", ErrInvalidPlacement, name)
	}
	group.SetFlag(FlagRequireAll)
	return nil
}

// builtinFormatCodes lists the default codes in registration order.
var builtinFormatCodes = []struct {
	name string
	code formatCode
}{
	{RequireAllCode, formatCode{typ: Early, early: requireAll}},
}
