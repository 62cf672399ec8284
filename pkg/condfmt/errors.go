package condfmt

import (
	"errors"
	"fmt"
)

// Sentinel errors for constructor creation.
var (
	// ErrDuplicatePlaceholderName indicates two placeholder names collide under
	// the configured case sensitivity.
	ErrDuplicatePlaceholderName = errors.New("duplicate placeholder name")

	// ErrInvalidConfiguration indicates an option or name outside its valid domain.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Sentinel errors for template compilation.
var (
	// ErrMissingSpecifierCode indicates a placeholder used :code with a code
	// absent from the specifier-code registry.
	ErrMissingSpecifierCode = errors.New("missing specifier code")

	// ErrNoSpecifierCodesSupplied indicates :code syntax was used but no
	// specifier-code registry was supplied.
	ErrNoSpecifierCodesSupplied = errors.New("no specifier codes supplied")

	// ErrMissingFormatCode indicates a %name% span matched neither a
	// placeholder nor any registered or built-in format code.
	ErrMissingFormatCode = errors.New("missing format code")

	// ErrNoFormatCodesSupplied indicates a %name% span matched neither a
	// placeholder nor a built-in format code, and no format-code registry
	// was supplied.
	ErrNoFormatCodesSupplied = errors.New("no format codes supplied")

	// ErrInvalidPlacement indicates an early format code was used where it
	// is not allowed.
	ErrInvalidPlacement = errors.New("invalid placement")
)

// Sentinel errors for rendering and the template library.
var (
	// ErrNoResolver indicates a placeholder was rendered with no resolver
	// configured. It is wrapped in a *RenderError.
	ErrNoResolver = errors.New("no resolver configured")

	// ErrTemplateNotFound indicates a library has no template by that name.
	ErrTemplateNotFound = errors.New("template not found")
)

// CompileError wraps a compilation failure with the pass and the template
// span that caused it.
type CompileError struct {
	// Pass is the compilation pass that failed (1 escape, 2 resolve, 3 structure).
	Pass int
	// Span is the offending template text, with escapes resolved.
	Span string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compile pass %d at %q: %v", e.Pass, e.Span, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// RenderError wraps an error returned by a resolver or code handler.
type RenderError struct {
	// Name is the placeholder or code being processed.
	Name string
	// Op is the failing operation ("resolve", "specifier code", "format code").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s %s: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised by a resolver or code handler.
// It includes the stack trace for debugging.
type PanicError struct {
	// Name is the placeholder or code being processed when the panic occurred.
	Name string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("render %s panicked: %v", e.Name, e.Value)
}
