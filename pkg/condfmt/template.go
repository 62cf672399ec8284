package condfmt

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Template is a compiled template. It is immutable and safe for concurrent
// rendering.
//
// A Template holds its top-level token list, the global format codes split
// into caller and built-in lists, and the interned parameter strings those
// codes reference.
type Template struct {
	ctor   *Constructor
	source string

	tokens             []Token
	formatCodes        []*FormatCode
	defaultFormatCodes []*FormatCode

	params []string
}

// Constructor returns the constructor the template was compiled with.
func (t *Template) Constructor() *Constructor { return t.ctor }

// Source returns the template string as given to Compile.
func (t *Template) Source() string { return t.source }

// Tokens returns the top-level token list. The returned slice must not be
// modified.
func (t *Template) Tokens() []Token { return t.tokens }

// FormatCodes returns the global caller format codes in source order.
func (t *Template) FormatCodes() []*FormatCode { return t.formatCodes }

// DefaultFormatCodes returns the global built-in format codes in source order.
func (t *Template) DefaultFormatCodes() []*FormatCode { return t.defaultFormatCodes }

// Param returns the parameter string with the given 1-based index, or ""
// for index 0 or an index out of range.
func (t *Template) Param(i int) string {
	if i < 1 || i > len(t.params) {
		return ""
	}
	return t.params[i-1]
}

// Params returns a copy of the interned parameter strings.
func (t *Template) Params() []string { return slices.Clone(t.params) }

// Groups returns the template's conditional groups in source order.
func (t *Template) Groups() []*Group {
	var groups []*Group
	for _, tok := range t.tokens {
		if g, ok := tok.(*Group); ok {
			groups = append(groups, g)
		}
	}
	return groups
}

// Dump writes a readable listing of the compiled token tree to w.
func (t *Template) Dump(w io.Writer) error {
	d := &dumper{w: w, t: t}
	for _, tok := range t.tokens {
		d.token(tok, "")
	}
	d.codes(t.formatCodes, "")
	d.codes(t.defaultFormatCodes, "")
	return d.err
}

// String returns the Dump listing.
func (t *Template) String() string {
	var b strings.Builder
	_ = t.Dump(&b)
	return b.String()
}

type dumper struct {
	w   io.Writer
	t   *Template
	err error
}

func (d *dumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *dumper) token(tok Token, indent string) {
	switch tok := tok.(type) {
	case *Text:
		d.printf("%s%d text %q\n", indent, tok.position, tok.Value)
	case *Specifier:
		if tok.HasCode() {
			d.printf("%s%d %s %s:%s\n", indent, tok.position, tok.kind, tok.Name, tok.Code)
		} else {
			d.printf("%s%d %s %s\n", indent, tok.position, tok.kind, tok.Name)
		}
	case *Group:
		d.printf("%s%d group conditions=%s require_all=%t\n",
			indent, tok.position, tok.conditionKind, tok.HasFlag(FlagRequireAll))
		for _, child := range tok.tokens {
			d.token(child, indent+"  ")
		}
		d.codes(tok.formatCodes, indent+"  ")
		d.codes(tok.defaultFormatCodes, indent+"  ")
	}
}

func (d *dumper) codes(list []*FormatCode, indent string) {
	for _, fc := range list {
		if fc.Param > 0 {
			d.printf("%s%s %s %q\n", indent, fc.kind, fc.Name, d.t.Param(fc.Param))
		} else {
			d.printf("%s%s %s\n", indent, fc.kind, fc.Name)
		}
	}
}
