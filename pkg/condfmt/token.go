package condfmt

// Kind identifies the variant of a compiled Token.
type Kind int

const (
	// KindText is literal text emitted verbatim.
	KindText Kind = iota
	// KindSpecifier is a placeholder reference.
	KindSpecifier
	// KindSignificant is a placeholder inside a group that takes part in the
	// group's inclusion test exclusively.
	KindSignificant
	// KindSimpleCondition is a braced placeholder outside any group. It acts as
	// a one-token group: emitted only when its resolved value is non-empty.
	KindSimpleCondition
	// KindFormatCode references a caller-registered format code.
	KindFormatCode
	// KindDefaultFormatCode references a built-in format code.
	KindDefaultFormatCode
	// KindGroup is a conditional group owning its own token list.
	KindGroup
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSpecifier:
		return "specifier"
	case KindSignificant:
		return "significant"
	case KindSimpleCondition:
		return "simple_condition"
	case KindFormatCode:
		return "format_code"
	case KindDefaultFormatCode:
		return "default_format_code"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Token is one compiled unit of a template. The set of implementations is
// closed: *Text, *Specifier, *FormatCode and *Group.
type Token interface {
	// Kind returns the token variant.
	Kind() Kind
	// Position returns the 1-based position of the token in its parent list.
	Position() int

	isToken()
}

// Text is literal output.
type Text struct {
	position int
	Value    string
}

// Kind implements Token.
func (t *Text) Kind() Kind { return KindText }

// Position implements Token.
func (t *Text) Position() int { return t.position }

func (*Text) isToken() {}

// Specifier references a placeholder by ID. Its Kind distinguishes plain
// specifiers, significant conditions and simple conditions.
type Specifier struct {
	position int
	kind     Kind

	// ID is the placeholder's 1-based ID in the constructor's name table.
	ID int
	// Name is the placeholder name as registered.
	Name string
	// CodeID is the specifier code's ID, or 0 when no code is attached.
	CodeID int
	// Code is the specifier code name, or "" when no code is attached.
	Code string
}

// Kind implements Token.
func (s *Specifier) Kind() Kind { return s.kind }

// Position implements Token.
func (s *Specifier) Position() int { return s.position }

func (*Specifier) isToken() {}

// HasCode reports whether a specifier code is attached.
func (s *Specifier) HasCode() bool { return s.CodeID != 0 }

// FormatCode references a format code occurrence. Format codes are never
// emitted; they are collected into global or group-local code lists.
type FormatCode struct {
	position int
	kind     Kind

	// ID is the code's 1-based ID in its registry.
	ID int
	// Name is the code name as registered.
	Name string
	// Param is the 1-based index of the parameter string in the template's
	// parameter table, or 0 when the occurrence has no parameters.
	Param int
}

// Kind implements Token.
func (f *FormatCode) Kind() Kind { return f.kind }

// Position implements Token.
func (f *FormatCode) Position() int { return f.position }

func (*FormatCode) isToken() {}

// IsDefault reports whether the code comes from the built-in registry.
func (f *FormatCode) IsDefault() bool { return f.kind == KindDefaultFormatCode }

// GroupFlags holds per-group behavior switches.
type GroupFlags uint8

const (
	// FlagRequireAll includes the group only when every condition resolves
	// non-empty. Without it a single non-empty condition suffices.
	FlagRequireAll GroupFlags = 1 << iota
)

// Group is a conditional segment. It is included in the output only when
// its inclusion test passes.
//
// The condition set is either every significant child, or, when the group
// has none, every plain specifier child.
type Group struct {
	position int

	tokens        []Token
	conditions    []*Specifier
	conditionKind Kind
	flags         GroupFlags

	formatCodes        []*FormatCode
	defaultFormatCodes []*FormatCode
}

// Kind implements Token.
func (g *Group) Kind() Kind { return KindGroup }

// Position implements Token.
func (g *Group) Position() int { return g.position }

func (*Group) isToken() {}

// Tokens returns the group's children in source order.
// The returned slice must not be modified.
func (g *Group) Tokens() []Token { return g.tokens }

// Conditions returns the inclusion-test set in source order.
// The returned slice must not be modified.
func (g *Group) Conditions() []*Specifier { return g.conditions }

// ConditionKind returns KindSignificant or KindSpecifier depending on which
// children form the condition set.
func (g *Group) ConditionKind() Kind { return g.conditionKind }

// Flags returns the group's flags.
func (g *Group) Flags() GroupFlags { return g.flags }

// HasFlag reports whether all bits of f are set.
func (g *Group) HasFlag(f GroupFlags) bool { return g.flags&f == f }

// SetFlag sets f on the group. It is intended for early format codes, which
// run while the template is being compiled; a compiled template must not be
// changed.
func (g *Group) SetFlag(f GroupFlags) { g.flags |= f }

// FormatCodes returns the group-local caller format codes, or nil.
func (g *Group) FormatCodes() []*FormatCode { return g.formatCodes }

// DefaultFormatCodes returns the group-local built-in format codes, or nil.
func (g *Group) DefaultFormatCodes() []*FormatCode { return g.defaultFormatCodes }

// appendToken appends tok to list, setting its position. Adjacent text is
// merged into one Text token.
func appendToken(list []Token, tok Token) []Token {
	if txt, ok := tok.(*Text); ok {
		if txt.Value == "" {
			return list
		}
		if n := len(list); n > 0 {
			if prev, ok := list[n-1].(*Text); ok {
				prev.Value += txt.Value
				return list
			}
		}
	}
	pos := len(list) + 1
	switch t := tok.(type) {
	case *Text:
		t.position = pos
	case *Specifier:
		t.position = pos
	case *FormatCode:
		t.position = pos
	case *Group:
		t.position = pos
	}
	return append(list, tok)
}
