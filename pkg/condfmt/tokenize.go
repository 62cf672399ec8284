package condfmt

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/randalmurphal/condfmt/pkg/condfmt/observability"
)

// structure is pass 3. It splits the marker-laden string into top-level
// tokens and conditional groups. A conditional span is an innermost {...};
// spans holding no placeholder markers keep their braces as literal text.
func (cp *compiler) structure(src string) error {
	t := cp.t
	textStart := 0
	open := -1

	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '{':
			open = i
		case '}':
			if open < 0 {
				continue
			}
			if err := cp.segment(src[textStart:open], nil, &t.tokens); err != nil {
				return err
			}
			inner := src[open+1 : i]
			if cp.hasPlaceholderMarker(inner) {
				if err := cp.group(inner); err != nil {
					return err
				}
			} else {
				t.tokens = appendToken(t.tokens, &Text{Value: "{"})
				if err := cp.segment(inner, nil, &t.tokens); err != nil {
					return err
				}
				t.tokens = appendToken(t.tokens, &Text{Value: "}"})
			}
			textStart = i + 1
			open = -1
		}
	}

	return cp.segment(src[textStart:], nil, &t.tokens)
}

func (cp *compiler) hasPlaceholderMarker(s string) bool {
	return strings.ContainsRune(s, cp.s.specifier) || strings.ContainsRune(s, cp.s.significant)
}

// group builds a conditional group from the interior of a brace span.
func (cp *compiler) group(inner string) error {
	g := &Group{}
	cp.t.tokens = appendToken(cp.t.tokens, g)

	if err := cp.segment(inner, g, &g.tokens); err != nil {
		return err
	}

	for _, tok := range g.tokens {
		if sp, ok := tok.(*Specifier); ok && sp.kind == KindSignificant {
			g.conditions = append(g.conditions, sp)
		}
	}
	g.conditionKind = KindSignificant
	if len(g.conditions) == 0 {
		g.conditionKind = KindSpecifier
		for _, tok := range g.tokens {
			if sp, ok := tok.(*Specifier); ok && sp.kind == KindSpecifier {
				g.conditions = append(g.conditions, sp)
			}
		}
	}
	return nil
}

// segment tokenizes text interleaved with markers into list. g is the
// enclosing group, or nil at top level.
func (cp *compiler) segment(seg string, g *Group, list *[]Token) error {
	for len(seg) > 0 {
		idx, marker := cp.nextMarker(seg)
		if idx < 0 {
			*list = appendToken(*list, &Text{Value: cp.restore.Replace(seg)})
			return nil
		}
		*list = appendToken(*list, &Text{Value: cp.restore.Replace(seg[:idx])})

		size := utf8.RuneLen(marker)
		rest := seg[idx+size:]
		end := strings.IndexRune(rest, marker)
		if end < 0 {
			// Unreachable for markers written by pass 2.
			*list = appendToken(*list, &Text{Value: cp.restore.Replace(seg[idx:])})
			return nil
		}

		idStr, nStr, _ := strings.Cut(rest[:end], ":")
		id, _ := strconv.Atoi(idStr)
		n := 0
		if nStr != "" {
			n, _ = strconv.Atoi(nStr)
		}

		if err := cp.emit(marker, id, n, g, list); err != nil {
			return err
		}
		seg = rest[end+size:]
	}
	return nil
}

func (cp *compiler) nextMarker(s string) (int, rune) {
	for i, r := range s {
		if cp.s.isMarker(r) {
			return i, r
		}
	}
	return -1, 0
}

// emit turns one marker into a token, a queued format code, or an
// immediate early code invocation.
func (cp *compiler) emit(marker rune, id, n int, g *Group, list *[]Token) error {
	switch marker {
	case cp.s.specifier, cp.s.significant:
		name, _ := cp.c.names.ByID(id)
		sp := &Specifier{kind: KindSpecifier, ID: id, Name: name.Name}
		if marker == cp.s.significant {
			sp.kind = KindSignificant
			if g == nil {
				sp.kind = KindSimpleCondition
			}
		}
		if n > 0 {
			code, _ := cp.c.specifierCodes.ByID(n)
			sp.CodeID = n
			sp.Code = code.Name
		}
		*list = appendToken(*list, sp)
		return nil

	default:
		reg := cp.c.formatCodes
		kind := KindFormatCode
		if marker == cp.s.defaultCode {
			reg = cp.c.defaultCodes
			kind = KindDefaultFormatCode
		}
		e, _ := reg.ByID(id)

		if e.Value.typ == Early {
			observability.LogEarlyCode(cp.c.cfg.logger, e.Name, g != nil)
			param := cp.t.Param(n)
			if err := e.Value.early(e.Name, param, g, cp.t); err != nil {
				span := "%" + e.Name
				if n > 0 {
					span += ":" + param
				}
				return &CompileError{Pass: 3, Span: span + "%", Err: err}
			}
			return nil
		}

		fc := &FormatCode{kind: kind, ID: id, Name: e.Name, Param: n}
		switch {
		case g != nil && kind == KindFormatCode:
			g.formatCodes = appendCode(g.formatCodes, fc)
		case g != nil:
			g.defaultFormatCodes = appendCode(g.defaultFormatCodes, fc)
		case kind == KindFormatCode:
			cp.t.formatCodes = appendCode(cp.t.formatCodes, fc)
		default:
			cp.t.defaultFormatCodes = appendCode(cp.t.defaultFormatCodes, fc)
		}
		return nil
	}
}

func appendCode(list []*FormatCode, fc *FormatCode) []*FormatCode {
	fc.position = len(list) + 1
	return append(list, fc)
}
