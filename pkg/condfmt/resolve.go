package condfmt

import (
	"strconv"
	"strings"
)

// compiler carries the per-compilation state of passes 2 and 3.
type compiler struct {
	c       *Constructor
	s       sentinels
	t       *Template
	restore *strings.Replacer
	params  map[string]int
}

// placeholderMatch is a resolved %name[:code]% span.
type placeholderMatch struct {
	id   int
	code int
	end  int // index just past the closing %
}

// resolve is pass 2. It rewrites every %...% span into a compact marker:
// placeholders (optionally with a specifier code, optionally wrapped in
// braces to mark a significant condition) and format codes (optionally with
// a parameter string). Markers are written as <marker><id>[:<n>]<marker>.
func (cp *compiler) resolve(src string) (string, error) {
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); {
		switch src[i] {
		case '{':
			if i+1 < len(src) && src[i+1] == '%' {
				m, ok, err := cp.matchPlaceholder(src, i+1)
				if err != nil {
					return "", err
				}
				if ok && m.end < len(src) && src[m.end] == '}' {
					cp.writeMarker(&b, cp.s.significant, m.id, m.code)
					i = m.end + 1
					continue
				}
			}
			b.WriteByte('{')
			i++

		case '%':
			m, ok, err := cp.matchPlaceholder(src, i)
			if err != nil {
				return "", err
			}
			if ok {
				cp.writeMarker(&b, cp.s.specifier, m.id, m.code)
				i = m.end
				continue
			}
			if n := strings.IndexByte(src[i+1:], '%'); n > 0 {
				if err := cp.writeFormatCode(&b, src[i+1:i+1+n]); err != nil {
					return "", err
				}
				i += n + 2
				continue
			}
			b.WriteByte('%')
			i++

		default:
			b.WriteByte(src[i])
			i++
		}
	}

	return b.String(), nil
}

// matchPlaceholder matches %name% or %name:code% starting at src[i] == '%'.
func (cp *compiler) matchPlaceholder(src string, i int) (placeholderMatch, bool, error) {
	e, end, ok := cp.c.matchName(src, i+1, func(end int) bool {
		if end >= len(src) {
			return false
		}
		if src[end] == '%' {
			return true
		}
		return src[end] == ':' && strings.IndexByte(src[end+1:], '%') >= 0
	})
	if !ok {
		return placeholderMatch{}, false, nil
	}

	if src[end] == '%' {
		return placeholderMatch{id: e.ID, end: end + 1}, true, nil
	}

	closing := end + 1 + strings.IndexByte(src[end+1:], '%')
	codeName := cp.restore.Replace(src[end+1 : closing])
	code, err := cp.c.lookupSpecifierCode(codeName)
	if err != nil {
		return placeholderMatch{}, false, &CompileError{
			Pass: 2,
			Span: cp.restore.Replace(src[i : closing+1]),
			Err:  err,
		}
	}
	return placeholderMatch{id: e.ID, code: code.ID, end: closing + 1}, true, nil
}

// writeFormatCode resolves the body of a %code[:params]% span.
func (cp *compiler) writeFormatCode(b *strings.Builder, body string) error {
	name, param, hasParam := strings.Cut(body, ":")
	name = cp.restore.Replace(name)

	e, def, err := cp.c.lookupFormatCode(name)
	if err != nil {
		return &CompileError{
			Pass: 2,
			Span: "%" + cp.restore.Replace(body) + "%",
			Err:  err,
		}
	}

	n := 0
	if hasParam {
		n = cp.intern(cp.restore.Replace(param))
	}

	marker := cp.s.formatCode
	if def {
		marker = cp.s.defaultCode
	}
	cp.writeMarker(b, marker, e.ID, n)
	return nil
}

// intern stores a parameter string once per template and returns its
// 1-based index.
func (cp *compiler) intern(param string) int {
	if n, ok := cp.params[param]; ok {
		return n
	}
	cp.t.params = append(cp.t.params, param)
	n := len(cp.t.params)
	cp.params[param] = n
	return n
}

func (cp *compiler) writeMarker(b *strings.Builder, marker rune, id, n int) {
	b.WriteRune(marker)
	b.WriteString(strconv.Itoa(id))
	if n > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(n))
	}
	b.WriteRune(marker)
}
