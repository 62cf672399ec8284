package condfmt

import (
	"fmt"
	"strings"
	"unicode"
)

// sentinelCount is the number of characters reserved per compilation.
const sentinelCount = 8

// sentinels are characters absent from a template, standing in for escaped
// literals and internal markers during compilation.
type sentinels struct {
	backslash  rune
	closeBrace rune
	percent    rune
	openBrace  rune

	formatCode  rune
	defaultCode rune
	specifier   rune
	significant rune
}

// allocateSentinels picks eight distinct code points absent from src,
// probing upward from base. When src holds nothing at or above base the
// containment checks are skipped.
func allocateSentinels(src string, base rune) (sentinels, error) {
	var used map[rune]struct{}
	for _, r := range src {
		if r < base {
			continue
		}
		if used == nil {
			used = make(map[rune]struct{})
		}
		used[r] = struct{}{}
	}

	var picked [sentinelCount]rune
	next := base
	for i := range picked {
		for {
			if next > unicode.MaxRune {
				return sentinels{}, fmt.Errorf("%w: no unused code point at or above %U", ErrInvalidConfiguration, base)
			}
			if isSurrogate(next) {
				next = 0xE000
				continue
			}
			if _, taken := used[next]; !taken {
				break
			}
			next++
		}
		picked[i] = next
		next++
	}

	return sentinels{
		backslash:   picked[0],
		closeBrace:  picked[1],
		percent:     picked[2],
		openBrace:   picked[3],
		formatCode:  picked[4],
		defaultCode: picked[5],
		specifier:   picked[6],
		significant: picked[7],
	}, nil
}

func isSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

// literal returns the sentinel standing in for an escaped operator.
func (s sentinels) literal(op byte) rune {
	switch op {
	case '{':
		return s.openBrace
	case '}':
		return s.closeBrace
	default:
		return s.percent
	}
}

// isMarker reports whether r is one of the four internal marker characters.
func (s sentinels) isMarker(r rune) bool {
	return r == s.formatCode || r == s.defaultCode || r == s.specifier || r == s.significant
}

// restorer maps literal sentinels back to the characters they stand for.
func (s sentinels) restorer() *strings.Replacer {
	return strings.NewReplacer(
		string(s.backslash), `\`,
		string(s.closeBrace), "}",
		string(s.percent), "%",
		string(s.openBrace), "{",
	)
}
