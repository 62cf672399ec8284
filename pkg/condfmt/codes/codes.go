// Package codes provides ready-made specifier and format codes.
//
//	ctor, err := condfmt.New(names, append(codes.Options(), condfmt.WithResolver(resolve))...)
//	tmpl := ctor.MustCompile("%name:title%{ <%email:lower%>%pad:30%}%collapse%")
package codes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/randalmurphal/condfmt/pkg/condfmt"
)

// ErrInvalidParam indicates a format code received a parameter string it
// cannot parse.
var ErrInvalidParam = errors.New("invalid code parameter")

// Specifiers returns the ready-made specifier codes keyed by name.
func Specifiers() map[string]condfmt.SpecifierFunc {
	return map[string]condfmt.SpecifierFunc{
		"upper":    Upper,
		"lower":    Lower,
		"title":    Title,
		"trim":     Trim,
		"quote":    Quote,
		"sanitize": Sanitize,
		"inline":   SanitizeInline,
	}
}

// Formats returns the ready-made format codes keyed by name.
func Formats() map[string]condfmt.FormatFunc {
	return map[string]condfmt.FormatFunc{
		"pad":      Pad,
		"padleft":  PadLeft,
		"center":   Center,
		"truncate": Truncate,
		"trim":     TrimText,
		"collapse": Collapse,
		"upper":    UpperText,
		"lower":    LowerText,
	}
}

// Options registers every ready-made code with a constructor.
func Options() []condfmt.Option {
	return []condfmt.Option{
		condfmt.WithSpecifierCodes(Specifiers()),
		condfmt.WithFormatCodes(Formats()),
	}
}

// Trim removes leading and trailing white space from a value.
func Trim(v string, _ any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
	return strings.TrimSpace(v), nil
}

// Quote renders a value as a double-quoted Go string literal.
func Quote(v string, _ any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
	return strconv.Quote(v), nil
}

// TrimText removes leading and trailing white space from the text.
func TrimText(text *string, _ any, _ string, _ *condfmt.Group) error {
	*text = strings.TrimSpace(*text)
	return nil
}

// Collapse replaces every run of white space with a single space and trims
// the ends.
func Collapse(text *string, _ any, _ string, _ *condfmt.Group) error {
	*text = strings.Join(strings.Fields(*text), " ")
	return nil
}

// widthParam parses a display-width parameter.
func widthParam(code, param string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(param))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s expects a non-negative width, got %q", ErrInvalidParam, code, param)
	}
	return n, nil
}
