package codes

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/randalmurphal/condfmt/pkg/condfmt"
)

// DefaultTail marks text shortened by Truncate.
const DefaultTail = "..."

// Pad right-pads the text with spaces to the display width given as
// parameter, e.g. %pad:20%. Wider text is left unchanged.
func Pad(text *string, _ any, param string, _ *condfmt.Group) error {
	width, err := widthParam("pad", param)
	if err != nil {
		return err
	}
	*text = align(*text, width, alignLeft)
	return nil
}

// PadLeft left-pads the text with spaces to the display width given as
// parameter.
func PadLeft(text *string, _ any, param string, _ *condfmt.Group) error {
	width, err := widthParam("padleft", param)
	if err != nil {
		return err
	}
	*text = align(*text, width, alignRight)
	return nil
}

// Center pads the text on both sides to the display width given as
// parameter. An odd remainder goes to the right.
func Center(text *string, _ any, param string, _ *condfmt.Group) error {
	width, err := widthParam("center", param)
	if err != nil {
		return err
	}
	*text = align(*text, width, alignCenter)
	return nil
}

// Truncate shortens the text to a display width. The parameter is the
// width, optionally followed by a comma and the tail to append when text is
// cut: %truncate:10% or %truncate:10,…%. Widths of three or less never get
// the default tail.
func Truncate(text *string, _ any, param string, _ *condfmt.Group) error {
	widthStr, tail, hasTail := strings.Cut(param, ",")
	width, err := widthParam("truncate", widthStr)
	if err != nil {
		return err
	}
	if runewidth.StringWidth(*text) <= width {
		return nil
	}
	if !hasTail {
		tail = DefaultTail
		if width <= len(DefaultTail) {
			tail = ""
		}
	}
	*text = runewidth.Truncate(*text, width, tail)
	return nil
}

type alignment int

const (
	alignLeft alignment = iota
	alignRight
	alignCenter
)

func align(s string, width int, a alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch a {
	case alignRight:
		return strings.Repeat(" ", pad) + s
	case alignCenter:
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default:
		return s + strings.Repeat(" ", pad)
	}
}
