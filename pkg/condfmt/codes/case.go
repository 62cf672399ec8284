package codes

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/randalmurphal/condfmt/pkg/condfmt"
)

// Upper maps a value to upper case. A cases.Caser is stateful, so every
// call builds its own.
func Upper(v string, _ any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
	return cases.Upper(language.Und).String(v), nil
}

// Lower maps a value to lower case.
func Lower(v string, _ any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
	return cases.Lower(language.Und).String(v), nil
}

// Title maps a value to title case.
func Title(v string, _ any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
	return cases.Title(language.Und).String(v), nil
}

// TitleIn returns a title-case specifier code using the casing rules of tag.
func TitleIn(tag language.Tag) condfmt.SpecifierFunc {
	return func(v string, _ any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
		return cases.Title(tag).String(v), nil
	}
}

// UpperText maps the text to upper case.
func UpperText(text *string, _ any, _ string, _ *condfmt.Group) error {
	*text = cases.Upper(language.Und).String(*text)
	return nil
}

// LowerText maps the text to lower case.
func LowerText(text *string, _ any, _ string, _ *condfmt.Group) error {
	*text = cases.Lower(language.Und).String(*text)
	return nil
}
