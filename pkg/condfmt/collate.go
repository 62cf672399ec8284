package condfmt

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders two strings, returning a negative number, zero or a
// positive number like strings.Compare.
type Comparator func(a, b string) int

// DefaultComparator returns a locale-aware comparator using the root
// collation order. The returned function is not safe for concurrent use.
func DefaultComparator() Comparator {
	return LocaleComparator(language.Und)
}

// LocaleComparator returns a comparator using the collation rules of tag.
// The returned function is not safe for concurrent use.
func LocaleComparator(tag language.Tag) Comparator {
	c := collate.New(tag)
	return c.CompareString
}
