package codes

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/randalmurphal/condfmt/pkg/condfmt"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy

	inlinePolicyOnce sync.Once
	inlinePolicy     *bluemonday.Policy
)

// Sanitize strips every HTML element from a value, keeping its text.
func Sanitize(v string, _ any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
	return strings.TrimSpace(strictSanitizer().Sanitize(v)), nil
}

// SanitizeInline keeps a small set of inline formatting elements (b, i, em,
// strong, code, br, span) and strips everything else.
func SanitizeInline(v string, _ any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
	return strings.TrimSpace(inlineSanitizer().Sanitize(v)), nil
}

func strictSanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

func inlineSanitizer() *bluemonday.Policy {
	inlinePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "i", "em", "strong", "code", "br", "span")
		policy.AllowAttrs("class").OnElements("span", "code")
		inlinePolicy = policy
	})
	return inlinePolicy
}
