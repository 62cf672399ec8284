package condfmt

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/randalmurphal/condfmt/pkg/condfmt/observability"
	"github.com/randalmurphal/condfmt/pkg/condfmt/registry"
)

// reservedNameChars cannot appear in placeholder names.
const reservedNameChars = `%{}\`

// Constructor compiles template strings against a fixed set of placeholder
// names and code registries. Use New to create one, then call Compile for
// each template string.
//
// A Constructor is immutable after creation and safe for concurrent use.
// Templates compiled from it share its registries.
type Constructor struct {
	cfg constructorConfig

	names          *registry.Registry[struct{}]
	formatCodes    *registry.Registry[formatCode] // nil when not supplied
	defaultCodes   *registry.Registry[formatCode]
	specifierCodes *registry.Registry[SpecifierFunc] // nil when not supplied

	// matcher buckets names by folded first rune, longest first.
	matcher     map[rune][]registry.Entry[struct{}]
	sortedNames []string

	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// New creates a Constructor for the given placeholder names.
// Returns an error if validation fails. Multiple errors are joined together.
//
// Validation checks:
//  1. Every option value is in its valid domain
//  2. Names are non-empty and free of %, {, } and \
//  3. Names are unique under the configured case sensitivity
//  4. Code names are non-empty and free of % and :
//
// Example:
//
//	ctor, err := condfmt.New([]string{"user", "count"},
//	    condfmt.WithResolver(func(name string, params any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
//	        return params.(map[string]string)[name], nil
//	    }))
func New(names []string, opts ...Option) (*Constructor, error) {
	cfg := defaultConstructorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	errs := append([]error(nil), cfg.errs...)

	if err := validateSentinelBase(cfg.sentinelBase); err != nil {
		errs = append(errs, err)
	}
	if cfg.comparator == nil {
		cfg.comparator = DefaultComparator()
	}

	c := &Constructor{
		cfg:          cfg,
		names:        registry.NewWith[struct{}](cfg.caseSensitive),
		defaultCodes: registry.NewWith[formatCode](cfg.caseSensitive),
		metrics:      observability.NoopMetrics{},
		spans:        observability.NoopSpanManager{},
	}

	for _, name := range names {
		if name == "" {
			errs = append(errs, fmt.Errorf("%w: placeholder name is empty", ErrInvalidConfiguration))
			continue
		}
		if strings.ContainsAny(name, reservedNameChars) {
			errs = append(errs, fmt.Errorf("%w: placeholder name %q contains one of %s", ErrInvalidConfiguration, name, reservedNameChars))
			continue
		}
		if _, err := c.names.Register(name, struct{}{}); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrDuplicatePlaceholderName, err))
		}
	}

	for _, b := range builtinFormatCodes {
		c.defaultCodes.Set(b.name, b.code)
	}

	if cfg.formatSupplied {
		c.formatCodes = registry.NewWith[formatCode](cfg.caseSensitive)
		for _, fc := range cfg.formatCodes {
			if err := validateCodeName("format", fc.name); err != nil {
				errs = append(errs, err)
				continue
			}
			if _, err := c.formatCodes.Register(fc.name, fc.code); err != nil {
				errs = append(errs, fmt.Errorf("%w: format code: %w", ErrInvalidConfiguration, err))
			}
		}
	}

	if cfg.specifierSupplied {
		c.specifierCodes = registry.NewWith[SpecifierFunc](cfg.caseSensitive)
		for _, sc := range cfg.specifierCodes {
			if err := validateCodeName("specifier", sc.name); err != nil {
				errs = append(errs, err)
				continue
			}
			if _, err := c.specifierCodes.Register(sc.name, sc.fn); err != nil {
				errs = append(errs, fmt.Errorf("%w: specifier code: %w", ErrInvalidConfiguration, err))
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c.buildMatcher()

	if cfg.metricsEnabled {
		c.metrics = observability.NewMetricsRecorder()
	}
	if cfg.tracingEnabled {
		c.spans = observability.NewSpanManager()
	}

	observability.LogConstructorReady(cfg.logger, c.names.Len(), registryLen(c.formatCodes), registryLen(c.specifierCodes))

	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(names []string, opts ...Option) *Constructor {
	c, err := New(names, opts...)
	if err != nil {
		panic(fmt.Sprintf("condfmt: %v", err))
	}
	return c
}

func validateSentinelBase(r rune) error {
	// Sentinels must never collide with ASCII operators, digits or ':'.
	if r < utf8.RuneSelf || r > unicode.MaxRune {
		return fmt.Errorf("%w: sentinel base %U outside %U..%U", ErrInvalidConfiguration, r, utf8.RuneSelf, unicode.MaxRune)
	}
	if isSurrogate(r) {
		return fmt.Errorf("%w: sentinel base %U is a surrogate", ErrInvalidConfiguration, r)
	}
	return nil
}

func validateCodeName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: %s code name is empty", ErrInvalidConfiguration, kind)
	}
	if strings.ContainsAny(name, "%:") {
		return fmt.Errorf("%w: %s code name %q contains %% or :", ErrInvalidConfiguration, kind, name)
	}
	return nil
}

func registryLen[V any](r *registry.Registry[V]) int {
	if r == nil {
		return 0
	}
	return r.Len()
}

// foldRune returns the matcher bucket key for r.
func (c *Constructor) foldRune(r rune) rune {
	if c.cfg.caseSensitive {
		return r
	}
	return unicode.ToLower(r)
}

// buildMatcher groups names by first rune so pass 2 only tries names that
// can start at a position. Within a bucket, longer names come first; ties
// are ordered by the comparator.
func (c *Constructor) buildMatcher() {
	c.matcher = make(map[rune][]registry.Entry[struct{}])
	for _, e := range c.names.Entries() {
		first, _ := utf8.DecodeRuneInString(e.Name)
		key := c.foldRune(first)
		c.matcher[key] = append(c.matcher[key], e)
	}
	for _, bucket := range c.matcher {
		slices.SortStableFunc(bucket, func(a, b registry.Entry[struct{}]) int {
			if d := len(b.Name) - len(a.Name); d != 0 {
				return d
			}
			return c.cfg.comparator(a.Name, b.Name)
		})
	}

	c.sortedNames = c.names.Names()
	slices.SortStableFunc(c.sortedNames, c.cfg.comparator)
}

// matchName returns the longest placeholder name starting at s[i:] whose
// end satisfies accept.
func (c *Constructor) matchName(s string, i int, accept func(end int) bool) (registry.Entry[struct{}], int, bool) {
	if i >= len(s) {
		return registry.Entry[struct{}]{}, 0, false
	}
	first, _ := utf8.DecodeRuneInString(s[i:])
	for _, e := range c.matcher[c.foldRune(first)] {
		end := i + len(e.Name)
		if end > len(s) {
			continue
		}
		if !c.equalNames(s[i:end], e.Name) {
			continue
		}
		if accept(end) {
			return e, end, true
		}
	}
	return registry.Entry[struct{}]{}, 0, false
}

func (c *Constructor) equalNames(a, b string) bool {
	if c.cfg.caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// lookupFormatCode finds a format code, preferring caller codes over
// built-in ones. def reports whether the built-in registry matched.
func (c *Constructor) lookupFormatCode(name string) (entry registry.Entry[formatCode], def bool, err error) {
	if c.formatCodes != nil {
		if e, ok := c.formatCodes.Lookup(name); ok {
			return e, false, nil
		}
	}
	if e, ok := c.defaultCodes.Lookup(name); ok {
		return e, true, nil
	}
	if c.formatCodes == nil {
		return entry, false, fmt.Errorf("%w: %q", ErrNoFormatCodesSupplied, name)
	}
	return entry, false, fmt.Errorf("%w: %q", ErrMissingFormatCode, name)
}

// lookupSpecifierCode finds a specifier code by name.
func (c *Constructor) lookupSpecifierCode(name string) (registry.Entry[SpecifierFunc], error) {
	if c.specifierCodes == nil {
		return registry.Entry[SpecifierFunc]{}, fmt.Errorf("%w: %q", ErrNoSpecifierCodesSupplied, name)
	}
	e, ok := c.specifierCodes.Lookup(name)
	if !ok {
		return e, fmt.Errorf("%w: %q", ErrMissingSpecifierCode, name)
	}
	return e, nil
}

// Names returns the placeholder names in registration order.
func (c *Constructor) Names() []string {
	return c.names.Names()
}

// SortedNames returns the placeholder names ordered by the comparator.
func (c *Constructor) SortedNames() []string {
	return slices.Clone(c.sortedNames)
}

// NameID returns the 1-based ID of a placeholder name.
func (c *Constructor) NameID(name string) (int, bool) {
	e, ok := c.names.Lookup(name)
	return e.ID, ok
}

// CaseSensitive reports whether names are compared case-sensitively.
func (c *Constructor) CaseSensitive() bool {
	return c.cfg.caseSensitive
}

// FormatCodeNames returns the caller format-code names, or nil when no
// format codes were supplied.
func (c *Constructor) FormatCodeNames() []string {
	if c.formatCodes == nil {
		return nil
	}
	return c.formatCodes.Names()
}

// SpecifierCodeNames returns the specifier-code names, or nil when no
// specifier codes were supplied.
func (c *Constructor) SpecifierCodeNames() []string {
	if c.specifierCodes == nil {
		return nil
	}
	return c.specifierCodes.Names()
}
