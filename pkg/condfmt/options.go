package condfmt

import (
	"fmt"
	"log/slog"
	"sort"
)

// DefaultSentinelBase is the first code point probed for escape sentinels
// and internal markers: the start of the Basic Multilingual Plane's
// private use area.
const DefaultSentinelBase rune = 0xE000

// DefaultOutputBufferHint is the default output buffer pre-allocation, in bytes.
const DefaultOutputBufferHint = 1024

// namedFormatCode is a format code awaiting registration.
type namedFormatCode struct {
	name string
	code formatCode
}

// namedSpecifierCode is a specifier code awaiting registration.
type namedSpecifierCode struct {
	name string
	fn   SpecifierFunc
}

// constructorConfig holds configuration for a Constructor.
type constructorConfig struct {
	resolver      Resolver
	caseSensitive bool

	formatCodes       []namedFormatCode
	formatSupplied    bool
	specifierCodes    []namedSpecifierCode
	specifierSupplied bool

	bufferHint   int
	sentinelBase rune
	comparator   Comparator

	logger         *slog.Logger
	metricsEnabled bool
	tracingEnabled bool

	errs []error
}

// defaultConstructorConfig returns the default constructor configuration.
func defaultConstructorConfig() constructorConfig {
	return constructorConfig{
		bufferHint:   DefaultOutputBufferHint,
		sentinelBase: DefaultSentinelBase,
	}
}

func (c *constructorConfig) invalid(format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...))
}

// Option configures a Constructor.
type Option func(*constructorConfig)

// WithResolver sets the default resolver used by render calls that do not
// supply their own.
func WithResolver(r Resolver) Option {
	return func(c *constructorConfig) {
		c.resolver = r
	}
}

// WithCaseSensitive controls whether placeholder and code names are compared
// case-sensitively.
// Default: false
func WithCaseSensitive(enabled bool) Option {
	return func(c *constructorConfig) {
		c.caseSensitive = enabled
	}
}

// WithFormatCodes registers standard format codes. Codes are registered in
// name order. Supplying this option, even with an empty map, marks the
// format-code registry as supplied, which changes the error reported for
// unknown %name% spans from ErrNoFormatCodesSupplied to ErrMissingFormatCode.
func WithFormatCodes(codes map[string]FormatFunc) Option {
	return func(c *constructorConfig) {
		c.formatSupplied = true
		for _, name := range sortedKeys(codes) {
			c.addFormatCode(name, formatCode{typ: Standard, format: codes[name]}, codes[name] == nil)
		}
	}
}

// WithFormatCode registers one standard format code.
//
// Example:
//
//	condfmt.WithFormatCode("trim", func(text *string, _ any, _ string, _ *condfmt.Group) error {
//	    *text = strings.TrimSpace(*text)
//	    return nil
//	})
func WithFormatCode(name string, fn FormatFunc) Option {
	return func(c *constructorConfig) {
		c.formatSupplied = true
		c.addFormatCode(name, formatCode{typ: Standard, format: fn}, fn == nil)
	}
}

// WithEarlyFormatCode registers one early format code. Early codes run
// during compilation and are never stored in the compiled template.
func WithEarlyFormatCode(name string, fn EarlyFunc) Option {
	return func(c *constructorConfig) {
		c.formatSupplied = true
		c.addFormatCode(name, formatCode{typ: Early, early: fn}, fn == nil)
	}
}

func (c *constructorConfig) addFormatCode(name string, code formatCode, nilHandler bool) {
	if nilHandler {
		c.invalid("format code %q has nil handler", name)
		return
	}
	c.formatCodes = append(c.formatCodes, namedFormatCode{name: name, code: code})
}

// WithSpecifierCodes registers specifier codes in name order.
// Supplying this option, even with an empty map, marks the specifier-code
// registry as supplied.
func WithSpecifierCodes(codes map[string]SpecifierFunc) Option {
	return func(c *constructorConfig) {
		c.specifierSupplied = true
		for _, name := range sortedKeys(codes) {
			c.addSpecifierCode(name, codes[name])
		}
	}
}

// WithSpecifierCode registers one specifier code.
func WithSpecifierCode(name string, fn SpecifierFunc) Option {
	return func(c *constructorConfig) {
		c.specifierSupplied = true
		c.addSpecifierCode(name, fn)
	}
}

func (c *constructorConfig) addSpecifierCode(name string, fn SpecifierFunc) {
	if fn == nil {
		c.invalid("specifier code %q has nil handler", name)
		return
	}
	c.specifierCodes = append(c.specifierCodes, namedSpecifierCode{name: name, fn: fn})
}

// WithOutputBufferHint sets the initial capacity of render output buffers.
// Purely a performance hint.
// Default: 1024
func WithOutputBufferHint(n int) Option {
	return func(c *constructorConfig) {
		if n < 0 {
			c.invalid("output buffer hint %d is negative", n)
			return
		}
		c.bufferHint = n
	}
}

// WithSentinelBase sets the first code point probed when allocating escape
// sentinels and internal markers. Override it when templates are known to
// use the private use area literally; correctness does not depend on it,
// only the speed of the allocation.
// Default: U+E000
func WithSentinelBase(r rune) Option {
	return func(c *constructorConfig) {
		c.sentinelBase = r
	}
}

// WithComparator sets the comparator used to order placeholder names at
// construction time.
// Default: DefaultComparator()
func WithComparator(cmp Comparator) Option {
	return func(c *constructorConfig) {
		c.comparator = cmp
	}
}

// WithLogger sets the logger for compile and render events.
// Default: nil (no logging)
func WithLogger(logger *slog.Logger) Option {
	return func(c *constructorConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for compile and render calls.
// Uses the global meter provider.
// Default: false
func WithMetrics(enabled bool) Option {
	return func(c *constructorConfig) {
		c.metricsEnabled = enabled
	}
}

// WithTracing enables OpenTelemetry spans for compile and render calls.
// Uses the global tracer provider.
// Default: false
func WithTracing(enabled bool) Option {
	return func(c *constructorConfig) {
		c.tracingEnabled = enabled
	}
}

// renderConfig holds configuration for one render call.
type renderConfig struct {
	resolver Resolver
	renderID string
}

// RenderOption configures a single render call.
type RenderOption func(*renderConfig)

// WithRenderResolver overrides the constructor's resolver for one call.
func WithRenderResolver(r Resolver) RenderOption {
	return func(c *renderConfig) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithRenderID sets the identifier attached to render logs and spans.
// If not set and logging or tracing is enabled, a UUID is generated.
func WithRenderID(id string) RenderOption {
	return func(c *renderConfig) {
		c.renderID = id
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
