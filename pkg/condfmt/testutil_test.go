package condfmt

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Params is the parameter type used across tests: placeholder name to value.
type Params map[string]string

// mapResolver returns the value bound to the placeholder name, or "" when
// params is not a Params or has no binding.
func mapResolver(name string, params any, _ *Specifier, _ *Group) (string, error) {
	p, _ := params.(Params)
	return p[name], nil
}

// callLog records resolver invocations.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) resolver(name string, params any, tok *Specifier, g *Group) (string, error) {
	l.mu.Lock()
	l.calls = append(l.calls, name)
	l.mu.Unlock()
	return mapResolver(name, params, tok, g)
}

func (l *callLog) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.calls {
		if c == name {
			n++
		}
	}
	return n
}

// upperCode is a specifier code used in tests.
func upperCode(v string, _ any, _ *Specifier, _ *Group) (string, error) {
	return strings.ToUpper(v), nil
}

// trimCode is a standard format code used in tests.
func trimCode(text *string, _ any, _ string, _ *Group) error {
	*text = strings.TrimSpace(*text)
	return nil
}

// wrapCode wraps text in its parameter string, "[" and "]" by default.
func wrapCode(text *string, _ any, param string, _ *Group) error {
	open, closing := "[", "]"
	if param != "" {
		open, closing, _ = strings.Cut(param, ",")
	}
	*text = open + *text + closing
	return nil
}

// newTestConstructor creates a constructor with mapResolver, failing the
// test on error.
func newTestConstructor(t *testing.T, names []string, opts ...Option) *Constructor {
	t.Helper()
	c, err := New(names, append([]Option{WithResolver(mapResolver)}, opts...)...)
	require.NoError(t, err)
	return c
}

// render compiles src and renders it with p.
func render(t *testing.T, c *Constructor, src string, p Params) string {
	t.Helper()
	tmpl, err := c.Compile(src)
	require.NoError(t, err)
	out, err := tmpl.Render(p)
	require.NoError(t, err)
	return out
}
