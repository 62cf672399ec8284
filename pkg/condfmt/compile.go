package condfmt

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/condfmt/pkg/condfmt/observability"
)

// Compile compiles a template string into an immutable, reusable Template.
//
// Compilation runs three passes:
//  1. Escape resolution: \{ \} \% and doubled backslashes become literals
//  2. Specifier and code resolution: %name%, %name:code%, {%name%},
//     %code% and %code:params% become compact markers
//  3. Structure: brace spans holding placeholders become conditional
//     groups; early format codes run
//
// Any failure aborts compilation; no partial template is returned.
func (c *Constructor) Compile(src string) (*Template, error) {
	return c.CompileContext(context.Background(), src)
}

// CompileContext is Compile with a context for tracing.
func (c *Constructor) CompileContext(ctx context.Context, src string) (tmpl *Template, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	elapsed := observability.TimedOperation()
	ctx, span := c.spans.StartCompileSpan(ctx, len(src))
	defer func() {
		d := elapsed()
		c.spans.EndSpanWithError(span, err)
		c.metrics.RecordCompile(ctx, d, err)
		if err != nil {
			observability.LogCompileError(c.cfg.logger, len(src), err)
			return
		}
		observability.LogCompileComplete(c.cfg.logger, len(src), len(tmpl.tokens), observability.Millis(d))
	}()

	return c.compile(src)
}

// MustCompile is like Compile but panics on error.
func (c *Constructor) MustCompile(src string) *Template {
	t, err := c.Compile(src)
	if err != nil {
		panic(fmt.Sprintf("condfmt: %v", err))
	}
	return t
}

func (c *Constructor) compile(src string) (*Template, error) {
	s, err := allocateSentinels(src, c.cfg.sentinelBase)
	if err != nil {
		return nil, &CompileError{Pass: 1, Err: err}
	}

	cp := &compiler{
		c:       c,
		s:       s,
		t:       &Template{ctor: c, source: src},
		restore: s.restorer(),
		params:  make(map[string]int),
	}

	escaped := unescape(src, s)

	marked, err := cp.resolve(escaped)
	if err != nil {
		return nil, err
	}

	if err := cp.structure(marked); err != nil {
		return nil, err
	}

	return cp.t, nil
}

// Escape returns s with its operators escaped, so that compiling the
// result renders s literally. Every %, { and } gets a backslash, and a
// backslash run directly before one of them is doubled. Other backslashes
// are left as they are.
func Escape(s string) string {
	if !strings.ContainsAny(s, "%{}") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)

	for i := 0; i < len(s); {
		j := i
		for j < len(s) && s[j] == '\\' {
			j++
		}
		switch {
		case j < len(s) && isOperator(s[j]):
			b.WriteString(s[i:j])
			b.WriteString(s[i:j])
			b.WriteByte('\\')
			b.WriteByte(s[j])
			i = j + 1
		case j > i:
			b.WriteString(s[i:j])
			i = j
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
