package condfmt

import (
	"context"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/condfmt/pkg/condfmt/observability"
	"github.com/randalmurphal/condfmt/pkg/condfmt/registry"
)

// Render renders the template with params using the constructor's resolver.
func (t *Template) Render(params any) (string, error) {
	return t.Execute(context.Background(), params)
}

// Execute renders the template with params.
//
// Rendering walks the top-level tokens once, left to right:
//   - Text is emitted verbatim
//   - A specifier is resolved, passed through its specifier code if any,
//     and emitted
//   - A simple condition is emitted like a specifier, but only when its
//     resolved value is non-empty
//   - A group is included when its inclusion test passes; its text is then
//     transformed by its local format codes before being emitted
//
// Finally the global format codes run on the whole output, caller codes
// before built-in ones.
//
// A resolver or code error aborts rendering; no partial output is returned.
// Without a resolver, templates holding no placeholders still render;
// the first placeholder fails with ErrNoResolver.
// Panics are recovered and returned as *PanicError.
//
// ctx carries tracing and metrics only; rendering does not check it for
// cancellation.
func (t *Template) Execute(ctx context.Context, params any, opts ...RenderOption) (out string, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c := t.ctor
	cfg := renderConfig{resolver: c.cfg.resolver}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := c.cfg.logger
	if cfg.renderID == "" && (logger != nil || c.cfg.tracingEnabled) {
		cfg.renderID = uuid.New().String()
	}

	elapsed := observability.TimedOperation()
	observability.LogRenderStart(logger, cfg.renderID)
	ctx, span := c.spans.StartRenderSpan(ctx, cfg.renderID)
	defer func() {
		d := elapsed()
		c.spans.EndSpanWithError(span, err)
		c.metrics.RecordRender(ctx, d, err)
		if err != nil {
			observability.LogRenderError(logger, cfg.renderID, err, observability.Millis(d))
			return
		}
		observability.LogRenderComplete(logger, cfg.renderID, observability.Millis(d), len(out))
	}()

	r := &renderer{
		ctx:      ctx,
		t:        t,
		params:   params,
		resolver: cfg.resolver,
	}
	return r.run()
}

// renderer holds the state of one render call.
type renderer struct {
	ctx      context.Context
	t        *Template
	params   any
	resolver Resolver

	// current names the placeholder or code being processed, for PanicError.
	current string
}

func (r *renderer) run() (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = ""
			err = &PanicError{Name: r.current, Value: p, Stack: string(debug.Stack())}
		}
	}()

	c := r.t.ctor
	var b strings.Builder
	b.Grow(c.cfg.bufferHint)

	for _, tok := range r.t.tokens {
		switch tok := tok.(type) {
		case *Text:
			b.WriteString(tok.Value)

		case *Specifier:
			raw, err := r.resolve(tok, nil)
			if err != nil {
				return "", err
			}
			if tok.kind == KindSimpleCondition && raw == "" {
				continue
			}
			v, err := r.applyCode(tok, raw, nil)
			if err != nil {
				return "", err
			}
			b.WriteString(v)

		case *Group:
			text, ok, err := r.group(tok)
			if err != nil {
				return "", err
			}
			if ok {
				b.WriteString(text)
			}
		}
	}

	out = b.String()
	if err := r.runCodes(&out, r.t.formatCodes, c.formatCodes, nil); err != nil {
		return "", err
	}
	if err := r.runCodes(&out, r.t.defaultFormatCodes, c.defaultCodes, nil); err != nil {
		return "", err
	}
	return out, nil
}

// group evaluates a group's inclusion test and, when it passes, assembles
// and transforms its text.
//
// Conditions are resolved in order until the test is decided: the first
// non-empty value includes an ANY group, the first empty value excludes an
// ALL group. Condition members already resolved reuse their value during
// emission; every other specifier is resolved when emitted.
func (r *renderer) group(g *Group) (string, bool, error) {
	requireAll := g.HasFlag(FlagRequireAll)
	results := make([]string, 0, len(g.conditions))
	included := requireAll

	for _, sp := range g.conditions {
		v, err := r.resolve(sp, g)
		if err != nil {
			return "", false, err
		}
		results = append(results, v)
		if requireAll && v == "" {
			included = false
			break
		}
		if !requireAll && v != "" {
			included = true
			break
		}
	}

	r.t.ctor.metrics.RecordGroupEvaluation(r.ctx, included)
	if !included {
		r.t.ctor.spans.AddSpanEvent(r.ctx, "condfmt.group.excluded",
			attribute.Int("group.position", g.position),
			attribute.Bool("group.require_all", requireAll),
		)
		return "", false, nil
	}

	var b strings.Builder
	member := 0
	for _, tok := range g.tokens {
		switch tok := tok.(type) {
		case *Text:
			b.WriteString(tok.Value)

		case *Specifier:
			var raw string
			var err error
			if tok.kind == g.conditionKind && member < len(results) {
				raw = results[member]
			} else {
				raw, err = r.resolve(tok, g)
				if err != nil {
					return "", false, err
				}
			}
			if tok.kind == g.conditionKind {
				member++
			}
			v, err := r.applyCode(tok, raw, g)
			if err != nil {
				return "", false, err
			}
			b.WriteString(v)
		}
	}

	text := b.String()
	c := r.t.ctor
	if err := r.runCodes(&text, g.formatCodes, c.formatCodes, g); err != nil {
		return "", false, err
	}
	if err := r.runCodes(&text, g.defaultFormatCodes, c.defaultCodes, g); err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (r *renderer) resolve(tok *Specifier, g *Group) (string, error) {
	r.current = tok.Name
	if r.resolver == nil {
		return "", &RenderError{Name: tok.Name, Op: "resolve", Err: ErrNoResolver}
	}
	v, err := r.resolver(tok.Name, r.params, tok, g)
	if err != nil {
		return "", &RenderError{Name: tok.Name, Op: "resolve", Err: err}
	}
	return v, nil
}

func (r *renderer) applyCode(tok *Specifier, value string, g *Group) (string, error) {
	if !tok.HasCode() {
		return value, nil
	}
	code, ok := r.t.ctor.specifierCodes.ByID(tok.CodeID)
	if !ok {
		return value, nil
	}
	r.current = code.Name
	v, err := code.Value(value, r.params, tok, g)
	if err != nil {
		return "", &RenderError{Name: code.Name, Op: "specifier code", Err: err}
	}
	return v, nil
}

// runCodes applies each format code in list to text, in order.
func (r *renderer) runCodes(text *string, list []*FormatCode, reg *registry.Registry[formatCode], g *Group) error {
	for _, fc := range list {
		code, ok := reg.ByID(fc.ID)
		if !ok || code.Value.format == nil {
			continue
		}
		r.current = fc.Name
		if err := code.Value.format(text, r.params, r.t.Param(fc.Param), g); err != nil {
			return &RenderError{Name: fc.Name, Op: "format code", Err: err}
		}
	}
	return nil
}
