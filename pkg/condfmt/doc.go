/*
Package condfmt provides a compiled format-string engine with conditional
groups, specifier codes and format codes.

# Overview

A Constructor is created once from a fixed list of placeholder names. It
compiles template strings into immutable Templates, which render caller
data through a resolver callback. Compilation does all parsing up front, so
a Template can be rendered many times, concurrently, without re-scanning.

Template syntax:

	%name%          placeholder, replaced by the resolver's value
	%name:code%     placeholder passed through a specifier code
	{ ... }         conditional group, dropped when its condition fails
	{%name%}        significant placeholder (inside a group) or
	                simple condition (outside any group)
	%code%          format code, transforming the group or the output
	%code:params%   format code with a parameter string
	\%  \{  \}      literal operators; \\ before an operator is a backslash

# Basic Usage

	ctor, err := condfmt.New([]string{"user", "count"},
	    condfmt.WithResolver(func(name string, params any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
	        return params.(map[string]string)[name], nil
	    }))
	if err != nil {
	    log.Fatal(err)
	}

	tmpl := ctor.MustCompile("Hello %user%{, you have %count% new messages}.")

	out, _ := tmpl.Render(map[string]string{"user": "Ada", "count": "3"})
	// "Hello Ada, you have 3 new messages."

	out, _ = tmpl.Render(map[string]string{"user": "Ada"})
	// "Hello Ada."

# Conditional Groups

A group is included when any of its conditions resolves non-empty. The
conditions are the group's significant placeholders when it has any, and
its plain placeholders otherwise:

	{Message: %msg% (from {%sender%})}

renders only when sender is non-empty, whatever msg holds. The built-in
early code %!a% switches a group to require every condition:

	{%!a%%first% %last%}

Braces that enclose no placeholder are kept as literal text. Groups do not
nest; a group is the innermost brace span.

# Codes

Specifier codes transform one placeholder's value. Format codes transform
text: inside a group they run on the group's text, outside any group on the
whole output, after everything else is emitted.

	ctor, _ := condfmt.New([]string{"name"},
	    condfmt.WithResolver(resolve),
	    condfmt.WithSpecifierCode("upper", func(v string, _ any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
	        return strings.ToUpper(v), nil
	    }),
	    condfmt.WithFormatCode("trim", func(text *string, _ any, _ string, _ *condfmt.Group) error {
	        *text = strings.TrimSpace(*text)
	        return nil
	    }))

	tmpl := ctor.MustCompile("  %name:upper%  %trim%")

Early format codes run once while a template is compiled and may adjust the
enclosing group. The codes subpackage has ready-made codes.

# Template Library

A Library stores named template sources and caches their compiled form:

	s, _ := store.NewSQLiteStore("./templates.db")
	lib := condfmt.NewLibrary(ctor, s)
	defer lib.Close()

	_, err := lib.Put("greeting", "Hello %user%")
	out, err := lib.Render(ctx, "greeting", params)

# Observability

	ctor, _ := condfmt.New(names,
	    condfmt.WithResolver(resolve),
	    condfmt.WithLogger(logger),
	    condfmt.WithMetrics(true),
	    condfmt.WithTracing(true))

	out, err := tmpl.Execute(ctx, params, condfmt.WithRenderID("req-42"))

Logs include structured fields: render_id, duration_ms, source_len.
OpenTelemetry metrics: condfmt.compile.count, condfmt.render.latency_ms, etc.
OpenTelemetry tracing: condfmt.compile and condfmt.render spans.

# Error Handling

Construction errors are joined; compile errors carry the failing pass and
template span; render errors carry the placeholder or code that failed:

	_, err := ctor.Compile("%nope%")
	errors.Is(err, condfmt.ErrNoFormatCodesSupplied) // true

	var compileErr *condfmt.CompileError
	if errors.As(err, &compileErr) {
	    log.Printf("pass %d at %q: %v", compileErr.Pass, compileErr.Span, compileErr.Err)
	}

	var renderErr *condfmt.RenderError
	if errors.As(err, &renderErr) {
	    log.Printf("%s %s: %v", renderErr.Op, renderErr.Name, renderErr.Err)
	}

Panics in resolvers and code handlers are recovered and converted to
PanicError with stack trace.

# Thread Safety

  - Constructor IS safe for concurrent use (immutable)
  - Template IS safe for concurrent use (immutable)
  - Library IS safe for concurrent use
  - Resolvers and codes must be safe for concurrent use when templates are
    rendered concurrently

# Subpackages

  - codes: Ready-made specifier and format codes
  - config: Constructor settings and templates from YAML or JSON
  - registry: Ordered name registry
  - store: Template source storage (memory, SQLite)
  - observability: Logging, metrics, and tracing helpers
*/
package condfmt
