package condfmt

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_AnyConditionDefault(t *testing.T) {
	c := newTestConstructor(t, []string{"a", "b"})
	src := "{A:%a%;B:%b%}"

	tests := []struct {
		name string
		p    Params
		want string
	}{
		{"both empty", Params{}, ""},
		{"second set", Params{"b": "x"}, "A:;B:x"},
		{"first set", Params{"a": "y"}, "A:y;B:"},
		{"both set", Params{"a": "y", "b": "z"}, "A:y;B:z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, c, src, tt.p))
		})
	}
}

func TestRender_AllConditionsFlag(t *testing.T) {
	c := newTestConstructor(t, []string{"a", "b"})
	src := "{%!a%A:%a%;B:%b%}"

	assert.Equal(t, "", render(t, c, src, Params{"a": "y"}))
	assert.Equal(t, "", render(t, c, src, Params{"b": "z"}))
	assert.Equal(t, "A:y;B:z", render(t, c, src, Params{"a": "y", "b": "z"}))
}

func TestRender_SignificantConditionIsolation(t *testing.T) {
	c := newTestConstructor(t, []string{"msg", "what", "extra"})
	src := "{Message: %msg%; What: {%what%}; Extra: {%extra%}}"

	assert.Equal(t, "", render(t, c, src, Params{"msg": "Error"}))
	assert.Equal(t, "Message: Error; What: disk; Extra: ",
		render(t, c, src, Params{"msg": "Error", "what": "disk"}))
	assert.Equal(t, "Message: ; What: ; Extra: x",
		render(t, c, src, Params{"extra": "x"}))
}

func TestRender_SimpleCondition(t *testing.T) {
	c := newTestConstructor(t, []string{"a"}, WithSpecifierCode("upper", upperCode))

	assert.Equal(t, "[]", render(t, c, "[{%a%}]", Params{}))
	assert.Equal(t, "[v]", render(t, c, "[{%a%}]", Params{"a": "v"}))
	assert.Equal(t, "[V]", render(t, c, "[{%a:upper%}]", Params{"a": "v"}))
}

func TestRender_SimpleConditionTestsRawValue(t *testing.T) {
	c := newTestConstructor(t, []string{"a"},
		WithSpecifierCode("fill", func(v string, _ any, _ *Specifier, _ *Group) (string, error) {
			if v == "" {
				return "-", nil
			}
			return v, nil
		}))

	// The raw value decides inclusion, not the code's output.
	assert.Equal(t, "[]", render(t, c, "[{%a:fill%}]", Params{}))
	assert.Equal(t, "[-]", render(t, c, "[%a:fill%]", Params{}))
}

func TestRender_BackslashParity(t *testing.T) {
	c := newTestConstructor(t, []string{"a"})

	// Even count: one literal backslash, brace stays structural.
	assert.Equal(t, `\x=v`, render(t, c, `\\{x=%a%}`, Params{"a": "v"}))
	assert.Equal(t, `\`, render(t, c, `\\{x=%a%}`, Params{}))

	// Odd count: literal brace, the text is never a group.
	assert.Equal(t, `{x=}`, render(t, c, `\{x=%a%}`, Params{}))
	assert.Equal(t, `\{x=v}`, render(t, c, `\\\{x=%a%}`, Params{"a": "v"}))
}

func TestRender_ConditionsResolvedOnce(t *testing.T) {
	var log callLog
	c := newTestConstructor(t, []string{"a", "b", "c"}, WithResolver(log.resolver))

	tmpl, err := c.Compile("{%a%%b%%c%}")
	require.NoError(t, err)

	out, err := tmpl.Render(Params{"a": "1", "b": "2", "c": "3"})
	require.NoError(t, err)
	assert.Equal(t, "123", out)

	// a decides inclusion and is reused; b and c are resolved during emission.
	assert.Equal(t, []string{"a", "b", "c"}, log.calls)
}

func TestRender_AnyShortCircuit(t *testing.T) {
	var log callLog
	c := newTestConstructor(t, []string{"a", "b", "c"}, WithResolver(log.resolver))

	tmpl, err := c.Compile("{%a%%b%%c%}")
	require.NoError(t, err)

	out, err := tmpl.Render(Params{"b": "2"})
	require.NoError(t, err)
	assert.Equal(t, "2", out)
	assert.Equal(t, []string{"a", "b", "c"}, log.calls)
}

func TestRender_AllShortCircuit(t *testing.T) {
	var log callLog
	c := newTestConstructor(t, []string{"a", "b", "c"}, WithResolver(log.resolver))

	tmpl, err := c.Compile("{%!a%%a%%b%%c%}")
	require.NoError(t, err)

	out, err := tmpl.Render(Params{"a": "1", "c": "3"})
	require.NoError(t, err)
	assert.Equal(t, "", out)
	// c is never evaluated once b comes back empty.
	assert.Equal(t, []string{"a", "b"}, log.calls)
}

func TestRender_NonConditionSpecifiersResolvedFresh(t *testing.T) {
	var log callLog
	c := newTestConstructor(t, []string{"msg", "what"}, WithResolver(log.resolver))

	tmpl, err := c.Compile("{%msg% {%what%}}")
	require.NoError(t, err)

	out, err := tmpl.Render(Params{"msg": "m", "what": "w"})
	require.NoError(t, err)
	assert.Equal(t, "m w", out)
	assert.Equal(t, 1, log.count("msg"))
	assert.Equal(t, 1, log.count("what"))

	log.calls = nil
	out, err = tmpl.Render(Params{"msg": "m"})
	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Equal(t, []string{"what"}, log.calls)
}

func TestRender_RepeatedPlaceholderEachOccurrence(t *testing.T) {
	var log callLog
	c := newTestConstructor(t, []string{"a"}, WithResolver(log.resolver))

	tmpl, err := c.Compile("%a%-{%a%|%a%}")
	require.NoError(t, err)

	out, err := tmpl.Render(Params{"a": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x-x|x", out)
	assert.Equal(t, 3, log.count("a"))
}

func TestRender_ResolverReceivesTokenAndGroup(t *testing.T) {
	type seen struct {
		name    string
		kind    Kind
		inGroup bool
	}
	var calls []seen

	c, err := New([]string{"a", "b"}, WithResolver(func(name string, _ any, tok *Specifier, g *Group) (string, error) {
		calls = append(calls, seen{name, tok.Kind(), g != nil})
		return "v", nil
	}))
	require.NoError(t, err)

	tmpl, err := c.Compile("%a%{%b% {%a%}}{%b%}")
	require.NoError(t, err)
	_, err = tmpl.Render(nil)
	require.NoError(t, err)

	assert.Equal(t, []seen{
		{"a", KindSpecifier, false},
		{"a", KindSignificant, true},
		{"b", KindSpecifier, true},
		{"b", KindSimpleCondition, false},
	}, calls)
}

func TestRender_FormatCodes(t *testing.T) {
	c := newTestConstructor(t, []string{"a", "b"},
		WithFormatCode("trim", trimCode),
		WithFormatCode("wrap", wrapCode),
		WithSpecifierCode("upper", upperCode))

	tests := []struct {
		name string
		src  string
		p    Params
		want string
	}{
		{"global trim", "  %a%  %trim%", Params{"a": "x"}, "x"},
		{"global code anywhere", "%trim%  %a%  ", Params{"a": "x"}, "x"},
		{"local wrap", "%a%{ %b%%wrap%}", Params{"a": "x", "b": "y"}, "x[ y]"},
		{"local wrap with params", "{%b%%wrap:<,>%}", Params{"b": "y"}, "<y>"},
		{"excluded group runs no codes", "{%b%%wrap%}", Params{}, ""},
		{"local then global", "{ %b% %wrap:(,)%}%wrap%", Params{"b": "y"}, "[( y )]"},
		{"codes in source order", "%a%%wrap:1,2%%wrap:3,4%", Params{"a": "x"}, "31x24"},
		{"specifier code in group", "{%b:upper%%trim%}", Params{"b": " y "}, "Y"},
		{"code in literal braces is global", "{x%wrap%}", Params{}, "[{x}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, c, tt.src, tt.p))
		})
	}
}

func TestRender_FormatCodeNeverEmitted(t *testing.T) {
	c := newTestConstructor(t, []string{"a"},
		WithFormatCode("noop", func(_ *string, _ any, _ string, _ *Group) error { return nil }))

	out := render(t, c, "x%noop%y{%a%%noop:p%}%noop%", Params{"a": "a"})
	assert.Equal(t, "xya", out)
	assert.NotContains(t, out, "noop")
}

func TestRender_FormatCodeReceivesGroup(t *testing.T) {
	var groups []*Group
	c := newTestConstructor(t, []string{"a"},
		WithFormatCode("spy", func(_ *string, _ any, _ string, g *Group) error {
			groups = append(groups, g)
			return nil
		}))

	tmpl, err := c.Compile("{%a%%spy%}%spy%")
	require.NoError(t, err)
	_, err = tmpl.Render(Params{"a": "x"})
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Same(t, tmpl.Groups()[0], groups[0])
	assert.Nil(t, groups[1])
}

func TestRender_Errors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("resolver", func(t *testing.T) {
		c, err := New([]string{"a"}, WithResolver(func(string, any, *Specifier, *Group) (string, error) {
			return "", boom
		}))
		require.NoError(t, err)

		out, err := c.MustCompile("x %a%").Render(nil)
		assert.Empty(t, out)
		assert.ErrorIs(t, err, boom)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, "a", renderErr.Name)
		assert.Equal(t, "resolve", renderErr.Op)
	})

	t.Run("specifier code", func(t *testing.T) {
		c := newTestConstructor(t, []string{"a"},
			WithSpecifierCode("bad", func(string, any, *Specifier, *Group) (string, error) {
				return "", boom
			}))

		_, err := c.MustCompile("%a:bad%").Render(Params{"a": "x"})
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, "bad", renderErr.Name)
		assert.Equal(t, "specifier code", renderErr.Op)
	})

	t.Run("format code", func(t *testing.T) {
		c := newTestConstructor(t, []string{"a"},
			WithFormatCode("bad", func(*string, any, string, *Group) error {
				return boom
			}))

		out, err := c.MustCompile("%a%%bad%").Render(Params{"a": "x"})
		assert.Empty(t, out)
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, "bad", renderErr.Name)
		assert.Equal(t, "format code", renderErr.Op)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("panic", func(t *testing.T) {
		c, err := New([]string{"a"}, WithResolver(func(string, any, *Specifier, *Group) (string, error) {
			panic("kaboom")
		}))
		require.NoError(t, err)

		out, err := c.MustCompile("{%a%}").Render(nil)
		assert.Empty(t, out)

		var panicErr *PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "a", panicErr.Name)
		assert.Equal(t, "kaboom", panicErr.Value)
		assert.NotEmpty(t, panicErr.Stack)
	})

	t.Run("no resolver", func(t *testing.T) {
		c, err := New([]string{"a"})
		require.NoError(t, err)

		out, err := c.MustCompile("x %a% y").Render(nil)
		assert.Empty(t, out)
		assert.ErrorIs(t, err, ErrNoResolver)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, "a", renderErr.Name)
		assert.Equal(t, "resolve", renderErr.Op)
	})

	t.Run("no resolver in group", func(t *testing.T) {
		c, err := New([]string{"a"})
		require.NoError(t, err)

		_, err = c.MustCompile("x{ %a%}").Render(nil)
		assert.ErrorIs(t, err, ErrNoResolver)
	})
}

func TestRender_WithoutResolver(t *testing.T) {
	c, err := New([]string{"a"})
	require.NoError(t, err)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"plain text", "hello", "hello"},
		{"escaped operators", Escape("50% {off}"), "50% {off}"},
		{"literal braces", "{ no placeholders }", "{ no placeholders }"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.MustCompile(tt.src).Render(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRender_ResolverOverride(t *testing.T) {
	c := newTestConstructor(t, []string{"a"})
	tmpl := c.MustCompile("%a%")

	out, err := tmpl.Execute(context.Background(), Params{"a": "x"},
		WithRenderResolver(func(name string, _ any, _ *Specifier, _ *Group) (string, error) {
			return "override:" + name, nil
		}))
	require.NoError(t, err)
	assert.Equal(t, "override:a", out)

	// Other calls still use the constructor default.
	out, err = tmpl.Render(Params{"a": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestRender_OverrideWithoutDefault(t *testing.T) {
	c, err := New([]string{"a"})
	require.NoError(t, err)

	out, err := c.MustCompile("<%a%>").Execute(context.Background(), nil,
		WithRenderResolver(func(string, any, *Specifier, *Group) (string, error) { return "v", nil }))
	require.NoError(t, err)
	assert.Equal(t, "<v>", out)
}

func TestRender_NilParams(t *testing.T) {
	c := newTestConstructor(t, []string{"a"})
	out, err := c.MustCompile("x{%a%}y").Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "xy", out)
}

func TestRender_Concurrent(t *testing.T) {
	c := newTestConstructor(t, []string{"n"}, WithFormatCode("wrap", wrapCode))
	tmpl := c.MustCompile("{#%n%%wrap%}")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := strings.Repeat("x", i%5)
			out, err := tmpl.Render(Params{"n": v})
			assert.NoError(t, err)
			if v == "" {
				assert.Equal(t, "", out)
			} else {
				assert.Equal(t, "[#"+v+"]", out)
			}
		}(i)
	}
	wg.Wait()
}

func TestRender_OutputBufferHint(t *testing.T) {
	for _, hint := range []int{0, 1, 4096} {
		c := newTestConstructor(t, []string{"a"}, WithOutputBufferHint(hint))
		assert.Equal(t, "a=x", render(t, c, "a=%a%", Params{"a": "x"}))
	}
}
