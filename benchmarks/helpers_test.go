package benchmarks

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/condfmt/pkg/condfmt"
	"github.com/randalmurphal/condfmt/pkg/condfmt/codes"
)

// Params is the data rendered in every benchmark.
type Params map[string]string

func resolve(name string, params any, _ *condfmt.Specifier, _ *condfmt.Group) (string, error) {
	return params.(Params)[name], nil
}

// names returns n placeholder names f0..f(n-1).
func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("f%d", i)
	}
	return out
}

// fullParams sets every field of names.
func fullParams(n int) Params {
	p := make(Params, n)
	for i := 0; i < n; i++ {
		p[fmt.Sprintf("f%d", i)] = fmt.Sprintf("value-%d", i)
	}
	return p
}

// sparseParams sets every other field.
func sparseParams(n int) Params {
	p := make(Params, n)
	for i := 0; i < n; i += 2 {
		p[fmt.Sprintf("f%d", i)] = fmt.Sprintf("value-%d", i)
	}
	return p
}

func newConstructor(n int, caseSensitive bool) *condfmt.Constructor {
	opts := append(codes.Options(),
		condfmt.WithResolver(resolve),
		condfmt.WithCaseSensitive(caseSensitive),
	)
	return condfmt.MustNew(names(n), opts...)
}

// flatTemplate places n placeholders between literal text.
func flatTemplate(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "field %d is %%f%d%%; ", i, i)
	}
	return b.String()
}

// groupedTemplate wraps each pair of placeholders in a group; odd groups
// require all members.
func groupedTemplate(n int) string {
	var b strings.Builder
	for i := 0; i+1 < n; i += 2 {
		fmt.Fprintf(&b, "{[%%f%d%% / %%f%d%%]", i, i+1)
		if (i/2)%2 == 1 {
			b.WriteString("%!a%")
		}
		b.WriteString("}")
	}
	return b.String()
}

// codedTemplate attaches specifier and format codes.
func codedTemplate(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "{%%f%d:upper%%%%pad:12%%}", i)
	}
	b.WriteString("%collapse%")
	return b.String()
}

func newConstructorFrom(n []string) (*condfmt.Constructor, error) {
	return condfmt.New(n, condfmt.WithResolver(resolve))
}
