package benchmarks

import (
	"context"
	"testing"

	"github.com/randalmurphal/condfmt/pkg/condfmt"
)

func benchmarkRender(b *testing.B, tmpl *condfmt.Template, p Params) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tmpl.Render(p)
	}
}

// BenchmarkRender_Flat_10 renders 10 placeholders.
func BenchmarkRender_Flat_10(b *testing.B) {
	tmpl := newConstructor(10, false).MustCompile(flatTemplate(10))
	benchmarkRender(b, tmpl, fullParams(10))
}

// BenchmarkRender_Flat_100 renders 100 placeholders.
func BenchmarkRender_Flat_100(b *testing.B) {
	tmpl := newConstructor(100, false).MustCompile(flatTemplate(100))
	benchmarkRender(b, tmpl, fullParams(100))
}

// BenchmarkRender_Grouped_Full renders groups that are all included.
func BenchmarkRender_Grouped_Full(b *testing.B) {
	tmpl := newConstructor(100, false).MustCompile(groupedTemplate(100))
	benchmarkRender(b, tmpl, fullParams(100))
}

// BenchmarkRender_Grouped_Sparse renders groups where half the values are
// empty, so require-all groups are excluded.
func BenchmarkRender_Grouped_Sparse(b *testing.B) {
	tmpl := newConstructor(100, false).MustCompile(groupedTemplate(100))
	benchmarkRender(b, tmpl, sparseParams(100))
}

// BenchmarkRender_Coded_50 renders with specifier and format codes.
func BenchmarkRender_Coded_50(b *testing.B) {
	tmpl := newConstructor(50, false).MustCompile(codedTemplate(50))
	benchmarkRender(b, tmpl, fullParams(50))
}

// BenchmarkRender_Parallel renders one template from many goroutines.
func BenchmarkRender_Parallel(b *testing.B) {
	tmpl := newConstructor(100, false).MustCompile(groupedTemplate(100))
	p := fullParams(100)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = tmpl.Render(p)
		}
	})
}

// BenchmarkLibrary_Render measures a cached library lookup plus render.
func BenchmarkLibrary_Render(b *testing.B) {
	lib := condfmt.NewLibrary(newConstructor(10, false), nil)
	defer lib.Close()
	if _, err := lib.Put("flat", flatTemplate(10)); err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	p := fullParams(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = lib.Render(ctx, "flat", p)
	}
}
