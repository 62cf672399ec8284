package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the condfmt tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("condfmt")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartCompileSpan starts a span for one template compilation.
	StartCompileSpan(ctx context.Context, sourceLen int) (context.Context, trace.Span)

	// StartRenderSpan starts a span for one render call.
	StartRenderSpan(ctx context.Context, renderID string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartCompileSpan starts a span for one template compilation.
func (m *otelSpanManager) StartCompileSpan(ctx context.Context, sourceLen int) (context.Context, trace.Span) {
	return StartCompileSpan(ctx, sourceLen)
}

// StartRenderSpan starts a span for one render call.
func (m *otelSpanManager) StartRenderSpan(ctx context.Context, renderID string) (context.Context, trace.Span) {
	return StartRenderSpan(ctx, renderID)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartCompileSpan starts a compilation span on the global OTel tracer.
func StartCompileSpan(ctx context.Context, sourceLen int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "condfmt.compile",
		trace.WithAttributes(
			attribute.Int("template.source_len", sourceLen),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartRenderSpan starts a render span on the global OTel tracer.
func StartRenderSpan(ctx context.Context, renderID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "condfmt.render",
		trace.WithAttributes(
			attribute.String("render.id", renderID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
