package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records condfmt metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCompile records a template compilation with its duration and error status.
	RecordCompile(ctx context.Context, duration time.Duration, err error)

	// RecordRender records a render call with its duration and error status.
	RecordRender(ctx context.Context, duration time.Duration, err error)

	// RecordGroupEvaluation records the inclusion decision of a conditional group.
	RecordGroupEvaluation(ctx context.Context, included bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	compiles         metric.Int64Counter
	compileLatency   metric.Float64Histogram
	compileErrors    metric.Int64Counter
	renders          metric.Int64Counter
	renderLatency    metric.Float64Histogram
	renderErrors     metric.Int64Counter
	groupEvaluations metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("condfmt")

	compiles, err := meter.Int64Counter("condfmt.compile.count",
		metric.WithDescription("Number of template compilations"),
	)
	if err != nil {
		return nil, err
	}

	compileLatency, err := meter.Float64Histogram("condfmt.compile.latency_ms",
		metric.WithDescription("Template compilation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	compileErrors, err := meter.Int64Counter("condfmt.compile.errors",
		metric.WithDescription("Number of failed template compilations"),
	)
	if err != nil {
		return nil, err
	}

	renders, err := meter.Int64Counter("condfmt.render.count",
		metric.WithDescription("Number of render calls"),
	)
	if err != nil {
		return nil, err
	}

	renderLatency, err := meter.Float64Histogram("condfmt.render.latency_ms",
		metric.WithDescription("Render latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	renderErrors, err := meter.Int64Counter("condfmt.render.errors",
		metric.WithDescription("Number of failed render calls"),
	)
	if err != nil {
		return nil, err
	}

	groupEvaluations, err := meter.Int64Counter("condfmt.group.evaluations",
		metric.WithDescription("Number of conditional group inclusion decisions"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		compiles:         compiles,
		compileLatency:   compileLatency,
		compileErrors:    compileErrors,
		renders:          renders,
		renderLatency:    renderLatency,
		renderErrors:     renderErrors,
		groupEvaluations: groupEvaluations,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCompile records a template compilation.
func (m *otelMetrics) RecordCompile(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.compiles.Add(ctx, 1, attrs)
	m.compileLatency.Record(ctx, Millis(duration), attrs)
	if err != nil {
		m.compileErrors.Add(ctx, 1)
	}
}

// RecordRender records a render call.
func (m *otelMetrics) RecordRender(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.renders.Add(ctx, 1, attrs)
	m.renderLatency.Record(ctx, Millis(duration), attrs)
	if err != nil {
		m.renderErrors.Add(ctx, 1)
	}
}

// RecordGroupEvaluation records a group inclusion decision.
func (m *otelMetrics) RecordGroupEvaluation(ctx context.Context, included bool) {
	m.groupEvaluations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("included", included)))
}
