package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a test meter provider and returns a function to collect metrics.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumInt64 totals all data points of an int64 sum metric.
func sumInt64(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordCompile(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	// Fresh instance bound to the test provider
	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordCompile(ctx, 3*time.Millisecond, nil)
	m.RecordCompile(ctx, time.Millisecond, errors.New("bad template"))

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(2), sumInt64(t, findMetric(rm, "condfmt.compile.count")))
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "condfmt.compile.errors")))

	latency := findMetric(rm, "condfmt.compile.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "Expected Histogram type")
	assert.NotEmpty(t, hist.DataPoints)
}

func TestRecordRender(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordRender(ctx, time.Millisecond, nil)
	m.RecordRender(ctx, time.Millisecond, nil)
	m.RecordRender(ctx, time.Millisecond, errors.New("resolver failed"))

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(3), sumInt64(t, findMetric(rm, "condfmt.render.count")))
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "condfmt.render.errors")))
}

func TestRecordGroupEvaluation(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordGroupEvaluation(ctx, true)
	m.RecordGroupEvaluation(ctx, false)
	m.RecordGroupEvaluation(ctx, false)

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "condfmt.group.evaluations")
	require.NotNil(t, metric)
	sum, ok := metric.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byIncluded := map[bool]int64{}
	for _, dp := range sum.DataPoints {
		v, found := dp.Attributes.Value("included")
		require.True(t, found)
		byIncluded[v.AsBool()] += dp.Value
	}
	assert.Equal(t, int64(1), byIncluded[true])
	assert.Equal(t, int64(2), byIncluded[false])
}
