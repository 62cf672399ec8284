package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordCompile(ctx, time.Millisecond, nil)
		m.RecordCompile(ctx, 0, errors.New("test"))
		m.RecordRender(ctx, time.Millisecond, nil)
		m.RecordRender(ctx, 0, errors.New("test"))
		m.RecordGroupEvaluation(ctx, true)
	})
}

func TestNoopSpanManager(t *testing.T) {
	m := NoopSpanManager{}
	ctx := context.Background()

	t.Run("returns same context", func(t *testing.T) {
		newCtx, span := m.StartCompileSpan(ctx, 10)
		assert.Equal(t, ctx, newCtx)
		assert.NotNil(t, span)

		newCtx, span = m.StartRenderSpan(ctx, "r")
		assert.Equal(t, ctx, newCtx)
		assert.False(t, span.IsRecording())
	})

	t.Run("end and events are no-ops", func(t *testing.T) {
		_, span := m.StartRenderSpan(ctx, "r")
		assert.NotPanics(t, func() {
			m.EndSpanWithError(span, errors.New("x"))
			m.EndSpanWithError(nil, nil)
			m.AddSpanEvent(ctx, "event", attribute.String("k", "v"))
		})
	})
}
