package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("reqkit")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartEvalSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	t.Run("creates span with correct name and attributes", func(t *testing.T) {
		ctx := context.Background()
		_, span := m.StartEvalSpan(ctx, "adult", "eval-123")
		require.NotNil(t, span)

		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "reqkit.evaluate", s.Name)

		var rule, evalID string
		for _, attr := range s.Attributes {
			switch attr.Key {
			case "rule":
				rule = attr.Value.AsString()
			case "eval.id":
				evalID = attr.Value.AsString()
			}
		}
		assert.Equal(t, "adult", rule)
		assert.Equal(t, "eval-123", evalID)
	})

	t.Run("returns context with span", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		newCtx, span := m.StartEvalSpan(ctx, "adult", "eval-456")
		assert.NotEqual(t, ctx, newCtx)

		span.End()
		require.Len(t, exporter.GetSpans(), 1)
	})
}

func TestStartMemberSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	ctx, parent := m.StartEvalSpan(context.Background(), "all(adult,verified)", "eval-1")
	_, child := m.StartMemberSpan(ctx, "adult")
	child.End()
	parent.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	// Completion order: child first.
	assert.Equal(t, "reqkit.member.adult", spans[0].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	t.Run("records error status", func(t *testing.T) {
		exporter.Reset()
		_, span := m.StartEvalSpan(context.Background(), "broken", "eval-1")
		m.EndSpanWithError(span, errors.New("backend down"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		require.Len(t, spans[0].Events, 1)
	})

	t.Run("records ok status", func(t *testing.T) {
		exporter.Reset()
		_, span := m.StartEvalSpan(context.Background(), "adult", "eval-2")
		m.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("tolerates nil span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.EndSpanWithError(nil, errors.New("some error"))
		})
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	ctx, span := m.StartEvalSpan(context.Background(), "adult", "eval-1")
	m.AddSpanEvent(ctx, "cache.hit", attribute.String("key", "alice"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "cache.hit", spans[0].Events[0].Name)
}
