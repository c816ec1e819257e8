package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the engine tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("reqkit")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartEvalSpan starts a span for a top-level evaluation.
	// Returns the context with span and the span itself.
	StartEvalSpan(ctx context.Context, rule, evalID string) (context.Context, trace.Span)

	// StartMemberSpan starts a span for one member of a composite.
	// The member span should be a child of the evaluation span.
	StartMemberSpan(ctx context.Context, rule string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartEvalSpan starts a span for a top-level evaluation.
func (m *otelSpanManager) StartEvalSpan(ctx context.Context, rule, evalID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "reqkit.evaluate",
		trace.WithAttributes(
			attribute.String("rule", rule),
			attribute.String("eval.id", evalID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartMemberSpan starts a span for one composite member.
func (m *otelSpanManager) StartMemberSpan(ctx context.Context, rule string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "reqkit.member."+rule,
		trace.WithAttributes(
			attribute.String("rule", rule),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
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
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
