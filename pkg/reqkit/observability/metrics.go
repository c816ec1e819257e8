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

// MetricsRecorder records rule-engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records one evaluation with its duration and outcome.
	// A non-nil err marks a raised execution error, not a failed verdict.
	RecordEvaluation(ctx context.Context, rule string, duration time.Duration, confirmed bool, err error)

	// RecordAdmission records a temporal decorator's admission decision.
	RecordAdmission(ctx context.Context, decorator string, admitted bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations metric.Int64Counter
	latency     metric.Float64Histogram
	failures    metric.Int64Counter
	errors      metric.Int64Counter
	admissions  metric.Int64Counter
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
	meter := otel.Meter("reqkit")

	evaluations, err := meter.Int64Counter("reqkit.evaluations",
		metric.WithDescription("Number of rule evaluations"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("reqkit.evaluation.latency_ms",
		metric.WithDescription("Rule evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("reqkit.evaluation.failures",
		metric.WithDescription("Number of failed verdicts"),
	)
	if err != nil {
		return nil, err
	}

	errors, err := meter.Int64Counter("reqkit.evaluation.errors",
		metric.WithDescription("Number of raised execution errors"),
	)
	if err != nil {
		return nil, err
	}

	admissions, err := meter.Int64Counter("reqkit.decorator.admissions",
		metric.WithDescription("Temporal decorator admission decisions"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations: evaluations,
		latency:     latency,
		failures:    failures,
		errors:      errors,
		admissions:  admissions,
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

// RecordEvaluation records one evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, rule string, duration time.Duration, confirmed bool, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("rule", rule),
	}

	m.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.latency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
		return
	}
	if !confirmed {
		m.failures.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordAdmission records an admission decision.
func (m *otelMetrics) RecordAdmission(ctx context.Context, decorator string, admitted bool) {
	m.admissions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("decorator", decorator),
		attribute.Bool("admitted", admitted),
	))
}
