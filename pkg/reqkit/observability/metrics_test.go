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

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordEvaluation(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	// Create a fresh metrics instance using the test provider
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records evaluation count", func(t *testing.T) {
		m.RecordEvaluation(ctx, "adult", 50*time.Millisecond, true, nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "reqkit.evaluations")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		require.NotEmpty(t, sum.DataPoints)

		found := false
		for _, dp := range sum.DataPoints {
			for _, attr := range dp.Attributes.ToSlice() {
				if attr.Key == "rule" && attr.Value.AsString() == "adult" {
					found = true
					assert.GreaterOrEqual(t, dp.Value, int64(1))
				}
			}
		}
		assert.True(t, found, "Expected to find datapoint for rule=adult")
	})

	t.Run("records latency", func(t *testing.T) {
		m.RecordEvaluation(ctx, "verified", 100*time.Millisecond, true, nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "reqkit.evaluation.latency_ms")
		require.NotNil(t, metric)

		hist, ok := metric.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		require.NotEmpty(t, hist.DataPoints)
	})

	t.Run("records failed verdicts", func(t *testing.T) {
		m.RecordEvaluation(ctx, "failing", 10*time.Millisecond, false, nil)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "reqkit.evaluation.failures")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		require.NotEmpty(t, sum.DataPoints)
	})

	t.Run("records execution errors separately", func(t *testing.T) {
		testErr := errors.New("evaluation broke")
		m.RecordEvaluation(ctx, "broken", 10*time.Millisecond, false, testErr)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "reqkit.evaluation.errors")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")

		// An errored evaluation must not also count as a failed verdict.
		found := false
		for _, dp := range sum.DataPoints {
			for _, attr := range dp.Attributes.ToSlice() {
				if attr.Key == "rule" && attr.Value.AsString() == "broken" {
					found = true
				}
			}
		}
		assert.True(t, found, "Expected to find datapoint for rule=broken")

		failures := findMetric(rm, "reqkit.evaluation.failures")
		if failures != nil {
			fsum := failures.Data.(metricdata.Sum[int64])
			for _, dp := range fsum.DataPoints {
				for _, attr := range dp.Attributes.ToSlice() {
					if attr.Key == "rule" {
						assert.NotEqual(t, "broken", attr.Value.AsString())
					}
				}
			}
		}
	})
}

func TestRecordAdmission(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordAdmission(context.Background(), "ratelimiter", false)

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "reqkit.decorator.admissions")
	require.NotNil(t, metric)

	sum, ok := metric.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	require.NotEmpty(t, sum.DataPoints)

	found := false
	for _, dp := range sum.DataPoints {
		for _, attr := range dp.Attributes.ToSlice() {
			if attr.Key == "decorator" && attr.Value.AsString() == "ratelimiter" {
				found = true
			}
		}
	}
	assert.True(t, found, "Expected to find datapoint for decorator=ratelimiter")
}
