package reqkit

import (
	"log/slog"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit/observability"
)

// runConfig holds configuration for an observed evaluation run.
type runConfig struct {
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
}

// defaultRunConfig returns the default run configuration:
// no logging, no metrics, no tracing.
func defaultRunConfig() runConfig {
	return runConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// RunOption configures an observed evaluation run.
type RunOption func(*runConfig)

// WithObservabilityLogger sets the logger for run-level logging.
// Logs include structured fields: eval_id, rule, confirmed, duration_ms.
func WithObservabilityLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for the run.
// Uses the global OTel meter provider.
func WithMetrics(enabled bool) RunOption {
	return func(c *runConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry tracing for the run.
// Uses the global OTel tracer provider.
func WithTracing(enabled bool) RunOption {
	return func(c *runConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}
