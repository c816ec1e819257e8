// Package observability provides production-grade observability features
// for the rule engine: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import "log/slog"

// EnrichLogger adds engine context to a logger.
// Returns a new logger with eval_id and rule fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "eval-123", "adult")
//	enriched.Info("checking") // includes eval_id, rule
func EnrichLogger(logger *slog.Logger, evalID, rule string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("eval_id", evalID),
		slog.String("rule", rule),
	)
}

// LogEvalStart logs the start of an evaluation run.
func LogEvalStart(logger *slog.Logger, evalID, rule string) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation starting",
		slog.String("eval_id", evalID),
		slog.String("rule", rule),
	)
}

// LogEvalComplete logs a completed evaluation and its verdict.
func LogEvalComplete(logger *slog.Logger, evalID, rule string, confirmed bool, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("evaluation completed",
		slog.String("eval_id", evalID),
		slog.String("rule", rule),
		slog.Bool("confirmed", confirmed),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEvalError logs an evaluation that raised an execution error.
func LogEvalError(logger *slog.Logger, evalID, rule string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("evaluation failed",
		slog.String("eval_id", evalID),
		slog.String("rule", rule),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogAdmission logs a temporal decorator's admission decision.
func LogAdmission(logger *slog.Logger, decorator, rule string, admitted bool) {
	if logger == nil {
		return
	}
	logger.Debug("admission check",
		slog.String("decorator", decorator),
		slog.String("rule", rule),
		slog.Bool("admitted", admitted),
	)
}
