package reqkit

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit/observability"
)

// Run evaluates the requirement as a top-level, observed entry point.
//
// Run is the outermost combinator boundary: a raised execution error
// (including a recovered panic) is translated into a failed verdict
// with the execution-error reason and is also returned so callers can
// inspect the fault. The verdict is never a silent success. A
// cancellation of ctx propagates as an error with an execution-error
// verdict.
//
// Options enable structured logging, metrics, and tracing around the
// evaluation:
//
//	v, err := req.Run(ctx, user,
//	    reqkit.WithObservabilityLogger(logger),
//	    reqkit.WithMetrics(true),
//	    reqkit.WithTracing(true))
func (a AsyncRequirement[C]) Run(ctx Context, c C, opts ...RunOption) (Verdict, error) {
	if ctx == nil {
		return Failed(ExecutionErrorReason(ErrNilContext)), ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	evalID := ctx.EvalID()
	start := time.Now()

	observability.LogEvalStart(cfg.logger, evalID, a.name)

	var execCtx context.Context = ctx
	var evalSpan trace.Span
	if cfg.tracingEnabled {
		execCtx, evalSpan = cfg.spans.StartEvalSpan(ctx, a.name, evalID)
	}

	verdict, err := a.Evaluate(deriveContext(ctx, execCtx), c)
	if err != nil {
		verdict = Failed(ExecutionErrorReason(err))
	}

	duration := time.Since(start)
	durationMs := float64(duration.Milliseconds())

	cfg.metrics.RecordEvaluation(ctx, a.name, duration, verdict.IsConfirmed(), err)
	if cfg.tracingEnabled {
		cfg.spans.EndSpanWithError(evalSpan, err)
	}

	if err != nil {
		observability.LogEvalError(cfg.logger, evalID, a.name, err, durationMs)
		return verdict, err
	}
	observability.LogEvalComplete(cfg.logger, evalID, a.name, verdict.IsConfirmed(), durationMs)

	return verdict, nil
}
