package reqkit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Context provides execution context to asynchronous evaluators.
// It extends context.Context with engine services and metadata.
//
// Context is immutable after creation. The executor creates derived
// contexts per member with the current rule name and enriched logger.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with evaluation
	// and rule context. Never returns nil - defaults to slog.Default()
	// if not configured.
	Logger() *slog.Logger

	// EvalID returns the unique identifier for this evaluation.
	// Auto-generated if not configured.
	EvalID() string

	// Rule returns the name of the evaluator currently running.
	// Empty string outside of an evaluation.
	Rule() string
}

// evalContext is the internal implementation of Context.
type evalContext struct {
	context.Context

	logger *slog.Logger
	evalID string
	rule   string
}

// Logger returns the configured logger.
func (c *evalContext) Logger() *slog.Logger {
	return c.logger
}

// EvalID returns the evaluation identifier.
func (c *evalContext) EvalID() string {
	return c.evalID
}

// Rule returns the current rule name.
func (c *evalContext) Rule() string {
	return c.rule
}

// ContextOption configures a Context.
type ContextOption func(*evalContext)

// WithLogger sets the logger for the context.
// The logger is enriched with eval_id and rule during execution.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *evalContext) {
		c.logger = logger
	}
}

// WithEvalID sets the evaluation identifier for the context.
// If not set, a UUID is auto-generated.
func WithEvalID(id string) ContextOption {
	return func(c *evalContext) {
		c.evalID = id
	}
}

// NewContext creates an evaluation context from a standard context.
//
// Example:
//
//	ctx := reqkit.NewContext(context.Background(),
//	    reqkit.WithLogger(myLogger),
//	    reqkit.WithEvalID("eval-123"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &evalContext{
		Context: ctx,
		logger:  slog.Default(),
		evalID:  uuid.New().String(),
	}

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}

// withRule returns a new context with the given rule name set.
// Used internally by the executor to enrich the context per member.
func (c *evalContext) withRule(rule string) *evalContext {
	return &evalContext{
		Context: c.Context,
		logger:  c.logger.With("eval_id", c.evalID, "rule", rule),
		evalID:  c.evalID,
		rule:    rule,
	}
}

// derivedContext rebinds a Context to a different standard context,
// preserving the parent's services. The executor uses it to hand
// members a cancellable context.
type derivedContext struct {
	context.Context
	parent Context
}

func (d *derivedContext) Logger() *slog.Logger { return d.parent.Logger() }
func (d *derivedContext) EvalID() string       { return d.parent.EvalID() }
func (d *derivedContext) Rule() string         { return d.parent.Rule() }

// deriveContext wraps std with the services of parent.
// For the internal implementation, withRule-style enrichment survives.
func deriveContext(parent Context, std context.Context) Context {
	if ec, ok := parent.(*evalContext); ok {
		return &evalContext{
			Context: std,
			logger:  ec.logger,
			evalID:  ec.evalID,
			rule:    ec.rule,
		}
	}
	return &derivedContext{Context: std, parent: parent}
}

// ruleContext enriches any Context with a rule name.
func ruleContext(parent Context, rule string) Context {
	if ec, ok := parent.(*evalContext); ok {
		return ec.withRule(rule)
	}
	return parent
}
