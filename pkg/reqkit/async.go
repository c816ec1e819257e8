package reqkit

import (
	"runtime/debug"
	"strings"
)

// AsyncEvalFunc is the signature for asynchronous boolean evaluation
// functions. The function may suspend on the context (await an
// external call, another async evaluator, a timer) and may raise an
// execution error.
//
// A Failed verdict and a non-nil error are distinct channels: a failed
// verdict means "the rule did not hold"; an error means evaluation
// itself broke. Never encode a rule miss as an error.
type AsyncEvalFunc[C any] func(ctx Context, c C) (Verdict, error)

// AsyncRequirement is the suspension-capable form of Requirement.
// Like its synchronous counterpart, it is an immutable value and
// construction never executes it.
type AsyncRequirement[C any] struct {
	name string
	fn   AsyncEvalFunc[C]
}

// NewAsync creates a named asynchronous requirement.
//
// Panics if name is empty or fn is nil.
func NewAsync[C any](name string, fn AsyncEvalFunc[C]) AsyncRequirement[C] {
	if name == "" {
		panic("reqkit: requirement name cannot be empty")
	}
	if fn == nil {
		panic("reqkit: evaluation function cannot be nil")
	}
	return AsyncRequirement[C]{name: name, fn: fn}
}

// Async lifts a synchronous requirement into the asynchronous form.
// The lifted function never suspends and never errors.
func (r Requirement[C]) Async() AsyncRequirement[C] {
	inner := r.fn
	return AsyncRequirement[C]{
		name: r.name,
		fn: func(_ Context, c C) (Verdict, error) {
			return inner(c), nil
		},
	}
}

// Name returns the requirement's name.
func (a AsyncRequirement[C]) Name() string {
	return a.name
}

// Evaluate runs the wrapped function. A panic inside the function is
// recovered into a *PanicError so a broken member surfaces as an
// execution error rather than tearing down the caller. Any other
// raised error is wrapped in an *EvaluationError carrying the rule
// name; cancellation signals pass through unwrapped.
func (a AsyncRequirement[C]) Evaluate(ctx Context, c C) (v Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = Verdict{}
			err = &PanicError{
				Rule:  a.name,
				Value: r,
				Stack: string(debug.Stack()),
			}
		}
	}()

	v, err = a.fn(ruleContext(ctx, a.name), c)
	return v, wrapRuleError(a.name, "evaluate", err)
}

// WithReason returns an asynchronous requirement whose failing
// verdicts carry the given reason. Errors and confirmed verdicts pass
// through unchanged, and the wrapped function runs exactly once.
func (a AsyncRequirement[C]) WithReason(reason Reason) AsyncRequirement[C] {
	inner := a.fn
	return AsyncRequirement[C]{
		name: a.name,
		fn: func(ctx Context, c C) (Verdict, error) {
			v, err := inner(ctx, c)
			if err != nil {
				return v, err
			}
			if v.IsFailed() {
				return Failed(reason), nil
			}
			return v, nil
		},
	}
}

// AsyncDecideFunc is the asynchronous form of DecideFunc.
type AsyncDecideFunc[C, R any] func(ctx Context, c C) (R, bool, error)

// AsyncDecision is the suspension-capable form of Decision.
type AsyncDecision[C, R any] struct {
	name string
	fn   AsyncDecideFunc[C, R]
}

// NewAsyncDecision creates a named asynchronous decision.
//
// Panics if name is empty or fn is nil.
func NewAsyncDecision[C, R any](name string, fn AsyncDecideFunc[C, R]) AsyncDecision[C, R] {
	if name == "" {
		panic("reqkit: decision name cannot be empty")
	}
	if fn == nil {
		panic("reqkit: decide function cannot be nil")
	}
	return AsyncDecision[C, R]{name: name, fn: fn}
}

// Async lifts a synchronous decision into the asynchronous form.
func (d Decision[C, R]) Async() AsyncDecision[C, R] {
	inner := d.fn
	return AsyncDecision[C, R]{
		name: d.name,
		fn: func(_ Context, c C) (R, bool, error) {
			v, ok := inner(c)
			return v, ok, nil
		},
	}
}

// Name returns the decision's name.
func (d AsyncDecision[C, R]) Name() string {
	return d.name
}

// Decide runs the wrapped function with panic recovery, mirroring
// AsyncRequirement.Evaluate.
func (d AsyncDecision[C, R]) Decide(ctx Context, c C) (v R, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			v, ok = zero, false
			err = &PanicError{
				Rule:  d.name,
				Value: r,
				Stack: string(debug.Stack()),
			}
		}
	}()

	v, ok, err = d.fn(ruleContext(ctx, d.name), c)
	return v, ok, wrapRuleError(d.name, "decide", err)
}

// FirstMatchAsync returns an asynchronous decision producing the first
// present result, evaluating members strictly in declared order. A
// member's execution error makes that member absent; evaluation
// continues with the next member. If every member is absent, the
// composite is absent.
//
// Panics if no members are given.
func FirstMatchAsync[C, R any](members ...AsyncDecision[C, R]) AsyncDecision[C, R] {
	if len(members) == 0 {
		panic("reqkit: FirstMatchAsync requires at least one member")
	}
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.name
	}
	return AsyncDecision[C, R]{
		name: "firstMatch(" + strings.Join(names, ",") + ")",
		fn: func(ctx Context, c C) (R, bool, error) {
			for _, m := range members {
				if err := ctx.Err(); err != nil {
					var zero R
					return zero, false, err
				}
				v, ok, err := m.Decide(ctx, c)
				if err != nil {
					ctx.Logger().Debug("decision member errored, trying next",
						"rule", m.name, "error", err.Error())
					continue
				}
				if ok {
					return v, true, nil
				}
			}
			var zero R
			return zero, false, nil
		},
	}
}
