package reqkit

// EvalFunc is the signature for all boolean evaluation functions.
// It receives the caller-supplied context value and returns a Verdict.
//
// The context parameter is passed by value and must be treated as
// immutable. Evaluation functions should be pure from the engine's
// perspective: same context in, same verdict out.
//
// Example:
//
//	func adult(u User) reqkit.Verdict {
//	    if u.Age >= 18 {
//	        return reqkit.Confirmed()
//	    }
//	    return reqkit.FailedBecause("user is a minor")
//	}
type EvalFunc[C any] func(c C) Verdict

// Requirement is an immutable boolean rule over a context of type C.
// Constructing a Requirement never executes it; combining two
// requirements into a third invokes neither.
//
// Requirement values are safe for concurrent use.
type Requirement[C any] struct {
	name string
	fn   EvalFunc[C]
}

// New creates a named requirement from an evaluation function.
//
// Panics if:
//   - name is empty
//   - fn is nil
func New[C any](name string, fn EvalFunc[C]) Requirement[C] {
	if name == "" {
		panic("reqkit: requirement name cannot be empty")
	}
	if fn == nil {
		panic("reqkit: evaluation function cannot be nil")
	}
	return Requirement[C]{name: name, fn: fn}
}

// Predicate creates a requirement from a plain boolean predicate.
// When the predicate returns false, the verdict fails with reason.
func Predicate[C any](name string, pred func(C) bool, reason Reason) Requirement[C] {
	if pred == nil {
		panic("reqkit: predicate cannot be nil")
	}
	return New(name, func(c C) Verdict {
		if pred(c) {
			return Confirmed()
		}
		return Failed(reason)
	})
}

// Always returns a requirement that confirms every context.
func Always[C any]() Requirement[C] {
	return New[C]("always", func(C) Verdict { return Confirmed() })
}

// Never returns a requirement that fails every context with reason.
func Never[C any](reason Reason) Requirement[C] {
	return New[C]("never", func(C) Verdict { return Failed(reason) })
}

// Name returns the requirement's name.
func (r Requirement[C]) Name() string {
	return r.name
}

// Evaluate runs the wrapped function against the context.
func (r Requirement[C]) Evaluate(c C) Verdict {
	return r.fn(c)
}

// WithReason returns a requirement whose failing verdicts carry the
// given reason instead of the original one. The wrapped function is
// invoked exactly once per evaluation and the confirmed case is
// unchanged.
func (r Requirement[C]) WithReason(reason Reason) Requirement[C] {
	inner := r.fn
	return Requirement[C]{
		name: r.name,
		fn: func(c C) Verdict {
			v := inner(c)
			if v.IsFailed() {
				return Failed(reason)
			}
			return v
		},
	}
}

// WithName returns a copy of the requirement under a new name.
// The evaluation function is shared, not re-wrapped.
func (r Requirement[C]) WithName(name string) Requirement[C] {
	if name == "" {
		panic("reqkit: requirement name cannot be empty")
	}
	return Requirement[C]{name: name, fn: r.fn}
}
