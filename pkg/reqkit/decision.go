package reqkit

import "strings"

// DecideFunc is the signature for value-producing evaluation functions.
// The boolean result reports presence: false means the decision does
// not apply to the context. Absence is an ordinary outcome, not an
// error, and carries no reason.
type DecideFunc[C, R any] func(c C) (R, bool)

// Decision is an immutable value-producing rule: context in, optional
// result out. Like Requirement, constructing or combining decisions
// never executes them.
type Decision[C, R any] struct {
	name string
	fn   DecideFunc[C, R]
}

// NewDecision creates a named decision from a decide function.
//
// Panics if name is empty or fn is nil.
func NewDecision[C, R any](name string, fn DecideFunc[C, R]) Decision[C, R] {
	if name == "" {
		panic("reqkit: decision name cannot be empty")
	}
	if fn == nil {
		panic("reqkit: decide function cannot be nil")
	}
	return Decision[C, R]{name: name, fn: fn}
}

// Constant returns a decision that produces value for every context.
func Constant[C, R any](name string, value R) Decision[C, R] {
	return NewDecision(name, func(C) (R, bool) {
		return value, true
	})
}

// Name returns the decision's name.
func (d Decision[C, R]) Name() string {
	return d.name
}

// Decide runs the wrapped function against the context.
func (d Decision[C, R]) Decide(c C) (R, bool) {
	return d.fn(c)
}

// Filter returns a decision that is absent whenever the produced value
// does not satisfy pred. Absent inputs stay absent.
func (d Decision[C, R]) Filter(pred func(R) bool) Decision[C, R] {
	if pred == nil {
		panic("reqkit: filter predicate cannot be nil")
	}
	inner := d.fn
	return Decision[C, R]{
		name: "filter(" + d.name + ")",
		fn: func(c C) (R, bool) {
			v, ok := inner(c)
			if !ok || !pred(v) {
				var zero R
				return zero, false
			}
			return v, true
		},
	}
}

// OrElse returns a decision that produces fallback whenever the
// receiver is absent. The result is always present.
func (d Decision[C, R]) OrElse(fallback R) Decision[C, R] {
	inner := d.fn
	return Decision[C, R]{
		name: "orElse(" + d.name + ")",
		fn: func(c C) (R, bool) {
			if v, ok := inner(c); ok {
				return v, true
			}
			return fallback, true
		},
	}
}

// Map returns a decision producing f(value) when d produces a value.
// Absence passes through unchanged.
func Map[C, R, T any](d Decision[C, R], f func(R) T) Decision[C, T] {
	if f == nil {
		panic("reqkit: map function cannot be nil")
	}
	return Decision[C, T]{
		name: "map(" + d.name + ")",
		fn: func(c C) (T, bool) {
			v, ok := d.fn(c)
			if !ok {
				var zero T
				return zero, false
			}
			return f(v), true
		},
	}
}

// Then chains a decision into another: when d produces a value, the
// decision built by f from that value is evaluated against the same
// context. Absence at either step yields absence.
func Then[C, R, T any](d Decision[C, R], f func(R) Decision[C, T]) Decision[C, T] {
	if f == nil {
		panic("reqkit: then function cannot be nil")
	}
	return Decision[C, T]{
		name: "then(" + d.name + ")",
		fn: func(c C) (T, bool) {
			v, ok := d.fn(c)
			if !ok {
				var zero T
				return zero, false
			}
			return f(v).fn(c)
		},
	}
}

// FirstMatch returns a decision producing the first present result,
// evaluating members strictly in declared order and stopping at the
// first match. If every member is absent, the composite is absent.
//
// Panics if no members are given.
func FirstMatch[C, R any](members ...Decision[C, R]) Decision[C, R] {
	if len(members) == 0 {
		panic("reqkit: FirstMatch requires at least one member")
	}
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.name
	}
	return Decision[C, R]{
		name: "firstMatch(" + strings.Join(names, ",") + ")",
		fn: func(c C) (R, bool) {
			for _, m := range members {
				if v, ok := m.fn(c); ok {
					return v, true
				}
			}
			var zero R
			return zero, false
		},
	}
}

// Gate returns a decision producing value only when the requirement
// confirms. The failing reason is discarded: callers needing one must
// evaluate the requirement directly.
func Gate[C, R any](req Requirement[C], value R) Decision[C, R] {
	return Decision[C, R]{
		name: "gate(" + req.name + ")",
		fn: func(c C) (R, bool) {
			if req.Evaluate(c).IsConfirmed() {
				return value, true
			}
			var zero R
			return zero, false
		},
	}
}
