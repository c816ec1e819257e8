package reqkit

import (
	"fmt"
	"strings"
)

// Fixed reasons produced by the combinators.
var (
	// ReasonNoneMatched is the failure reason when every member of an
	// Any (or the zero-matched case of an Xor) fails.
	ReasonNoneMatched = NewReason("any.none_matched", "none of the requirements matched")

	// ReasonMustNotBeMet is the failure reason when a Not inverts a
	// confirmed verdict.
	ReasonMustNotBeMet = NewReason("not.must_not_be_met", "requirement must not be met")

	// ReasonXorNoneMatched is the failure reason when no Xor member matched.
	ReasonXorNoneMatched = NewReason("xor.none_matched", "no requirement matched, expected exactly one")

	// ReasonXorMultipleMatched is the failure reason when more than one
	// Xor member matched.
	ReasonXorMultipleMatched = NewReason("xor.multiple_matched", "multiple requirements matched, expected exactly one")
)

// All returns a requirement that confirms iff every member confirms.
//
// Members are evaluated in declared order and evaluation stops at the
// first failure, whose verdict becomes the composite's verdict. The
// short-circuit lets cheap checks guard expensive ones.
//
// Panics if no members are given.
func All[C any](members ...Requirement[C]) Requirement[C] {
	requireMembers("All", len(members))
	return New(compositeName("all", members), func(c C) Verdict {
		for _, m := range members {
			if v := m.Evaluate(c); v.IsFailed() {
				return v
			}
		}
		return Confirmed()
	})
}

// Any returns a requirement that confirms iff at least one member
// confirms.
//
// Members are evaluated in declared order and evaluation stops at the
// first confirmation. If every member fails, the composite fails with
// ReasonNoneMatched.
//
// Panics if no members are given.
func Any[C any](members ...Requirement[C]) Requirement[C] {
	requireMembers("Any", len(members))
	return New(compositeName("any", members), func(c C) Verdict {
		for _, m := range members {
			if v := m.Evaluate(c); v.IsConfirmed() {
				return v
			}
		}
		return Failed(ReasonNoneMatched)
	})
}

// Not returns a requirement that inverts the member's verdict.
// A failed member confirms; a confirmed member fails with
// ReasonMustNotBeMet.
func Not[C any](member Requirement[C]) Requirement[C] {
	return New(fmt.Sprintf("not(%s)", member.name), func(c C) Verdict {
		if member.Evaluate(c).IsConfirmed() {
			return Failed(ReasonMustNotBeMet)
		}
		return Confirmed()
	})
}

// Xor returns a requirement that confirms iff exactly one member
// confirms.
//
// Every member is evaluated: the match count is needed, so there is no
// short-circuit. Zero matches fail with ReasonXorNoneMatched; more than
// one match fails with ReasonXorMultipleMatched.
//
// Panics if no members are given.
func Xor[C any](members ...Requirement[C]) Requirement[C] {
	requireMembers("Xor", len(members))
	return New(compositeName("xor", members), func(c C) Verdict {
		matched := 0
		for _, m := range members {
			if m.Evaluate(c).IsConfirmed() {
				matched++
			}
		}
		switch {
		case matched == 1:
			return Confirmed()
		case matched == 0:
			return Failed(ReasonXorNoneMatched)
		default:
			return Failed(ReasonXorMultipleMatched)
		}
	})
}

// When returns a requirement that delegates to body only when cond
// holds for the context. When cond is false, the composite confirms
// unconditionally without evaluating body.
//
// Panics if cond is nil.
func When[C any](cond func(C) bool, body Requirement[C]) Requirement[C] {
	if cond == nil {
		panic("reqkit: condition cannot be nil")
	}
	return New(fmt.Sprintf("when(%s)", body.name), func(c C) Verdict {
		if !cond(c) {
			return Confirmed()
		}
		return body.Evaluate(c)
	})
}

// Unless is the dual of When: body runs only when cond is false.
//
// Panics if cond is nil.
func Unless[C any](cond func(C) bool, body Requirement[C]) Requirement[C] {
	if cond == nil {
		panic("reqkit: condition cannot be nil")
	}
	return New(fmt.Sprintf("unless(%s)", body.name), func(c C) Verdict {
		if cond(c) {
			return Confirmed()
		}
		return body.Evaluate(c)
	})
}

// Fallback returns a requirement that evaluates primary first and
// returns its verdict if confirmed; otherwise the secondary's verdict
// is returned. Chained Fallbacks form a left-to-right priority list.
func Fallback[C any](primary, secondary Requirement[C]) Requirement[C] {
	return New(fmt.Sprintf("fallback(%s,%s)", primary.name, secondary.name), func(c C) Verdict {
		if v := primary.Evaluate(c); v.IsConfirmed() {
			return v
		}
		return secondary.Evaluate(c)
	})
}

// compositeName builds names like "all(a,b,c)" for composed requirements.
func compositeName[C any](op string, members []Requirement[C]) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.name
	}
	return op + "(" + strings.Join(names, ",") + ")"
}

func requireMembers(op string, n int) {
	if n == 0 {
		panic("reqkit: " + op + " requires at least one member")
	}
}
