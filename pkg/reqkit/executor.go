package reqkit

import (
	"context"
	"errors"
	"sync"
)

// execConfig holds configuration for concurrent fan-out.
type execConfig struct {
	maxConcurrency int
}

// ExecOption configures concurrent combinator execution.
type ExecOption func(*execConfig)

// WithMaxConcurrency bounds how many members run at once.
// Zero or negative means unbounded (the default).
func WithMaxConcurrency(n int) ExecOption {
	return func(c *execConfig) {
		if n > 0 {
			c.maxConcurrency = n
		}
	}
}

// memberResult carries one member's outcome through the fan-out channel.
type memberResult struct {
	verdict Verdict
	err     error
}

// isCancellation reports whether err is a context cancellation or
// deadline signal. Those propagate to the caller; every other
// execution error is translated into a failed verdict at the
// combinator boundary.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// translate converts a member's raised execution error into a failed
// verdict, leaving cancellation signals to propagate.
func translate(v Verdict, err error) (Verdict, error) {
	if err == nil {
		return v, nil
	}
	if isCancellation(err) {
		return Verdict{}, err
	}
	return Failed(ExecutionErrorReason(err)), nil
}

// AllSeq returns an asynchronous requirement that confirms iff every
// member confirms, evaluating members one at a time in declared order.
//
// Unlike the synchronous All, AllSeq evaluates every member and
// reports the first encountered failure: there is no short-circuit.
// This preserves the observed behavior of sequential asynchronous
// conjunction. A member's raised execution error counts as that
// member's failure with the execution-error reason.
//
// Panics if no members are given.
func AllSeq[C any](members ...AsyncRequirement[C]) AsyncRequirement[C] {
	requireMembers("AllSeq", len(members))
	return AsyncRequirement[C]{
		name: asyncCompositeName("all", members),
		fn: func(ctx Context, c C) (Verdict, error) {
			var firstFailure *Verdict
			for _, m := range members {
				if err := ctx.Err(); err != nil {
					return Verdict{}, err
				}
				v, err := translate(m.Evaluate(ctx, c))
				if err != nil {
					return Verdict{}, err
				}
				if v.IsFailed() && firstFailure == nil {
					failed := v
					firstFailure = &failed
				}
			}
			if firstFailure != nil {
				return *firstFailure, nil
			}
			return Confirmed(), nil
		},
	}
}

// AnySeq returns an asynchronous requirement that confirms iff at
// least one member confirms, evaluating members one at a time in
// declared order and stopping at the first confirmation. A member's
// raised execution error counts as a failure and evaluation moves to
// the next member. If every member fails, the composite fails with
// ReasonNoneMatched.
//
// Panics if no members are given.
func AnySeq[C any](members ...AsyncRequirement[C]) AsyncRequirement[C] {
	requireMembers("AnySeq", len(members))
	return AsyncRequirement[C]{
		name: asyncCompositeName("any", members),
		fn: func(ctx Context, c C) (Verdict, error) {
			for _, m := range members {
				if err := ctx.Err(); err != nil {
					return Verdict{}, err
				}
				v, err := translate(m.Evaluate(ctx, c))
				if err != nil {
					return Verdict{}, err
				}
				if v.IsConfirmed() {
					return v, nil
				}
			}
			return Failed(ReasonNoneMatched), nil
		},
	}
}

// XorSeq returns an asynchronous requirement that confirms iff exactly
// one member confirms. Every member is evaluated; an errored member
// counts as not matched.
//
// Panics if no members are given.
func XorSeq[C any](members ...AsyncRequirement[C]) AsyncRequirement[C] {
	requireMembers("XorSeq", len(members))
	return AsyncRequirement[C]{
		name: asyncCompositeName("xor", members),
		fn: func(ctx Context, c C) (Verdict, error) {
			matched := 0
			for _, m := range members {
				if err := ctx.Err(); err != nil {
					return Verdict{}, err
				}
				v, err := translate(m.Evaluate(ctx, c))
				if err != nil {
					return Verdict{}, err
				}
				if v.IsConfirmed() {
					matched++
				}
			}
			switch {
			case matched == 1:
				return Confirmed(), nil
			case matched == 0:
				return Failed(ReasonXorNoneMatched), nil
			default:
				return Failed(ReasonXorMultipleMatched), nil
			}
		},
	}
}

// AllConcurrent returns an asynchronous requirement that starts every
// member together, waits for all of them, and confirms iff every
// member confirmed. The composite's failure is the first failure in
// completion order, not declared order.
//
// Members observe cancellation of the surrounding context at their own
// suspension points; the composite itself never cancels them early
// because every member's outcome is awaited.
//
// Panics if no members are given.
func AllConcurrent[C any](members []AsyncRequirement[C], opts ...ExecOption) AsyncRequirement[C] {
	requireMembers("AllConcurrent", len(members))
	cfg := execConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return AsyncRequirement[C]{
		name: asyncCompositeName("all", members),
		fn: func(ctx Context, c C) (Verdict, error) {
			results := fanOut(ctx, members, c, cfg)

			var firstFailure *Verdict
			var cancelErr error
			for res := range results {
				v, err := translate(res.verdict, res.err)
				if err != nil {
					if cancelErr == nil {
						cancelErr = err
					}
					continue
				}
				if v.IsFailed() && firstFailure == nil {
					failed := v
					firstFailure = &failed
				}
			}

			if cancelErr != nil {
				return Verdict{}, cancelErr
			}
			if firstFailure != nil {
				return *firstFailure, nil
			}
			return Confirmed(), nil
		},
	}
}

// AnyConcurrent returns an asynchronous requirement that starts every
// member together and confirms on the first member to confirm,
// cancelling the remaining in-flight members. Cancellation is
// cooperative: a member observes the signal at its own suspension
// points. If every member fails, the composite fails with
// ReasonNoneMatched.
//
// Panics if no members are given.
func AnyConcurrent[C any](members []AsyncRequirement[C], opts ...ExecOption) AsyncRequirement[C] {
	requireMembers("AnyConcurrent", len(members))
	cfg := execConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return AsyncRequirement[C]{
		name: asyncCompositeName("any", members),
		fn: func(ctx Context, c C) (Verdict, error) {
			raceCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			results := fanOut(deriveContext(ctx, raceCtx), members, c, cfg)

			for res := range results {
				if res.err != nil {
					// A member cancelled by our own signal (or by the
					// caller) is a discarded result, not a failure.
					continue
				}
				if res.verdict.IsConfirmed() {
					cancel()
					return res.verdict, nil
				}
			}

			// Every member completed without confirming. If the caller's
			// context was cancelled, propagate that instead of a verdict.
			if err := ctx.Err(); err != nil {
				return Verdict{}, err
			}
			return Failed(ReasonNoneMatched), nil
		},
	}
}

// fanOut starts every member in its own goroutine and returns a
// channel that yields results in completion order and closes once all
// members have reported. The channel is buffered so abandoned readers
// never leak goroutines.
func fanOut[C any](ctx Context, members []AsyncRequirement[C], c C, cfg execConfig) <-chan memberResult {
	var sem chan struct{}
	if cfg.maxConcurrency > 0 {
		sem = make(chan struct{}, cfg.maxConcurrency)
	}

	results := make(chan memberResult, len(members))
	var wg sync.WaitGroup

	for _, m := range members {
		wg.Add(1)
		go func(m AsyncRequirement[C]) {
			defer wg.Done()

			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					results <- memberResult{err: ctx.Err()}
					return
				}
			}

			v, err := m.Evaluate(ctx, c)
			results <- memberResult{verdict: v, err: err}
		}(m)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func asyncCompositeName[C any](op string, members []AsyncRequirement[C]) string {
	name := op + "("
	for i, m := range members {
		if i > 0 {
			name += ","
		}
		name += m.name
	}
	return name + ")"
}
