package reqkit

import (
	"context"
	"fmt"
	"time"
)

// timeoutConfig holds configuration for WithTimeout.
type timeoutConfig struct {
	raise bool
}

// TimeoutOption configures WithTimeout.
type TimeoutOption func(*timeoutConfig)

// RaiseOnTimeout makes deadline expiry surface as a *TimeoutError
// execution error instead of a failed verdict. A retry decorator
// around the composite can then treat the expiry as transient; if
// nothing handles it, an enclosing combinator boundary translates it
// into a failed verdict as usual.
func RaiseOnTimeout() TimeoutOption {
	return func(c *timeoutConfig) {
		c.raise = true
	}
}

// WithTimeout returns an asynchronous requirement that races inner
// against a deadline.
//
// If inner completes first, the timer is cancelled and its verdict is
// returned. If the deadline expires first, the in-flight evaluation is
// cancelled (cooperatively, via context) and the composite fails with
// the timed-out reason; inner's eventual result, if it completes at
// all, is discarded. With RaiseOnTimeout, expiry raises a
// *TimeoutError instead of failing.
//
// WithTimeout is a combinator boundary: any execution error raised by
// inner, other than a cancellation signal, is translated into a failed
// verdict with the execution-error reason and never leaks to the
// caller. Cancellation of the surrounding context propagates as an
// error so an enclosing boundary can handle it.
//
// Panics if limit is not positive.
func WithTimeout[C any](inner AsyncRequirement[C], limit time.Duration, opts ...TimeoutOption) AsyncRequirement[C] {
	if limit <= 0 {
		panic("reqkit: timeout limit must be positive")
	}
	cfg := timeoutConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	expired := func() (Verdict, error) {
		if cfg.raise {
			return Verdict{}, &TimeoutError{Rule: inner.name, Limit: limit}
		}
		return Failed(TimedOutReason(limit)), nil
	}
	return AsyncRequirement[C]{
		name: fmt.Sprintf("timeout(%s)", inner.name),
		fn: func(ctx Context, c C) (Verdict, error) {
			timeoutCtx, cancel := context.WithTimeout(ctx, limit)
			defer cancel()

			// Buffered so the goroutine can finish after the deadline
			// fires and the result is abandoned.
			done := make(chan memberResult, 1)
			go func() {
				v, err := inner.Evaluate(deriveContext(ctx, timeoutCtx), c)
				done <- memberResult{verdict: v, err: err}
			}()

			select {
			case res := <-done:
				if res.err == nil {
					return res.verdict, nil
				}
				if isCancellation(res.err) {
					if err := ctx.Err(); err != nil {
						return Verdict{}, err
					}
					// The member observed our own deadline signal.
					return expired()
				}
				return Failed(ExecutionErrorReason(res.err)), nil

			case <-timeoutCtx.Done():
				if err := ctx.Err(); err != nil {
					return Verdict{}, err
				}
				return expired()
			}
		},
	}
}
