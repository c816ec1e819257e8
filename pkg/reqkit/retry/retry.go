package retry

import (
	"math/rand/v2"
	"time"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
)

// Policy configures retry behavior.
type Policy struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialBackoff is the starting backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier applied to backoff after each attempt.
	BackoffFactor float64

	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64

	// RetryableFunc optionally overrides the default retryability check.
	RetryableFunc func(error) bool
}

// DefaultPolicy is the standard retry policy.
var DefaultPolicy = Policy{
	MaxAttempts:    3,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     5 * time.Second,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// NoRetry disables retries.
var NoRetry = Policy{
	MaxAttempts: 1,
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n int) PolicyOption {
	return func(p *Policy) {
		p.MaxAttempts = n
	}
}

// WithInitialBackoff sets the initial backoff duration.
func WithInitialBackoff(d time.Duration) PolicyOption {
	return func(p *Policy) {
		p.InitialBackoff = d
	}
}

// WithMaxBackoff sets the maximum backoff duration.
func WithMaxBackoff(d time.Duration) PolicyOption {
	return func(p *Policy) {
		p.MaxBackoff = d
	}
}

// WithBackoffFactor sets the backoff multiplier.
func WithBackoffFactor(f float64) PolicyOption {
	return func(p *Policy) {
		p.BackoffFactor = f
	}
}

// WithJitter sets the jitter factor.
func WithJitter(j float64) PolicyOption {
	return func(p *Policy) {
		p.Jitter = j
	}
}

// WithRetryableFunc sets a custom retryability check.
func WithRetryableFunc(fn func(error) bool) PolicyOption {
	return func(p *Policy) {
		p.RetryableFunc = fn
	}
}

// NewPolicy creates a retry policy from the default with options applied.
func NewPolicy(opts ...PolicyOption) Policy {
	p := DefaultPolicy
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Retrying wraps an asynchronous requirement so transient execution
// errors are retried with exponential backoff. Verdicts, confirmed or
// failed, are final answers and are never retried. Permanent errors
// and cancellation end the attempt loop immediately, wrapped in a
// CategorizedError carrying the attempt count.
func Retrying[C any](req reqkit.AsyncRequirement[C], policy Policy) reqkit.AsyncRequirement[C] {
	isRetryable := policy.RetryableFunc
	if isRetryable == nil {
		isRetryable = IsRetryable
	}
	return reqkit.NewAsync(req.Name(), func(ctx reqkit.Context, c C) (reqkit.Verdict, error) {
		backoff := policy.InitialBackoff
		var lastErr error

		for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return reqkit.Verdict{}, Permanent(err, "cancelled before attempt")
			}

			v, err := req.Evaluate(ctx, c)
			if err == nil {
				return v, nil
			}
			lastErr = err

			if !isRetryable(err) {
				return reqkit.Verdict{}, &CategorizedError{
					Err:      err,
					Category: Categorize(err),
					Attempts: attempt + 1,
				}
			}

			// Don't sleep after the last attempt.
			if attempt < policy.MaxAttempts-1 {
				select {
				case <-ctx.Done():
					return reqkit.Verdict{}, Permanent(ctx.Err(), "cancelled during backoff")
				case <-time.After(applyJitter(backoff, policy.Jitter)):
				}

				backoff = time.Duration(float64(backoff) * policy.BackoffFactor)
				if backoff > policy.MaxBackoff {
					backoff = policy.MaxBackoff
				}
			}
		}

		return reqkit.Verdict{}, &CategorizedError{
			Err:      lastErr,
			Category: Categorize(lastErr),
			Attempts: policy.MaxAttempts,
			Context:  "max retries exceeded",
		}
	})
}

// applyJitter returns the backoff duration with jitter applied.
func applyJitter(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return base
	}

	// base +/- (base * jitter * random)
	amount := float64(base) * jitter * (rand.Float64()*2 - 1)
	return time.Duration(float64(base) + amount)
}
