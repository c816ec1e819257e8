package temporal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit/observability"
)

// RateLimiter wraps a requirement with sliding-window admission
// control: at most maxCalls evaluations are admitted within any
// trailing window.
//
// Admission works on timestamps: on every call, timestamps older than
// now-window are pruned, and the call is admitted iff fewer than
// maxCalls remain. The timestamp is recorded at admission time, not at
// completion. A rejected call returns the configured policy's verdict.
//
// RateLimiter is safe for concurrent use: a single mutex guards the
// whole check-and-admit sequence so two concurrent calls can never
// double-admit past the limit.
type RateLimiter[C any] struct {
	mu         sync.Mutex
	req        reqkit.Requirement[C]
	maxCalls   int
	window     time.Duration
	timestamps []time.Time
	policy     RejectionPolicy
	last       *reqkit.Verdict
	now        func() time.Time
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption[C any] func(*RateLimiter[C])

// WithRateLimiterPolicy sets the rejection policy.
// Default: PolicyReject (a fixed failed verdict).
func WithRateLimiterPolicy[C any](p RejectionPolicy) RateLimiterOption[C] {
	return func(rl *RateLimiter[C]) {
		rl.policy = p
	}
}

// WithRateLimiterClock overrides the clock used for window arithmetic.
// For tests.
func WithRateLimiterClock[C any](now func() time.Time) RateLimiterOption[C] {
	return func(rl *RateLimiter[C]) {
		rl.now = now
	}
}

// WithRateLimiterLogger enables admission logging.
func WithRateLimiterLogger[C any](logger *slog.Logger) RateLimiterOption[C] {
	return func(rl *RateLimiter[C]) {
		rl.logger = logger
	}
}

// WithRateLimiterMetrics enables admission metrics.
func WithRateLimiterMetrics[C any](m observability.MetricsRecorder) RateLimiterOption[C] {
	return func(rl *RateLimiter[C]) {
		rl.metrics = m
	}
}

// NewRateLimiter creates a rate limiter around the requirement.
//
// Panics if maxCalls or window is not positive.
func NewRateLimiter[C any](req reqkit.Requirement[C], maxCalls int, window time.Duration, opts ...RateLimiterOption[C]) *RateLimiter[C] {
	if maxCalls <= 0 {
		panic("temporal: maxCalls must be positive")
	}
	if window <= 0 {
		panic("temporal: window must be positive")
	}
	rl := &RateLimiter[C]{
		req:      req,
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
		metrics:  observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// Evaluate admits or rejects the call, evaluating the wrapped
// requirement only on admission. The logging and metrics hooks run
// after the lock is released so a hook may observe the limiter.
func (rl *RateLimiter[C]) Evaluate(c C) reqkit.Verdict {
	rl.mu.Lock()

	now := rl.now()
	rl.pruneLocked(now)

	var v reqkit.Verdict
	admitted := len(rl.timestamps) < rl.maxCalls
	if admitted {
		rl.timestamps = append(rl.timestamps, now)
		v = rl.req.Evaluate(c)
		rl.last = &v
	} else {
		v = rl.policy.resolve(rl.last, ReasonRateLimited)
	}
	rl.mu.Unlock()

	observability.LogAdmission(rl.logger, "ratelimiter", rl.req.Name(), admitted)
	rl.metrics.RecordAdmission(context.Background(), "ratelimiter", admitted)
	return v
}

// Remaining returns how many calls the current window can still admit.
func (rl *RateLimiter[C]) Remaining() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.pruneLocked(rl.now())
	return rl.maxCalls - len(rl.timestamps)
}

// Reset clears the admission window and the cached verdict.
func (rl *RateLimiter[C]) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.timestamps = nil
	rl.last = nil
}

// pruneLocked drops timestamps older than the trailing window.
// Caller must hold the lock.
func (rl *RateLimiter[C]) pruneLocked(now time.Time) {
	cutoff := now.Add(-rl.window)
	kept := rl.timestamps[:0]
	for _, ts := range rl.timestamps {
		// Only timestamps strictly older than the window are stale.
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	rl.timestamps = kept
}
