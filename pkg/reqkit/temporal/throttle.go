package temporal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit/observability"
)

// Throttle wraps a requirement with minimum-interval admission
// control: a call is admitted iff no prior admission occurred within
// interval of now.
//
// On admission the wrapped requirement is evaluated, its verdict
// cached, and the admission instant recorded. On rejection the
// configured policy applies; the default returns the last cached
// verdict, so a throttled caller still observes the most recent
// admitted outcome.
//
// Throttle is safe for concurrent use.
type Throttle[C any] struct {
	mu       sync.Mutex
	req      reqkit.Requirement[C]
	interval time.Duration
	lastAt   time.Time
	admitted bool
	last     *reqkit.Verdict
	policy   RejectionPolicy
	now      func() time.Time
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
}

// ThrottleOption configures a Throttle.
type ThrottleOption[C any] func(*Throttle[C])

// WithThrottlePolicy sets the rejection policy.
// Default: PolicyLastVerdict.
func WithThrottlePolicy[C any](p RejectionPolicy) ThrottleOption[C] {
	return func(t *Throttle[C]) {
		t.policy = p
	}
}

// WithThrottleClock overrides the clock used for interval arithmetic.
// For tests.
func WithThrottleClock[C any](now func() time.Time) ThrottleOption[C] {
	return func(t *Throttle[C]) {
		t.now = now
	}
}

// WithThrottleLogger enables admission logging.
func WithThrottleLogger[C any](logger *slog.Logger) ThrottleOption[C] {
	return func(t *Throttle[C]) {
		t.logger = logger
	}
}

// WithThrottleMetrics enables admission metrics.
func WithThrottleMetrics[C any](m observability.MetricsRecorder) ThrottleOption[C] {
	return func(t *Throttle[C]) {
		t.metrics = m
	}
}

// NewThrottle creates a throttle around the requirement.
//
// Panics if interval is not positive.
func NewThrottle[C any](req reqkit.Requirement[C], interval time.Duration, opts ...ThrottleOption[C]) *Throttle[C] {
	if interval <= 0 {
		panic("temporal: interval must be positive")
	}
	t := &Throttle[C]{
		req:      req,
		interval: interval,
		policy:   PolicyLastVerdict,
		now:      time.Now,
		metrics:  observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Evaluate admits or rejects the call, evaluating the wrapped
// requirement only on admission. The logging and metrics hooks run
// after the lock is released so a hook may observe the throttle.
func (t *Throttle[C]) Evaluate(c C) reqkit.Verdict {
	t.mu.Lock()

	now := t.now()
	admit := !t.admitted || now.Sub(t.lastAt) >= t.interval

	var v reqkit.Verdict
	if admit {
		t.lastAt = now
		t.admitted = true
		v = t.req.Evaluate(c)
		t.last = &v
	} else {
		v = t.policy.resolve(t.last, ReasonThrottled)
	}
	t.mu.Unlock()

	observability.LogAdmission(t.logger, "throttle", t.req.Name(), admit)
	t.metrics.RecordAdmission(context.Background(), "throttle", admit)
	return v
}

// Reset clears the admission record and the cached verdict, so the
// next call is admitted regardless of spacing.
func (t *Throttle[C]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.admitted = false
	t.lastAt = time.Time{}
	t.last = nil
}
