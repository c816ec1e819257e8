package temporal

import (
	"sync"
	"time"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
)

// DebouncePolicy controls how a call arriving while another is pending
// is handled.
type DebouncePolicy int

const (
	// PolicyTrailing cancels the pending schedule and reschedules with
	// the new call's context, so only the last call in a burst
	// executes. This is the default.
	PolicyTrailing DebouncePolicy = iota

	// PolicyDiscard keeps the first pending schedule and discards
	// calls that arrive while it is pending.
	PolicyDiscard
)

// Debounce wraps a requirement with trailing-edge scheduling: each
// call (re)schedules execution after delay of inactivity, so exactly
// one evaluation of the wrapped requirement occurs per settled burst.
// A cancelled schedule never invokes the wrapped requirement.
//
// Evaluate returns immediately; the eventual verdict is delivered to
// the OnVerdict callback, if one is configured.
//
// Debounce is safe for concurrent use. Call Cancel when discarding a
// Debounce with a schedule that must not fire.
type Debounce[C any] struct {
	mu        sync.Mutex
	req       reqkit.Requirement[C]
	delay     time.Duration
	policy    DebouncePolicy
	onVerdict func(reqkit.Verdict)

	timer   *time.Timer
	pending C
	// generation invalidates a timer that fires after it was replaced
	// or cancelled but before it could be stopped.
	generation uint64
}

// DebounceOption configures a Debounce.
type DebounceOption[C any] func(*Debounce[C])

// WithDebouncePolicy sets the burst policy. Default: PolicyTrailing.
func WithDebouncePolicy[C any](p DebouncePolicy) DebounceOption[C] {
	return func(d *Debounce[C]) {
		d.policy = p
	}
}

// WithOnVerdict sets the callback receiving each executed evaluation's
// verdict. The callback runs on the timer goroutine.
func WithOnVerdict[C any](fn func(reqkit.Verdict)) DebounceOption[C] {
	return func(d *Debounce[C]) {
		d.onVerdict = fn
	}
}

// NewDebounce creates a debounce around the requirement.
//
// Panics if delay is not positive.
func NewDebounce[C any](req reqkit.Requirement[C], delay time.Duration, opts ...DebounceOption[C]) *Debounce[C] {
	if delay <= 0 {
		panic("temporal: delay must be positive")
	}
	d := &Debounce[C]{
		req:   req,
		delay: delay,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Evaluate schedules an evaluation after the configured delay of
// inactivity and returns immediately.
//
// Under PolicyTrailing a pending schedule is cancelled and replaced,
// so the burst's last context wins. Under PolicyDiscard the call is
// dropped when a schedule is already pending.
func (d *Debounce[C]) Evaluate(c C) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		if d.policy == PolicyDiscard {
			return
		}
		d.timer.Stop()
		d.generation++
	}

	d.pending = c
	gen := d.generation
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

// Cancel stops any pending schedule without invoking the wrapped
// requirement.
func (d *Debounce[C]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
		d.generation++
	}
}

// Pending reports whether a schedule is waiting to execute.
func (d *Debounce[C]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// fire executes the pending evaluation unless the schedule was
// cancelled or superseded after the timer fired.
func (d *Debounce[C]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.generation || d.timer == nil {
		d.mu.Unlock()
		return
	}
	c := d.pending
	d.timer = nil
	d.generation++
	d.mu.Unlock()

	v := d.req.Evaluate(c)
	if d.onVerdict != nil {
		d.onVerdict(v)
	}
}
