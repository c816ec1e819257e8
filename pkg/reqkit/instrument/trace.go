package instrument

import (
	"sync"
	"time"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
)

// Entry is one recorded evaluation.
type Entry struct {
	// Rule is the name of the evaluated requirement.
	Rule string

	// Confirmed reports whether the verdict was confirmed.
	Confirmed bool

	// ReasonCode is the failure reason code, empty when confirmed.
	ReasonCode string

	// Duration is the wall-clock time the evaluation took.
	Duration time.Duration

	// At is the time the evaluation started.
	At time.Time
}

// Recorder accumulates trace entries. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// record appends one entry.
func (r *Recorder) record(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the recorded entries in evaluation order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset discards all recorded entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// Traced wraps req so every evaluation appends an Entry to rec.
// The verdict passes through unchanged.
//
// Panics if rec is nil.
func Traced[C any](req reqkit.Requirement[C], rec *Recorder) reqkit.Requirement[C] {
	if rec == nil {
		panic("instrument: recorder cannot be nil")
	}
	name := req.Name()
	return reqkit.New(name, func(c C) reqkit.Verdict {
		start := rec.now()
		v := req.Evaluate(c)
		e := Entry{
			Rule:      name,
			Confirmed: v.IsConfirmed(),
			Duration:  rec.now().Sub(start),
			At:        start,
		}
		if reason, failed := v.Reason(); failed {
			e.ReasonCode = reason.Code
		}
		rec.record(e)
		return v
	})
}
