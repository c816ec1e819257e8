package instrument

import (
	"sync"
	"time"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
)

// Stats is a point-in-time snapshot of a profile.
type Stats struct {
	// Count is the number of evaluations since the last reset.
	Count int64

	// Min is the shortest observed evaluation. Zero when Count is zero.
	Min time.Duration

	// Max is the longest observed evaluation.
	Max time.Duration

	// Mean is the arithmetic mean of observed durations.
	Mean time.Duration
}

// Profile maintains running aggregate timing statistics for a wrapped
// requirement. Safe for concurrent use.
type Profile struct {
	mu    sync.Mutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
	now   func() time.Time
}

// NewProfile creates an empty profile.
func NewProfile() *Profile {
	return &Profile{now: time.Now}
}

// observe folds one duration into the running statistics.
func (p *Profile) observe(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.count == 0 || d < p.min {
		p.min = d
	}
	if d > p.max {
		p.max = d
	}
	p.count++
	p.total += d
}

// Snapshot returns the current statistics.
func (p *Profile) Snapshot() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Stats{Count: p.count, Min: p.min, Max: p.max}
	if p.count > 0 {
		s.Mean = p.total / time.Duration(p.count)
	}
	return s
}

// Reset discards all accumulated statistics.
func (p *Profile) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count = 0
	p.total = 0
	p.min = 0
	p.max = 0
}

// Profiled wraps req so every evaluation updates prof. The verdict
// passes through unchanged.
//
// Panics if prof is nil.
func Profiled[C any](req reqkit.Requirement[C], prof *Profile) reqkit.Requirement[C] {
	if prof == nil {
		panic("instrument: profile cannot be nil")
	}
	return reqkit.New(req.Name(), func(c C) reqkit.Verdict {
		start := prof.now()
		v := req.Evaluate(c)
		prof.observe(prof.now().Sub(start))
		return v
	})
}
