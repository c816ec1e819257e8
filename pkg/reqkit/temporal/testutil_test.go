package temporal

import (
	"context"
	"sync"
	"time"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
)

// User is the evaluation context shared across decorator tests.
type User struct {
	ID  string
	Age int
}

var reasonMinor = reqkit.NewReason("user.minor", "user is a minor")

// makeCountingReq creates a requirement that counts its evaluations.
func makeCountingReq(name string, count *int, verdict reqkit.Verdict) reqkit.Requirement[User] {
	return reqkit.New(name, func(User) reqkit.Verdict {
		*count++
		return verdict
	})
}

// callbackMetrics invokes fn on every admission record.
type callbackMetrics struct {
	fn func(admitted bool)
}

func (m callbackMetrics) RecordEvaluation(context.Context, string, time.Duration, bool, error) {}

func (m callbackMetrics) RecordAdmission(_ context.Context, _ string, admitted bool) {
	m.fn(admitted)
}

// fakeClock is a manually advanced clock for window and TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
