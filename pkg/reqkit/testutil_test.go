package reqkit

import (
	"context"
	"errors"
	"time"
)

// Test context types used across tests

// User is a simple evaluation context for testing.
type User struct {
	Age      int
	Country  string
	Verified bool
}

// Reasons shared across tests.
var (
	reasonMinor      = NewReason("user.minor", "user is a minor")
	reasonUnverified = NewReason("user.unverified", "user is not verified")
	reasonBlocked    = NewReason("user.blocked", "user is blocked")
)

// Helper requirements

// adult confirms users of age 18 or older.
var adult = Predicate("adult", func(u User) bool { return u.Age >= 18 }, reasonMinor)

// verified confirms verified users.
var verified = Predicate("verified", func(u User) bool { return u.Verified }, reasonUnverified)

// makeTrackingReq creates a requirement that records its evaluations.
func makeTrackingReq(name string, tracker *[]string, verdict Verdict) Requirement[User] {
	return New(name, func(User) Verdict {
		*tracker = append(*tracker, name)
		return verdict
	})
}

// makeCountingReq creates a requirement that counts its evaluations.
func makeCountingReq(name string, count *int, verdict Verdict) Requirement[User] {
	return New(name, func(User) Verdict {
		*count++
		return verdict
	})
}

// makeErroringAsync creates an async requirement that returns the given error.
func makeErroringAsync(name string, err error) AsyncRequirement[User] {
	return NewAsync(name, func(Context, User) (Verdict, error) {
		return Verdict{}, err
	})
}

// makePanickingAsync creates an async requirement that panics.
func makePanickingAsync(name string, value any) AsyncRequirement[User] {
	return NewAsync(name, func(Context, User) (Verdict, error) {
		panic(value)
	})
}

// makeSlowAsync creates an async requirement that waits for d before
// returning the verdict, observing cancellation while waiting.
func makeSlowAsync(name string, d time.Duration, verdict Verdict) AsyncRequirement[User] {
	return NewAsync(name, func(ctx Context, _ User) (Verdict, error) {
		select {
		case <-time.After(d):
			return verdict, nil
		case <-ctx.Done():
			return Verdict{}, ctx.Err()
		}
	})
}

// errBackend is a generic execution error for tests.
var errBackend = errors.New("backend unavailable")

// testCtx creates a simple test context.
func testCtx() Context {
	return NewContext(context.Background())
}
