package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacich0/requirements-kit-sub000/pkg/reqkit"
)

type User struct {
	Age int
}

// fastPolicy keeps tests quick.
var fastPolicy = Policy{
	MaxAttempts:    3,
	InitialBackoff: time.Millisecond,
	MaxBackoff:     5 * time.Millisecond,
	BackoffFactor:  2.0,
}

func testCtx() reqkit.Context {
	return reqkit.NewContext(context.Background())
}

// TestRetrying_SucceedsFirstAttempt verifies no retry on success.
func TestRetrying_SucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	req := reqkit.NewAsync("ok", func(reqkit.Context, User) (reqkit.Verdict, error) {
		attempts++
		return reqkit.Confirmed(), nil
	})

	v, err := Retrying(req, fastPolicy).Evaluate(testCtx(), User{})
	require.NoError(t, err)
	assert.True(t, v.IsConfirmed())
	assert.Equal(t, 1, attempts)
}

// TestRetrying_FailedVerdictIsNotRetried verifies a definitive answer
// ends the loop immediately.
func TestRetrying_FailedVerdictIsNotRetried(t *testing.T) {
	attempts := 0
	reason := reqkit.NewReason("user.minor", "user is a minor")
	req := reqkit.NewAsync("failing", func(reqkit.Context, User) (reqkit.Verdict, error) {
		attempts++
		return reqkit.Failed(reason), nil
	})

	v, err := Retrying(req, fastPolicy).Evaluate(testCtx(), User{})
	require.NoError(t, err)
	assert.True(t, v.IsFailed())
	assert.Equal(t, 1, attempts)
}

// TestRetrying_TransientErrorRetried verifies recovery on a later
// attempt.
func TestRetrying_TransientErrorRetried(t *testing.T) {
	attempts := 0
	req := reqkit.NewAsync("flaky", func(reqkit.Context, User) (reqkit.Verdict, error) {
		attempts++
		if attempts < 3 {
			return reqkit.Verdict{}, Transient(errors.New("backend busy"), "backend check")
		}
		return reqkit.Confirmed(), nil
	})

	v, err := Retrying(req, fastPolicy).Evaluate(testCtx(), User{})
	require.NoError(t, err)
	assert.True(t, v.IsConfirmed())
	assert.Equal(t, 3, attempts)
}

// TestRetrying_ExhaustsAttempts verifies the final categorized error.
func TestRetrying_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	inner := errors.New("backend busy")
	req := reqkit.NewAsync("flaky", func(reqkit.Context, User) (reqkit.Verdict, error) {
		attempts++
		return reqkit.Verdict{}, Transient(inner, "backend check")
	})

	_, err := Retrying(req, fastPolicy).Evaluate(testCtx(), User{})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)

	var catErr *CategorizedError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, 3, catErr.Attempts)
	assert.Equal(t, "max retries exceeded", catErr.Context)
	assert.ErrorIs(t, err, inner)
}

// TestRetrying_PermanentErrorStopsImmediately verifies no backoff loop
// for hopeless errors.
func TestRetrying_PermanentErrorStopsImmediately(t *testing.T) {
	attempts := 0
	req := reqkit.NewAsync("broken", func(reqkit.Context, User) (reqkit.Verdict, error) {
		attempts++
		return reqkit.Verdict{}, errors.New("bad configuration")
	})

	_, err := Retrying(req, fastPolicy).Evaluate(testCtx(), User{})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	var catErr *CategorizedError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, CategoryPermanent, catErr.Category)
}

// TestRetrying_CancelledContext verifies cancellation ends the loop.
func TestRetrying_CancelledContext(t *testing.T) {
	std, cancel := context.WithCancel(context.Background())
	cancel()

	req := reqkit.Always[User]().Async()
	_, err := Retrying(req, fastPolicy).Evaluate(reqkit.NewContext(std), User{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRetrying_RetriesRaisedTimeout verifies a deadline expiry raised
// by the timeout decorator is transient and recoverable.
func TestRetrying_RetriesRaisedTimeout(t *testing.T) {
	attempts := 0
	inner := reqkit.NewAsync("backend", func(ctx reqkit.Context, _ User) (reqkit.Verdict, error) {
		attempts++
		if attempts == 1 {
			<-ctx.Done()
			return reqkit.Verdict{}, ctx.Err()
		}
		return reqkit.Confirmed(), nil
	})
	req := reqkit.WithTimeout(inner, 20*time.Millisecond, reqkit.RaiseOnTimeout())

	v, err := Retrying(req, fastPolicy).Evaluate(testCtx(), User{})
	require.NoError(t, err)
	assert.True(t, v.IsConfirmed())
	assert.Equal(t, 2, attempts)
}

// TestRetrying_CustomRetryableFunc verifies the override hook.
func TestRetrying_CustomRetryableFunc(t *testing.T) {
	attempts := 0
	special := errors.New("special")
	req := reqkit.NewAsync("flaky", func(reqkit.Context, User) (reqkit.Verdict, error) {
		attempts++
		if attempts < 2 {
			return reqkit.Verdict{}, special
		}
		return reqkit.Confirmed(), nil
	})

	policy := fastPolicy
	policy.RetryableFunc = func(err error) bool { return errors.Is(err, special) }

	v, err := Retrying(req, policy).Evaluate(testCtx(), User{})
	require.NoError(t, err)
	assert.True(t, v.IsConfirmed())
	assert.Equal(t, 2, attempts)
}

// TestCategorize covers the default classification rules.
func TestCategorize(t *testing.T) {
	assert.Equal(t, CategoryTransient, Categorize(reqkit.ErrTimedOut))
	assert.Equal(t, CategoryTransient, Categorize(&reqkit.TimeoutError{Rule: "slow", Limit: time.Second}))
	assert.Equal(t, CategoryPermanent, Categorize(context.Canceled))
	assert.Equal(t, CategoryPermanent, Categorize(context.DeadlineExceeded))
	assert.Equal(t, CategoryPermanent, Categorize(&reqkit.PanicError{Rule: "x", Value: "boom"}))
	assert.Equal(t, CategoryPermanent, Categorize(errors.New("unknown")))
	assert.Equal(t, CategoryPermanent, Categorize(nil))

	assert.Equal(t, CategoryTransient, Categorize(Transient(errors.New("x"), "")))
	assert.Equal(t, CategoryPermanent, Categorize(Permanent(errors.New("x"), "")))
}

// TestIsRetryable verifies the convenience predicate.
func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(reqkit.ErrTimedOut))
	assert.False(t, IsRetryable(errors.New("unknown")))
}

// TestCategorizedError_Formatting verifies the error text and unwrap.
func TestCategorizedError_Formatting(t *testing.T) {
	inner := errors.New("boom")
	err := &CategorizedError{Err: inner, Category: CategoryTransient, Attempts: 2, Context: "backend check"}

	assert.Contains(t, err.Error(), "backend check")
	assert.Contains(t, err.Error(), "transient")
	assert.Contains(t, err.Error(), "attempts: 2")
	assert.ErrorIs(t, err, inner)
}

// TestNewPolicy verifies option application over the defaults.
func TestNewPolicy(t *testing.T) {
	p := NewPolicy(
		WithMaxAttempts(5),
		WithInitialBackoff(time.Millisecond),
		WithMaxBackoff(time.Second),
		WithBackoffFactor(1.5),
		WithJitter(0.2),
	)
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, time.Millisecond, p.InitialBackoff)
	assert.Equal(t, time.Second, p.MaxBackoff)
	assert.Equal(t, 1.5, p.BackoffFactor)
	assert.Equal(t, 0.2, p.Jitter)
}
