package reqkit

import (
	"errors"
	"fmt"
	"time"
)

// Reason codes used when the executor translates control-flow faults
// into failed verdicts.
const (
	// CodeExecutionError marks a failed verdict produced from a raised
	// execution error at a combinator boundary.
	CodeExecutionError = "evaluation.execution_error"

	// CodeTimedOut marks a failed verdict produced when a bounded-time
	// evaluation hit its deadline.
	CodeTimedOut = "evaluation.timed_out"
)

// Sentinel errors for evaluation.
var (
	// ErrNilContext indicates Run() was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrTimedOut indicates a bounded-time evaluation hit its deadline.
	ErrTimedOut = errors.New("evaluation timed out")
)

// ExecutionErrorReason builds the failed-verdict reason for a raised
// execution error caught at a combinator boundary.
func ExecutionErrorReason(err error) Reason {
	return NewReason(CodeExecutionError, fmt.Sprintf("execution error: %v", err))
}

// TimedOutReason builds the failed-verdict reason for a deadline expiry.
func TimedOutReason(limit time.Duration) Reason {
	return NewReason(CodeTimedOut, fmt.Sprintf("timed out after %s", limit))
}

// EvaluationError wraps an execution error with the rule that raised it.
type EvaluationError struct {
	// Rule is the name of the evaluator that failed.
	Rule string
	// Op is the operation that failed (e.g., "evaluate").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("rule %s: %s: %v", e.Rule, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// wrapRuleError attaches the rule name to a raised execution error.
// Cancellation signals pass through unchanged so enclosing boundaries
// still recognize them, and errors that already carry rule context are
// not wrapped again.
func wrapRuleError(rule, op string, err error) error {
	if err == nil || isCancellation(err) {
		return err
	}
	var evalErr *EvaluationError
	var panicErr *PanicError
	var timeoutErr *TimeoutError
	if errors.As(err, &evalErr) || errors.As(err, &panicErr) || errors.As(err, &timeoutErr) {
		return err
	}
	return &EvaluationError{Rule: rule, Op: op, Err: err}
}

// PanicError captures panic information from an asynchronous evaluator.
// It includes the stack trace for debugging.
type PanicError struct {
	// Rule is the name of the evaluator that panicked.
	Rule string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("rule %s panicked: %v", e.Rule, e.Value)
}

// TimeoutError carries the rule and limit of an expired deadline.
type TimeoutError struct {
	// Rule is the name of the evaluator that was cut off.
	Rule string
	// Limit is the configured deadline.
	Limit time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("rule %s timed out after %s", e.Rule, e.Limit)
}

// Unwrap returns ErrTimedOut for errors.Is support.
func (e *TimeoutError) Unwrap() error {
	return ErrTimedOut
}
