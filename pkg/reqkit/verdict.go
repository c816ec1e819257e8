package reqkit

import "fmt"

// DefaultReasonCode is assigned when a Reason is built from a bare message.
const DefaultReasonCode = "requirement.not_met"

// Reason explains why a requirement failed.
// Equality is structural: two Reasons are equal iff code and message match.
type Reason struct {
	// Code is a stable machine-readable identifier.
	Code string
	// Message is the human-readable explanation.
	Message string
}

// NewReason creates a Reason with an explicit code and message.
func NewReason(code, message string) Reason {
	return Reason{Code: code, Message: message}
}

// ReasonFromMessage creates a Reason carrying only a message.
// The code defaults to DefaultReasonCode.
func ReasonFromMessage(message string) Reason {
	return Reason{Code: DefaultReasonCode, Message: message}
}

// String returns "code: message" for logs and error text.
func (r Reason) String() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// Verdict is the outcome of evaluating a requirement.
// Exactly one variant holds: confirmed, or failed with a Reason.
// The zero value is a failed verdict with an empty reason; construct
// verdicts with Confirmed or Failed.
type Verdict struct {
	confirmed bool
	reason    Reason
}

// Confirmed returns the confirmed verdict.
func Confirmed() Verdict {
	return Verdict{confirmed: true}
}

// Failed returns a failed verdict carrying the given reason.
func Failed(r Reason) Verdict {
	return Verdict{reason: r}
}

// FailedBecause returns a failed verdict from a bare message,
// using the default reason code.
func FailedBecause(message string) Verdict {
	return Failed(ReasonFromMessage(message))
}

// IsConfirmed reports whether the verdict is confirmed.
func (v Verdict) IsConfirmed() bool {
	return v.confirmed
}

// IsFailed reports whether the verdict is failed.
func (v Verdict) IsFailed() bool {
	return !v.confirmed
}

// Reason returns the carried reason and true iff the verdict is failed.
// A confirmed verdict carries no reason.
func (v Verdict) Reason() (Reason, bool) {
	if v.confirmed {
		return Reason{}, false
	}
	return v.reason, true
}

// String returns "confirmed" or "failed (code: message)".
func (v Verdict) String() string {
	if v.confirmed {
		return "confirmed"
	}
	return fmt.Sprintf("failed (%s)", v.reason)
}
