package temporal

import "github.com/cacich0/requirements-kit-sub000/pkg/reqkit"

// RejectionPolicy controls the verdict returned when a limiter rejects
// a call. Rejections go through the verdict channel, never through a
// raised error.
type RejectionPolicy int

const (
	// PolicyReject returns a fixed failed verdict on rejection.
	PolicyReject RejectionPolicy = iota

	// PolicyLastVerdict returns the most recently cached verdict on
	// rejection. Falls back to the fixed failed verdict when no call
	// has been admitted yet.
	PolicyLastVerdict

	// PolicyBypass confirms unconditionally on rejection.
	PolicyBypass
)

// Fixed reasons produced by the limiting decorators.
var (
	// ReasonRateLimited is the rejection reason when the sliding-window
	// call budget is exhausted.
	ReasonRateLimited = reqkit.NewReason("temporal.rate_limited", "call budget exhausted for the current window")

	// ReasonThrottled is the rejection reason when a call arrives
	// within the minimum interval of the last admitted call.
	ReasonThrottled = reqkit.NewReason("temporal.throttled", "call arrived within the minimum interval")
)

// resolve applies a rejection policy given the optional last verdict
// and the decorator's fixed rejection reason.
func (p RejectionPolicy) resolve(last *reqkit.Verdict, reason reqkit.Reason) reqkit.Verdict {
	switch p {
	case PolicyLastVerdict:
		if last != nil {
			return *last
		}
		return reqkit.Failed(reason)
	case PolicyBypass:
		return reqkit.Confirmed()
	default:
		return reqkit.Failed(reason)
	}
}
