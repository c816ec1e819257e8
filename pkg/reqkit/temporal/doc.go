/*
Package temporal provides stateful decorators that coordinate repeated
evaluation of a single wrapped requirement.

Four decorators are provided:

  - Cache: returns a stored verdict on a key hit, with optional TTL,
    explicit invalidation, and bounded growth.
  - RateLimiter: sliding-window admission control; at most maxCalls
    evaluations per trailing window.
  - Throttle: minimum-interval admission control; enforces spacing
    between evaluations.
  - Debounce: trailing-edge scheduling; one evaluation per settled burst.

Each decorator instance owns private mutable state guarded by a single
mutex, so a check-and-admit sequence can never interleave with another
call and double-admit past a limit. Instances are independent: two
decorators wrapping the same requirement share nothing. State clears
only through the explicit Invalidate/Reset methods, never implicitly.

A rejected call is an expected outcome, not an error: limiters report
rejection through the configured policy's verdict (a fixed failed
verdict, the last admitted verdict, or an unconditional confirm), never
through a raised error.

Decorators should wrap long-lived requirement values and be constructed
once per wrapped evaluator; construct fresh instances in tests to avoid
cross-test interference.
*/
package temporal
