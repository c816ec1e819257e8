/*
Package reqkit provides a declarative rule-evaluation engine.

# Overview

reqkit is a Go library for composing and evaluating rules against an
arbitrary immutable context value. A boolean rule (Requirement) yields a
Verdict: confirmed, or failed with a structured Reason. A value-producing
rule (Decision) yields an optional result. Small evaluators combine into
larger ones with a combinator algebra, and stateful temporal decorators
coordinate repeated evaluation.

The library is built with:
  - Type-safe generics for the context and result types
  - Immutable evaluator values: construction and composition never evaluate
  - Cooperative, context-based cancellation for concurrent evaluation
  - OpenTelemetry integration for observability

# Basic Usage

Build requirements from functions, combine them, then evaluate:

	type User struct {
	    Age     int
	    Country string
	}

	adult := reqkit.Predicate("adult", func(u User) bool {
	    return u.Age >= 18
	}, reqkit.ReasonFromMessage("user is a minor"))

	resident := reqkit.Predicate("resident", func(u User) bool {
	    return u.Country == "NZ"
	}, reqkit.ReasonFromMessage("user is not a resident"))

	allowed := reqkit.All(adult, resident)

	v := allowed.Evaluate(User{Age: 30, Country: "NZ"})
	fmt.Println(v.IsConfirmed()) // true

All short-circuits: once a member fails, later members are not evaluated,
so cheap checks can guard expensive ones. Any short-circuits on the first
confirmation. Xor evaluates every member and confirms iff exactly one
matched.

# Decisions

Decisions produce values instead of verdicts; "no value" is an ordinary
absence, not an error:

	tier := reqkit.FirstMatch(
	    reqkit.Gate(vip, "gold"),
	    reqkit.Gate(resident, "silver"),
	    reqkit.Constant[User]("default", "bronze"),
	)
	name, ok := tier.Decide(u)

# Asynchronous Evaluation

Asynchronous evaluators take a reqkit.Context (a context.Context with
engine services) and may raise execution errors:

	remote := reqkit.NewAsync("entitlement", func(ctx reqkit.Context, u User) (reqkit.Verdict, error) {
	    ok, err := client.Check(ctx, u.ID)
	    if err != nil {
	        return reqkit.Verdict{}, err
	    }
	    if !ok {
	        return reqkit.FailedBecause("no entitlement"), nil
	    }
	    return reqkit.Confirmed(), nil
	})

	guarded := reqkit.WithTimeout(
	    reqkit.AnyConcurrent([]reqkit.AsyncRequirement[User]{remote, adult.Async()}),
	    2*time.Second)

	ctx := reqkit.NewContext(context.Background())
	v, err := guarded.Run(ctx, u, reqkit.WithMetrics(true))

A failed verdict and an execution error are distinct channels: a failed
verdict is an expected outcome carrying a Reason; an error means the
evaluation itself broke. Combinators translate member errors into failed
verdicts with the execution-error reason; errors never leak past a
combinator boundary, and combinators never retry.

AnyConcurrent returns on the first member to confirm and cancels the rest
through the context; cancellation is cooperative, observed by members at
their own suspension points.

# Temporal Decorators

The temporal subpackage wraps one evaluator instance with stateful
scheduling: Cache (TTL and explicit invalidation), RateLimiter
(sliding-window admission), Throttle (minimum spacing), and Debounce
(trailing-edge burst settling). Decorator instances own private state
safe under concurrent calls; construct a fresh instance per wrapped
evaluator.

# Observability

Enable logging, metrics, and tracing on an observed run:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	v, err := req.Run(ctx, u,
	    reqkit.WithObservabilityLogger(logger),
	    reqkit.WithMetrics(true),
	    reqkit.WithTracing(true))

Logs include structured fields: eval_id, rule, confirmed, duration_ms.
OpenTelemetry metrics: reqkit.evaluations, reqkit.evaluation.latency_ms,
reqkit.evaluation.failures. Tracing: reqkit.evaluate > reqkit.member.{rule}.

# Thread Safety

  - Requirement, Decision, and their async forms are immutable and safe
    for concurrent use
  - Context is safe for concurrent use
  - Temporal decorator instances are safe for concurrent use; their
    state is private per instance

# Subpackages

  - temporal: Cache, RateLimiter, Throttle, Debounce decorators
  - cachestore: pluggable cache backends (memory, SQLite)
  - instrument: Trace and Profile pass-through wrappers
  - observability: logging, metrics, and tracing helpers
  - retry: backoff retry wrapper for asynchronous evaluators
  - registry: named requirement registry
  - config: file-based configuration helpers
*/
package reqkit
