/*
Package registry provides a thread-safe catalog of named requirements.

# Overview

A Registry holds requirements under their names so rules can be
declared once, referenced by name from configuration or composition
sites, and combined without passing values around:

	reg := registry.New[User]()
	reg.Register(reqkit.Predicate("adult", isAdult, reasonMinor))
	reg.Register(reqkit.Predicate("verified", isVerified, reasonUnverified))

	gate, err := reg.All("adult", "verified")
	if err != nil {
	    log.Fatal(err)
	}
	verdict := gate.Evaluate(user)

# Composition by name

All and Any build composite requirements from registered names,
returning an error listing any name that is not registered. MustLookup
panics on a missing name and is intended for startup-time wiring where
a missing rule is a programming error.

# Thread Safety

All methods are safe for concurrent use. Lookups take a read lock, so
read-heavy workloads scale across goroutines.
*/
package registry
