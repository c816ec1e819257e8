/*
Package instrument provides pass-through wrappers that record what a
requirement did without changing what it returns.

Traced captures one entry per evaluation (rule, verdict, duration,
timestamp) into a Recorder. Profiled maintains running aggregate
statistics (count, min, max, mean) in a Profile. Both wrappers call the
wrapped requirement exactly once per evaluation and return its verdict
unmodified.

	rec := instrument.NewRecorder()
	traced := instrument.Traced(adult, rec)
	traced.Evaluate(user)

	for _, e := range rec.Entries() {
	    fmt.Println(e.Rule, e.Confirmed, e.Duration)
	}

Recorder and Profile are safe for concurrent use; a single instance can
back wrappers evaluated from multiple goroutines.
*/
package instrument
