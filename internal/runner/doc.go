// Package runner is the timed measurement loop of arithbench.
//
// A [Runner] owns one counter session for the whole process and measures one
// transform at a time:
//
//	r := runner.New(runner.Options{Session: session, Logger: logger})
//	summary, err := runner.Measure(ctx, r, ds, transform.Add)
//
// # Measurement
//
// [Measure] allocates a result buffer the size of the dataset, runs the kernel
// [DefaultWarmup] times untimed, then [DefaultRepeat] times with the counter
// session started immediately before and ended immediately after the kernel call.
// Only the timed phase feeds the returned [metrics.Summary].
//
// # Sanity check
//
// After every repetition the buffer is summed. A sum of exactly zero is logged as
// a "bug" error and the run continues. Reports are rate limited per phase of
// each measurement.
package runner
