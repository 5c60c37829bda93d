// Package metrics aggregates per-repetition counter samples.
//
// An [Aggregate] is created fresh for each (precision, transform) measurement and
// fed one [perfcounter.EventCount] per timed repetition:
//
//	agg := metrics.NewAggregate()
//	for i := 0; i < repeat; i++ {
//		agg.Record(sample)
//	}
//	summary := agg.Summary()
//
// # Best sample
//
// The representative figures of a measurement are taken from the sample with the
// smallest elapsed time ([Summary.Best]), together with its instruction, cycle and
// branch counts. Worst and total samples are kept for reference.
//
// # Distribution
//
// Elapsed times are also recorded in an HDR histogram so reports can show the
// median and 99th percentile repetition time next to the best one.
package metrics
