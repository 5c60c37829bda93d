package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/torosent/arithbench/internal/perfcounter"
)

// Elapsed times are tracked from 1ns up to 60s with 3 significant figures.
const (
	lowestTrackableNs  = 1
	highestTrackableNs = 60_000_000_000
	significantFigures = 3
)

// Aggregate folds measurement samples of one (precision, transform) pairing.
// It is not safe for concurrent use.
type Aggregate struct {
	hist       *hdrhistogram.Histogram
	iterations int
	total      perfcounter.EventCount
	best       perfcounter.EventCount
	worst      perfcounter.EventCount
}

// Summary is an immutable view of an Aggregate.
type Summary struct {
	Iterations int
	// Best is the sample with the smallest elapsed time; its counters are the
	// representative figures of the measurement.
	Best  perfcounter.EventCount
	Worst perfcounter.EventCount
	Total perfcounter.EventCount

	Mean time.Duration
	P50  time.Duration
	P99  time.Duration
}

func NewAggregate() *Aggregate {
	return &Aggregate{
		hist: hdrhistogram.New(lowestTrackableNs, highestTrackableNs, significantFigures),
	}
}

// Record adds one sample.
func (a *Aggregate) Record(c perfcounter.EventCount) {
	if a.iterations == 0 || c.Elapsed < a.best.Elapsed {
		a.best = c
	}
	if a.iterations == 0 || c.Elapsed > a.worst.Elapsed {
		a.worst = c
	}
	a.iterations++
	a.total = a.total.Add(c)

	ns := c.Elapsed.Nanoseconds()
	if ns < a.hist.LowestTrackableValue() {
		ns = a.hist.LowestTrackableValue()
	}
	if ns > a.hist.HighestTrackableValue() {
		ns = a.hist.HighestTrackableValue()
	}
	_ = a.hist.RecordValue(ns)
}

// Summary computes the current statistics.
func (a *Aggregate) Summary() Summary {
	s := Summary{
		Iterations: a.iterations,
		Best:       a.best,
		Worst:      a.worst,
		Total:      a.total,
	}
	if a.iterations > 0 {
		s.Mean = a.total.Elapsed / time.Duration(a.iterations)
	}
	if a.hist.TotalCount() > 0 {
		s.P50 = time.Duration(a.hist.ValueAtQuantile(50))
		s.P99 = time.Duration(a.hist.ValueAtQuantile(99))
	}
	return s
}

// ElapsedNs returns the best sample's elapsed time in nanoseconds.
func (s Summary) ElapsedNs() float64 {
	return float64(s.Best.Elapsed.Nanoseconds())
}

// IPC returns instructions per cycle of the best sample, and false when no cycles
// were counted.
func (s Summary) IPC() (float64, bool) {
	if s.Best.Cycles <= 0 {
		return 0, false
	}
	return s.Best.Instructions / s.Best.Cycles, true
}
