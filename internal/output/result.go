package output

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/torosent/arithbench/internal/dataset"
	"github.com/torosent/arithbench/internal/metrics"
	"github.com/torosent/arithbench/internal/transform"
)

// Result is the per-element view of one (precision, transform) measurement.
// Per-element fields are nil when they cannot be computed (no elements, or no
// cycles counted for the ratio).
type Result struct {
	Name       string `json:"name" yaml:"name"`
	Precision  string `json:"precision" yaml:"precision"`
	Transform  string `json:"transform" yaml:"transform"`
	Elements   int    `json:"elements" yaml:"elements"`
	Iterations int    `json:"iterations" yaml:"iterations"`

	BestNs float64 `json:"best_ns" yaml:"best_ns"`
	MeanNs float64 `json:"mean_ns" yaml:"mean_ns"`
	P50Ns  float64 `json:"p50_ns" yaml:"p50_ns"`
	P99Ns  float64 `json:"p99_ns" yaml:"p99_ns"`

	NsPerElement           *float64 `json:"ns_per_element" yaml:"ns_per_element"`
	InstructionsPerElement *float64 `json:"instructions_per_element" yaml:"instructions_per_element"`
	CyclesPerElement       *float64 `json:"cycles_per_element" yaml:"cycles_per_element"`
	BranchesPerElement     *float64 `json:"branches_per_element" yaml:"branches_per_element"`
	BranchMissesPerElement *float64 `json:"branch_misses_per_element" yaml:"branch_misses_per_element"`
	InstructionsPerCycle   *float64 `json:"instructions_per_cycle" yaml:"instructions_per_cycle"`
}

// BenchmarkName joins precision and transform, e.g. "double_add".
func BenchmarkName(precision string, op string) string {
	return precision + "_" + op
}

// NewResult derives per-element figures from a summary.
func NewResult(precision dataset.Precision, elements int, op transform.Op, s metrics.Summary) Result {
	return newResult(precision.String(), elements, op.String(), s)
}

func newResult(precision string, elements int, name string, s metrics.Summary) Result {
	r := Result{
		Name:       BenchmarkName(precision, name),
		Precision:  precision,
		Transform:  name,
		Elements:   elements,
		Iterations: s.Iterations,
		BestNs:     s.ElapsedNs(),
		MeanNs:     float64(s.Mean.Nanoseconds()),
		P50Ns:      float64(s.P50.Nanoseconds()),
		P99Ns:      float64(s.P99.Nanoseconds()),
	}
	if elements > 0 {
		n := float64(elements)
		r.NsPerElement = ratio(s.ElapsedNs(), n)
		r.InstructionsPerElement = ratio(s.Best.Instructions, n)
		r.CyclesPerElement = ratio(s.Best.Cycles, n)
		r.BranchesPerElement = ratio(s.Best.Branches, n)
		r.BranchMissesPerElement = ratio(s.Best.BranchMisses, n)
	}
	if ipc, ok := s.IPC(); ok {
		r.InstructionsPerCycle = &ipc
	}
	return r
}

func ratio(num, den float64) *float64 {
	v := num / den
	return &v
}

// Report is the machine-readable document of one run.
type Report struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Howmany   int       `json:"howmany" yaml:"howmany"`
	Warmup    int       `json:"warmup" yaml:"warmup"`
	Repeat    int       `json:"repeat" yaml:"repeat"`
	HasEvents bool      `json:"has_events" yaml:"has_events"`
	Results   []Result  `json:"results" yaml:"results"`
}

// NewReport starts a report with a fresh ULID run identifier.
func NewReport(howmany, warmup, repeat int, hasEvents bool) *Report {
	now := time.Now().UTC()
	return &Report{
		RunID:     ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		StartedAt: now,
		Howmany:   howmany,
		Warmup:    warmup,
		Repeat:    repeat,
		HasEvents: hasEvents,
		Results:   []Result{},
	}
}

// Add appends a result.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}
