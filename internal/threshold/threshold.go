package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/torosent/arithbench/internal/dataset"
	"github.com/torosent/arithbench/internal/output"
	"github.com/torosent/arithbench/internal/transform"
)

// AllBenchmarks matches every result in a report.
const AllBenchmarks = "*"

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Benchmark string  // e.g., "double_add", or "*" for every result
	Aggregate string  // e.g., "ns", "cycles", "ipc"
	Operator  string  // e.g., "<", "<=", ">", ">=", "=="
	Value     float64 // The threshold value to compare against
	Raw       string  // Threshold string as given, for display
}

// Result represents the outcome of evaluating a threshold against one benchmark.
type Result struct {
	Threshold Threshold
	Benchmark string
	Actual    float64
	Pass      bool
	Message   string
}

// Evaluator evaluates thresholds against benchmark results.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate checks all thresholds against the provided results. A threshold
// naming a benchmark that is not present fails.
func (e *Evaluator) Evaluate(results []output.Result) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	out := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		if t.Benchmark == AllBenchmarks {
			for _, r := range results {
				out = append(out, evaluateOne(t, r))
			}
			continue
		}
		r, ok := find(results, t.Benchmark)
		if !ok {
			out = append(out, Result{
				Threshold: t,
				Benchmark: t.Benchmark,
				Message:   fmt.Sprintf("✗ %s: no such benchmark", t.Raw),
			})
			continue
		}
		out = append(out, evaluateOne(t, r))
	}
	return out
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return true
		}
	}
	return false
}

func find(results []output.Result, name string) (output.Result, bool) {
	for _, r := range results {
		if r.Name == name {
			return r, true
		}
	}
	return output.Result{}, false
}

func evaluateOne(t Threshold, r output.Result) Result {
	actual, err := extractValue(t.Aggregate, r)
	if err != nil {
		return Result{
			Threshold: t,
			Benchmark: r.Name,
			Message:   fmt.Sprintf("✗ %s [%s]: error: %v", t.Raw, r.Name, err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}

	message := fmt.Sprintf("%s %s [%s]: %.2f %s %.2f", status, t.Raw, r.Name, actual, t.Operator, t.Value)
	return Result{
		Threshold: t,
		Benchmark: r.Name,
		Actual:    actual,
		Pass:      pass,
		Message:   message,
	}
}

var thresholdPattern = regexp.MustCompile(`^([a-z_]+|\*):([a-z0-9_]+)\s*([<>=!]+)\s*([0-9.]+(?:[eE][+-]?[0-9]+)?)$`)

// Parse parses a threshold string into a Threshold struct.
// Supported formats:
// - "double_add:ns < 2"           (best-sample nanoseconds per element)
// - "float_divide:p99_ns < 5e6"   (p99 of whole-buffer elapsed ns)
// - "*:ipc >= 1"                  (every benchmark)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected format: benchmark:aggregate operator value, e.g., 'double_add:ns < 2')", s)
	}

	benchmark := matches[1]
	aggregate := matches[2]
	operator := matches[3]
	valueStr := matches[4]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	if err := validateBenchmark(benchmark); err != nil {
		return Threshold{}, err
	}

	if !isValidAggregate(aggregate) {
		return Threshold{}, fmt.Errorf("unsupported aggregate: %q (supported: %s)", aggregate, strings.Join(validAggregates, ", "))
	}

	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}

	return Threshold{
		Benchmark: benchmark,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errors []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errors = append(errors, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errors, "; "))
	}

	return result, nil
}

// validateBenchmark accepts "*" or "<precision>_<transform>".
func validateBenchmark(name string) error {
	if name == AllBenchmarks {
		return nil
	}
	for _, precision := range []dataset.Precision{dataset.Double, dataset.Single} {
		op, ok := strings.CutPrefix(name, precision.String()+"_")
		if !ok {
			continue
		}
		if _, err := transform.Parse(op); err != nil {
			return fmt.Errorf("unsupported benchmark %q: %v", name, err)
		}
		return nil
	}
	return fmt.Errorf("unsupported benchmark %q (expected double_<transform>, float_<transform> or *)", name)
}

var validAggregates = []string{"ns", "mean_ns", "p50_ns", "p99_ns", "instructions", "cycles", "branches", "branch_misses", "ipc"}

func isValidAggregate(aggregate string) bool {
	for _, v := range validAggregates {
		if aggregate == v {
			return true
		}
	}
	return false
}

func isValidOperator(operator string) bool {
	valid := []string{"<", "<=", ">", ">=", "=="}
	for _, v := range valid {
		if operator == v {
			return true
		}
	}
	return false
}

func extractValue(aggregate string, r output.Result) (float64, error) {
	switch aggregate {
	case "ns":
		return deref(aggregate, r.NsPerElement)
	case "mean_ns":
		return r.MeanNs, nil
	case "p50_ns":
		return r.P50Ns, nil
	case "p99_ns":
		return r.P99Ns, nil
	case "instructions":
		return deref(aggregate, r.InstructionsPerElement)
	case "cycles":
		return deref(aggregate, r.CyclesPerElement)
	case "branches":
		return deref(aggregate, r.BranchesPerElement)
	case "branch_misses":
		return deref(aggregate, r.BranchMissesPerElement)
	case "ipc":
		return deref(aggregate, r.InstructionsPerCycle)
	default:
		return 0, fmt.Errorf("unsupported aggregate %q", aggregate)
	}
}

func deref(aggregate string, v *float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%s is not available", aggregate)
	}
	return *v, nil
}

func compareValues(actual float64, operator string, expected float64) bool {
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
