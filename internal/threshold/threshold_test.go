package threshold

import (
	"strings"
	"testing"

	"github.com/torosent/arithbench/internal/output"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Threshold
		wantError bool
	}{
		{
			name:  "valid ns per element threshold",
			input: "double_add:ns < 2",
			want: Threshold{
				Benchmark: "double_add",
				Aggregate: "ns",
				Operator:  "<",
				Value:     2,
				Raw:       "double_add:ns < 2",
			},
		},
		{
			name:  "wildcard benchmark",
			input: "*:ipc >= 0.5",
			want: Threshold{
				Benchmark: "*",
				Aggregate: "ipc",
				Operator:  ">=",
				Value:     0.5,
				Raw:       "*:ipc >= 0.5",
			},
		},
		{
			name:  "aggregate with underscore",
			input: "float_square_root:branch_misses <= 0.01",
			want: Threshold{
				Benchmark: "float_square_root",
				Aggregate: "branch_misses",
				Operator:  "<=",
				Value:     0.01,
				Raw:       "float_square_root:branch_misses <= 0.01",
			},
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: "  double_divide:p99_ns<5000000  ",
			want: Threshold{
				Benchmark: "double_divide",
				Aggregate: "p99_ns",
				Operator:  "<",
				Value:     5000000,
				Raw:       "double_divide:p99_ns<5000000",
			},
		},
		{
			name:  "exponent value",
			input: "float_divide:p99_ns < 5e6",
			want: Threshold{
				Benchmark: "float_divide",
				Aggregate: "p99_ns",
				Operator:  "<",
				Value:     5e6,
				Raw:       "float_divide:p99_ns < 5e6",
			},
		},
		{
			name:  "signed exponent value",
			input: "double_add:mean_ns <= 1.5E+3",
			want: Threshold{
				Benchmark: "double_add",
				Aggregate: "mean_ns",
				Operator:  "<=",
				Value:     1500,
				Raw:       "double_add:mean_ns <= 1.5E+3",
			},
		},
		{
			name:      "unknown transform",
			input:     "double_modulo:ns < 2",
			wantError: true,
		},
		{
			name:      "unknown precision",
			input:     "half_add:ns < 2",
			wantError: true,
		},
		{
			name:      "empty string",
			input:     "",
			wantError: true,
		},
		{
			name:      "invalid format - missing operator",
			input:     "double_add:ns 2",
			wantError: true,
		},
		{
			name:      "invalid aggregate",
			input:     "double_add:p95 < 2",
			wantError: true,
		},
		{
			name:      "invalid operator",
			input:     "double_add:ns << 2",
			wantError: true,
		},
		{
			name:      "invalid value - not a number",
			input:     "double_add:ns < abc",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantError {
				t.Errorf("Parse() error = %v, wantError %v", err, tt.wantError)
				return
			}
			if !tt.wantError && got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseMultiple(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		wantCount int
		wantError bool
	}{
		{
			name: "multiple valid thresholds",
			input: []string{
				"double_add:ns < 2",
				"float_divide:cycles < 10",
				"*:ipc > 0.1",
			},
			wantCount: 3,
		},
		{
			name:      "empty slice",
			input:     []string{},
			wantCount: 0,
		},
		{
			name: "one valid, one invalid",
			input: []string{
				"double_add:ns < 2",
				"invalid threshold",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMultiple(tt.input)
			if (err != nil) != tt.wantError {
				t.Errorf("ParseMultiple() error = %v, wantError %v", err, tt.wantError)
				return
			}
			if !tt.wantError && len(got) != tt.wantCount {
				t.Errorf("ParseMultiple() returned %d thresholds, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }

func sampleResults() []output.Result {
	return []output.Result{
		{
			Name:                   "double_add",
			NsPerElement:           ptr(1.5),
			InstructionsPerElement: ptr(4),
			CyclesPerElement:       ptr(2),
			BranchesPerElement:     ptr(0.25),
			BranchMissesPerElement: ptr(0),
			InstructionsPerCycle:   ptr(2),
			MeanNs:                 1_600_000,
			P50Ns:                  1_550_000,
			P99Ns:                  2_000_000,
		},
		{
			Name:                 "double_divide",
			NsPerElement:         ptr(4),
			CyclesPerElement:     ptr(8),
			InstructionsPerCycle: ptr(0.5),
		},
		{
			Name: "float_add",
		},
	}
}

func TestEvaluator(t *testing.T) {
	tests := []struct {
		name       string
		thresholds []string
		wantPass   []bool
	}{
		{
			name: "all thresholds pass",
			thresholds: []string{
				"double_add:ns < 2",
				"double_add:p99_ns <= 2000000",
				"double_divide:ipc == 0.5",
			},
			wantPass: []bool{true, true, true},
		},
		{
			name: "some thresholds fail",
			thresholds: []string{
				"double_add:cycles > 3",
				"double_divide:ns < 5",
			},
			wantPass: []bool{false, true},
		},
		{
			name:       "unknown benchmark fails",
			thresholds: []string{"float_multiply:ns < 100"},
			wantPass:   []bool{false},
		},
		{
			name:       "unavailable figure fails",
			thresholds: []string{"float_add:ns < 100"},
			wantPass:   []bool{false},
		},
		{
			name:       "wildcard expands to every result",
			thresholds: []string{"*:mean_ns >= 0"},
			wantPass:   []bool{true, true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thresholds, err := ParseMultiple(tt.thresholds)
			if err != nil {
				t.Fatalf("ParseMultiple() error = %v", err)
			}

			results := NewEvaluator(thresholds).Evaluate(sampleResults())
			if len(results) != len(tt.wantPass) {
				t.Fatalf("Evaluate() returned %d results, want %d", len(results), len(tt.wantPass))
			}
			for i, r := range results {
				if r.Pass != tt.wantPass[i] {
					t.Errorf("result[%d] (%s) Pass = %v, want %v", i, r.Message, r.Pass, tt.wantPass[i])
				}
			}
		})
	}
}

func TestEvaluatorNoThresholds(t *testing.T) {
	if got := NewEvaluator(nil).Evaluate(sampleResults()); got != nil {
		t.Errorf("Evaluate() = %v, want nil", got)
	}
}

func TestFailed(t *testing.T) {
	thresholds, err := ParseMultiple([]string{"double_add:ns < 2", "double_divide:ns < 1"})
	if err != nil {
		t.Fatalf("ParseMultiple() error = %v", err)
	}
	results := NewEvaluator(thresholds).Evaluate(sampleResults())
	if !Failed(results) {
		t.Error("Failed() = false, want true")
	}
	if Failed(results[:1]) {
		t.Error("Failed() = true for passing results")
	}
	if !strings.Contains(results[1].Message, "double_divide") {
		t.Errorf("message %q does not name the benchmark", results[1].Message)
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		actual   float64
		operator string
		expected float64
		want     bool
	}{
		{1, "<", 2, true},
		{2, "<", 2, false},
		{2, "<=", 2, true},
		{3, ">", 2, true},
		{2, ">=", 2, true},
		{2, "==", 2, true},
		{2.1, "==", 2, false},
		{1, "!=", 2, false},
	}

	for _, tt := range tests {
		if got := compareValues(tt.actual, tt.operator, tt.expected); got != tt.want {
			t.Errorf("compareValues(%v, %q, %v) = %v, want %v", tt.actual, tt.operator, tt.expected, got, tt.want)
		}
	}
}
