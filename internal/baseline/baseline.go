// Package baseline compares a run against a previously written JSON report.
package baseline

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"

	"github.com/torosent/arithbench/internal/output"
)

// ErrInvalidReport is returned when a baseline file is not a JSON report.
var ErrInvalidReport = errors.New("baseline is not a valid JSON report")

// Baseline holds ns/element figures of a previous run keyed by benchmark name.
// Benchmarks whose figure was null in the report are absent.
type Baseline struct {
	RunID        string
	NsPerElement map[string]float64
}

// Load reads a report written with --format json.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	return Parse(data)
}

// Parse extracts the baseline figures from report bytes.
func Parse(data []byte) (*Baseline, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidReport
	}
	results := gjson.GetBytes(data, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("%w: missing results array", ErrInvalidReport)
	}

	b := &Baseline{
		RunID:        gjson.GetBytes(data, "run_id").String(),
		NsPerElement: make(map[string]float64),
	}
	results.ForEach(func(_, r gjson.Result) bool {
		name := r.Get("name").String()
		ns := r.Get("ns_per_element")
		if name == "" || ns.Type != gjson.Number {
			return true
		}
		b.NsPerElement[name] = ns.Float()
		return true
	})
	return b, nil
}

// Delta is the change of one benchmark relative to the baseline.
type Delta struct {
	Name     string
	Current  float64
	Baseline float64
	// Percent is (current-baseline)/baseline*100.
	Percent float64
	New     bool
	// Unavailable is set when the current run has no ns/element figure.
	Unavailable bool
}

// Compare pairs current results with baseline figures in result order.
func Compare(base *Baseline, results []output.Result) []Delta {
	deltas := make([]Delta, 0, len(results))
	for _, r := range results {
		d := Delta{Name: r.Name}
		if r.NsPerElement == nil {
			d.Unavailable = true
			deltas = append(deltas, d)
			continue
		}
		d.Current = *r.NsPerElement
		prev, ok := base.NsPerElement[r.Name]
		switch {
		case !ok:
			d.New = true
		case prev == 0:
			d.Baseline = prev
		default:
			d.Baseline = prev
			d.Percent = (d.Current - prev) / prev * 100
		}
		deltas = append(deltas, d)
	}
	return deltas
}

// PrintComparison writes one line per benchmark.
func PrintComparison(w io.Writer, base *Baseline, deltas []Delta) {
	fmt.Fprintln(w)
	if base.RunID != "" {
		fmt.Fprintf(w, "Baseline comparison (run %s):\n", base.RunID)
	} else {
		fmt.Fprintln(w, "Baseline comparison:")
	}
	for _, d := range deltas {
		switch {
		case d.Unavailable:
			fmt.Fprintf(w, "  %-32s %10s\n", d.Name, "n/a")
		case d.New:
			fmt.Fprintf(w, "  %-32s %8.2f ns  new\n", d.Name, d.Current)
		default:
			fmt.Fprintf(w, "  %-32s %8.2f ns  (baseline %8.2f ns, %+.1f%%)\n", d.Name, d.Current, d.Baseline, d.Percent)
		}
	}
}
