package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/torosent/arithbench/internal/metrics"
)

const notAvailable = "n/a"

// PrintResult writes the text block for one measurement.
func PrintResult(w io.Writer, precision string, elements int, name string, s metrics.Summary) {
	writeResult(w, newResult(precision, elements, name, s))
}

// writeResult writes the text block for an already derived result. Figures that
// cannot be computed are printed as n/a.
func writeResult(w io.Writer, r Result) {
	unit := r.Precision
	fmt.Fprintf(w, " %32s ", r.Name)
	fmt.Fprintf(w, " %8s ns/%s ", figure(r.NsPerElement), unit)
	fmt.Fprintf(w, " %8s instructions/%s ", figure(r.InstructionsPerElement), unit)
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %32s  %8s cycles/%s  \n", "", figure(r.CyclesPerElement), unit)
	fmt.Fprintf(w, " %32s  %8s branches/%s  \n", "", figure(r.BranchesPerElement), unit)
	fmt.Fprintf(w, " %32s  %8s branch miss/%s  \n", "", figure(r.BranchMissesPerElement), unit)
	fmt.Fprintf(w, " %32s  %8s instructions/cycle \n", "", figure(r.InstructionsPerCycle))
}

// PrintSeparator writes the gap between precision blocks.
func PrintSeparator(w io.Writer) {
	fmt.Fprint(w, "\n\n")
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, report *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

func figure(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", *v)
}
