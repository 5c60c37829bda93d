// Package transform holds the element-wise arithmetic kernels measured by the
// harness. Every kernel writes one result per operand pair and contains no
// data-dependent branches, so counted branches reflect loop overhead only.
package transform

import (
	"fmt"
	"math"

	"github.com/torosent/arithbench/internal/dataset"
)

// Func applies a kernel over pairs, writing into results. len(results) must be at
// least len(pairs).
type Func[T dataset.Float] func(pairs []dataset.Pair[T], results []T)

// Op names one kernel.
type Op int

const (
	CopyFirst Op = iota
	Add
	Subtract
	Multiply
	Divide
	SquareRoot
)

var opNames = [...]string{
	CopyFirst:  "copy_first",
	Add:        "add",
	Subtract:   "subtract",
	Multiply:   "multiply",
	Divide:     "divide",
	SquareRoot: "square_root",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("op(%d)", int(o))
	}
	return opNames[o]
}

// All returns every op in report order.
func All() []Op {
	return []Op{CopyFirst, Add, Subtract, Multiply, Divide, SquareRoot}
}

// Parse resolves an op by name.
func Parse(name string) (Op, error) {
	for i, n := range opNames {
		if n == name {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transform %q", name)
}

// Kernel returns the implementation of op for element type T.
func Kernel[T dataset.Float](op Op) (Func[T], error) {
	switch op {
	case CopyFirst:
		return copyFirst[T], nil
	case Add:
		return add[T], nil
	case Subtract:
		return subtract[T], nil
	case Multiply:
		return multiply[T], nil
	case Divide:
		return divide[T], nil
	case SquareRoot:
		return squareRoot[T], nil
	default:
		return nil, fmt.Errorf("unknown transform %s", op)
	}
}

// Each kernel reslices results once so the loop body carries no bounds check.

func copyFirst[T dataset.Float](pairs []dataset.Pair[T], results []T) {
	results = results[:len(pairs)]
	for i, p := range pairs {
		results[i] = p.A
	}
}

func add[T dataset.Float](pairs []dataset.Pair[T], results []T) {
	results = results[:len(pairs)]
	for i, p := range pairs {
		results[i] = p.A + p.B
	}
}

func subtract[T dataset.Float](pairs []dataset.Pair[T], results []T) {
	results = results[:len(pairs)]
	for i, p := range pairs {
		results[i] = p.A - p.B
	}
}

func multiply[T dataset.Float](pairs []dataset.Pair[T], results []T) {
	results = results[:len(pairs)]
	for i, p := range pairs {
		results[i] = p.A * p.B
	}
}

func divide[T dataset.Float](pairs []dataset.Pair[T], results []T) {
	results = results[:len(pairs)]
	for i, p := range pairs {
		results[i] = p.A / p.B
	}
}

func squareRoot[T dataset.Float](pairs []dataset.Pair[T], results []T) {
	results = results[:len(pairs)]
	for i, p := range pairs {
		results[i] = T(math.Sqrt(float64(p.A)))
	}
}

// Sum reduces a result buffer in order.
func Sum[T dataset.Float](results []T) T {
	var total T
	for _, v := range results {
		total += v
	}
	return total
}
