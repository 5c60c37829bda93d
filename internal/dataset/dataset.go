// Package dataset generates the operand pairs that arithmetic kernels run over.
package dataset

import (
	"math"
	"math/rand/v2"
)

// DefaultSeed keeps repeated runs comparable.
const DefaultSeed uint64 = 42

const (
	lowerBound = 1.0
	upperBound = 100.0
)

// Float is the set of element types a dataset can hold.
type Float interface {
	~float32 | ~float64
}

// Precision labels the element type of a dataset.
type Precision int

const (
	Double Precision = iota
	Single
)

func (p Precision) String() string {
	switch p {
	case Double:
		return "double"
	case Single:
		return "float"
	default:
		return "unknown"
	}
}

// PrecisionOf reports the precision of T.
func PrecisionOf[T Float]() Precision {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Single
	default:
		return Double
	}
}

// Pair is one (a, b) operand pair.
type Pair[T Float] struct {
	A T
	B T
}

// Dataset is an ordered, read-only sequence of operand pairs.
type Dataset[T Float] struct {
	Precision Precision
	Pairs     []Pair[T]
}

// Len returns the number of pairs.
func (d Dataset[T]) Len() int {
	return len(d.Pairs)
}

// Generate draws count pairs uniformly from [1, 100) using a PCG source seeded
// with seed. The same (T, count, seed) always yields the same pairs.
func Generate[T Float](count int, seed uint64) Dataset[T] {
	ds := Dataset[T]{Precision: PrecisionOf[T]()}
	if count <= 0 {
		ds.Pairs = []Pair[T]{}
		return ds
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	pairs := make([]Pair[T], count)
	for i := range pairs {
		a := uniform[T](rng)
		b := uniform[T](rng)
		pairs[i] = Pair[T]{A: a, B: b}
	}
	ds.Pairs = pairs
	return ds
}

// uniform returns a value in [lowerBound, upperBound). Rounding into T can land
// exactly on upperBound; such draws are moved to the largest value below it.
func uniform[T Float](rng *rand.Rand) T {
	v := T(lowerBound + (upperBound-lowerBound)*rng.Float64())
	if float64(v) >= upperBound {
		return below[T](upperBound)
	}
	return v
}

func below[T Float](x float64) T {
	if PrecisionOf[T]() == Single {
		return T(math.Nextafter32(float32(x), 0))
	}
	return T(math.Nextafter(x, 0))
}
