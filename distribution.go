package randvar

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Tolerance is the absolute deviation from 1 allowed for the sum of all
// probabilities of a distribution.
const Tolerance = 1e-7

const (
	minProbability = 0.0
	maxProbability = 1.0
)

// Number is the set of outcome value types. Values are grouped by exact
// equality, so integer kinds are the natural choice.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Pair is one outcome of a distribution and its probability.
type Pair[V Number] struct {
	Value       V
	Probability float64
}

// Distribution is a finite discrete random variable.
//
// A Distribution is validated on construction and never modified afterwards;
// every operation returns a new one, so values can be shared freely between
// goroutines.
type Distribution[V Number] struct {
	pairs []Pair[V]
	name  string
}

// New validates pairs and returns a distribution that owns a copy of them.
//
// Outcome values may repeat; they are merged only by the combination engine.
func New[V Number](pairs []Pair[V], name string) (*Distribution[V], error) {
	if err := validate(pairs); err != nil {
		return nil, err
	}
	return &Distribution[V]{
		pairs: slices.Clone(pairs),
		name:  name,
	}, nil
}

// MustNew is like New but panics on invalid pairs.
func MustNew[V Number](pairs []Pair[V], name string) *Distribution[V] {
	d, err := New(pairs, name)
	if err != nil {
		panic(fmt.Sprintf("randvar: %v", err))
	}
	return d
}

func validate[V Number](pairs []Pair[V]) error {
	sum := 0.0
	for _, p := range pairs {
		// Written as a negation so NaN is rejected too.
		if !(p.Probability >= minProbability && p.Probability <= maxProbability) {
			return &ProbabilityRangeError{
				Probability: p.Probability,
				Value:       fmt.Sprint(p.Value),
				Min:         minProbability,
				Max:         maxProbability,
			}
		}
		sum += p.Probability
	}

	if math.Abs(sum-maxProbability) > Tolerance {
		return &ProbabilitySumError{
			Sum:       sum,
			Expected:  maxProbability,
			Tolerance: Tolerance,
		}
	}
	return nil
}

// Name returns the display name.
func (d *Distribution[V]) Name() string {
	if d == nil {
		return "<nil>"
	}
	return d.name
}

// items returns the pairs of d; a nil distribution has none.
func (d *Distribution[V]) items() []Pair[V] {
	if d == nil {
		return nil
	}
	return d.pairs
}

// Size returns the number of pairs, duplicates included.
func (d *Distribution[V]) Size() int {
	return len(d.items())
}

// Pairs returns a copy of the pairs in construction order.
func (d *Distribution[V]) Pairs() []Pair[V] {
	return slices.Clone(d.items())
}

// Values returns the outcome values in construction order.
func (d *Distribution[V]) Values() []V {
	values := make([]V, d.Size())
	for i, p := range d.items() {
		values[i] = p.Value
	}
	return values
}

// Probability returns P(X = v), summing over repeated outcomes.
func (d *Distribution[V]) Probability(v V) float64 {
	total := 0.0
	for _, p := range d.items() {
		if p.Value == v {
			total += p.Probability
		}
	}
	return total
}

// Total returns the sum of all probabilities.
func (d *Distribution[V]) Total() float64 {
	total := 0.0
	for _, p := range d.items() {
		total += p.Probability
	}
	return total
}

// Support returns the distinct values with positive probability, ascending.
func (d *Distribution[V]) Support() []V {
	canonical := mergeDuplicates(slices.Clone(d.items()))
	support := make([]V, 0, len(canonical))
	for _, p := range canonical {
		if p.Probability > 0 {
			support = append(support, p.Value)
		}
	}
	return support
}

// Rename returns a distribution with the same pairs and a new name.
func (d *Distribution[V]) Rename(name string) *Distribution[V] {
	if d == nil {
		return nil
	}
	return &Distribution[V]{
		pairs: slices.Clone(d.pairs),
		name:  name,
	}
}

// Canonical returns the distribution with duplicate values merged and pairs
// sorted by value.
func (d *Distribution[V]) Canonical() *Distribution[V] {
	if d == nil {
		return nil
	}
	return &Distribution[V]{
		pairs: mergeDuplicates(slices.Clone(d.pairs)),
		name:  d.name,
	}
}

// Equal reports whether both distributions assign the same probability to
// every value, within tol. Names and pair order are ignored.
func (d *Distribution[V]) Equal(other *Distribution[V], tol float64) bool {
	if d == nil || other == nil {
		return d == other
	}
	a := mergeDuplicates(slices.Clone(d.pairs))
	b := mergeDuplicates(slices.Clone(other.pairs))
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if cmp.Compare(a[i].Value, b[i].Value) != 0 {
			return false
		}
		if math.Abs(a[i].Probability-b[i].Probability) > tol {
			return false
		}
	}
	return true
}

// String renders the distribution as a grid table.
func (d *Distribution[V]) String() string {
	return Render(d, DefaultRenderOptions())
}

// GoString returns a constructor-style form of the distribution.
func (d *Distribution[V]) GoString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "randvar.New([]randvar.Pair[%T]{", *new(V))
	for i, p := range d.items() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "{%v, %v}", p.Value, p.Probability)
	}
	fmt.Fprintf(&b, "}, %q)", d.Name())
	return b.String()
}
