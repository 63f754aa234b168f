package randvar

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Arrange builds a distribution from parallel value and probability slices.
func Arrange[V Number](values []V, probabilities []float64, name string) (*Distribution[V], error) {
	if len(values) != len(probabilities) {
		return nil, fmt.Errorf("arrange %q: %d values, %d probabilities: %w",
			name, len(values), len(probabilities), ErrLengthMismatch)
	}

	pairs := make([]Pair[V], len(values))
	for i := range values {
		pairs[i] = Pair[V]{Value: values[i], Probability: probabilities[i]}
	}
	return New(pairs, name)
}

// Range assigns probability to every integer of [start, stop) taken with
// step. A negative step counts down from start towards stop.
func Range(start, stop, step int, probability float64, name string) (*Distribution[int], error) {
	values, err := rangeValues(start, stop, step)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", name, err)
	}

	pairs := make([]Pair[int], len(values))
	for i, v := range values {
		pairs[i] = Pair[int]{Value: v, Probability: probability}
	}
	return New(pairs, name)
}

// EvenlyRange is the uniform distribution over the integers of [start, stop).
// EvenlyRange(1, 7, "ξ") is a fair die.
func EvenlyRange(start, stop int, name string) (*Distribution[int], error) {
	return EvenlyRangeStep(start, stop, 1, name)
}

// EvenlyRangeStep is the uniform distribution over the integers of
// [start, stop) taken with step.
func EvenlyRangeStep(start, stop, step int, name string) (*Distribution[int], error) {
	values, err := rangeValues(start, stop, step)
	if err != nil {
		return nil, fmt.Errorf("evenly range %q: %w", name, err)
	}
	return Range(start, stop, step, 1/float64(len(values)), name)
}

func rangeValues(start, stop, step int) ([]int, error) {
	if step == 0 {
		return nil, ErrZeroStep
	}

	var values []int
	if step > 0 {
		for v := start; v < stop; v += step {
			values = append(values, v)
			if v > math.MaxInt-step {
				break
			}
		}
	} else {
		for v := start; v > stop; v += step {
			values = append(values, v)
			if v < math.MinInt-step {
				break
			}
		}
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("[%d, %d) step %d: %w", start, stop, step, ErrEmptyRange)
	}
	return values, nil
}

// Fraction is an exact rational probability.
type Fraction struct {
	Numerator   int64
	Denominator int64
}

// Frac is shorthand for Fraction{n, d}.
func Frac(n, d int64) Fraction {
	return Fraction{Numerator: n, Denominator: d}
}

// Rat returns the fraction as a big.Rat.
func (f Fraction) Rat() (*big.Rat, error) {
	if f.Denominator == 0 {
		return nil, fmt.Errorf("%d/0: %w", f.Numerator, ErrZeroDenominator)
	}
	return big.NewRat(f.Numerator, f.Denominator), nil
}

// Float64 returns the nearest float64 to the fraction.
func (f Fraction) Float64() (float64, error) {
	r, err := f.Rat()
	if err != nil {
		return 0, err
	}
	v, _ := r.Float64()
	return v, nil
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

// FracRange builds a distribution from values and rational probabilities.
func FracRange[V Number](values []V, probabilities []Fraction, name string) (*Distribution[V], error) {
	if len(values) != len(probabilities) {
		return nil, fmt.Errorf("fracrange %q: %d values, %d probabilities: %w",
			name, len(values), len(probabilities), ErrLengthMismatch)
	}

	probs := make([]float64, len(probabilities))
	for i, f := range probabilities {
		p, err := f.Float64()
		if err != nil {
			return nil, fmt.Errorf("fracrange %q: probability %d: %w", name, i, err)
		}
		probs[i] = p
	}
	return Arrange(values, probs, name)
}

// ParseProbability parses a decimal ("0.25") or a fraction ("1/4").
func ParseProbability(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok && strings.TrimSpace(den) == "0" {
		return 0, fmt.Errorf("probability %q: %s/0: %w", s, strings.TrimSpace(num), ErrZeroDenominator)
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("probability %q: not a decimal or fraction", s)
	}
	v, _ := r.Float64()
	return v, nil
}

// Degenerate is the distribution of a constant: v with probability 1.
func Degenerate[V Number](v V, name string) *Distribution[V] {
	return degenerate(v, name)
}

func degenerate[V Number](v V, name string) *Distribution[V] {
	return &Distribution[V]{
		pairs: []Pair[V]{{Value: v, Probability: maxProbability}},
		name:  name,
	}
}
