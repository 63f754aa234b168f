package randvar

import (
	"fmt"
	"math"
	"slices"
)

// CDF returns the distribution function F(x) = P(X ≤ x).
func CDF[V Number](d *Distribution[V], x V) float64 {
	total := 0.0
	for _, p := range d.items() {
		if p.Value <= x {
			total += p.Probability
		}
	}
	return math.Min(total, 1)
}

// Quantile returns the smallest value whose cumulative probability reaches q.
//
// Accumulated probabilities are compared with Tolerance slack, so
// Quantile(fair die, 0.5) is 3 even though six sixths rarely add up exactly.
// q outside [0, 1] yields an *UndefinedStatisticError, a nil d an error
// wrapping ErrNilDistribution.
func Quantile[V Number](d *Distribution[V], q float64) (V, error) {
	var zero V
	if d == nil {
		return zero, fmt.Errorf("quantile: %w", ErrNilDistribution)
	}
	if !(q >= 0 && q <= 1) {
		return zero, &UndefinedStatisticError{
			Statistic: "quantile",
			Reason:    fmt.Sprintf("level %v is not in [0,1]", q),
		}
	}

	canonical := mergeDuplicates(slices.Clone(d.pairs))
	cumulative := 0.0
	last := zero
	for _, p := range canonical {
		if p.Probability == 0 {
			continue
		}
		cumulative += p.Probability
		last = p.Value
		if cumulative >= q-Tolerance {
			return p.Value, nil
		}
	}

	// Only reachable through rounding when q is 1.
	return last, nil
}

// Median returns the 0.5 quantile.
func Median[V Number](d *Distribution[V]) (V, error) {
	return Quantile(d, 0.5)
}

// Mode returns the most probable value. Ties go to the smallest value; a
// nil distribution yields the zero value.
func Mode[V Number](d *Distribution[V]) V {
	canonical := mergeDuplicates(slices.Clone(d.items()))
	if len(canonical) == 0 {
		var zero V
		return zero
	}
	best := canonical[0]
	for _, p := range canonical[1:] {
		if p.Probability > best.Probability+Tolerance {
			best = p
		}
	}
	return best.Value
}

// Summary is a statistical snapshot of one distribution.
type Summary[V Number] struct {
	Name     string
	Size     int // pairs as constructed
	Distinct int // distinct values
	Min      V
	Max      V
	Mean     float64
	Variance float64
	StdDev   float64
	Median   V
	Mode     V
}

// Describe computes the Summary of d.
func Describe[V Number](d *Distribution[V]) (Summary[V], error) {
	variance, err := Variance(d)
	if err != nil {
		return Summary[V]{}, err
	}
	median, err := Median(d)
	if err != nil {
		return Summary[V]{}, err
	}

	support := d.Support()
	canonical := d.Canonical()

	s := Summary[V]{
		Name:     d.Name(),
		Size:     d.Size(),
		Distinct: canonical.Size(),
		Mean:     ExpectedValue(d),
		Variance: variance,
		StdDev:   math.Sqrt(math.Max(variance, 0)),
		Median:   median,
		Mode:     Mode(d),
	}
	if len(support) > 0 {
		s.Min = support[0]
		s.Max = support[len(support)-1]
	}
	return s, nil
}
