package randvar

import (
	"fmt"
	"math"
)

// ExpectedValue returns E(X) = Σ x·p. A nil distribution has no outcomes and
// yields 0.
func ExpectedValue[V Number](d *Distribution[V]) float64 {
	sum := 0.0
	for _, p := range d.items() {
		sum += float64(p.Value) * p.Probability
	}
	return sum
}

// Variance returns D(X) = E(X·X) - E(X)².
//
// X·X is computed by the combination engine, pairing every outcome with
// itself.
func Variance[V Number](d *Distribution[V]) (float64, error) {
	square, err := Mul[V](d, d)
	if err != nil {
		return 0, fmt.Errorf("variance of %q: %w", d.Name(), err)
	}
	mean := ExpectedValue(d)
	return ExpectedValue(square) - mean*mean, nil
}

// CentralVariance returns E((X - E(X))²). It agrees with Variance within
// floating point error.
func CentralVariance[V Number](d *Distribution[V]) (float64, error) {
	mean := ExpectedValue(d)
	deviation, err := Map(d, func(v V) float64 { return float64(v) - mean }, d.Name()+" - E")
	if err != nil {
		return 0, fmt.Errorf("central variance of %q: %w", d.Name(), err)
	}
	square, err := Pow[float64](deviation, 2)
	if err != nil {
		return 0, fmt.Errorf("central variance of %q: %w", d.Name(), err)
	}
	return ExpectedValue(square), nil
}

// StdDev returns the square root of the variance.
func StdDev[V Number](d *Distribution[V]) (float64, error) {
	v, err := Variance(d)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(math.Max(v, 0)), nil
}

// Covariance returns Cov(A, B) = E(A·B) - E(A)·E(B).
//
// Distinct distributions are independent, so their covariance is zero up to
// rounding; Covariance(d, d) equals Variance(d).
func Covariance[V Number](a, b *Distribution[V]) (float64, error) {
	product, err := Mul[V](a, b)
	if err != nil {
		return 0, fmt.Errorf("covariance: %w", err)
	}
	return ExpectedValue(product) - ExpectedValue(a)*ExpectedValue(b), nil
}

// Correlation returns Cov(A, B) / √(D(A)·D(B)).
//
// A variance that vanishes relative to E(X²) on either side makes the
// correlation undefined and yields an *UndefinedStatisticError. The
// threshold scales with the values, so small-valued variables still
// correlate.
func Correlation[V Number](a, b *Distribution[V]) (float64, error) {
	cov, err := Covariance(a, b)
	if err != nil {
		return 0, err
	}
	varA, err := Variance(a)
	if err != nil {
		return 0, err
	}
	varB, err := Variance(b)
	if err != nil {
		return 0, err
	}

	for _, side := range []struct {
		name     string
		variance float64
		mean     float64
	}{{a.Name(), varA, ExpectedValue(a)}, {b.Name(), varB, ExpectedValue(b)}} {
		secondMoment := side.variance + side.mean*side.mean
		if side.variance <= Tolerance*secondMoment {
			return 0, &UndefinedStatisticError{
				Statistic: "correlation",
				Reason:    fmt.Sprintf("variance of %q is zero", side.name),
			}
		}
	}

	return cov / math.Sqrt(varA*varB), nil
}
