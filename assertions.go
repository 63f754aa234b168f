package randvar

import (
	"fmt"
	"math"
	"testing"
)

// AssertionConfig contains tolerances for distribution assertions.
type AssertionConfig struct {
	// Maximum absolute difference between two probabilities
	ProbabilityTolerance float64

	// Maximum absolute difference between two statistics
	StatisticTolerance float64
}

// DefaultAssertionConfig returns tolerances suited to float64 probabilities
// built from thirds and sixths.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		ProbabilityTolerance: 1e-9,
		StatisticTolerance:   1e-9,
	}
}

// AssertValid verifies both construction invariants still hold for d.
//
// Mathematical property:
//
//	∀p: 0 ≤ p ≤ 1 and |Σp - 1| ≤ 1e-7
func AssertValid[V Number](t testing.TB, d *Distribution[V]) {
	t.Helper()

	if d == nil {
		t.Fatalf("Distribution is nil")
	}

	for _, p := range d.Pairs() {
		if p.Probability < 0 || p.Probability > 1 {
			t.Errorf("Probability out of range: P(%v) = %v", p.Value, p.Probability)
		}
	}

	if total := d.Total(); math.Abs(total-1) > Tolerance {
		t.Errorf("Probabilities of %q sum to %.12f (tolerance: %g)", d.Name(), total, Tolerance)
	}
}

// AssertPairs verifies d assigns exactly the expected probability to every
// expected value and nothing to any other value.
func AssertPairs[V Number](t testing.TB, d *Distribution[V], want []Pair[V], cfg AssertionConfig) {
	t.Helper()

	expected, err := New(want, "expected")
	if err != nil {
		t.Fatalf("Expected pairs are not a distribution: %v", err)
	}

	if d.Equal(expected, cfg.ProbabilityTolerance) {
		t.Logf("✓ %s matches %d expected outcomes", d.Name(), len(want))
		return
	}

	var failures []string
	for _, p := range expected.Canonical().Pairs() {
		if got := d.Probability(p.Value); math.Abs(got-p.Probability) > cfg.ProbabilityTolerance {
			failures = append(failures, fmt.Sprintf("  P(%v) = %v (want %v)", p.Value, got, p.Probability))
		}
	}
	for _, v := range d.Support() {
		if expected.Probability(v) == 0 {
			failures = append(failures, fmt.Sprintf("  unexpected outcome %v with P = %v", v, d.Probability(v)))
		}
	}
	t.Errorf("Distribution %q differs from expected:\n%v", d.Name(), failures)
}

// AssertExpectedValue verifies E(d) within the statistic tolerance.
func AssertExpectedValue[V Number](t testing.TB, d *Distribution[V], want float64, cfg AssertionConfig) {
	t.Helper()

	got := ExpectedValue(d)
	if math.Abs(got-want) > cfg.StatisticTolerance {
		t.Errorf("E(%s) = %.12f, want %.12f", d.Name(), got, want)
		return
	}

	t.Logf("✓ E(%s) = %v", d.Name(), got)
}

// AssertVarianceIdentity verifies that both variance forms agree.
//
// Mathematical property:
//
//	E(X²) - E(X)² = E((X - E(X))²)
func AssertVarianceIdentity[V Number](t testing.TB, d *Distribution[V], cfg AssertionConfig) {
	t.Helper()

	raw, err := Variance(d)
	if err != nil {
		t.Fatalf("Variance(%s) failed: %v", d.Name(), err)
	}
	central, err := CentralVariance(d)
	if err != nil {
		t.Fatalf("CentralVariance(%s) failed: %v", d.Name(), err)
	}

	if math.Abs(raw-central) > cfg.StatisticTolerance {
		t.Errorf("Variance forms disagree for %s: E(X²)-E(X)² = %.12f, E((X-EX)²) = %.12f",
			d.Name(), raw, central)
		return
	}

	t.Logf("✓ D(%s) = %.6f (both forms)", d.Name(), raw)
}

// AssertLaws verifies op satisfies every listed law over the samples.
func AssertLaws[V Number](t testing.TB, checker *LawChecker[V], op Operator, laws []Law, samples ...*Distribution[V]) {
	t.Helper()

	verified, err := checker.Verify(op, samples...)
	if err != nil {
		t.Fatalf("Failed to verify %s: %v", op, err)
	}

	for _, law := range laws {
		if !verified.Holds(law) {
			t.Errorf("Operator %s violates %s: %s", op, law, verified.Detail)
		}
	}

	t.Logf("✓ Operator %s: %v over %d samples", op, verified.Laws, verified.Samples)
}

// PrintAnalysis outputs the distribution and its statistics to the test log.
func PrintAnalysis[V Number](t testing.TB, d *Distribution[V]) {
	t.Helper()

	s, err := Describe(d)
	if err != nil {
		t.Fatalf("Failed to describe %s: %v", d.Name(), err)
	}

	t.Logf("\n=== %s ===", s.Name)
	t.Logf("\n%s", Render(d, RenderOptions{Precision: 4, HideName: true}))
	t.Logf("  outcomes   = %d (%d distinct)", s.Size, s.Distinct)
	t.Logf("  range      = [%v, %v]", s.Min, s.Max)
	t.Logf("  E          = %.6f", s.Mean)
	t.Logf("  D          = %.6f", s.Variance)
	t.Logf("  σ          = %.6f", s.StdDev)
	t.Logf("  median     = %v", s.Median)
	t.Logf("  mode       = %v", s.Mode)
}
