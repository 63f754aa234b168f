package randvar

import (
	"cmp"
	"fmt"
	"slices"
)

// ValueFunc combines one outcome of each operand into an outcome of the result.
type ValueFunc[V Number] func(a, b V) V

// ProbabilityFunc combines the probabilities of the two outcomes.
type ProbabilityFunc func(p, q float64) float64

// Independent is the joint probability of two independent outcomes.
func Independent(p, q float64) float64 {
	return p * q
}

// Combine returns the distribution of value(A, B) for independent A and B.
//
// Every pair of outcomes (a-major order) is combined, outcomes with equal
// resulting values are merged by summing their probabilities, and the result
// is sorted by value. The result is validated like any other distribution.
// A nil prob defaults to Independent.
func Combine[V Number](a, b *Distribution[V], value ValueFunc[V], prob ProbabilityFunc, name string) (*Distribution[V], error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("combine %q: %w", name, ErrNilDistribution)
	}
	if prob == nil {
		prob = Independent
	}

	pairs := make([]Pair[V], 0, len(a.pairs)*len(b.pairs))
	for _, x := range a.pairs {
		for _, y := range b.pairs {
			pairs = append(pairs, Pair[V]{
				Value:       value(x.Value, y.Value),
				Probability: prob(x.Probability, y.Probability),
			})
		}
	}

	return New(mergeDuplicates(pairs), name)
}

// CombineSelf returns the distribution of value(X, X): every outcome is
// paired with itself rather than with every outcome of an independent copy.
func CombineSelf[V Number](d *Distribution[V], value ValueFunc[V], name string) (*Distribution[V], error) {
	if d == nil {
		return nil, fmt.Errorf("combine %q: %w", name, ErrNilDistribution)
	}

	pairs := make([]Pair[V], len(d.pairs))
	for i, x := range d.pairs {
		pairs[i] = Pair[V]{
			Value:       value(x.Value, x.Value),
			Probability: x.Probability,
		}
	}
	return New(mergeDuplicates(pairs), name)
}

// Map returns the distribution of fn(X), merging outcomes that fn maps to
// the same value.
func Map[V, W Number](d *Distribution[V], fn func(V) W, name string) (*Distribution[W], error) {
	if d == nil {
		return nil, fmt.Errorf("map %q: %w", name, ErrNilDistribution)
	}

	pairs := make([]Pair[W], len(d.pairs))
	for i, x := range d.pairs {
		pairs[i] = Pair[W]{
			Value:       fn(x.Value),
			Probability: x.Probability,
		}
	}
	return New(mergeDuplicates(pairs), name)
}

// mergeDuplicates sorts pairs by value and sums the probabilities of equal
// values. The input slice is reordered in place.
func mergeDuplicates[V Number](pairs []Pair[V]) []Pair[V] {
	slices.SortStableFunc(pairs, func(x, y Pair[V]) int {
		return cmp.Compare(x.Value, y.Value)
	})

	merged := make([]Pair[V], 0, len(pairs))
	for _, p := range pairs {
		last := len(merged) - 1
		if last >= 0 && cmp.Compare(merged[last].Value, p.Value) == 0 {
			merged[last].Probability += p.Probability
			continue
		}
		merged = append(merged, p)
	}
	return merged
}
