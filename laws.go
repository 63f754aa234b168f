package randvar

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// Law names an algebraic property of a binary operator.
type Law string

const (
	LawCommutative Law = "Commutative" // a ∘ b = b ∘ a
	LawAssociative Law = "Associative" // (a ∘ b) ∘ c = a ∘ (b ∘ c)
	LawIdentity    Law = "Identity"    // e ∘ a = a ∘ e = a
)

// LawVerified records which laws an operator satisfied on a set of samples.
type LawVerified struct {
	Operator Operator
	Laws     []Law  // laws that held for every sample combination
	Failed   []Law  // laws with at least one counterexample
	Samples  int    // number of sample distributions
	Detail   string // first counterexample, if any
	TestedAt time.Time
}

// Holds reports whether law is among the verified laws.
func (v LawVerified) Holds(law Law) bool {
	return slices.Contains(v.Laws, law)
}

// LawChecker verifies operator laws at runtime and keeps a registry of the
// results.
type LawChecker[V Number] struct {
	algebra   *Algebra[V]
	tolerance float64

	mu       sync.RWMutex
	verified map[Operator]LawVerified
}

// NewLawChecker creates a checker with an empty registry.
func NewLawChecker[V Number](algebra *Algebra[V]) *LawChecker[V] {
	if algebra == nil {
		algebra = NewAlgebra[V](DefaultConfig())
	}
	return &LawChecker[V]{
		algebra:   algebra,
		tolerance: 1e-9,
		verified:  make(map[Operator]LawVerified),
	}
}

// Verify checks every law for op over all pairs and triples of samples,
// registers the outcome and returns it. Errors are reserved for operations
// that could not be computed; a violated law is reported in Failed.
func (c *LawChecker[V]) Verify(op Operator, samples ...*Distribution[V]) (LawVerified, error) {
	if op == OpPow {
		return LawVerified{}, &UnsupportedOperationError{
			Operation: op.String(),
			Reason:    "laws are defined for distribution-valued binary operators only",
		}
	}
	if len(samples) == 0 {
		return LawVerified{}, fmt.Errorf("verify %s: no samples", op)
	}

	result := LawVerified{
		Operator: op,
		Samples:  len(samples),
		TestedAt: time.Now(),
	}

	checks := []struct {
		law   Law
		check func([]*Distribution[V]) (string, error)
	}{
		{LawCommutative, c.commutative(op)},
		{LawAssociative, c.associative(op)},
		{LawIdentity, c.identity(op)},
	}
	for _, chk := range checks {
		detail, err := chk.check(samples)
		if err != nil {
			return LawVerified{}, fmt.Errorf("verify %s %s: %w", op, chk.law, err)
		}
		if detail != "" {
			result.Failed = append(result.Failed, chk.law)
			if result.Detail == "" {
				result.Detail = detail
			}
			continue
		}
		result.Laws = append(result.Laws, chk.law)
	}

	c.Register(result)
	return result, nil
}

func (c *LawChecker[V]) commutative(op Operator) func([]*Distribution[V]) (string, error) {
	return func(samples []*Distribution[V]) (string, error) {
		for _, a := range samples {
			for _, b := range samples {
				b = independentCopy(b)
				ab, err := c.algebra.Apply(op, a, b)
				if err != nil {
					return "", err
				}
				ba, err := c.algebra.Apply(op, b, a)
				if err != nil {
					return "", err
				}
				if !ab.Equal(ba, c.tolerance) {
					return fmt.Sprintf("%s ≠ %s", ab.Name(), ba.Name()), nil
				}
			}
		}
		return "", nil
	}
}

func (c *LawChecker[V]) associative(op Operator) func([]*Distribution[V]) (string, error) {
	return func(samples []*Distribution[V]) (string, error) {
		for _, a := range samples {
			for _, b := range samples {
				for _, x := range samples {
					b, x := independentCopy(b), independentCopy(x)
					ab, err := c.algebra.Apply(op, a, b)
					if err != nil {
						return "", err
					}
					left, err := c.algebra.Apply(op, ab, x)
					if err != nil {
						return "", err
					}
					bx, err := c.algebra.Apply(op, b, x)
					if err != nil {
						return "", err
					}
					right, err := c.algebra.Apply(op, a, bx)
					if err != nil {
						return "", err
					}
					if !left.Equal(right, c.tolerance) {
						return fmt.Sprintf("%s ≠ %s", left.Name(), right.Name()), nil
					}
				}
			}
		}
		return "", nil
	}
}

// independentCopy gives an operand its own identity so that repeated samples
// are combined as independent variables rather than paired with themselves.
func independentCopy[V Number](d *Distribution[V]) *Distribution[V] {
	return d.Rename(d.Name())
}

func (c *LawChecker[V]) identity(op Operator) func([]*Distribution[V]) (string, error) {
	return func(samples []*Distribution[V]) (string, error) {
		var e V
		if op == OpMul {
			e = 1
		}
		for _, a := range samples {
			left, err := c.algebra.Apply(op, e, a)
			if err != nil {
				return "", err
			}
			right, err := c.algebra.Apply(op, a, e)
			if err != nil {
				return "", err
			}
			if !left.Equal(a, c.tolerance) {
				return fmt.Sprintf("%s ≠ %s", left.Name(), a.Name()), nil
			}
			if !right.Equal(a, c.tolerance) {
				return fmt.Sprintf("%s ≠ %s", right.Name(), a.Name()), nil
			}
		}
		return "", nil
	}
}

// Register adds a verification result to the registry, replacing any
// earlier result for the same operator.
func (c *LawChecker[V]) Register(v LawVerified) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verified[v.Operator] = v
}

// IsVerified returns the registered result for op.
func (c *LawChecker[V]) IsVerified(op Operator) (LawVerified, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.verified[op]
	return v, ok
}

// Require returns an error unless op has been verified to satisfy every law.
func (c *LawChecker[V]) Require(op Operator, laws ...Law) error {
	verified, ok := c.IsVerified(op)
	if !ok {
		return fmt.Errorf("operator %s has not been verified", op)
	}
	for _, law := range laws {
		if !verified.Holds(law) {
			return fmt.Errorf("operator %s missing required law: %s (has: %v)", op, law, verified.Laws)
		}
	}
	return nil
}
