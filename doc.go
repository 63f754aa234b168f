// Package randvar provides an algebra over finite discrete random variables.
//
// # Overview
//
// A Distribution is a list of (value, probability) pairs with a display name.
// It is validated when constructed and never modified afterwards: every
// probability lies in [0, 1] and the probabilities sum to 1 within 1e-7.
//
// Distributions combine into new distributions:
//
//	ksi, _ := randvar.EvenlyRange(1, 7, "ξ")                               // fair die
//	mu, _ := randvar.Arrange([]int{0, 1}, []float64{2.0 / 3, 1.0 / 3}, "μ")
//
//	alg := randvar.NewAlgebra[int](randvar.DefaultConfig())
//	twice, _ := alg.Mul(2, ksi)         // (2 * ξ)
//	sum, _ := alg.Add(twice, mu)        // ((2 * ξ) + μ)
//	shifted, _ := alg.Add(sum, 3)       // (((2 * ξ) + μ) + 3)
//	fmt.Println(shifted)
//
// # The Combination Engine
//
// Every binary operator is built on one algorithm. For independent A (n
// outcomes) and B (m outcomes) and a value function f:
//
//	P(f(A, B) = z) = Σ_{f(a, b) = z} P(A = a)·P(B = b)
//
// The n·m pairs are generated, grouped by exact value equality, summed and
// sorted by value. Grouping uses ==, so values should be integers or other
// exactly representable numbers.
//
// When both operands are the same Distribution they describe one variable,
// and each outcome is paired only with itself:
//
//	ξ = {-1, 0, 1} uniform
//	ξ * ξ  = {0: 1/3, 1: 2/3}          // the square of ξ
//	ξ * ξ' = {-1: 2/9, 0: 5/9, 1: 2/9} // ξ' = ξ.Rename("ξ'"), an independent copy
//
// # Operands
//
// Operators accept any of:
//   - *Distribution[V]
//   - a Go integer or float that converts to V without loss (a scalar)
//   - Operand[V]
//
// Scalars become degenerate distributions (one value, probability 1). Anything
// else fails with an *OperationError wrapping an *OperandCastError.
//
// # Statistics
//
//	E(X)      = Σ x·p                      ExpectedValue
//	D(X)      = E(X·X) - E(X)²             Variance
//	          = E((X - E(X))²)             CentralVariance
//	Cov(A, B) = E(A·B) - E(A)·E(B)         Covariance
//	r(A, B)   = Cov(A, B) / √(D(A)·D(B))   Correlation
//
// plus CDF, Quantile, Median, Mode and Describe.
//
// # Testing
//
// The assertion helpers take testing.TB:
//
//	func TestDie(t *testing.T) {
//	    die, _ := randvar.EvenlyRange(1, 7, "ξ")
//	    cfg := randvar.DefaultAssertionConfig()
//
//	    randvar.AssertValid(t, die)
//	    randvar.AssertExpectedValue(t, die, 3.5, cfg)
//	    randvar.AssertVarianceIdentity(t, die, cfg)
//	}
//
// # See Also
//
//   - calc/ - evaluate expressions such as "2*ksi + mu + 3"
//   - model/ - YAML files of named distributions
//   - cmd/randvar/ - command line front-end
//   - examples/ - working code samples
package randvar
