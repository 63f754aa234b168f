package randvar

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"
)

// Operator identifies an operation of the algebra.
type Operator int

const (
	OpAdd Operator = iota + 1
	OpSub
	OpMul
	OpPow
)

// String returns the textual symbol used in derived names.
func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpPow:
		return "**"
	default:
		return "?"
	}
}

// Config controls how the algebra names and traces its results.
type Config struct {
	// Parentheses wraps every derived name, e.g. "((ξ + μ) * 3)".
	Parentheses bool

	// Logger receives debug records for every operation. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used by the package-level operators.
func DefaultConfig() Config {
	return Config{
		Parentheses: true,
	}
}

// Algebra applies the operators to operands of value type V.
//
// An Algebra holds no mutable state and is safe for concurrent use.
type Algebra[V Number] struct {
	cfg    Config
	logger *slog.Logger
}

// NewAlgebra creates an algebra with the given configuration.
func NewAlgebra[V Number](cfg Config) *Algebra[V] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Algebra[V]{cfg: cfg, logger: logger}
}

// Config returns the algebra's configuration.
func (g *Algebra[V]) Config() Config {
	return g.cfg
}

// Add returns the distribution of a + b.
func (g *Algebra[V]) Add(a, b any) (*Distribution[V], error) {
	return g.binary(OpAdd, a, b, func(x, y V) V { return x + y })
}

// Sub returns the distribution of a - b.
func (g *Algebra[V]) Sub(a, b any) (*Distribution[V], error) {
	return g.binary(OpSub, a, b, func(x, y V) V { return x - y })
}

// Mul returns the distribution of a * b.
func (g *Algebra[V]) Mul(a, b any) (*Distribution[V], error) {
	return g.binary(OpMul, a, b, func(x, y V) V { return x * y })
}

// Apply dispatches to the operator op. For OpPow, b is the exponent.
func (g *Algebra[V]) Apply(op Operator, a, b any) (*Distribution[V], error) {
	switch op {
	case OpAdd:
		return g.Add(a, b)
	case OpSub:
		return g.Sub(a, b)
	case OpMul:
		return g.Mul(a, b)
	case OpPow:
		return g.Pow(a, b)
	default:
		return nil, &UnsupportedOperationError{
			Operation: op.String(),
			Reason:    fmt.Sprintf("unknown operator %d", int(op)),
		}
	}
}

// binary casts both operands and combines them with value.
//
// Operands that are the very same distribution describe one random variable,
// so its outcomes are paired with themselves. Distinct operands are treated
// as independent.
func (g *Algebra[V]) binary(op Operator, a, b any, value ValueFunc[V]) (*Distribution[V], error) {
	left, err := Cast[V](a)
	if err != nil {
		return nil, &OperationError{Operator: op, Left: a, Right: b, Err: err}
	}
	right, err := Cast[V](b)
	if err != nil {
		return nil, &OperationError{Operator: op, Left: a, Right: b, Err: err}
	}

	name := g.name(left.Name(), op, right.Name())

	var result *Distribution[V]
	if left.Kind() == KindDistribution && right.Kind() == KindDistribution && left.dist == right.dist {
		result, err = CombineSelf(left.dist, value, name)
	} else {
		result, err = Combine(left.Distribution(), right.Distribution(), value, Independent, name)
	}
	if err != nil {
		return nil, err
	}

	g.logger.Debug("applied operator",
		"op", op.String(),
		"name", name,
		"left_kind", left.Kind().String(),
		"right_kind", right.Kind().String(),
		"size", result.Size())

	return result, nil
}

// Pow returns the distribution of a ** power.
//
// power must be an integer >= 1 (an integral float is accepted). A modulus
// is never supported. Every outcome is raised to power by repeated squaring
// and equal values are merged once at the end; power 1 keeps the pairs as
// they are. An integer outcome whose power does not fit in V yields an
// *UnsupportedOperationError.
func (g *Algebra[V]) Pow(a any, power any, modulus ...any) (*Distribution[V], error) {
	if len(modulus) > 0 {
		return nil, &UnsupportedOperationError{
			Operation: OpPow.String(),
			Reason:    "modulus argument is not supported",
		}
	}

	k, err := exponent(power)
	if err != nil {
		return nil, err
	}

	base, err := Cast[V](a)
	if err != nil {
		return nil, &OperationError{Operator: OpPow, Left: a, Right: power, Err: err}
	}

	name := g.name(base.Name(), OpPow, strconv.FormatInt(k, 10))
	d := base.Distribution()
	if k == 1 {
		return d.Rename(name), nil
	}

	var overflow []V
	result, err := Map(d, func(v V) V {
		p, ok := intPow(v, k)
		if !ok {
			overflow = append(overflow, v)
		}
		return p
	}, name)
	if err != nil {
		return nil, err
	}
	if len(overflow) > 0 {
		return nil, &UnsupportedOperationError{
			Operation: OpPow.String(),
			Reason:    fmt.Sprintf("%v ** %d overflows %T", overflow[0], k, overflow[0]),
		}
	}

	g.logger.Debug("applied operator",
		"op", OpPow.String(),
		"name", name,
		"power", k,
		"size", result.Size())

	return result, nil
}

// intPow returns v ** k for k >= 1 in O(log k) multiplications. ok is false
// when V is an integer type and the result wrapped around.
func intPow[V Number](v V, k int64) (V, bool) {
	integer := V(1)/2 == 0
	mul := func(x, y V) (V, bool) {
		r := x * y
		return r, !integer || x == 0 || r/x == y
	}

	result := V(1)
	ok := true
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			if result, ok = mul(result, v); !ok {
				return result, false
			}
		}
		if k > 1 {
			if v, ok = mul(v, v); !ok {
				return v, false
			}
		}
	}
	return result, true
}

// exponent validates a power argument.
func exponent(power any) (int64, error) {
	unsupported := func(reason string) error {
		return &UnsupportedOperationError{Operation: OpPow.String(), Reason: reason}
	}

	var k int64
	rv := reflect.ValueOf(power)
	switch {
	case !rv.IsValid():
		return 0, unsupported("missing exponent")
	case rv.CanInt():
		k = rv.Int()
	case rv.CanUint():
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, unsupported(fmt.Sprintf("exponent %d is too large", u))
		}
		k = int64(u)
	case rv.CanFloat():
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, unsupported(fmt.Sprintf("fractional exponent %v", f))
		}
		if f > math.MaxInt64 {
			return 0, unsupported(fmt.Sprintf("exponent %v is too large", f))
		}
		k = int64(f)
	default:
		return 0, unsupported(fmt.Sprintf("non-integer exponent %v of type %T", power, power))
	}

	if k < 1 {
		return 0, unsupported(fmt.Sprintf("exponent %d must be a positive integer", k))
	}
	return k, nil
}

func (g *Algebra[V]) name(left string, op Operator, right string) string {
	name := left + " " + op.String() + " " + right
	if g.cfg.Parentheses {
		return "(" + name + ")"
	}
	return name
}

// Add returns a + b using the default configuration.
func Add[V Number](a, b any) (*Distribution[V], error) {
	return NewAlgebra[V](DefaultConfig()).Add(a, b)
}

// Sub returns a - b using the default configuration.
func Sub[V Number](a, b any) (*Distribution[V], error) {
	return NewAlgebra[V](DefaultConfig()).Sub(a, b)
}

// Mul returns a * b using the default configuration.
func Mul[V Number](a, b any) (*Distribution[V], error) {
	return NewAlgebra[V](DefaultConfig()).Mul(a, b)
}

// Pow returns a ** power using the default configuration.
func Pow[V Number](a any, power any, modulus ...any) (*Distribution[V], error) {
	return NewAlgebra[V](DefaultConfig()).Pow(a, power, modulus...)
}
