// Package calc evaluates arithmetic expressions over named distributions.
//
// Expressions use the expr-lang syntax. Identifiers name distributions,
// numeric literals are scalars, and the operators + - * ** ^ act on
// distributions through a randvar.Algebra:
//
//	ev := calc.New(alg, map[string]*randvar.Distribution[float64]{"ksi": ksi, "mu": mu})
//	res, err := ev.Eval("2*ksi + mu + 3")
//	res, err = ev.Eval("E(ksi**2) - E(ksi)**2")
//
// An operator with the same identifier on both sides pairs every outcome
// with itself, so ksi*ksi is the square of ksi and ksi - ksi is 0. A product
// of one identifier, such as ksi*ksi*ksi or ksi**2*ksi, folds into a single
// power. Any other repeated use is independent: ksi*ksi - ksi*ksi is the
// difference of two independent squares.
package calc

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/alexshd/randvar"
)

// Limits on accepted expressions.
const (
	MaxExpressionLength = 1000
	MaxNodes            = 200
)

var (
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrUnknownFunction   = errors.New("unknown function")
	ErrUnsupportedSyntax = errors.New("unsupported syntax")
	ErrArity             = errors.New("wrong number of arguments")
	ErrArgument          = errors.New("invalid argument")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrTooComplex        = errors.New("expression too complex")
)

// Dist is the distribution type the evaluator works with.
type Dist = randvar.Distribution[float64]

// Result is the value of an expression: a distribution, or a plain number
// when the expression reduces to one (e.g. "E(ksi)").
type Result struct {
	Expression   string
	Distribution *Dist
	Scalar       float64
}

// IsScalar reports whether the result is a plain number.
func (r Result) IsScalar() bool {
	return r.Distribution == nil
}

func (r Result) String() string {
	if r.IsScalar() {
		return strconv.FormatFloat(r.Scalar, 'g', -1, 64)
	}
	return r.Distribution.String()
}

// Evaluator evaluates expressions against a fixed set of variables.
//
// Parsed expressions are cached. An Evaluator is safe for concurrent use.
type Evaluator struct {
	alg    *randvar.Algebra[float64]
	vars   map[string]*Dist
	logger *slog.Logger

	cacheMu sync.RWMutex
	trees   map[string]*parser.Tree
}

// New creates an evaluator. A nil alg uses randvar.DefaultConfig().
func New(alg *randvar.Algebra[float64], vars map[string]*Dist) *Evaluator {
	if alg == nil {
		alg = randvar.NewAlgebra[float64](randvar.DefaultConfig())
	}
	logger := alg.Config().Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		alg:    alg,
		vars:   maps.Clone(vars),
		logger: logger,
		trees:  make(map[string]*parser.Tree),
	}
}

// Variables returns the variable names, sorted.
func (e *Evaluator) Variables() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// Eval parses and evaluates expression.
func (e *Evaluator) Eval(expression string) (Result, error) {
	if len(expression) > MaxExpressionLength {
		return Result{}, fmt.Errorf("eval: expression too long (max %d chars): %d chars",
			MaxExpressionLength, len(expression))
	}

	tree, err := e.parse(expression)
	if err != nil {
		return Result{}, fmt.Errorf("eval %q: %w", expression, err)
	}

	v, err := e.eval(tree.Node)
	if err != nil {
		return Result{}, fmt.Errorf("eval %q: %w", expression, err)
	}

	e.logger.Debug("evaluated expression", "expression", expression, "scalar", v.dist == nil)
	return Result{Expression: expression, Distribution: v.dist, Scalar: v.scalar}, nil
}

// parse returns the cached tree for expression, parsing it on first use.
func (e *Evaluator) parse(expression string) (*parser.Tree, error) {
	e.cacheMu.RLock()
	tree, found := e.trees[expression]
	e.cacheMu.RUnlock()
	if found {
		return tree, nil
	}

	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, err
	}

	counter := &nodeCounter{}
	ast.Walk(&tree.Node, counter)
	if counter.n > MaxNodes {
		return nil, fmt.Errorf("%d nodes (max %d): %w", counter.n, MaxNodes, ErrTooComplex)
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.trees[expression] = tree
	return tree, nil
}

type nodeCounter struct {
	n int
}

func (c *nodeCounter) Visit(*ast.Node) {
	c.n++
}

// value is an intermediate result: a distribution, or a scalar when dist is nil.
type value struct {
	dist   *Dist
	scalar float64
}

func scalar(f float64) value {
	return value{scalar: f}
}

// operand returns v in the form accepted by randvar.Algebra.
func (v value) operand() any {
	if v.dist != nil {
		return v.dist
	}
	return v.scalar
}

// distribution returns v as a distribution; scalars become degenerate.
func (v value) distribution() *Dist {
	if v.dist != nil {
		return v.dist
	}
	return randvar.Degenerate(v.scalar, strconv.FormatFloat(v.scalar, 'g', -1, 64))
}

func (e *Evaluator) eval(node ast.Node) (value, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return scalar(float64(n.Value)), nil
	case *ast.FloatNode:
		return scalar(n.Value), nil
	case *ast.IdentifierNode:
		d, ok := e.vars[n.Value]
		if !ok {
			return value{}, fmt.Errorf("%w %q", ErrUnknownVariable, n.Value)
		}
		return value{dist: d}, nil
	case *ast.UnaryNode:
		return e.unary(n)
	case *ast.BinaryNode:
		return e.binary(n)
	case *ast.CallNode:
		return e.call(n)
	default:
		return value{}, fmt.Errorf("%w: %s", ErrUnsupportedSyntax, node)
	}
}

func (e *Evaluator) unary(n *ast.UnaryNode) (value, error) {
	v, err := e.eval(n.Node)
	if err != nil {
		return value{}, err
	}

	switch n.Operator {
	case "+":
		return v, nil
	case "-":
		if v.dist == nil {
			return scalar(-v.scalar), nil
		}
		d, err := e.alg.Mul(-1.0, v.dist)
		return value{dist: d}, err
	default:
		return value{}, fmt.Errorf("%w: unary %s", ErrUnsupportedSyntax, n.Operator)
	}
}

func (e *Evaluator) binary(n *ast.BinaryNode) (value, error) {
	if id, k, ok := monomial(n); ok && n.Operator == "*" {
		d, ok := e.vars[id]
		if !ok {
			return value{}, fmt.Errorf("%w %q", ErrUnknownVariable, id)
		}
		p, err := e.alg.Pow(d, k)
		if err != nil {
			return value{}, err
		}
		return value{dist: p}, nil
	}

	left, err := e.eval(n.Left)
	if err != nil {
		return value{}, err
	}
	right, err := e.eval(n.Right)
	if err != nil {
		return value{}, err
	}

	if left.dist == nil && right.dist == nil {
		return arithmetic(n.Operator, left.scalar, right.scalar)
	}

	var d *Dist
	switch n.Operator {
	case "+":
		d, err = e.alg.Add(left.operand(), right.operand())
	case "-":
		d, err = e.alg.Sub(left.operand(), right.operand())
	case "*":
		d, err = e.alg.Mul(left.operand(), right.operand())
	case "**", "^":
		if right.dist != nil {
			return value{}, &randvar.UnsupportedOperationError{
				Operation: randvar.OpPow.String(),
				Reason:    fmt.Sprintf("exponent %s is a distribution", right.dist.Name()),
			}
		}
		d, err = e.alg.Pow(left.operand(), right.scalar)
	default:
		return value{}, &randvar.UnsupportedOperationError{
			Operation: n.Operator,
			Reason:    "not defined for distributions",
		}
	}
	if err != nil {
		return value{}, err
	}
	return value{dist: d}, nil
}

// monomial reports whether node is a product of one identifier with
// positive integer powers, e.g. ksi*ksi**2, and returns the total exponent.
func monomial(node ast.Node) (string, int64, bool) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return n.Value, 1, true
	case *ast.BinaryNode:
		switch n.Operator {
		case "*":
			left, i, ok := monomial(n.Left)
			if !ok {
				return "", 0, false
			}
			right, j, ok := monomial(n.Right)
			if !ok || left != right {
				return "", 0, false
			}
			return left, i + j, true
		case "**", "^":
			exp, ok := n.Right.(*ast.IntegerNode)
			if !ok || exp.Value < 1 {
				return "", 0, false
			}
			id, i, ok := monomial(n.Left)
			if !ok || i > math.MaxInt64/int64(exp.Value) {
				return "", 0, false
			}
			return id, i * int64(exp.Value), true
		}
	}
	return "", 0, false
}

func arithmetic(op string, a, b float64) (value, error) {
	switch op {
	case "+":
		return scalar(a + b), nil
	case "-":
		return scalar(a - b), nil
	case "*":
		return scalar(a * b), nil
	case "/":
		if b == 0 {
			return value{}, ErrDivisionByZero
		}
		return scalar(a / b), nil
	case "**", "^":
		return scalar(math.Pow(a, b)), nil
	default:
		return value{}, fmt.Errorf("%w: operator %s", ErrUnsupportedSyntax, op)
	}
}

func (e *Evaluator) call(n *ast.CallNode) (value, error) {
	callee, ok := n.Callee.(*ast.IdentifierNode)
	if !ok {
		return value{}, fmt.Errorf("%w: call of %s", ErrUnsupportedSyntax, n.Callee)
	}
	fn, ok := functions[callee.Value]
	if !ok {
		return value{}, fmt.Errorf("%w %q", ErrUnknownFunction, callee.Value)
	}
	if len(n.Arguments) != fn.arity {
		return value{}, fmt.Errorf("%s: %w: got %d, want %d", callee.Value, ErrArity, len(n.Arguments), fn.arity)
	}

	args := make([]value, len(n.Arguments))
	for i, arg := range n.Arguments {
		v, err := e.eval(arg)
		if err != nil {
			return value{}, err
		}
		args[i] = v
	}

	f, err := fn.call(args)
	if err != nil {
		return value{}, fmt.Errorf("%s: %w", callee.Value, err)
	}
	return scalar(f), nil
}
