package calc

import (
	"fmt"
	"maps"
	"slices"

	"github.com/alexshd/randvar"
)

type function struct {
	arity int
	call  func(args []value) (float64, error)
}

// functions maps the names usable in expressions to their statistics.
var functions = map[string]function{
	"E": {1, func(args []value) (float64, error) {
		return randvar.ExpectedValue(args[0].distribution()), nil
	}},
	"D":   {1, variance},
	"Var": {1, variance},
	"Std": {1, func(args []value) (float64, error) {
		return randvar.StdDev(args[0].distribution())
	}},
	"Cov": {2, func(args []value) (float64, error) {
		return randvar.Covariance(args[0].distribution(), args[1].distribution())
	}},
	"r": {2, func(args []value) (float64, error) {
		return randvar.Correlation(args[0].distribution(), args[1].distribution())
	}},
	"Median": {1, func(args []value) (float64, error) {
		return randvar.Median(args[0].distribution())
	}},
	"Mode": {1, func(args []value) (float64, error) {
		return randvar.Mode(args[0].distribution()), nil
	}},
	"Quantile": {2, func(args []value) (float64, error) {
		q, err := args[1].number()
		if err != nil {
			return 0, err
		}
		return randvar.Quantile(args[0].distribution(), q)
	}},
	"P": {2, func(args []value) (float64, error) {
		x, err := args[1].number()
		if err != nil {
			return 0, err
		}
		return args[0].distribution().Probability(x), nil
	}},
	"F": {2, func(args []value) (float64, error) {
		x, err := args[1].number()
		if err != nil {
			return 0, err
		}
		return randvar.CDF(args[0].distribution(), x), nil
	}},
}

func variance(args []value) (float64, error) {
	return randvar.Variance(args[0].distribution())
}

// number returns the scalar held by v.
func (v value) number() (float64, error) {
	if v.dist != nil {
		return 0, fmt.Errorf("%w: %s is a distribution, want a number", ErrArgument, v.dist.Name())
	}
	return v.scalar, nil
}

// Functions returns the names of the functions usable in expressions, sorted.
func Functions() []string {
	return slices.Sorted(maps.Keys(functions))
}

// keywords are words the expression syntax reserves.
var keywords = []string{
	"true", "false", "nil", "not", "and", "or", "in",
	"matches", "contains", "startsWith", "endsWith", "let", "if", "else",
}

// IsReserved reports whether name cannot be used as a variable name.
func IsReserved(name string) bool {
	_, fn := functions[name]
	return fn || slices.Contains(keywords, name)
}
