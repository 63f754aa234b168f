package randvar

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by the factories and the engine.
var (
	ErrLengthMismatch  = errors.New("values and probabilities differ in length")
	ErrEmptyRange      = errors.New("range produces no outcomes")
	ErrZeroStep        = errors.New("range step must not be zero")
	ErrZeroDenominator = errors.New("fraction denominator must not be zero")
	ErrNilDistribution = errors.New("nil distribution")
)

// ProbabilityRangeError reports a single probability outside [Min, Max].
type ProbabilityRangeError struct {
	Probability float64
	Value       string // textual form of the outcome carrying the probability
	Min, Max    float64
}

func (e *ProbabilityRangeError) Error() string {
	return fmt.Sprintf("probability %v of outcome %s was not in range [%v,%v]",
		e.Probability, e.Value, e.Min, e.Max)
}

// ProbabilitySumError reports a total probability that misses Expected by
// more than Tolerance.
type ProbabilitySumError struct {
	Sum       float64
	Expected  float64
	Tolerance float64
}

func (e *ProbabilitySumError) Error() string {
	return fmt.Sprintf("probability sum %v did not match %v (tolerance %g)",
		e.Sum, e.Expected, e.Tolerance)
}

// OperandCastError reports a value that is neither a distribution nor a
// numeric scalar.
type OperandCastError struct {
	Operand any
}

func (e *OperandCastError) Error() string {
	return fmt.Sprintf("cannot cast %s of type %T to a distribution", repr(e.Operand), e.Operand)
}

// OperationError wraps the failure of a binary operation with the operator
// and both operands.
type OperationError struct {
	Operator    Operator
	Left, Right any
	Err         error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("cannot apply %s between %s of type %T and %s of type %T: %v",
		e.Operator, repr(e.Left), e.Left, repr(e.Right), e.Right, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// UnsupportedOperationError reports an operation the algebra refuses to
// approximate, e.g. a fractional exponent.
type UnsupportedOperationError struct {
	Operation string
	Reason    string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %s: %s", e.Operation, e.Reason)
}

// UndefinedStatisticError reports a statistic that has no value for the
// given distributions.
type UndefinedStatisticError struct {
	Statistic string
	Reason    string
}

func (e *UndefinedStatisticError) Error() string {
	return fmt.Sprintf("%s is undefined: %s", e.Statistic, e.Reason)
}

// namer is satisfied by every Distribution instantiation.
type namer interface {
	Name() string
}

// repr renders an operand for error messages. Distributions are shown by
// name, everything else with %v.
func repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case namer:
		if isNilPointer(x) {
			return "<nil>"
		}
		return fmt.Sprintf("%q", x.Name())
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
