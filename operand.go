package randvar

import (
	"fmt"
	"reflect"
)

// OperandKind tags the variant held by an Operand.
type OperandKind int

const (
	KindDistribution OperandKind = iota + 1
	KindScalar
)

func (k OperandKind) String() string {
	switch k {
	case KindDistribution:
		return "distribution"
	case KindScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// Operand is one side of a binary operation: a distribution or a scalar.
type Operand[V Number] struct {
	kind   OperandKind
	dist   *Distribution[V]
	scalar V
}

// DistOperand wraps a distribution.
func DistOperand[V Number](d *Distribution[V]) Operand[V] {
	return Operand[V]{kind: KindDistribution, dist: d}
}

// ScalarOperand wraps a plain number.
func ScalarOperand[V Number](v V) Operand[V] {
	return Operand[V]{kind: KindScalar, scalar: v}
}

// Kind returns the variant held by o.
func (o Operand[V]) Kind() OperandKind {
	return o.kind
}

// Name returns the display name of the operand. Scalars are named by their
// textual form.
func (o Operand[V]) Name() string {
	if o.kind == KindScalar {
		return fmt.Sprint(o.scalar)
	}
	return o.dist.Name()
}

// Distribution returns the operand as a distribution. A scalar becomes a
// degenerate distribution: its value with probability 1.
func (o Operand[V]) Distribution() *Distribution[V] {
	if o.kind == KindScalar {
		return degenerate(o.scalar, o.Name())
	}
	return o.dist
}

// Cast resolves x into an Operand.
//
// Accepted are *Distribution[V], Operand[V] and any Go integer or float
// kind that converts to V without loss. Everything else yields an
// *OperandCastError.
func Cast[V Number](x any) (Operand[V], error) {
	switch v := x.(type) {
	case Operand[V]:
		if v.kind == KindDistribution && v.dist == nil {
			return Operand[V]{}, &OperandCastError{Operand: x}
		}
		return v, nil
	case *Distribution[V]:
		if v == nil {
			return Operand[V]{}, &OperandCastError{Operand: x}
		}
		return DistOperand(v), nil
	case V:
		return ScalarOperand(v), nil
	}

	rv := reflect.ValueOf(x)
	if !rv.IsValid() {
		return Operand[V]{}, &OperandCastError{Operand: x}
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		v := V(i)
		if float64(v) != float64(i) {
			return Operand[V]{}, &OperandCastError{Operand: x}
		}
		return ScalarOperand(v), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		v := V(u)
		if float64(v) != float64(u) {
			return Operand[V]{}, &OperandCastError{Operand: x}
		}
		return ScalarOperand(v), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		v := V(f)
		if float64(v) != f {
			return Operand[V]{}, &OperandCastError{Operand: x}
		}
		return ScalarOperand(v), nil
	default:
		return Operand[V]{}, &OperandCastError{Operand: x}
	}
}

// isNilPointer reports whether v holds a typed nil pointer.
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
