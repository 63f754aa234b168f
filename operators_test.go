package randvar

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thirds(t *testing.T) *Distribution[int] {
	t.Helper()
	xi, err := Arrange([]int{-1, 0, 1}, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, "ξ")
	require.NoError(t, err)
	return xi
}

func TestMul_SameVariableSquares(t *testing.T) {
	xi := thirds(t)

	square, err := Mul[int](xi, xi)
	require.NoError(t, err)

	AssertPairs(t, square, []Pair[int]{{0, 1.0 / 3}, {1, 2.0 / 3}}, DefaultAssertionConfig())
	assert.Equal(t, "(ξ * ξ)", square.Name())
}

func TestMul_IndependentCopy(t *testing.T) {
	xi := thirds(t)
	copyXi := xi.Rename("ξ'")

	product, err := Mul[int](xi, copyXi)
	require.NoError(t, err)

	AssertPairs(t, product, []Pair[int]{{-1, 2.0 / 9}, {0, 5.0 / 9}, {1, 2.0 / 9}}, DefaultAssertionConfig())
}

func TestOperators_ScalarCoercion(t *testing.T) {
	ksi, err := EvenlyRange(1, 7, "ξ")
	require.NoError(t, err)
	mu, err := Arrange([]int{0, 1}, []float64{2.0 / 3, 1.0 / 3}, "μ")
	require.NoError(t, err)

	alg := NewAlgebra[int](DefaultConfig())

	twice, err := alg.Mul(2, ksi)
	require.NoError(t, err)
	sum, err := alg.Add(twice, mu)
	require.NoError(t, err)
	result, err := alg.Add(sum, 3)
	require.NoError(t, err)

	AssertValid(t, result)
	assert.Equal(t, "(((2 * ξ) + μ) + 3)", result.Name())
	assert.Equal(t, 12, result.Size(), "2ξ+3 ∈ {5,7,...,15}, +μ fills the odd gaps")
	AssertExpectedValue(t, result, 2*3.5+1.0/3+3, DefaultAssertionConfig())

	t.Logf("\n%s", result)
}

func TestOperators_ScalarOnEitherSide(t *testing.T) {
	coin := MustNew([]Pair[int]{{0, 0.5}, {1, 0.5}}, "c")

	left, err := Sub[int](10, coin)
	require.NoError(t, err)
	right, err := Sub[int](coin, 10)
	require.NoError(t, err)

	assert.Equal(t, []int{9, 10}, left.Values())
	assert.Equal(t, "(10 - c)", left.Name())
	assert.Equal(t, []int{-10, -9}, right.Values())
	assert.Equal(t, "(c - 10)", right.Name())
}

func TestOperators_ScalarConversions(t *testing.T) {
	coin := MustNew([]Pair[float64]{{0, 0.5}, {1, 0.5}}, "c")

	for _, scalar := range []any{int8(2), uint16(2), int64(2), float32(2), 2.0, 2} {
		got, err := Add[float64](coin, scalar)
		require.NoError(t, err, "scalar %T", scalar)
		assert.Equal(t, []float64{2, 3}, got.Values())
	}
}

func TestOperators_LossyScalarRejected(t *testing.T) {
	coin := MustNew([]Pair[int]{{0, 0.5}, {1, 0.5}}, "c")

	_, err := Add[int](coin, 2.5)

	var castErr *OperandCastError
	require.True(t, errors.As(err, &castErr), "2.5 is not an int: %v", err)
}

func TestOperators_InvalidOperand(t *testing.T) {
	ksi, err := EvenlyRange(1, 7, "ξ")
	require.NoError(t, err)

	tests := []struct {
		name    string
		operand any
	}{
		{"string", "seven"},
		{"bool", true},
		{"nil", nil},
		{"nil distribution", (*Distribution[int])(nil)},
		{"wrong value type", MustNew([]Pair[float64]{{1, 1}}, "f")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Add[int](ksi, tt.operand)
			require.Error(t, err)

			var opErr *OperationError
			require.True(t, errors.As(err, &opErr), "want *OperationError, got %T", err)
			assert.Equal(t, OpAdd, opErr.Operator)

			var castErr *OperandCastError
			assert.True(t, errors.As(err, &castErr), "cause must be *OperandCastError")

			assert.Contains(t, err.Error(), "*randvar.Distribution[int]")
			t.Logf("✓ %v", err)
		})
	}
}

func TestOperators_InvalidOperandNamesBothTypes(t *testing.T) {
	ksi, err := EvenlyRange(1, 7, "ξ")
	require.NoError(t, err)

	_, err = Mul[int]("seven", ksi)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `"seven" of type string`)
	assert.Contains(t, msg, `"ξ" of type *randvar.Distribution[int]`)
	assert.Contains(t, msg, "cannot apply *")
}

func TestPow(t *testing.T) {
	xi, err := FracRange([]int{-2, -1, 1, 2}, []Fraction{Frac(1, 4), Frac(1, 4), Frac(1, 4), Frac(1, 4)}, "ξ")
	require.NoError(t, err)

	square, err := Pow[int](xi, 2)
	require.NoError(t, err)
	AssertPairs(t, square, []Pair[int]{{1, 0.5}, {4, 0.5}}, DefaultAssertionConfig())
	assert.Equal(t, "(ξ ** 2)", square.Name())

	cube, err := Pow[int](xi, 3)
	require.NoError(t, err)
	AssertPairs(t, cube, []Pair[int]{{-8, 0.25}, {-1, 0.25}, {1, 0.25}, {8, 0.25}}, DefaultAssertionConfig())

	fourth, err := Pow[int](xi, 4.0)
	require.NoError(t, err, "an integral float exponent is accepted")
	AssertPairs(t, fourth, []Pair[int]{{1, 0.5}, {16, 0.5}}, DefaultAssertionConfig())
}

func TestPow_One(t *testing.T) {
	d := MustNew([]Pair[int]{{3, 0.2}, {1, 0.3}, {3, 0.5}}, "δ")

	same, err := Pow[int](d, 1)
	require.NoError(t, err)

	assert.Equal(t, d.Pairs(), same.Pairs(), "power 1 keeps the pairs")
	assert.Equal(t, "(δ ** 1)", same.Name())
	assert.Equal(t, "δ", d.Name(), "input is not renamed")
}

func TestPow_Scalar(t *testing.T) {
	got, err := Pow[int](2, 3)
	require.NoError(t, err)

	assert.Equal(t, []int{8}, got.Values())
	assert.Equal(t, "(2 ** 3)", got.Name())
}

func TestPow_Unsupported(t *testing.T) {
	xi := thirds(t)

	tests := []struct {
		name    string
		power   any
		modulus []any
	}{
		{"zero", 0, nil},
		{"negative", -2, nil},
		{"fractional", 0.5, nil},
		{"string", "2", nil},
		{"nil", nil, nil},
		{"modulus", 2, []any{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pow[int](xi, tt.power, tt.modulus...)

			var unsupported *UnsupportedOperationError
			require.True(t, errors.As(err, &unsupported), "want *UnsupportedOperationError, got %v", err)
			t.Logf("✓ Correctly rejected: %v", err)
		})
	}
}

func TestPow_MatchesRepeatedProduct(t *testing.T) {
	xi := MustNew([]Pair[int]{{-1, 0.2}, {2, 0.3}, {3, 0.5}}, "ξ")

	for k := 2; k <= 7; k++ {
		want, err := Map(xi, func(v int) int {
			p := v
			for range k - 1 {
				p *= v
			}
			return p
		}, "")
		require.NoError(t, err)

		got, err := Pow[int](xi, k)
		require.NoError(t, err)
		assert.True(t, got.Equal(want, 1e-12), "k=%d: got %v", k, got.Pairs())
	}
}

func TestPow_LargeExponent(t *testing.T) {
	signs := MustNew([]Pair[int]{{-1, 0.5}, {0, 0.25}, {1, 0.25}}, "σ")

	got, err := Pow[int](signs, int64(1)<<40)
	require.NoError(t, err, "huge exponents finish in logarithmic time")
	AssertPairs(t, got, []Pair[int]{{0, 0.25}, {1, 0.75}}, DefaultAssertionConfig())

	odd, err := Pow[int](signs, int64(1)<<40+1)
	require.NoError(t, err)
	AssertPairs(t, odd, []Pair[int]{{-1, 0.5}, {0, 0.25}, {1, 0.25}}, DefaultAssertionConfig())

	halves := MustNew([]Pair[float64]{{0.5, 0.5}, {2, 0.5}}, "h")
	floats, err := Pow[float64](halves, 1e15)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, math.Inf(1)}, floats.Values())
}

func TestPow_IntegerOverflow(t *testing.T) {
	d := MustNew([]Pair[int]{{1, 0.5}, {3, 0.5}}, "δ")

	_, err := Pow[int](d, 64)
	var unsupported *UnsupportedOperationError
	require.True(t, errors.As(err, &unsupported), "want *UnsupportedOperationError, got %v", err)
	assert.Contains(t, unsupported.Reason, "3 ** 64 overflows int")

	small, err := Pow[int8](MustNew([]Pair[int8]{{2, 1}}, "two"), 7)
	require.Error(t, err, "2**7 does not fit in int8")
	assert.Nil(t, small)

	fits, err := Pow[int8](MustNew([]Pair[int8]{{-2, 1}}, "minus two"), 7)
	require.NoError(t, err)
	assert.Equal(t, []int8{-128}, fits.Values())
}

func TestPow_InvalidBase(t *testing.T) {
	_, err := Pow[int]("ξ", 2)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OpPow, opErr.Operator)
}

func TestAlgebra_NoParentheses(t *testing.T) {
	ksi, err := EvenlyRange(1, 3, "ξ")
	require.NoError(t, err)
	mu := MustNew([]Pair[int]{{0, 0.5}, {1, 0.5}}, "μ")

	alg := NewAlgebra[int](Config{Parentheses: false})

	sum, err := alg.Add(ksi, mu)
	require.NoError(t, err)
	product, err := alg.Mul(sum, 3)
	require.NoError(t, err)
	power, err := alg.Pow(ksi, 2)
	require.NoError(t, err)

	assert.Equal(t, "ξ + μ", sum.Name())
	assert.Equal(t, "ξ + μ * 3", product.Name())
	assert.Equal(t, "ξ ** 2", power.Name())
}

func TestAlgebra_Apply(t *testing.T) {
	coin := MustNew([]Pair[int]{{0, 0.5}, {1, 0.5}}, "c")
	alg := NewAlgebra[int](DefaultConfig())

	for _, op := range []Operator{OpAdd, OpSub, OpMul, OpPow} {
		got, err := alg.Apply(op, coin, 2)
		require.NoError(t, err, "operator %s", op)
		assert.True(t, strings.Contains(got.Name(), " "+op.String()+" "), got.Name())
	}

	_, err := alg.Apply(Operator(42), coin, 2)
	var unsupported *UnsupportedOperationError
	assert.True(t, errors.As(err, &unsupported))
}

func TestAlgebra_LogsOperations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	alg := NewAlgebra[int](Config{Parentheses: true, Logger: logger})

	coin := MustNew([]Pair[int]{{0, 0.5}, {1, 0.5}}, "c")
	_, err := alg.Add(coin, 1)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "applied operator")
	assert.Contains(t, buf.String(), `name="(c + 1)"`)
}

func TestOperand(t *testing.T) {
	coin := MustNew([]Pair[int]{{0, 0.5}, {1, 0.5}}, "c")

	o, err := Cast[int](coin)
	require.NoError(t, err)
	assert.Equal(t, KindDistribution, o.Kind())
	assert.Same(t, coin, o.Distribution())

	s, err := Cast[int](7)
	require.NoError(t, err)
	assert.Equal(t, KindScalar, s.Kind())
	assert.Equal(t, "7", s.Name())
	assert.Equal(t, []Pair[int]{{7, 1}}, s.Distribution().Pairs())

	again, err := Cast[int](s)
	require.NoError(t, err)
	assert.Equal(t, s, again)

	_, err = Cast[int](DistOperand[int](nil))
	assert.Error(t, err)
}
