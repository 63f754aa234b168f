package randvar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(a, b int) int { return a + b }
func mul(a, b int) int { return a * b }

func TestCombine_TwoDice(t *testing.T) {
	d1, err := EvenlyRange(1, 7, "d1")
	require.NoError(t, err)
	d2, err := EvenlyRange(1, 7, "d2")
	require.NoError(t, err)

	sum, err := Combine(d1, d2, add, Independent, "d1 + d2")
	require.NoError(t, err)

	AssertValid(t, sum)
	assert.Equal(t, 11, sum.Size(), "2..12")
	assert.InDelta(t, 6.0/36, sum.Probability(7), 1e-12)
	assert.InDelta(t, 1.0/36, sum.Probability(2), 1e-12)
	assert.InDelta(t, 1.0/36, sum.Probability(12), 1e-12)
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, sum.Values(), "ascending by value")
}

func TestCombine_Deterministic(t *testing.T) {
	a := MustNew([]Pair[int]{{3, 0.2}, {-1, 0.5}, {2, 0.3}}, "a")
	b := MustNew([]Pair[int]{{1, 0.6}, {0, 0.4}}, "b")

	first, err := Combine(a, b, mul, Independent, "a * b")
	require.NoError(t, err)
	second, err := Combine(a, b, mul, Independent, "a * b")
	require.NoError(t, err)

	assert.Equal(t, first.Pairs(), second.Pairs(), "same inputs must produce identical pairs")
}

func TestCombine_MergesDuplicates(t *testing.T) {
	// (-1)·(-1) and 1·1 both land on 1.
	xi := MustNew([]Pair[int]{{-1, 0.5}, {1, 0.5}}, "ξ")
	eta := MustNew([]Pair[int]{{-1, 0.5}, {1, 0.5}}, "η")

	product, err := Combine(xi, eta, mul, Independent, "ξ * η")
	require.NoError(t, err)

	AssertPairs(t, product, []Pair[int]{{-1, 0.5}, {1, 0.5}}, DefaultAssertionConfig())
	assert.Equal(t, 2, product.Size(), "values must be unique after combination")
}

func TestCombine_DegenerateOperand(t *testing.T) {
	die, err := EvenlyRange(1, 7, "ξ")
	require.NoError(t, err)

	shifted, err := Combine(die, Degenerate(10, "10"), add, Independent, "ξ + 10")
	require.NoError(t, err)

	assert.Equal(t, die.Size(), shifted.Size())
	assert.Equal(t, []int{11, 12, 13, 14, 15, 16}, shifted.Values())
}

func TestCombine_OrderMatters(t *testing.T) {
	a := MustNew([]Pair[int]{{10, 1}}, "a")
	b := MustNew([]Pair[int]{{1, 0.5}, {2, 0.5}}, "b")
	sub := func(x, y int) int { return x - y }

	ab, err := Combine(a, b, sub, Independent, "a - b")
	require.NoError(t, err)
	ba, err := Combine(b, a, sub, Independent, "b - a")
	require.NoError(t, err)

	assert.Equal(t, []int{8, 9}, ab.Values())
	assert.Equal(t, []int{-9, -8}, ba.Values())
}

func TestCombine_NilProbabilityFuncDefaultsToIndependent(t *testing.T) {
	coin := MustNew([]Pair[int]{{0, 0.5}, {1, 0.5}}, "c")
	other := coin.Rename("c'")

	sum, err := Combine(coin, other, add, nil, "c + c'")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sum.Probability(1), 1e-12)
}

func TestCombine_Nil(t *testing.T) {
	coin := MustNew([]Pair[int]{{0, 0.5}, {1, 0.5}}, "c")

	_, err := Combine(coin, nil, add, Independent, "c + nil")
	assert.True(t, errors.Is(err, ErrNilDistribution))

	_, err = CombineSelf[int](nil, add, "nil + nil")
	assert.True(t, errors.Is(err, ErrNilDistribution))
}

func TestCombineSelf_Square(t *testing.T) {
	xi := MustNew([]Pair[int]{{-1, 1.0 / 3}, {0, 1.0 / 3}, {1, 1.0 / 3}}, "ξ")

	square, err := CombineSelf(xi, mul, "ξ * ξ")
	require.NoError(t, err)

	AssertPairs(t, square, []Pair[int]{{0, 1.0 / 3}, {1, 2.0 / 3}}, DefaultAssertionConfig())
}

func TestMap_MergesNonInjective(t *testing.T) {
	xi := MustNew([]Pair[int]{{-2, 0.25}, {-1, 0.25}, {1, 0.25}, {2, 0.25}}, "ξ")

	abs, err := Map(xi, func(v int) float64 {
		if v < 0 {
			return float64(-v)
		}
		return float64(v)
	}, "|ξ|")
	require.NoError(t, err)

	AssertPairs(t, abs, []Pair[float64]{{1, 0.5}, {2, 0.5}}, DefaultAssertionConfig())
	assert.Equal(t, "|ξ|", abs.Name())
}
