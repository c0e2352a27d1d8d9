package interpolate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	scenarioXs = []float64{-10, -5, 0, 6}
	scenarioYs = []float64{1, 0, 1, 0}
)

func TestLinearScenario(t *testing.T) {
	lin, err := NewLinear(scenarioXs, scenarioYs, Extrapolate)
	require.NoError(t, err)

	v, err := lin.Eval(2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3, v, 1e-12)

	v, err = lin.Eval(-11)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, v, 1e-12)

	require.NoError(t, lin.SetExtrapolationMode(Nearest))
	v, err = lin.Eval(-11)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = lin.Eval(100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	require.NoError(t, lin.SetExtrapolationMode(Fail))
	_, err = lin.Eval(-11)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "-11")
	assert.Contains(t, err.Error(), "[-10, 6]")
	_, err = lin.Eval(6.5)
	require.ErrorIs(t, err, ErrOutOfRange)

	// boundaries are inside the domain
	v, err = lin.Eval(-10)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = lin.Eval(6)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestNearestScenario(t *testing.T) {
	near, err := NewNearestNeighbor(scenarioXs, scenarioYs, Extrapolate)
	require.NoError(t, err)

	v, err := near.Eval(2.9)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = near.Eval(3.0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	// midpoints go to the later sample
	v, err = near.Eval(-7.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	v, err = near.Eval(-2.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = near.Eval(-100)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = near.Eval(100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	require.NoError(t, near.SetExtrapolationMode(Fail))
	_, err = near.Eval(-10.5)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestLinearNodes(t *testing.T) {
	xs := []float64{-3.3, -1.1, 0.7, 2.9, 3.1, 8.45, 10}
	ys := []float64{0.1, -7, 3.3, 1e6, -2.2, 0, 1.0 / 3}

	lin, err := NewLinear(xs, ys, Fail)
	require.NoError(t, err)
	near, err := NewNearestNeighbor(xs, ys, Fail)
	require.NoError(t, err)

	// forward, backward, then shuffled to exercise every cache path
	order := []int{0, 1, 2, 3, 4, 5, 6, 6, 5, 4, 3, 2, 1, 0, 3, 0, 6, 2, 5, 1}
	for _, i := range order {
		v, err := lin.Eval(xs[i])
		require.NoError(t, err)
		assert.Equal(t, ys[i], v, "Linear at x[%d]", i)

		v, err = near.Eval(xs[i])
		require.NoError(t, err)
		assert.Equal(t, ys[i], v, "Nearest at x[%d]", i)
	}
}

func TestLinearConvexCombination(t *testing.T) {
	xs := []float64{0, 1.5, 2, 7, 7.25}
	ys := []float64{4, -2, 9, 9, 0.5}
	lin, err := NewLinear(xs, ys, Fail)
	require.NoError(t, err)

	for i := 0; i+1 < len(xs); i++ {
		for _, f := range []float64{0, 0.1, 0.25, 0.5, 0.9, 1} {
			x := xs[i] + f*(xs[i+1]-xs[i])
			v, err := lin.Eval(x)
			require.NoError(t, err)
			assert.InDelta(t, (1-f)*ys[i]+f*ys[i+1], v, 1e-12)
		}
	}
}

func TestLinearExtrapolationContinuity(t *testing.T) {
	lin, err := NewLinear(scenarioXs, scenarioYs, Extrapolate)
	require.NoError(t, err)

	for _, x := range []float64{-10, 6} {
		at, err := lin.Eval(x)
		require.NoError(t, err)
		below, err := lin.Eval(x - 1e-9)
		require.NoError(t, err)
		above, err := lin.Eval(x + 1e-9)
		require.NoError(t, err)
		assert.InDelta(t, at, below, 1e-8)
		assert.InDelta(t, at, above, 1e-8)
	}
}

func TestEmptyAndSinglePoint(t *testing.T) {
	lin := &Linear{}
	assert.True(t, lin.Empty())
	assert.Equal(t, Extrapolate, lin.ExtrapolationMode())

	_, err := lin.Eval(1)
	require.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, lin.Append(3, 7))
	assert.False(t, lin.Empty())
	require.NoError(t, lin.SetExtrapolationMode(Fail))
	for _, x := range []float64{-100, 3, 100} {
		v, err := lin.Eval(x)
		require.NoError(t, err)
		assert.Equal(t, 7.0, v)
	}

	require.NoError(t, lin.Append(4, 8))
	v, err := lin.Eval(3.5)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, v, 1e-12)
}

func TestEvalNaN(t *testing.T) {
	lin, err := NewLinear(scenarioXs, scenarioYs, Nearest)
	require.NoError(t, err)
	_, err = lin.Eval(math.NaN())
	require.ErrorIs(t, err, ErrDomain)
}

func TestEvalAll(t *testing.T) {
	lin, err := NewLinear(scenarioXs, scenarioYs, Extrapolate)
	require.NoError(t, err)

	xs := []float64{-10, -7.5, -5, 0, 3, 6}
	want := []float64{1, 0.5, 0, 1, 0.5, 0}

	got, err := lin.EvalAll(xs)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1e-12)

	out := make([]float64, 10)
	got, err = lin.EvalAll(xs, out)
	require.NoError(t, err)
	assert.Len(t, got, len(xs))
	assert.InDeltaSlice(t, want, out[:len(xs)], 1e-12)

	_, err = lin.EvalAll(xs, make([]float64, 2))
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, lin.SetExtrapolationMode(Fail))
	_, err = lin.EvalAll([]float64{0, 7})
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestSetDataValidation(t *testing.T) {
	lin := &Linear{}
	require.NoError(t, lin.SetData([]float64{1, 2}, []float64{3, 4}))

	tests := []struct {
		xs, ys []float64
		err    error
	}{
		{[]float64{1, 2, 3}, []float64{1, 2}, ErrInvalidArgument},
		{[]float64{1, 1, 3}, []float64{1, 2, 3}, ErrDomain},
		{[]float64{1, 3, 2}, []float64{1, 2, 3}, ErrDomain},
		{[]float64{1, math.NaN(), 3}, []float64{1, 2, 3}, ErrDomain},
		{[]float64{math.Inf(-1), 2, 3}, []float64{1, 2, 3}, ErrDomain},
		{[]float64{1, 2, 3}, []float64{1, math.Inf(1), 3}, ErrDomain},
		{[]float64{1, 2, 3}, []float64{1, 2, math.NaN()}, ErrDomain},
	}
	for i, test := range tests {
		err := lin.SetData(test.xs, test.ys)
		require.ErrorIs(t, err, test.err, "case %d", i)
		assert.Equal(t, []float64{1, 2}, lin.X(), "case %d", i)
		assert.Equal(t, []float64{3, 4}, lin.Y(), "case %d", i)
	}

	// inputs are copied
	xs, ys := []float64{0, 1}, []float64{0, 1}
	require.NoError(t, lin.SetData(xs, ys))
	xs[1], ys[1] = 5, 5
	v, err := lin.Eval(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-12)
}

func TestAppendRejectsDecreasing(t *testing.T) {
	lin, err := NewLinear(scenarioXs, scenarioYs, Fail)
	require.NoError(t, err)
	before, err := lin.EvalAll([]float64{-10, -3, 2, 6})
	require.NoError(t, err)

	for _, x := range []float64{6, 5.9, -20, math.NaN(), math.Inf(1)} {
		require.ErrorIs(t, lin.Append(x, 1), ErrDomain, "x = %g", x)
		assert.Equal(t, 4, lin.Len())
		after, err := lin.EvalAll([]float64{-10, -3, 2, 6})
		require.NoError(t, err)
		assert.Equal(t, before, after)
	}
	require.ErrorIs(t, lin.Append(7, math.NaN()), ErrDomain)

	require.NoError(t, lin.Append(8, 2))
	v, err := lin.Eval(7)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)
}

func TestExtendAllOrNothing(t *testing.T) {
	lin, err := NewLinear(scenarioXs, scenarioYs, Fail)
	require.NoError(t, err)

	err = lin.Extend([]float64{7, 8, 8, 9}, []float64{1, 2, 3, 4})
	require.ErrorIs(t, err, ErrDomain)
	assert.Equal(t, scenarioXs, lin.X())

	err = lin.Extend([]float64{5, 8}, []float64{1, 2})
	require.ErrorIs(t, err, ErrDomain)
	assert.Equal(t, scenarioXs, lin.X())

	err = lin.Extend([]float64{7, 8}, []float64{1})
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, lin.Extend([]float64{7, 8}, []float64{1, 2}))
	assert.Equal(t, []float64{-10, -5, 0, 6, 7, 8}, lin.X())
	v, err := lin.Eval(7.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v, 1e-12)

	empty := &Linear{}
	require.NoError(t, empty.Extend([]float64{1, 2}, []float64{10, 20}))
	v, err = empty.Eval(1.5)
	require.NoError(t, err)
	assert.InDelta(t, 15, v, 1e-12)
}

func TestInsert(t *testing.T) {
	lin, err := NewLinear(scenarioXs, scenarioYs, Fail)
	require.NoError(t, err)

	// warm up the cache so that Insert has to reset it
	_, err = lin.Eval(5)
	require.NoError(t, err)

	require.NoError(t, lin.Insert([]float64{3, -7, 10}, []float64{5, 9, 2}, false))
	assert.Equal(t, []float64{-10, -7, -5, 0, 3, 6, 10}, lin.X())
	assert.Equal(t, []float64{1, 9, 0, 1, 5, 0, 2}, lin.Y())
	for i, x := range lin.X() {
		v, err := lin.Eval(x)
		require.NoError(t, err)
		assert.Equal(t, lin.Y()[i], v)
	}

	// duplicates leave the interpolator untouched
	err = lin.Insert([]float64{1, 3}, []float64{0, 0}, false)
	require.ErrorIs(t, err, ErrDomain)
	assert.Len(t, lin.X(), 7)

	err = lin.Insert([]float64{1, 2}, []float64{0}, false)
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, lin.Insert(nil, nil, false))
	assert.Len(t, lin.X(), 7)

	// sorted batches past the end are appended
	require.NoError(t, lin.Insert([]float64{11, 12}, []float64{3, 4}, true))
	assert.Equal(t, []float64{-10, -7, -5, 0, 3, 6, 10, 11, 12}, lin.X())

	// sorted batches overlapping the data are merged
	require.NoError(t, lin.Insert([]float64{-20, 20}, []float64{0, 0}, true))
	assert.Equal(t, []float64{-20, -10, -7, -5, 0, 3, 6, 10, 11, 12, 20}, lin.X())

	empty := &NearestNeighbor{}
	require.NoError(t, empty.Insert([]float64{2, 1}, []float64{20, 10}, false))
	assert.Equal(t, []float64{1, 2}, empty.X())
	assert.Equal(t, []float64{10, 20}, empty.Y())
}

func TestRefIsIndependent(t *testing.T) {
	lin, err := NewLinear(scenarioXs, scenarioYs, Fail)
	require.NoError(t, err)
	ref := lin.Ref()
	assert.True(t, lin.Equal(ref))

	_, err = ref.Eval(5)
	require.NoError(t, err)
	assert.Equal(t, 0, lin.last.lo)
	assert.Equal(t, 2, ref.last.lo)

	require.NoError(t, ref.Append(10, 3))
	assert.Equal(t, 4, lin.Len())
	assert.Equal(t, 5, ref.Len())
	require.NoError(t, lin.Append(11, 3))
	assert.Equal(t, 10.0, ref.X()[4])
}

func TestEqual(t *testing.T) {
	a, err := NewLinear(scenarioXs, scenarioYs, Fail)
	require.NoError(t, err)
	b, err := NewLinear([]float64{-10, -5, 0, 6.00001}, []float64{1, 0, 1, 0}, Fail)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	c, err := NewLinear([]float64{-10, -5, 0, 6.1}, []float64{1, 0, 1, 0}, Fail)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	require.NoError(t, b.SetExtrapolationMode(Nearest))
	assert.False(t, a.Equal(b))

	assert.True(t, (&Linear{}).Equal(&Linear{}))
	assert.False(t, a.Equal(&Linear{}))
}

func TestString(t *testing.T) {
	lin, err := NewLinear(scenarioXs, scenarioYs, Fail)
	require.NoError(t, err)
	assert.Equal(t, "Linear{n: 4, domain: [-10, 6], mode: Fail}", lin.String())
	assert.Equal(t, "NearestNeighbor{n: 0, mode: Extrapolate}", (&NearestNeighbor{}).String())
}
