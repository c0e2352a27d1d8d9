package interpolate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"

	"github.com/phil-mansfield/vecinterp/math/rotation"
)

var (
	slerpXs  = []float64{-10, -5, 0, 6, 12}
	slerpYPR = [][3]float64{
		{0, 0, -180},
		{45, 45, 45},
		{100, -45, 0},
		{300, 80, 170},
		{350, -80, -170},
	}
)

func assertAngles(t *testing.T, want, got [3]float64, eps float64, msgAndArgs ...interface{}) {
	t.Helper()
	for i := range want {
		d := math.Mod(got[i]-want[i], 360)
		if d > 180 {
			d -= 360
		} else if d < -180 {
			d += 360
		}
		if math.Abs(d) > eps {
			assert.Fail(t, "angles differ", "want %v, got %v", want, got)
			t.Log(msgAndArgs...)
			return
		}
	}
}

func TestSlerpValues(t *testing.T) {
	sl, err := NewSlerp(slerpXs, slerpYPR, rotation.Degrees, Extrapolate)
	require.NoError(t, err)

	table := []struct {
		x   float64
		ypr [3]float64
	}{
		{-3, [3]float64{58.5679194066, 5.0841237338, 37.6730325392}},
		{9, [3]float64{333.5151692017, 0.632182955, -158.8770719663}},
		{-11, [3]float64{347.01848882, 9.3296836006, -153.7039370777}},
		{13, [3]float64{147.0971139354, -72.4669510216, 34.2739577346}},
	}
	for _, test := range table {
		got, err := sl.YPR(test.x, rotation.Degrees)
		require.NoError(t, err)
		assertAngles(t, test.ypr, got, 1e-7, "x =", test.x)
	}

	xs := []float64{-3, 9}
	all, err := sl.YPRAll(xs, rotation.Degrees)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assertAngles(t, table[0].ypr, all[0], 1e-7)
	assertAngles(t, table[1].ypr, all[1], 1e-7)

	rad, err := sl.YPR(-3, rotation.Radians)
	require.NoError(t, err)
	for i := range rad {
		rad[i] *= 180 / math.Pi
	}
	assertAngles(t, table[0].ypr, rad, 1e-7)
}

func TestSlerpNodes(t *testing.T) {
	sl, err := NewSlerp(slerpXs, slerpYPR, rotation.Degrees, Fail)
	require.NoError(t, err)

	for i, x := range slerpXs {
		got, err := sl.YPR(x, rotation.Degrees)
		require.NoError(t, err)
		assertAngles(t, slerpYPR[i], got, 1e-9, "node", i)
	}
	for i, ypr := range sl.DataYPR(rotation.Degrees) {
		assertAngles(t, slerpYPR[i], ypr, 1e-9, "data", i)
	}

	_, err = sl.YPR(12.5, rotation.Degrees)
	require.ErrorIs(t, err, ErrOutOfRange)

	require.NoError(t, sl.SetExtrapolationMode(Nearest))
	got, err := sl.YPR(-50, rotation.Degrees)
	require.NoError(t, err)
	assertAngles(t, slerpYPR[0], got, 1e-9)
	got, err = sl.YPR(50, rotation.Degrees)
	require.NoError(t, err)
	assertAngles(t, slerpYPR[4], got, 1e-9)
}

func TestSlerpConstructors(t *testing.T) {
	yaw := make([]float64, len(slerpYPR))
	pitch := make([]float64, len(slerpYPR))
	roll := make([]float64, len(slerpYPR))
	rad := make([][3]float64, len(slerpYPR))
	for i, ypr := range slerpYPR {
		yaw[i], pitch[i], roll[i] = ypr[0], ypr[1], ypr[2]
		for j := range ypr {
			rad[i][j] = ypr[j] * (math.Pi / 180)
		}
	}

	a, err := NewSlerp(slerpXs, slerpYPR, rotation.Degrees, Extrapolate)
	require.NoError(t, err)
	b, err := NewSlerpYPR(slerpXs, yaw, pitch, roll, rotation.Degrees, Extrapolate)
	require.NoError(t, err)
	c, err := NewSlerp(slerpXs, rad, rotation.Radians, Extrapolate)
	require.NoError(t, err)
	qs, err := rotation.QuaternionsFromYPR(slerpYPR, rotation.Degrees)
	require.NoError(t, err)
	d, err := NewSlerpQuaternions(slerpXs, qs, Extrapolate)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(c))
	assert.True(t, a.Equal(d))

	_, err = NewSlerpYPR(slerpXs, yaw, pitch[:2], roll, rotation.Degrees, Extrapolate)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewSlerp(slerpXs[:2], slerpYPR, rotation.Degrees, Extrapolate)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewSlerp(
		[]float64{0, 1}, [][3]float64{{0, 0, 0}, {math.NaN(), 0, 0}},
		rotation.Degrees, Extrapolate,
	)
	require.ErrorIs(t, err, ErrDomain)
	require.ErrorIs(t, err, rotation.ErrInvalidAngle)
	_, err = NewSlerpQuaternions([]float64{0, 1}, []quat.Number{{Real: 1}, {}}, Fail)
	require.ErrorIs(t, err, ErrDomain)
}

func TestSlerpMutators(t *testing.T) {
	sl := &Slerp{}
	require.NoError(t, sl.AppendYPR(-10, slerpYPR[0], rotation.Degrees))
	require.NoError(t, sl.ExtendYPR(slerpXs[1:3], slerpYPR[1:3], rotation.Degrees))
	require.NoError(t, sl.InsertYPR(
		[]float64{12, 6}, [][3]float64{slerpYPR[4], slerpYPR[3]},
		rotation.Degrees, false,
	))

	full, err := NewSlerp(slerpXs, slerpYPR, rotation.Degrees, Extrapolate)
	require.NoError(t, err)
	assert.True(t, sl.Equal(full))

	require.ErrorIs(t, sl.AppendYPR(12, slerpYPR[0], rotation.Degrees), ErrDomain)
	require.ErrorIs(t, sl.AppendYPR(13, [3]float64{0, math.Inf(1), 0}, rotation.Degrees), ErrDomain)
	require.ErrorIs(t, sl.ExtendYPR([]float64{13}, slerpYPR[:2], rotation.Degrees), ErrInvalidArgument)
	assert.Equal(t, 5, sl.Len())

	require.NoError(t, sl.SetDataYPR(slerpXs[:2], slerpYPR[:2], rotation.Degrees))
	assert.Equal(t, 2, sl.Len())
	got, err := sl.YPR(-7.5, rotation.Degrees)
	require.NoError(t, err)
	mid := rotation.Slerp(sl.Y()[0], sl.Y()[1], 0.5)
	assertAngles(t, rotation.YPRFromQuaternion(mid, rotation.Degrees), got, 1e-9)
}

func TestSlerpRef(t *testing.T) {
	sl, err := NewSlerp(slerpXs, slerpYPR, rotation.Degrees, Extrapolate)
	require.NoError(t, err)
	ref := sl.Ref()
	_, err = ref.Eval(9)
	require.NoError(t, err)
	assert.Equal(t, 0, sl.last.lo)
	assert.Equal(t, 3, ref.last.lo)
	assert.True(t, sl.Equal(ref))
	assert.Equal(t, "Slerp{n: 5, domain: [-10, 12], mode: Extrapolate}", sl.String())
}

func TestSlerpScaledQuaternions(t *testing.T) {
	yaw90, err := rotation.QuaternionFromYPR([3]float64{90, 0, 0}, rotation.Degrees)
	require.NoError(t, err)
	unit, err := NewSlerpQuaternions(
		[]float64{0, 1}, []quat.Number{{Real: 1}, yaw90}, Extrapolate,
	)
	require.NoError(t, err)
	scaled, err := NewSlerpQuaternions(
		[]float64{0, 1}, []quat.Number{{Real: 2}, quat.Scale(0.25, yaw90)},
		Extrapolate,
	)
	require.NoError(t, err)

	for _, x := range []float64{-0.5, 0.25, 0.5, 1.5} {
		want, err := unit.YPR(x, rotation.Degrees)
		require.NoError(t, err)
		got, err := scaled.YPR(x, rotation.Degrees)
		require.NoError(t, err)
		assertAngles(t, want, got, 1e-9, "x =", x)
	}
	got, err := scaled.YPR(0.5, rotation.Degrees)
	require.NoError(t, err)
	assertAngles(t, [3]float64{45, 0, 0}, got, 1e-9)

	sl := &Slerp{}
	require.NoError(t, sl.Append(0, quat.Number{Real: 3}))
	require.NoError(t, sl.Extend([]float64{2}, []quat.Number{quat.Scale(5, yaw90)}))
	require.NoError(t, sl.Insert([]float64{1}, []quat.Number{{Real: 0.5}}, false))
	for _, q := range sl.Y() {
		assert.InDelta(t, 1, quat.Abs(q), 1e-15)
	}
	require.ErrorIs(t, sl.Append(3, quat.Number{}), ErrDomain)
}
