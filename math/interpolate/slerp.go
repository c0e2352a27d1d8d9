package interpolate

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/phil-mansfield/vecinterp/math/rotation"
)

// unitTolerance is the largest deviation from unit length accepted for stored
// quaternions.
const unitTolerance = 1e-9

type slerpPair struct{}

func (slerpPair) InterpolatePair(t float64, q1, q2 quat.Number) quat.Number {
	return rotation.Slerp(q1, q2, t)
}

// Slerp interpolates orientations by spherical linear interpolation between
// unit quaternions. Orientations can be given either as quaternions or as
// yaw/pitch/roll triples; see package rotation for the conventions used.
type Slerp struct {
	Pair[quat.Number, slerpPair]
}

// NewSlerp creates a Slerp interpolator for a sequence of strictly increasing
// points, xs, with orientations given as yaw/pitch/roll triples.
func NewSlerp(
	xs []float64, ypr [][3]float64, unit rotation.Unit, mode ExtrapolationMode,
) (*Slerp, error) {
	sl := &Slerp{}
	if err := sl.SetExtrapolationMode(mode); err != nil {
		return nil, err
	}
	if err := sl.SetDataYPR(xs, ypr, unit); err != nil {
		return nil, err
	}
	return sl, nil
}

// NewSlerpYPR is like NewSlerp, but takes separate yaw, pitch and roll slices.
func NewSlerpYPR(
	xs, yaw, pitch, roll []float64, unit rotation.Unit, mode ExtrapolationMode,
) (*Slerp, error) {
	if len(yaw) != len(pitch) || len(yaw) != len(roll) {
		return nil, fmt.Errorf(
			"%w: len(yaw) = %d, len(pitch) = %d, len(roll) = %d",
			ErrInvalidArgument, len(yaw), len(pitch), len(roll),
		)
	}
	ypr := make([][3]float64, len(yaw))
	for i := range ypr {
		ypr[i] = [3]float64{yaw[i], pitch[i], roll[i]}
	}
	return NewSlerp(xs, ypr, unit, mode)
}

// NewSlerpQuaternions creates a Slerp interpolator from quaternions. The
// quaternions need not be normalized, but must be finite and non-zero. They
// are stored normalized.
func NewSlerpQuaternions(
	xs []float64, qs []quat.Number, mode ExtrapolationMode,
) (*Slerp, error) {
	sl := &Slerp{}
	if err := sl.SetExtrapolationMode(mode); err != nil {
		return nil, err
	}
	if err := sl.SetData(xs, qs); err != nil {
		return nil, err
	}
	return sl, nil
}

// SetData replaces every point of the interpolator. The quaternions are
// normalized before they are stored.
func (sl *Slerp) SetData(xs []float64, qs []quat.Number) error {
	return sl.Pair.SetData(xs, normalized(qs))
}

func (sl *Slerp) Append(x float64, q quat.Number) error {
	return sl.Pair.Append(x, rotation.Normalize(q))
}

func (sl *Slerp) Extend(xs []float64, qs []quat.Number) error {
	return sl.Pair.Extend(xs, normalized(qs))
}

func (sl *Slerp) Insert(xs []float64, qs []quat.Number, sorted bool) error {
	return sl.Pair.Insert(xs, normalized(qs), sorted)
}

// ReadFrom is like Pair.ReadFrom, but also requires the stored quaternions
// to be normalized.
func (sl *Slerp) ReadFrom(r io.Reader) (int64, error) {
	next := &Slerp{}
	n, err := next.Pair.ReadFrom(r)
	if err != nil {
		return n, err
	}
	for i, q := range next.ys {
		if math.Abs(quat.Abs(q)-1) > unitTolerance {
			return n, fmt.Errorf(
				"%w: quaternion %v at x = %g is not normalized",
				ErrCorrupt, q, next.xs[i],
			)
		}
	}
	*sl = *next
	return n, nil
}

func (sl *Slerp) UnmarshalBinary(data []byte) error { return unmarshal(data, sl) }

func normalized(qs []quat.Number) []quat.Number {
	out := make([]quat.Number, len(qs))
	for i := range qs {
		out[i] = rotation.Normalize(qs[i])
	}
	return out
}

func quaternions(ypr [][3]float64, unit rotation.Unit) ([]quat.Number, error) {
	qs, err := rotation.QuaternionsFromYPR(ypr, unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDomain, err)
	}
	return qs, nil
}

func (sl *Slerp) SetDataYPR(xs []float64, ypr [][3]float64, unit rotation.Unit) error {
	qs, err := quaternions(ypr, unit)
	if err != nil {
		return err
	}
	return sl.SetData(xs, qs)
}

func (sl *Slerp) AppendYPR(x float64, ypr [3]float64, unit rotation.Unit) error {
	q, err := rotation.QuaternionFromYPR(ypr, unit)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDomain, err)
	}
	return sl.Append(x, q)
}

func (sl *Slerp) ExtendYPR(xs []float64, ypr [][3]float64, unit rotation.Unit) error {
	qs, err := quaternions(ypr, unit)
	if err != nil {
		return err
	}
	return sl.Extend(xs, qs)
}

func (sl *Slerp) InsertYPR(
	xs []float64, ypr [][3]float64, unit rotation.Unit, sorted bool,
) error {
	qs, err := quaternions(ypr, unit)
	if err != nil {
		return err
	}
	return sl.Insert(xs, qs, sorted)
}

// YPR returns the interpolated orientation at x as a normalized yaw/pitch/roll
// triple.
func (sl *Slerp) YPR(x float64, unit rotation.Unit) ([3]float64, error) {
	q, err := sl.Eval(x)
	if err != nil {
		return [3]float64{}, err
	}
	return rotation.YPRFromQuaternion(q, unit), nil
}

// YPRAll evaluates YPR at every element of xs in order.
func (sl *Slerp) YPRAll(xs []float64, unit rotation.Unit) ([][3]float64, error) {
	qs, err := sl.EvalAll(xs)
	if err != nil {
		return nil, err
	}
	return rotation.YPRFromQuaternions(qs, unit), nil
}

// DataYPR returns the stored orientations as yaw/pitch/roll triples.
func (sl *Slerp) DataYPR(unit rotation.Unit) [][3]float64 {
	return rotation.YPRFromQuaternions(sl.ys, unit)
}

// Ref returns an interpolator sharing sl's points but not its lookup cache.
func (sl *Slerp) Ref() *Slerp { return &Slerp{sl.ref()} }

func (sl *Slerp) Equal(o *Slerp) bool { return sl.equal(&o.Pair) }

func (sl *Slerp) String() string { return sl.describe("Slerp") }
