/*
package rotation converts between yaw/pitch/roll triples and unit
quaternions and interpolates between orientations.

Rotations are always composed in the same order: first yaw around the z axis,
then pitch around the y axis, then roll around the x axis.
*/
package rotation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/num/quat"
)

// Unit selects the angular unit of yaw, pitch and roll values.
type Unit int

const (
	Degrees Unit = iota
	Radians
)

func (u Unit) String() string {
	switch u {
	case Degrees:
		return "degrees"
	case Radians:
		return "radians"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// UnmarshalText parses "degrees" or "radians", ignoring case.
func (u *Unit) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "degrees":
		*u = Degrees
	case "radians":
		*u = Radians
	default:
		return fmt.Errorf(
			"rotation: unrecognized unit '%s', expected degrees or radians",
			text,
		)
	}
	return nil
}

var (
	// ErrInvalidAngle is returned for NaN or infinite yaw, pitch or roll values.
	ErrInvalidAngle = errors.New("rotation: NaN or infinite yaw, pitch or roll value")
	// ErrLengthMismatch is returned when vectorized inputs differ in length.
	ErrLengthMismatch = errors.New("rotation: input slices differ in length")
)

const (
	toRad = math.Pi / 180
	toDeg = 180 / math.Pi

	// Quaternions closer than this are blended linearly by Slerp.
	slerpEps = 1e-12
)

func axisAngle(angle float64, x, y, z float64) quat.Number {
	s, c := math.Sincos(angle / 2)
	return quat.Number{Real: c, Imag: x * s, Jmag: y * s, Kmag: z * s}
}

// Normalize scales q to unit length. The zero quaternion is returned as is.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return q
	}
	return quat.Scale(1/n, q)
}

// QuaternionFromYPR creates a unit quaternion by rotating yaw (z axis), then
// pitch (y axis), then roll (x axis).
func QuaternionFromYPR(ypr [3]float64, unit Unit) (quat.Number, error) {
	for _, a := range ypr {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return quat.Number{}, fmt.Errorf(
				"%w: (%g, %g, %g)", ErrInvalidAngle, ypr[0], ypr[1], ypr[2],
			)
		}
	}

	if unit == Degrees {
		for i := range ypr {
			ypr[i] *= toRad
		}
	}

	q := quat.Mul(
		quat.Mul(axisAngle(ypr[0], 0, 0, 1), axisAngle(ypr[1], 0, 1, 0)),
		axisAngle(ypr[2], 1, 0, 0),
	)
	return Normalize(q), nil
}

// QuaternionsFromYPR is the vectorized form of QuaternionFromYPR.
func QuaternionsFromYPR(ypr [][3]float64, unit Unit) ([]quat.Number, error) {
	qs := make([]quat.Number, len(ypr))
	for i := range ypr {
		q, err := QuaternionFromYPR(ypr[i], unit)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		qs[i] = q
	}
	return qs, nil
}

// QuaternionsFromAngles is like QuaternionsFromYPR, but takes separate yaw,
// pitch and roll slices.
func QuaternionsFromAngles(
	yaw, pitch, roll []float64, unit Unit,
) ([]quat.Number, error) {
	if len(yaw) != len(pitch) || len(yaw) != len(roll) {
		return nil, fmt.Errorf(
			"%w: len(yaw) = %d, len(pitch) = %d, len(roll) = %d",
			ErrLengthMismatch, len(yaw), len(pitch), len(roll),
		)
	}

	ypr := make([][3]float64, len(yaw))
	for i := range ypr {
		ypr[i] = [3]float64{yaw[i], pitch[i], roll[i]}
	}
	return QuaternionsFromYPR(ypr, unit)
}

// YPRFromQuaternion recovers yaw, pitch and roll from q. The result is
// normalized with NormalizeAngles. At pitch = ±90° yaw and roll are coupled
// (gimbal lock); roll is then reported as zero.
func YPRFromQuaternion(q quat.Number, unit Unit) [3]float64 {
	q = Normalize(q)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	r00 := 1 - 2*(y*y+z*z)
	r01 := 2 * (x*y - w*z)
	r10 := 2 * (x*y + w*z)
	r11 := 1 - 2*(x*x+z*z)
	r20 := 2 * (x*z - w*y)
	r21 := 2 * (y*z + w*x)
	r22 := 1 - 2*(x*x+y*y)

	sp := math.Max(-1, math.Min(1, -r20))

	var ypr [3]float64
	ypr[1] = math.Asin(sp)
	if math.Abs(sp) < 1-slerpEps {
		ypr[0] = math.Atan2(r10, r00)
		ypr[2] = math.Atan2(r21, r22)
	} else {
		ypr[0] = math.Atan2(-r01, r11)
		ypr[2] = 0
	}

	if unit == Degrees {
		for i := range ypr {
			ypr[i] *= toDeg
		}
	}
	return NormalizeAngles(ypr, unit)
}

// YPRFromQuaternions is the vectorized form of YPRFromQuaternion.
func YPRFromQuaternions(qs []quat.Number, unit Unit) [][3]float64 {
	ypr := make([][3]float64, len(qs))
	for i, q := range qs {
		ypr[i] = YPRFromQuaternion(q, unit)
	}
	return ypr
}

// NormalizeAngles maps yaw into [0, 360°), pitch into [-90°, 90°] and roll
// into [-180°, 180°). Pitch values outside of [-90°, 90°] are folded back
// using rotate(yaw, pitch, roll) == rotate(yaw+180°, 180°-pitch, roll+180°).
func NormalizeAngles(ypr [3]float64, unit Unit) [3]float64 {
	full, half, quarter := 360.0, 180.0, 90.0
	if unit == Radians {
		full, half, quarter = 2*math.Pi, math.Pi, math.Pi/2
	}

	// pitch into [-90°, 270°)
	ypr[1] = wrap(ypr[1], -quarter, full)
	if ypr[1] > quarter {
		ypr[0] -= half
		ypr[1] = half - ypr[1]
		ypr[2] -= half
	}

	ypr[2] = wrap(ypr[2], -half, full)
	ypr[0] = wrap(ypr[0], 0, full)
	return ypr
}

// wrap maps a into [lo, lo+period).
func wrap(a, lo, period float64) float64 {
	a -= period * math.Floor((a-lo)/period)
	if a >= lo+period {
		a -= period
	}
	return a
}

// Slerp performs spherical linear interpolation between the unit quaternions
// q1 (t = 0) and q2 (t = 1) along the shortest arc. t outside of [0, 1]
// extrapolates along the same great circle. The result is a unit quaternion.
func Slerp(q1, q2 quat.Number, t float64) quat.Number {
	d := q1.Real*q2.Real + q1.Imag*q2.Imag + q1.Jmag*q2.Jmag + q1.Kmag*q2.Kmag
	absD := math.Abs(d)

	if absD >= 1-slerpEps {
		s1 := t
		if d < 0 {
			s1 = -s1
		}
		return Normalize(quat.Add(quat.Scale(1-t, q1), quat.Scale(s1, q2)))
	}

	theta := math.Acos(absD)
	sinTheta := math.Sin(theta)
	s0 := math.Sin((1-t)*theta) / sinTheta
	s1 := math.Sin(t*theta) / sinTheta
	if d < 0 {
		s1 = -s1
	}

	return quat.Add(quat.Scale(s0, q1), quat.Scale(s1, q2))
}

// Rotate rotates the vector v by the (unit) quaternion q.
func Rotate(q quat.Number, v [3]float64) [3]float64 {
	q = Normalize(q)
	p := quat.Number{Imag: v[0], Jmag: v[1], Kmag: v[2]}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return [3]float64{r.Imag, r.Jmag, r.Kmag}
}

// Heading computes the clockwise angle from north of a direction given by its
// northing and easting components. The result lies in [0, 360°).
func Heading(northing, easting float64, unit Unit) float64 {
	h := math.Atan2(easting, northing)
	if h < 0 {
		h += 2 * math.Pi
	}
	if unit == Degrees {
		h *= toDeg
	}
	return h
}
