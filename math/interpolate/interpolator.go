/*
package interpolate evaluates one and two dimensional tabulated functions at
arbitrary coordinates.

Every interpolator stores a strictly increasing, finite sequence of
coordinates together with one value per coordinate. Queries inside the
tabulated domain are interpolated by the interpolator's strategy (nearest
neighbor, linear, modified Akima spline or quaternion slerp) and queries
outside of it are handled according to the interpolator's ExtrapolationMode.

Pair based interpolators cache the last bracketing pair of points, so
sequences of increasing (or decreasing) queries are answered in amortized
constant time. The cache makes queries mutate the interpolator: no
interpolator may be used from multiple goroutines at once. Use Ref to get an
independent handle onto the same data for each goroutine.
*/
package interpolate

import (
	"fmt"
	"io"
	"strings"
)

// ExtrapolationMode controls how queries outside of the tabulated domain are
// answered.
type ExtrapolationMode uint32

const (
	// Extrapolate continues the boundary interval's interpolation outward.
	Extrapolate ExtrapolationMode = iota
	// Fail returns ErrOutOfRange.
	Fail
	// Nearest returns the boundary value.
	Nearest
)

// ExtrapolationModes lists every valid ExtrapolationMode.
var ExtrapolationModes = []ExtrapolationMode{Extrapolate, Fail, Nearest}

func (m ExtrapolationMode) String() string {
	switch m {
	case Extrapolate:
		return "Extrapolate"
	case Fail:
		return "Fail"
	case Nearest:
		return "Nearest"
	default:
		return fmt.Sprintf("ExtrapolationMode(%d)", uint32(m))
	}
}

func (m ExtrapolationMode) valid() bool { return m <= Nearest }

// ParseExtrapolationMode returns the mode with the given (case-insensitive)
// name.
func ParseExtrapolationMode(s string) (ExtrapolationMode, error) {
	for _, m := range ExtrapolationModes {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf(
		"%w: unrecognized extrapolation mode '%s', valid modes are "+
			"'Extrapolate', 'Fail' and 'Nearest'", ErrInvalidArgument, s,
	)
}

// UnmarshalText allows modes to be read directly from config files.
func (m *ExtrapolationMode) UnmarshalText(text []byte) error {
	mode, err := ParseExtrapolationMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m ExtrapolationMode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, m)
	}
	return []byte(m.String()), nil
}

// Interpolator is a one dimensional interpolator over scalar values.
type Interpolator interface {
	// Eval returns the interpolated value at x.
	Eval(x float64) (float64, error)
	// EvalAll evaluates the interpolator at every element of xs in order. If
	// an output slice is given, results are written to it (it is still
	// returned as a convenience). Only the first output slice is used.
	EvalAll(xs []float64, out ...[]float64) ([]float64, error)

	// SetData replaces all points.
	SetData(xs, ys []float64) error
	// Append adds a single point beyond the current maximum coordinate.
	Append(x, y float64) error
	// Extend appends a sorted batch of points beyond the current maximum
	// coordinate.
	Extend(xs, ys []float64) error
	// Insert merges a batch of points, which may be unsorted, into the
	// interpolator.
	Insert(xs, ys []float64, sorted bool) error

	X() []float64
	Y() []float64
	Len() int
	Empty() bool

	ExtrapolationMode() ExtrapolationMode
	SetExtrapolationMode(mode ExtrapolationMode) error

	io.WriterTo
	io.ReaderFrom
}

var (
	_ Interpolator = &Linear{}
	_ Interpolator = &NearestNeighbor{}
	_ Interpolator = &Akima{}
)
