package interpolate

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"slices"
)

// boundaryFraction is the width of the boundary extrapolators relative to the
// width of the first and last intervals.
const boundaryFraction = 0.01

// Akima interpolates with a modified Akima cubic spline. Below four points it
// behaves exactly like Linear.
//
// Outside of the spline's domain, Akima extrapolates along the secant of the
// spline over the first (or last) hundredth of the boundary interval, which
// follows the spline's local slope.
type Akima struct {
	mode ExtrapolationMode

	// Exactly one of linear and spline is in use. linear is nil in the zero
	// value.
	linear      *Linear
	spline      *Spline
	left, right *Linear
}

// NewAkima creates an Akima interpolator for a sequence of strictly increasing
// points, xs, which take on the values given by ys.
func NewAkima(xs, ys []float64, mode ExtrapolationMode) (*Akima, error) {
	ak := &Akima{}
	if err := ak.SetExtrapolationMode(mode); err != nil {
		return nil, err
	}
	if err := ak.SetData(xs, ys); err != nil {
		return nil, err
	}
	return ak, nil
}

func (ak *Akima) degraded() bool { return ak.spline == nil }

func (ak *Akima) lin() *Linear {
	if ak.linear == nil {
		ak.linear = &Linear{}
		ak.linear.mode = ak.mode
	}
	return ak.linear
}

// Eval returns the interpolated value at x.
func (ak *Akima) Eval(x float64) (float64, error) {
	if ak.degraded() {
		return ak.lin().Eval(x)
	}
	if math.IsNaN(x) {
		return 0, fmt.Errorf("%w: query coordinate is NaN", ErrDomain)
	}

	xs := ak.spline.xs
	lo, hi := xs[0], xs[len(xs)-1]
	if x >= lo && x <= hi {
		return ak.spline.Eval(x), nil
	}

	switch ak.mode {
	case Fail:
		return 0, fmt.Errorf(
			"%w: x = %g is outside of the domain [%g, %g]",
			ErrOutOfRange, x, lo, hi,
		)
	case Nearest:
		if x < lo {
			return ak.spline.ys[0], nil
		}
		return ak.spline.ys[len(xs)-1], nil
	}

	if x < lo {
		return ak.left.Eval(x)
	}
	return ak.right.Eval(x)
}

// EvalAll evaluates the interpolator at every element of xs in order. If an
// output slice is given, the results are written to it.
func (ak *Akima) EvalAll(xs []float64, out ...[]float64) ([]float64, error) {
	buf, err := outputBuffer(len(xs), out)
	if err != nil {
		return nil, err
	}
	for i, x := range xs {
		if buf[i], err = ak.Eval(x); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return buf, nil
}

// SetData replaces every point of the interpolator and refits the spline.
func (ak *Akima) SetData(xs, ys []float64) error {
	if err := validateSeries(xs, ys, math.Inf(-1)); err != nil {
		return err
	}
	ak.setValid(xs, ys)
	return nil
}

// setValid installs already validated points.
func (ak *Akima) setValid(xs, ys []float64) {
	if len(xs) < minSplinePoints {
		ak.spline, ak.left, ak.right = nil, nil, nil
		lin := ak.lin()
		lin.xs, lin.ys = slices.Clone(xs), slices.Clone(ys)
		lin.resetBracket()
		return
	}

	ak.linear = nil
	ak.spline = newSpline(xs, ys)
	ak.fitBoundaries()
}

// fitBoundaries rebuilds the two boundary extrapolators from the spline.
func (ak *Akima) fitBoundaries() {
	xs, ys := ak.spline.xs, ak.spline.ys
	n := len(xs)

	x0, xN := xs[0], xs[n-1]
	x0Inner := x0 + boundaryFraction*(xs[1]-x0)
	xNInner := xN - boundaryFraction*(xN-xs[n-2])

	ak.left = &Linear{}
	ak.left.xs = []float64{x0, x0Inner}
	ak.left.ys = []float64{ys[0], ak.spline.Eval(x0Inner)}
	ak.left.resetBracket()

	ak.right = &Linear{}
	ak.right.xs = []float64{xNInner, xN}
	ak.right.ys = []float64{ak.spline.Eval(xNInner), ys[n-1]}
	ak.right.resetBracket()
}

// Append adds a point whose coordinate exceeds every existing coordinate. The
// spline is extended without being refit.
func (ak *Akima) Append(x, y float64) error {
	if ak.degraded() {
		lin := ak.lin()
		if lin.Len()+1 < minSplinePoints {
			return lin.Append(x, y)
		}
		if err := validatePoint(x, y, lin.max()); err != nil {
			return err
		}
		ak.setValid(append(slices.Clone(lin.xs), x), append(slices.Clone(lin.ys), y))
		return nil
	}

	if err := validatePoint(x, y, ak.max()); err != nil {
		return err
	}
	ak.spline.push(x, y)
	ak.fitBoundaries()
	return nil
}

// Extend appends a sorted batch of points beyond the current maximum
// coordinate. Either every point is appended or, on error, none are.
func (ak *Akima) Extend(xs, ys []float64) error {
	if err := validateSeries(xs, ys, ak.max()); err != nil {
		return err
	} else if len(xs) == 0 {
		return nil
	}

	if ak.degraded() {
		lin := ak.lin()
		ak.setValid(append(slices.Clone(lin.xs), xs...), append(slices.Clone(lin.ys), ys...))
		return nil
	}
	for i := range xs {
		ak.spline.push(xs[i], ys[i])
	}
	ak.fitBoundaries()
	return nil
}

// Insert merges a batch of points, which need not be sorted unless sorted is
// true, into the interpolator and refits the spline. Either every point is
// inserted or, on error, none are.
func (ak *Akima) Insert(xs, ys []float64, sorted bool) error {
	if len(xs) != len(ys) {
		return lengthError(len(xs), len(ys))
	} else if len(xs) == 0 {
		return nil
	}
	if sorted && (ak.Empty() || xs[0] > ak.max()) {
		return ak.Extend(xs, ys)
	}

	mx, my := mergeSeries(ak.X(), ak.Y(), xs, ys)
	if err := validateSeries(mx, my, math.Inf(-1)); err != nil {
		return err
	}
	ak.setValid(mx, my)
	return nil
}

func (ak *Akima) max() float64 {
	if ak.Empty() {
		return math.Inf(-1)
	}
	xs := ak.X()
	return xs[len(xs)-1]
}

// X returns the coordinates of the interpolator. It must not be modified.
func (ak *Akima) X() []float64 {
	if ak.degraded() {
		return ak.lin().xs
	}
	return ak.spline.xs
}

// Y returns the values of the interpolator. It must not be modified.
func (ak *Akima) Y() []float64 {
	if ak.degraded() {
		return ak.lin().ys
	}
	return ak.spline.ys
}

func (ak *Akima) Len() int { return len(ak.X()) }

func (ak *Akima) Empty() bool { return ak.Len() == 0 }

func (ak *Akima) ExtrapolationMode() ExtrapolationMode { return ak.mode }

// SetExtrapolationMode sets the extrapolation mode. Below four points the mode
// applies to the linear interpolation used in place of the spline.
func (ak *Akima) SetExtrapolationMode(mode ExtrapolationMode) error {
	if !mode.valid() {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, mode)
	}
	ak.mode = mode
	if ak.linear != nil {
		ak.linear.mode = mode
	}
	return nil
}

// Ref returns an interpolator sharing ak's points and spline but not its
// lookup caches. Neither ak nor the returned interpolator may be modified while
// the other is in use.
func (ak *Akima) Ref() *Akima {
	ref := &Akima{mode: ak.mode}
	if ak.linear != nil {
		ref.linear = ak.linear.Ref()
	}
	if ak.spline != nil {
		ref.spline = &Spline{
			xs: ak.spline.xs[:ak.spline.len():ak.spline.len()],
			ys: ak.spline.ys[:ak.spline.len():ak.spline.len()],
			ds: ak.spline.ds[:ak.spline.len():ak.spline.len()],
			dx: ak.spline.dx,
		}
		ref.left, ref.right = ak.left.Ref(), ak.right.Ref()
	}
	return ref
}

// Equal returns true if both interpolators use the same extrapolation mode and
// their points agree to a relative tolerance of 1e-4.
func (ak *Akima) Equal(o *Akima) bool {
	return ak.mode == o.mode &&
		approxEqual(ak.X(), o.X()) && approxEqual(ak.Y(), o.Y())
}

func (ak *Akima) String() string {
	xs := ak.X()
	if len(xs) == 0 {
		return fmt.Sprintf("Akima{n: 0, mode: %s}", ak.mode)
	}
	return fmt.Sprintf("Akima{n: %d, domain: [%g, %g], mode: %s}",
		len(xs), xs[0], xs[len(xs)-1], ak.mode)
}

// WriteTo writes the interpolator's mode and points to w. The spline is not
// written: it is refit when the stream is read.
func (ak *Akima) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := binary.Write(cw, order, uint32(ak.mode)); err != nil {
		return cw.n, err
	}
	if err := writeSeries(cw, ak.X()); err != nil {
		return cw.n, err
	}
	err := writeSeries(cw, ak.Y())
	return cw.n, err
}

// ReadFrom replaces the interpolator's state with a stream written by WriteTo.
// The interpolator is unchanged if an error is returned.
func (ak *Akima) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	mode, err := readMode(cr)
	if err != nil {
		return cr.n, err
	}
	xs, ys, err := readData[float64](cr)
	if err != nil {
		return cr.n, err
	}

	ak.mode, ak.linear = mode, nil
	ak.setValid(xs, ys)
	return cr.n, nil
}

func (ak *Akima) MarshalBinary() ([]byte, error) { return marshal(ak) }

func (ak *Akima) UnmarshalBinary(data []byte) error { return unmarshal(data, ak) }

// Hash returns a 64-bit content hash of the interpolator. It is computed by
// serializing the interpolator.
func (ak *Akima) Hash() (uint64, error) { return hash(ak) }
