package interpolate

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/num/quat"
)

// PairStrategy interpolates between the two points of a bracketing pair. t is
// 0 at the lower point and 1 at the upper point, and lies outside of [0, 1]
// when extrapolating.
type PairStrategy[Y any] interface {
	InterpolatePair(t float64, y1, y2 Y) Y
}

// bracket is the cached pair of points enclosing the last query.
type bracket struct {
	lo, hi      int
	xLo, xHi    float64
	inverseSpan float64
}

// Pair is the shared driver of every interpolator which only looks at the two
// points bracketing a query. The zero value is an empty interpolator which
// extrapolates.
type Pair[Y any, S PairStrategy[Y]] struct {
	xs   []float64
	ys   []Y
	mode ExtrapolationMode
	last bracket
}

func (p *Pair[Y, S]) setBracket(lo, hi int) {
	p.last = bracket{
		lo: lo, hi: hi,
		xLo: p.xs[lo], xHi: p.xs[hi],
		inverseSpan: 1 / (p.xs[hi] - p.xs[lo]),
	}
}

func (p *Pair[Y, S]) resetBracket() {
	if len(p.xs) >= 2 {
		p.setBracket(0, 1)
	} else {
		p.last = bracket{}
	}
}

// Eval returns the interpolated value at x.
func (p *Pair[Y, S]) Eval(x float64) (Y, error) {
	var zero Y
	n := len(p.xs)
	switch {
	case n == 0:
		return zero, fmt.Errorf("%w: cannot evaluate at x = %g", ErrNotInitialized, x)
	case n == 1:
		return p.ys[0], nil
	case math.IsNaN(x):
		return zero, fmt.Errorf("%w: query coordinate is NaN", ErrDomain)
	}

	if x > p.last.xHi {
		hi := p.last.hi + 1
		for hi < n && p.xs[hi] < x {
			hi++
		}
		if hi == n {
			p.setBracket(n-2, n-1)
			return p.outside(x, n-1)
		}
		p.setBracket(hi-1, hi)
	} else if x < p.last.xLo {
		lo := p.last.lo - 1
		for lo >= 0 && p.xs[lo] > x {
			lo--
		}
		if lo < 0 {
			p.setBracket(0, 1)
			return p.outside(x, 0)
		}
		p.setBracket(lo, lo+1)
	}

	switch x {
	case p.last.xLo:
		return p.ys[p.last.lo], nil
	case p.last.xHi:
		return p.ys[p.last.hi], nil
	}
	return p.interpolate(x), nil
}

func (p *Pair[Y, S]) interpolate(x float64) Y {
	var s S
	t := (x - p.last.xLo) * p.last.inverseSpan
	return s.InterpolatePair(t, p.ys[p.last.lo], p.ys[p.last.hi])
}

// outside handles a query beyond the point at index edge. The cache must
// already hold the boundary pair.
func (p *Pair[Y, S]) outside(x float64, edge int) (Y, error) {
	switch p.mode {
	case Fail:
		var zero Y
		return zero, fmt.Errorf(
			"%w: x = %g is outside of the domain [%g, %g]",
			ErrOutOfRange, x, p.xs[0], p.xs[len(p.xs)-1],
		)
	case Nearest:
		return p.ys[edge], nil
	default:
		return p.interpolate(x), nil
	}
}

// EvalAll evaluates the interpolator at every element of xs in order. If an
// output slice is given, the results are written to it (it is still returned
// as a convenience).
//
// If more than one output slice is provided, only the first is used.
func (p *Pair[Y, S]) EvalAll(xs []float64, out ...[]Y) ([]Y, error) {
	buf, err := outputBuffer(len(xs), out)
	if err != nil {
		return nil, err
	}
	for i, x := range xs {
		if buf[i], err = p.Eval(x); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return buf, nil
}

func outputBuffer[Y any](n int, out [][]Y) ([]Y, error) {
	if len(out) == 0 {
		return make([]Y, n), nil
	}
	if len(out[0]) < n {
		return nil, fmt.Errorf(
			"%w: output slice has length %d, but %d points were requested",
			ErrInvalidArgument, len(out[0]), n,
		)
	}
	return out[0][:n], nil
}

// SetData replaces every point of the interpolator. xs must be finite and
// strictly increasing. The inputs are copied.
func (p *Pair[Y, S]) SetData(xs []float64, ys []Y) error {
	if err := validateSeries(xs, ys, math.Inf(-1)); err != nil {
		return err
	}
	p.xs, p.ys = slices.Clone(xs), slices.Clone(ys)
	p.resetBracket()
	return nil
}

// Append adds a point whose coordinate exceeds every existing coordinate.
func (p *Pair[Y, S]) Append(x float64, y Y) error {
	if err := validatePoint(x, y, p.max()); err != nil {
		return err
	}
	p.xs, p.ys = append(p.xs, x), append(p.ys, y)
	if len(p.xs) == 2 {
		p.resetBracket()
	}
	return nil
}

// Extend appends a batch of points. The batch must be sorted and lie beyond
// the current maximum coordinate. Either every point is appended or, on error,
// none are.
func (p *Pair[Y, S]) Extend(xs []float64, ys []Y) error {
	if err := validateSeries(xs, ys, p.max()); err != nil {
		return err
	}
	n := len(p.xs)
	p.xs, p.ys = append(p.xs, xs...), append(p.ys, ys...)
	if n < 2 && len(p.xs) >= 2 {
		p.resetBracket()
	}
	return nil
}

// Insert merges a batch of points into the interpolator. If sorted is false
// the batch may be in any order. Coordinates must remain unique after the
// merge. Either every point is inserted or, on error, none are.
func (p *Pair[Y, S]) Insert(xs []float64, ys []Y, sorted bool) error {
	if len(xs) != len(ys) {
		return lengthError(len(xs), len(ys))
	} else if len(xs) == 0 {
		return nil
	}
	if sorted && (len(p.xs) == 0 || xs[0] > p.xs[len(p.xs)-1]) {
		return p.Extend(xs, ys)
	}

	mx, my := mergeSeries(p.xs, p.ys, xs, ys)
	if err := validateSeries(mx, my, math.Inf(-1)); err != nil {
		return err
	}
	p.xs, p.ys = mx, my
	p.resetBracket()
	return nil
}

func (p *Pair[Y, S]) max() float64 {
	if len(p.xs) == 0 {
		return math.Inf(-1)
	}
	return p.xs[len(p.xs)-1]
}

// X returns the coordinates of the interpolator. It must not be modified.
func (p *Pair[Y, S]) X() []float64 { return p.xs }

// Y returns the values of the interpolator. It must not be modified.
func (p *Pair[Y, S]) Y() []Y { return p.ys }

func (p *Pair[Y, S]) Len() int { return len(p.xs) }

func (p *Pair[Y, S]) Empty() bool { return len(p.xs) == 0 }

func (p *Pair[Y, S]) ExtrapolationMode() ExtrapolationMode { return p.mode }

func (p *Pair[Y, S]) SetExtrapolationMode(mode ExtrapolationMode) error {
	if !mode.valid() {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, mode)
	}
	p.mode = mode
	return nil
}

// ref returns a handle onto the same points with its own cache. Capacities
// are clipped so that appending to either handle never writes into memory
// visible to the other.
func (p *Pair[Y, S]) ref() Pair[Y, S] {
	return Pair[Y, S]{
		xs:   p.xs[:len(p.xs):len(p.xs)],
		ys:   p.ys[:len(p.ys):len(p.ys)],
		mode: p.mode,
		last: p.last,
	}
}

func (p *Pair[Y, S]) equal(o *Pair[Y, S]) bool {
	return p.mode == o.mode && approxEqual(p.xs, o.xs) && approxEqual(p.ys, o.ys)
}

func (p *Pair[Y, S]) describe(name string) string {
	if len(p.xs) == 0 {
		return fmt.Sprintf("%s{n: 0, mode: %s}", name, p.mode)
	}
	return fmt.Sprintf("%s{n: %d, domain: [%g, %g], mode: %s}",
		name, len(p.xs), p.xs[0], p.xs[len(p.xs)-1], p.mode)
}

// mergeSeries returns the points of both series sorted by coordinate.
func mergeSeries[Y any](xs1 []float64, ys1 []Y, xs2 []float64, ys2 []Y) ([]float64, []Y) {
	allX := append(slices.Clone(xs1), xs2...)
	allY := append(slices.Clone(ys1), ys2...)

	idx := make([]int, len(allX))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(allX[a], allX[b])
	})

	xs, ys := make([]float64, len(idx)), make([]Y, len(idx))
	for i, j := range idx {
		xs[i], ys[i] = allX[j], allY[j]
	}
	return xs, ys
}

func lengthError(nx, ny int) error {
	return fmt.Errorf(
		"%w: len(xs) = %d, but len(ys) = %d", ErrInvalidArgument, nx, ny,
	)
}

// validateSeries checks that xs and ys have the same length, that xs is
// finite, strictly increasing and greater than after, and that every value is
// valid.
func validateSeries[Y any](xs []float64, ys []Y, after float64) error {
	if len(xs) != len(ys) {
		return lengthError(len(xs), len(ys))
	}
	prev := after
	for i := range xs {
		if err := validatePoint(xs[i], ys[i], prev); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
		prev = xs[i]
	}
	return nil
}

func validatePoint[Y any](x float64, y Y, after float64) error {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return fmt.Errorf("%w: coordinate %g is not finite", ErrDomain, x)
	case x <= after:
		return fmt.Errorf(
			"%w: coordinate %g does not exceed the preceding coordinate %g",
			ErrDomain, x, after,
		)
	case !validValue(y):
		return fmt.Errorf("%w: value %v at x = %g is not finite", ErrDomain, y, x)
	}
	return nil
}

func validValue[Y any](y Y) bool {
	switch v := any(y).(type) {
	case float64:
		return finite(v)
	case quat.Number:
		return !quat.IsNaN(v) && !quat.IsInf(v) && quat.Abs(v) > 0
	default:
		return true
	}
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
