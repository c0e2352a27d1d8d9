package interpolate

import (
	"fmt"
	"math"
)

// minSplinePoints is the smallest number of points a Spline can be fit to.
const minSplinePoints = 4

// Spline is a modified Akima ("makima") cubic spline. Each interval is a
// cubic Hermite polynomial whose endpoint derivatives are weighted averages of
// the neighboring secant slopes. Unlike a natural cubic spline, moving one
// point only changes the curve over the two intervals on either side of it,
// which allows points to be appended without refitting the whole curve.
type Spline struct {
	xs, ys, ds []float64

	// Usually the input data is uniform. This is our estimate of the point
	// spacing.
	dx float64
}

// NewSpline fits a spline to at least four strictly increasing points, xs,
// which take on the values given by ys.
func NewSpline(xs, ys []float64) (*Spline, error) {
	if err := validateSeries(xs, ys, math.Inf(-1)); err != nil {
		return nil, err
	} else if len(xs) < minSplinePoints {
		return nil, fmt.Errorf(
			"%w: a spline needs at least %d points, but %d were given",
			ErrInvalidArgument, minSplinePoints, len(xs),
		)
	}
	return newSpline(xs, ys), nil
}

// newSpline fits a spline to at least minSplinePoints points. xs must already
// be validated.
func newSpline(xs, ys []float64) *Spline {
	sp := &Spline{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
		ds: make([]float64, len(xs)),
	}
	sp.calcDerivs(0)
	return sp
}

// push appends a point beyond the end of the spline. Only the derivatives of
// the last few points depend on it.
func (sp *Spline) push(x, y float64) {
	sp.xs, sp.ys, sp.ds = append(sp.xs, x), append(sp.ys, y), append(sp.ds, 0)
	sp.calcDerivs(len(sp.xs) - minSplinePoints)
}

func (sp *Spline) len() int { return len(sp.xs) }

// slope returns the secant slope of interval k. Slopes of the two missing
// intervals past either end are extrapolated linearly.
func (sp *Spline) slope(k int) float64 {
	n := len(sp.xs)
	switch {
	case k < 0:
		return 2*sp.slope(k+1) - sp.slope(k+2)
	case k > n-2:
		return 2*sp.slope(k-1) - sp.slope(k-2)
	}
	return (sp.ys[k+1] - sp.ys[k]) / (sp.xs[k+1] - sp.xs[k])
}

// calcDerivs recomputes the derivative at every point from index start on.
func (sp *Spline) calcDerivs(start int) {
	if start < 0 {
		start = 0
	}
	n := len(sp.xs)
	sp.dx = (sp.xs[n-1] - sp.xs[0]) / float64(n-1)

	for i := start; i < n; i++ {
		s0, s1 := sp.slope(i-2), sp.slope(i-1)
		s2, s3 := sp.slope(i), sp.slope(i+1)

		w1 := math.Abs(s3-s2) + math.Abs(s3+s2)/2
		w2 := math.Abs(s1-s0) + math.Abs(s1+s0)/2
		if w1+w2 == 0 {
			sp.ds[i] = 0
		} else {
			sp.ds[i] = (w1*s1 + w2*s2) / (w1 + w2)
		}
	}
}

// Eval computes the value of the spline at the given point.
//
// x must be within the range of the spline's points.
func (sp *Spline) Eval(x float64) float64 {
	i := sp.bsearch(x)
	h := sp.xs[i+1] - sp.xs[i]
	t := (x - sp.xs[i]) / h
	t2 := t * t
	t3 := t2 * t

	return (2*t3-3*t2+1)*sp.ys[i] + (t3-2*t2+t)*h*sp.ds[i] +
		(-2*t3+3*t2)*sp.ys[i+1] + (t3-t2)*h*sp.ds[i+1]
}

// bsearch returns the index of the interval containing x.
func (sp *Spline) bsearch(x float64) int {
	n := len(sp.xs)

	// Guess under the assumption of uniform spacing.
	guess := int((x - sp.xs[0]) / sp.dx)
	if guess >= 0 && guess < n-1 &&
		sp.xs[guess] <= x && x <= sp.xs[guess+1] {
		return guess
	}

	// Binary search.
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x >= sp.xs[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
