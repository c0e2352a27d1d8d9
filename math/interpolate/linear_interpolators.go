package interpolate

///////////////////////////
// Linear Implementation //
///////////////////////////

type linearPair struct{}

func (linearPair) InterpolatePair(t float64, y1, y2 float64) float64 {
	return t*y2 + (1-t)*y1
}

// Linear is a linear interpolator.
type Linear struct {
	Pair[float64, linearPair]
}

// NewLinear creates a linear interpolator for a sequence of strictly
// increasing points, xs, which take on the values given by ys.
//
// Lookups of monotonic query sequences take amortized O(1) time.
func NewLinear(xs, ys []float64, mode ExtrapolationMode) (*Linear, error) {
	lin := &Linear{}
	if err := lin.SetExtrapolationMode(mode); err != nil {
		return nil, err
	}
	if err := lin.SetData(xs, ys); err != nil {
		return nil, err
	}
	return lin, nil
}

// Ref returns an interpolator sharing lin's points but not its lookup cache.
// Neither lin nor the returned interpolator may be modified while the other is
// in use.
func (lin *Linear) Ref() *Linear { return &Linear{lin.ref()} }

// Equal returns true if both interpolators use the same extrapolation mode and
// their points agree to a relative tolerance of 1e-4.
func (lin *Linear) Equal(o *Linear) bool { return lin.equal(&o.Pair) }

func (lin *Linear) String() string { return lin.describe("Linear") }

////////////////////////////////////
// NearestNeighbor Implementation //
////////////////////////////////////

type nearestPair struct{}

// The midpoint belongs to the upper point.
func (nearestPair) InterpolatePair(t float64, y1, y2 float64) float64 {
	if t < 0.5 {
		return y1
	}
	return y2
}

// NearestNeighbor is a nearest-neighbor interpolator.
type NearestNeighbor struct {
	Pair[float64, nearestPair]
}

// NewNearestNeighbor creates a nearest-neighbor interpolator for a sequence of
// strictly increasing points, xs, which take on the values given by ys.
func NewNearestNeighbor(
	xs, ys []float64, mode ExtrapolationMode,
) (*NearestNeighbor, error) {
	near := &NearestNeighbor{}
	if err := near.SetExtrapolationMode(mode); err != nil {
		return nil, err
	}
	if err := near.SetData(xs, ys); err != nil {
		return nil, err
	}
	return near, nil
}

// Ref returns an interpolator sharing near's points but not its lookup cache.
func (near *NearestNeighbor) Ref() *NearestNeighbor {
	return &NearestNeighbor{near.ref()}
}

func (near *NearestNeighbor) Equal(o *NearestNeighbor) bool {
	return near.equal(&o.Pair)
}

func (near *NearestNeighbor) String() string {
	return near.describe("NearestNeighbor")
}
