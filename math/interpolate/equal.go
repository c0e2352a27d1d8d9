package interpolate

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const (
	// equalTolerance is the relative tolerance used when comparing the points
	// of two interpolators.
	equalTolerance = 1e-4
	// equalMargin is the absolute tolerance for values near zero.
	equalMargin = 1e-12
)

var approxOpts = []cmp.Option{
	cmpopts.EquateApprox(equalTolerance, equalMargin),
	cmpopts.EquateNaNs(),
	cmpopts.EquateEmpty(),
}

// approxEqual compares slices of floats, or of structs of floats, element by
// element to a relative tolerance.
func approxEqual[Y any](a, b []Y) bool {
	return len(a) == len(b) && cmp.Equal(a, b, approxOpts...)
}
