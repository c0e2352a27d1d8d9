package interpolate

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// RowInterpolator is an Interpolator which can be used as a row of a
// BiVector.
type RowInterpolator[I any] interface {
	Interpolator
	Ref() I
	Equal(I) bool
}

// BiVector is a separable two dimensional interpolator over a grid of
// (row, column) coordinates. Each row holds a one dimensional interpolator
// across columns. To evaluate a point, every row is evaluated at the point's
// column and a new interpolator of the same type is fit across rows to the
// results.
//
// Rows need not share column coordinates.
type BiVector[I RowInterpolator[I]] struct {
	mode    ExtrapolationMode
	rows    []float64
	lines   []I
	newLine func() I
	workers int
}

// NewBiVector creates an empty BiVector whose row and cross-row interpolators
// are created by newLine.
func NewBiVector[I RowInterpolator[I]](
	newLine func() I, mode ExtrapolationMode,
) (*BiVector[I], error) {
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, mode)
	}
	return &BiVector[I]{
		mode: mode, newLine: newLine, workers: runtime.GOMAXPROCS(0),
	}, nil
}

func NewBiLinear(mode ExtrapolationMode) (*BiVector[*Linear], error) {
	return NewBiVector(func() *Linear { return &Linear{} }, mode)
}

func NewBiNearest(mode ExtrapolationMode) (*BiVector[*NearestNeighbor], error) {
	return NewBiVector(func() *NearestNeighbor { return &NearestNeighbor{} }, mode)
}

func NewBiAkima(mode ExtrapolationMode) (*BiVector[*Akima], error) {
	return NewBiVector(func() *Akima { return &Akima{} }, mode)
}

func (bi *BiVector[I]) line() I {
	ip := bi.newLine()
	// mode has already been validated.
	_ = ip.SetExtrapolationMode(bi.mode)
	return ip
}

// AppendRow adds a row at coordinate row, which must exceed every existing
// row coordinate. cols and vals are validated as in Interpolator.SetData.
func (bi *BiVector[I]) AppendRow(row float64, cols, vals []float64) error {
	after := math.Inf(-1)
	if len(bi.rows) > 0 {
		after = bi.rows[len(bi.rows)-1]
	}
	if !finite(row) {
		return fmt.Errorf("%w: row coordinate %g is not finite", ErrDomain, row)
	} else if row <= after {
		return fmt.Errorf(
			"%w: row coordinate %g does not exceed the previous row coordinate %g",
			ErrDomain, row, after,
		)
	}

	ip := bi.line()
	if err := ip.SetData(cols, vals); err != nil {
		return fmt.Errorf("row %g: %w", row, err)
	}
	bi.rows, bi.lines = append(bi.rows, row), append(bi.lines, ip)
	return nil
}

// Rows returns the row coordinates. It must not be modified.
func (bi *BiVector[I]) Rows() []float64 { return bi.rows }

// Row returns the interpolator of row i. It must not be modified.
func (bi *BiVector[I]) Row(i int) I { return bi.lines[i] }

func (bi *BiVector[I]) Len() int { return len(bi.rows) }

func (bi *BiVector[I]) Empty() bool { return len(bi.rows) == 0 }

func (bi *BiVector[I]) ExtrapolationMode() ExtrapolationMode { return bi.mode }

// SetExtrapolationMode sets the extrapolation mode of every row as well as of
// the interpolators fit across rows.
func (bi *BiVector[I]) SetExtrapolationMode(mode ExtrapolationMode) error {
	if !mode.valid() {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, mode)
	}
	bi.mode = mode
	for _, ip := range bi.lines {
		if err := ip.SetExtrapolationMode(mode); err != nil {
			return err
		}
	}
	return nil
}

// SetWorkers sets the number of goroutines used by EvalGrid. Values below one
// use GOMAXPROCS.
func (bi *BiVector[I]) SetWorkers(n int) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	bi.workers = n
}

func (bi *BiVector[I]) Workers() int { return bi.workers }

// Eval returns the interpolated value at (row, col).
func (bi *BiVector[I]) Eval(row, col float64) (float64, error) {
	if len(bi.rows) == 0 {
		return 0, fmt.Errorf(
			"%w: cannot evaluate at (%g, %g)", ErrNotInitialized, row, col,
		)
	}
	vals := make([]float64, len(bi.lines))
	across := bi.line()
	out := []float64{0}
	if err := bi.evalColumn(bi.lines, across, vals, col, []float64{row}, out); err != nil {
		return 0, err
	}
	return out[0], nil
}

// evalColumn evaluates every row in lines at col, fits across to the results
// and evaluates it at every element of rows.
func (bi *BiVector[I]) evalColumn(
	lines []I, across I, vals []float64, col float64, rows, out []float64,
) error {
	for i, ip := range lines {
		v, err := ip.Eval(col)
		if err != nil {
			return fmt.Errorf("row %g: %w", bi.rows[i], err)
		}
		vals[i] = v
	}
	if err := across.SetData(bi.rows, vals); err != nil {
		return fmt.Errorf("column %g: %w", col, err)
	}
	if _, err := across.EvalAll(rows, out); err != nil {
		return fmt.Errorf("column %g: %w", col, err)
	}
	return nil
}

// EvalGrid evaluates the interpolator on the grid formed by rows and cols. The
// element (i, j) of the result is the value at (rows[i], cols[j]).
//
// Columns are split evenly between Workers() goroutines. Each goroutine works
// on its own Ref of every row, so bi is only read.
func (bi *BiVector[I]) EvalGrid(rows, cols []float64) (*mat.Dense, error) {
	if len(bi.rows) == 0 {
		return nil, fmt.Errorf("%w: cannot evaluate grid", ErrNotInitialized)
	} else if len(rows) == 0 || len(cols) == 0 {
		return nil, fmt.Errorf(
			"%w: grid of %d rows and %d columns is empty",
			ErrInvalidArgument, len(rows), len(cols),
		)
	}

	out := mat.NewDense(len(rows), len(cols), nil)
	workers := min(max(bi.workers, 1), len(cols))
	chunk := (len(cols) + workers - 1) / workers

	g := &errgroup.Group{}
	g.SetLimit(workers)
	for start := 0; start < len(cols); start += chunk {
		start := start
		end := min(start+chunk, len(cols))
		g.Go(func() error {
			lines := make([]I, len(bi.lines))
			for i := range lines {
				lines[i] = bi.lines[i].Ref()
			}
			vals := make([]float64, len(lines))
			colOut := make([]float64, len(rows))

			for j := start; j < end; j++ {
				err := bi.evalColumn(lines, bi.line(), vals, cols[j], rows, colOut)
				if err != nil {
					return err
				}
				out.SetCol(j, colOut)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Equal returns true if both interpolators have the same extrapolation mode,
// their row coordinates agree to a relative tolerance of 1e-4 and every pair
// of rows is Equal.
func (bi *BiVector[I]) Equal(o *BiVector[I]) bool {
	if bi.mode != o.mode || !approxEqual(bi.rows, o.rows) {
		return false
	}
	for i := range bi.lines {
		if !bi.lines[i].Equal(o.lines[i]) {
			return false
		}
	}
	return true
}

func (bi *BiVector[I]) String() string {
	if len(bi.rows) == 0 {
		return fmt.Sprintf("BiVector{rows: 0, mode: %s}", bi.mode)
	}
	return fmt.Sprintf("BiVector{rows: %d, domain: [%g, %g], mode: %s}",
		len(bi.rows), bi.rows[0], bi.rows[len(bi.rows)-1], bi.mode)
}

// WriteTo writes the mode, the row coordinates and then every row's stream.
func (bi *BiVector[I]) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := binary.Write(cw, order, uint32(bi.mode)); err != nil {
		return cw.n, err
	}
	if err := writeSeries(cw, bi.rows); err != nil {
		return cw.n, err
	}
	for _, ip := range bi.lines {
		if _, err := ip.WriteTo(cw); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

// ReadFrom replaces the interpolator's state with a stream written by WriteTo.
// The interpolator is unchanged if an error is returned.
func (bi *BiVector[I]) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	mode, err := readMode(cr)
	if err != nil {
		return cr.n, err
	}
	rows, err := readSeries[float64](cr)
	if err != nil {
		return cr.n, corrupt("row coordinates", err)
	}
	if err := validateSeries(rows, rows, math.Inf(-1)); err != nil {
		return cr.n, fmt.Errorf("%w: row coordinates: %w", ErrCorrupt, err)
	}

	lines := make([]I, len(rows))
	for i := range lines {
		lines[i] = bi.newLine()
		if _, err := lines[i].ReadFrom(cr); err != nil {
			return cr.n, fmt.Errorf("row %g: %w", rows[i], err)
		}
		if lines[i].ExtrapolationMode() != mode {
			return cr.n, fmt.Errorf(
				"%w: row %g has extrapolation mode %s, expected %s",
				ErrCorrupt, rows[i], lines[i].ExtrapolationMode(), mode,
			)
		}
	}

	bi.mode, bi.rows, bi.lines = mode, rows, lines
	return cr.n, nil
}

func (bi *BiVector[I]) MarshalBinary() ([]byte, error) { return marshal(bi) }

func (bi *BiVector[I]) UnmarshalBinary(data []byte) error { return unmarshal(data, bi) }

// Hash returns a 64-bit content hash of the interpolator. It is computed by
// serializing the interpolator.
func (bi *BiVector[I]) Hash() (uint64, error) { return hash(bi) }
