package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/vecinterp/io"
	"github.com/phil-mansfield/vecinterp/logging"
	"github.com/phil-mansfield/vecinterp/math/interpolate"
)

func TestGetModeName(t *testing.T) {
	a, b, c := "", "x.cfg", ""
	vars := map[string]*string{"Resample": &a, "Grid": &b, "Inspect": &c}

	name, err := getModeName(vars)
	require.NoError(t, err)
	assert.Equal(t, "Grid", name)

	a = "y.cfg"
	_, err = getModeName(vars)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Grid, Resample")

	a, b = "", ""
	_, err = getModeName(vars)
	require.Error(t, err)

	ex := "Bounds"
	err = run(context.Background(), logging.NoopLogger(), "ExampleConfig",
		map[string]*string{"ExampleConfig": &ex}, 1)
	require.Error(t, err)
}

func TestGridRows(t *testing.T) {
	rows, cols, vals := gridRows(
		[]float64{0, 0, 0, 1, 1, 3},
		[]float64{1, 2, 3, 0, 5, 2},
		[]float64{9, 8, 7, 6, 5, 4},
	)
	assert.Equal(t, []float64{0, 1, 3}, rows)
	assert.Equal(t, [][]float64{{1, 2, 3}, {0, 5}, {2}}, cols)
	assert.Equal(t, [][]float64{{9, 8, 7}, {6, 5}, {4}}, vals)

	rows, cols, vals = gridRows(nil, nil, nil)
	assert.Empty(t, rows)
	assert.Empty(t, cols)
	assert.Empty(t, vals)
}

func writeTable(t *testing.T, dir string, cols ...[]float64) string {
	t.Helper()
	fname := filepath.Join(dir, "input.txt")
	f, err := os.Create(fname)
	require.NoError(t, err)
	require.NoError(t, io.WriteColumns(f, nil, cols...))
	require.NoError(t, f.Close())
	return fname
}

func TestReadColumnsOrder(t *testing.T) {
	fname := writeTable(t, t.TempDir(),
		[]float64{0, 1}, []float64{2, 3}, []float64{4, 5},
	)
	cols, err := readColumns(fname, []int{2, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{4, 5}, {0, 1}, {4, 5}}, cols)
}

func TestResampleMain(t *testing.T) {
	dir := t.TempDir()
	ts := []float64{0, 1, 2, 3, 4}
	as, bs := make([]float64, len(ts)), make([]float64, len(ts))
	for i, x := range ts {
		as[i], bs[i] = 2*x+1, -x
	}

	con := &io.DefaultResampleWrapper().Resample
	con.Input = writeTable(t, dir, ts, as, bs)
	con.Output = filepath.Join(dir, "output.txt")
	con.Method = "Linear"
	con.ValueColumn = []int{2, 1}
	con.Start, con.End, con.Step = -1, 4, 0.5
	con.ModelDir = dir
	require.NoError(t, con.CheckInit())

	ctx := context.Background()
	require.NoError(t, resampleMain(ctx, logging.NoopLogger(), con, 2))

	out, err := io.ReadColumns(con.Output, []int{0, 1, 2})
	require.NoError(t, err)
	require.Len(t, out[0], 11)
	for i, x := range out[0] {
		assert.InDelta(t, -x, out[1][i], 1e-12)
		assert.InDelta(t, 2*x+1, out[2][i], 1e-12)
	}

	m, err := io.LoadModel(filepath.Join(dir, "column_1.vint"))
	require.NoError(t, err)
	v, err := m.(*interpolate.Linear).Eval(2.5)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	buf := &bytes.Buffer{}
	require.NoError(t, inspectMain(buf, filepath.Join(dir, "column_2.vint")))
	assert.Contains(t, buf.String(), "Kind: Linear")
	assert.Contains(t, buf.String(), "Domain: [0, 4]")

	con.ExtrapolationMode = interpolate.Fail
	con.ModelDir = ""
	err = resampleMain(ctx, logging.NoopLogger(), con, 2)
	require.ErrorIs(t, err, interpolate.ErrOutOfRange)
}

func TestResampleOrientation(t *testing.T) {
	dir := t.TempDir()
	ts := []float64{0, 1, 2}
	con := &io.DefaultResampleWrapper().Resample
	con.Input = writeTable(t, dir, ts,
		[]float64{10, 10, 10}, []float64{20, 20, 20}, []float64{30, 30, 30},
	)
	con.Output = filepath.Join(dir, "output.txt")
	con.Method = "Slerp"
	con.AngleColumn = []int{1, 2, 3}
	con.Start, con.End, con.Step = 0, 2, 0.25
	require.NoError(t, con.CheckInit())

	require.NoError(t, resampleMain(context.Background(), logging.NoopLogger(), con, 4))

	out, err := io.ReadColumns(con.Output, []int{0, 1, 2, 3})
	require.NoError(t, err)
	require.Len(t, out[0], 9)
	for i := range out[0] {
		assert.InDelta(t, 10, out[1][i], 1e-9)
		assert.InDelta(t, 20, out[2][i], 1e-9)
		assert.InDelta(t, 30, out[3][i], 1e-9)
	}
}

func TestGridMain(t *testing.T) {
	dir := t.TempDir()
	var rs, cs, vs []float64
	for _, r := range []float64{0, 1, 2} {
		for _, c := range []float64{0, 1, 2, 3} {
			rs, cs, vs = append(rs, r), append(cs, c), append(vs, 2*r-3*c+1)
		}
	}

	con := &io.DefaultGridWrapper().Grid
	con.Input = writeTable(t, dir, rs, cs, vs)
	con.Output = filepath.Join(dir, "output.txt")
	con.Method = "Linear"
	con.RowColumn, con.ColColumn, con.ValueColumn = 0, 1, 2
	con.RowStart, con.RowEnd, con.RowStep = 0, 2, 0.5
	con.ColStart, con.ColEnd, con.ColStep = -1, 3, 0.5
	con.Model = filepath.Join(dir, "grid.vint")
	require.NoError(t, con.CheckInit())

	require.NoError(t, gridMain(context.Background(), logging.NoopLogger(), con, 3))

	out, err := io.ReadColumns(con.Output, []int{0, 1, 2})
	require.NoError(t, err)
	require.Len(t, out[0], 5*9)
	for i := range out[0] {
		assert.InDelta(t, 2*out[0][i]-3*out[1][i]+1, out[2][i], 1e-9)
	}

	buf := &bytes.Buffer{}
	require.NoError(t, inspectMain(buf, con.Model))
	assert.Contains(t, buf.String(), "Kind: BiLinear")
	assert.Contains(t, buf.String(), "Points: 3")

	con.Method = "Akima"
	con.Input = writeTable(t, dir, []float64{1, 0}, []float64{0, 0}, []float64{1, 1})
	err = gridMain(context.Background(), logging.NoopLogger(), con, 3)
	require.ErrorIs(t, err, interpolate.ErrDomain)
}
