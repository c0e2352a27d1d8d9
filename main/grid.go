package main

import (
	"context"
	"fmt"
	"time"

	"github.com/phil-mansfield/vecinterp/io"
	"github.com/phil-mansfield/vecinterp/logging"
	"github.com/phil-mansfield/vecinterp/math/interpolate"
)

// gridRows groups (row, col, value) triples into rows. Consecutive triples
// sharing a row coordinate belong to the same row.
func gridRows(rs, cs, vs []float64) (rows []float64, cols, vals [][]float64) {
	for i := range rs {
		if len(rows) == 0 || rs[i] != rows[len(rows)-1] {
			rows = append(rows, rs[i])
			cols, vals = append(cols, nil), append(vals, nil)
		}
		j := len(rows) - 1
		cols[j], vals[j] = append(cols[j], cs[i]), append(vals[j], vs[i])
	}
	return rows, cols, vals
}

func gridMain(
	ctx context.Context, logger *logging.Logger, con *io.GridConfig,
	threads int,
) error {
	cols, err := readColumns(
		con.Input, []int{con.RowColumn, con.ColColumn, con.ValueColumn},
	)
	if err != nil {
		logger.LogRead(ctx, con.Input, 0, 0, err)
		return err
	}
	logger.LogRead(ctx, con.Input, len(cols[0]), len(cols), nil)

	mode := con.ExtrapolationMode
	switch con.Method {
	case "Linear":
		bi, err := interpolate.NewBiLinear(mode)
		if err != nil {
			return err
		}
		return runGrid(ctx, logger, con, bi, cols, threads)
	case "Nearest":
		bi, err := interpolate.NewBiNearest(mode)
		if err != nil {
			return err
		}
		return runGrid(ctx, logger, con, bi, cols, threads)
	case "Akima":
		bi, err := interpolate.NewBiAkima(mode)
		if err != nil {
			return err
		}
		return runGrid(ctx, logger, con, bi, cols, threads)
	}
	return fmt.Errorf("Unrecognized method '%s'.", con.Method)
}

// runGrid fits bi to the triples in cols, evaluates it on the configured grid
// and writes the result.
func runGrid[I interpolate.RowInterpolator[I]](
	ctx context.Context, logger *logging.Logger, con *io.GridConfig,
	bi *interpolate.BiVector[I], cols [][]float64, threads int,
) error {
	rows, rowCols, rowVals := gridRows(cols[0], cols[1], cols[2])
	for i := range rows {
		err := bi.AppendRow(rows[i], rowCols[i], rowVals[i])
		if err != nil {
			logger.LogFit(ctx, con.Method, i, len(rowCols[i]), err)
			return fmt.Errorf("row %g: %w", rows[i], err)
		}
	}
	logger.LogFit(ctx, "Bi"+con.Method, -1, len(cols[0]), nil)

	bi.SetWorkers(threads)
	evalRows, evalCols := con.Rows(), con.Cols()
	start := time.Now()
	img, err := bi.EvalGrid(evalRows, evalCols)
	logger.LogEval(ctx, "Bi"+con.Method, len(evalRows)*len(evalCols),
		bi.Workers(), time.Since(start), err)
	if err != nil {
		return err
	}

	n := len(evalRows) * len(evalCols)
	rs, cs, vs := make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n)
	for i, r := range evalRows {
		for j, c := range evalCols {
			rs, cs, vs = append(rs, r), append(cs, c), append(vs, img.At(i, j))
		}
	}
	err = writeColumns(con.Output, []string{"row", "col", "value"}, rs, cs, vs)
	logger.LogWrite(ctx, con.Output, n, err)
	if err != nil {
		return err
	}

	if con.Model != "" {
		return saveModel(ctx, logger, con.Model, bi, con.Compression)
	}
	return nil
}
