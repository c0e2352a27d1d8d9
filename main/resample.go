package main

import (
	"context"
	"fmt"
	"path"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/vecinterp/io"
	"github.com/phil-mansfield/vecinterp/logging"
	"github.com/phil-mansfield/vecinterp/math/interpolate"
)

// newInterpolator returns an empty scalar interpolator for the given method.
func newInterpolator(
	method string, mode interpolate.ExtrapolationMode,
) (interpolate.Interpolator, error) {
	var ip interpolate.Interpolator
	switch method {
	case "Linear":
		ip = &interpolate.Linear{}
	case "Nearest":
		ip = &interpolate.NearestNeighbor{}
	case "Akima":
		ip = &interpolate.Akima{}
	default:
		return nil, fmt.Errorf("Unrecognized method '%s'.", method)
	}
	if err := ip.SetExtrapolationMode(mode); err != nil {
		return nil, err
	}
	return ip, nil
}

// evalTimes returns the points a resampling is evaluated at.
func evalTimes(con *io.ResampleConfig) ([]float64, error) {
	if con.Target == "" {
		return con.Times(), nil
	}
	cols, err := io.ReadColumns(con.Target, []int{con.TargetColumn})
	if err != nil {
		return nil, err
	}
	return cols[0], nil
}

func resampleMain(
	ctx context.Context, logger *logging.Logger, con *io.ResampleConfig,
	threads int,
) error {
	valIdxs := con.ValueColumn
	if con.Method == "Slerp" {
		valIdxs = con.AngleColumn
	}

	cols, err := readColumns(con.Input, append([]int{con.TimeColumn}, valIdxs...))
	if err != nil {
		logger.LogRead(ctx, con.Input, 0, 0, err)
		return err
	}
	logger.LogRead(ctx, con.Input, len(cols[0]), len(cols), nil)
	ts, vals := cols[0], cols[1:]

	evalTs, err := evalTimes(con)
	if err != nil {
		return err
	}

	start := time.Now()
	var out [][]float64
	var header []string
	if con.Method == "Slerp" {
		out, err = resampleOrientation(ctx, logger, con, ts, vals, evalTs)
		header = []string{"t", "yaw", "pitch", "roll"}
		threads = 1
	} else {
		out, err = resampleScalars(ctx, logger, con, ts, vals, evalTs, threads)
		header = []string{"t"}
		for _, c := range valIdxs {
			header = append(header, fmt.Sprintf("column_%d", c))
		}
	}
	logger.LogEval(ctx, con.Method, len(evalTs)*len(vals), threads,
		time.Since(start), err)
	if err != nil {
		return err
	}

	err = writeColumns(con.Output, header, append([][]float64{evalTs}, out...)...)
	logger.LogWrite(ctx, con.Output, len(evalTs), err)
	if err != nil {
		return err
	}

	if con.PlotFile != "" {
		title := fmt.Sprintf("%s resampling of %s", con.Method, path.Base(con.Input))
		if err := io.PlotResample(
			con.PlotFile, title, ts, vals, evalTs, out,
		); err != nil {
			return err
		}
	}
	return nil
}

// resampleScalars fits and evaluates every value column, using up to threads
// goroutines.
func resampleScalars(
	ctx context.Context, logger *logging.Logger, con *io.ResampleConfig,
	ts []float64, vals [][]float64, evalTs []float64, threads int,
) ([][]float64, error) {
	out := make([][]float64, len(vals))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(threads, 1))
	for i := range vals {
		i := i
		g.Go(func() error {
			col := con.ValueColumn[i]
			ip, err := newInterpolator(con.Method, con.ExtrapolationMode)
			if err != nil {
				return err
			}
			err = ip.SetData(ts, vals[i])
			logger.LogFit(ctx, con.Method, col, len(ts), err)
			if err != nil {
				return fmt.Errorf("column %d: %w", col, err)
			}

			if out[i], err = ip.EvalAll(evalTs); err != nil {
				return fmt.Errorf("column %d: %w", col, err)
			}

			if con.ModelDir == "" {
				return nil
			}
			fname := path.Join(con.ModelDir, fmt.Sprintf("column_%d.vint", col))
			return saveModel(ctx, logger, fname, ip.(io.Model), con.Compression)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// resampleOrientation fits yaw, pitch and roll columns with a single Slerp
// interpolator.
func resampleOrientation(
	ctx context.Context, logger *logging.Logger, con *io.ResampleConfig,
	ts []float64, vals [][]float64, evalTs []float64,
) ([][]float64, error) {
	sl, err := interpolate.NewSlerpYPR(
		ts, vals[0], vals[1], vals[2], con.AngleUnits, con.ExtrapolationMode,
	)
	logger.LogFit(ctx, con.Method, con.AngleColumn[0], len(ts), err)
	if err != nil {
		return nil, err
	}

	ypr, err := sl.YPRAll(evalTs, con.AngleUnits)
	if err != nil {
		return nil, err
	}
	out := [][]float64{
		make([]float64, len(ypr)), make([]float64, len(ypr)),
		make([]float64, len(ypr)),
	}
	for i := range ypr {
		out[0][i], out[1][i], out[2][i] = ypr[i][0], ypr[i][1], ypr[i][2]
	}

	if con.ModelDir != "" {
		fname := path.Join(con.ModelDir, "orientation.vint")
		if err := saveModel(ctx, logger, fname, sl, con.Compression); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func saveModel(
	ctx context.Context, logger *logging.Logger, fname string, m io.Model,
	c io.Compression,
) error {
	kind, _ := io.KindOf(m)
	n, err := io.SaveModel(fname, m, c)
	logger.LogModel(ctx, "save", fname, kind.String(), int(n), err)
	return err
}
