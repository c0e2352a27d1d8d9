package io

import (
	"fmt"
	"math"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/vecinterp/math/interpolate"
	"github.com/phil-mansfield/vecinterp/math/rotation"
)

const (
	ExampleResampleFile = `[Resample]

#######################
# Required Parameters #
#######################

# Whitespace-separated table containing the input samples. Lines starting
# with '#' are ignored.
Input = path/to/input.txt
# Table which the resampled columns will be written to.
Output = path/to/output.txt

# Method can be set to one of:
# [ Linear | Nearest | Akima | Slerp ]
# Slerp interpolates orientations given as yaw, pitch and roll columns.
Method = Akima

# Zero-indexed column containing the sample coordinates (usually time).
# Coordinates must be strictly increasing.
TimeColumn = 0

# Columns which will be interpolated. Repeat the line for every column. Not
# used by Slerp.
ValueColumn = 1
ValueColumn = 2

# Evaluation points. Either give an inclusive Start/End range with a Step
# size, or set Target to a table whose TargetColumn gives the points.
Start = 0
End = 10
Step = 0.5
# Target = path/to/timestamps.txt
# TargetColumn = 0

#######################
# Optional Parameters #
#######################

# What to do with points outside the range of the input coordinates. One of
# [ Extrapolate | Fail | Nearest ]. Default is Extrapolate.
# ExtrapolationMode = Nearest

# Yaw, pitch and roll columns used by Slerp, in that order.
# AngleColumn = 1
# AngleColumn = 2
# AngleColumn = 3
# Units of the angle columns, [ Degrees | Radians ]. Default is Degrees.
# AngleUnits = Degrees

# Directory that fitted interpolators are saved to, one model file per
# column, and the compression used for them, [ None | LZ4 | Zstd ].
# Default compression is Zstd.
# ModelDir = path/to/models
# Compression = Zstd

# Renders the input samples and resampled curves with matplotlib.
# PlotFile = resample.png`

	ExampleGridFile = `[Grid]

#######################
# Required Parameters #
#######################

# Table of (row, column, value) triples. Triples sharing a row coordinate
# form one row and must have strictly increasing column coordinates. Row
# coordinates must be strictly increasing.
Input = path/to/input.txt
# Table of (row, column, value) triples that the evaluated grid is written to.
Output = path/to/output.txt

# Method can be set to one of:
# [ Linear | Nearest | Akima ]
Method = Linear

RowColumn = 0
ColColumn = 1
ValueColumn = 2

# Inclusive evaluation ranges along both axes.
RowStart = 0
RowEnd = 10
RowStep = 1
ColStart = 0
ColEnd = 10
ColStep = 1

#######################
# Optional Parameters #
#######################

# [ Extrapolate | Fail | Nearest ]. Default is Extrapolate.
# ExtrapolationMode = Fail

# File that the fitted grid interpolator is saved to.
# Model = path/to/grid.vint
# Compression = Zstd`
)

// maxRangeLen is the largest number of evaluation points a Start/End/Step
// range may describe.
const maxRangeLen = 1 << 26

type ResampleConfig struct {
	// Required
	Input, Output string
	Method        string
	TimeColumn    int
	ValueColumn   []int

	Start, End, Step float64
	Target           string
	TargetColumn     int

	// Optional
	ExtrapolationMode interpolate.ExtrapolationMode
	AngleColumn       []int
	AngleUnits        rotation.Unit
	ModelDir          string
	Compression       Compression
	PlotFile          string
}

type ResampleWrapper struct {
	Resample ResampleConfig
}

func DefaultResampleWrapper() *ResampleWrapper {
	wrap := &ResampleWrapper{}
	wrap.Resample.ExtrapolationMode = interpolate.Extrapolate
	wrap.Resample.AngleUnits = rotation.Degrees
	wrap.Resample.Compression = Zstd
	wrap.Resample.Step = math.NaN()
	return wrap
}

// ReadResampleConfig reads and checks the [Resample] section of the given
// file.
func ReadResampleConfig(fname string) (*ResampleConfig, error) {
	wrap := DefaultResampleWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.Resample.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.Resample, nil
}

func (con *ResampleConfig) CheckInit() error {
	if con.Input == "" {
		return fmt.Errorf("Need to specify an 'Input' table.")
	} else if con.Output == "" {
		return fmt.Errorf("Need to specify an 'Output' table.")
	}

	switch con.Method {
	case "Linear", "Nearest", "Akima":
		if len(con.ValueColumn) == 0 {
			return fmt.Errorf(
				"Method '%s' needs at least one 'ValueColumn'.", con.Method,
			)
		}
		if err := checkColumns("ValueColumn", con.ValueColumn); err != nil {
			return err
		}
	case "Slerp":
		if len(con.AngleColumn) != 3 {
			return fmt.Errorf(
				"Method 'Slerp' needs exactly three 'AngleColumn' values "+
					"(yaw, pitch, roll), but %d were given.",
				len(con.AngleColumn),
			)
		}
		if err := checkColumns("AngleColumn", con.AngleColumn); err != nil {
			return err
		}
	default:
		return fmt.Errorf(
			"Unrecognized 'Method' value '%s'. Accepted values are 'Linear', "+
				"'Nearest', 'Akima', and 'Slerp'.", con.Method,
		)
	}

	if con.TimeColumn < 0 {
		return fmt.Errorf(
			"'TimeColumn' must be non-negative, but is %d.", con.TimeColumn,
		)
	}

	if con.Target != "" {
		if con.TargetColumn < 0 {
			return fmt.Errorf(
				"'TargetColumn' must be non-negative, but is %d.",
				con.TargetColumn,
			)
		}
		return nil
	}
	return checkRange("", con.Start, con.End, con.Step)
}

// Times returns the evaluation points described by Start, End and Step.
func (con *ResampleConfig) Times() []float64 {
	return span(con.Start, con.End, con.Step)
}

type GridConfig struct {
	// Required
	Input, Output                     string
	Method                            string
	RowColumn, ColColumn, ValueColumn int

	RowStart, RowEnd, RowStep float64
	ColStart, ColEnd, ColStep float64

	// Optional
	ExtrapolationMode interpolate.ExtrapolationMode
	Model             string
	Compression       Compression
}

type GridWrapper struct {
	Grid GridConfig
}

func DefaultGridWrapper() *GridWrapper {
	wrap := &GridWrapper{}
	wrap.Grid.ExtrapolationMode = interpolate.Extrapolate
	wrap.Grid.Compression = Zstd
	wrap.Grid.RowStep, wrap.Grid.ColStep = math.NaN(), math.NaN()
	return wrap
}

// ReadGridConfig reads and checks the [Grid] section of the given file.
func ReadGridConfig(fname string) (*GridConfig, error) {
	wrap := DefaultGridWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.Grid.CheckInit(); err != nil {
		return nil, err
	}
	return &wrap.Grid, nil
}

func (con *GridConfig) CheckInit() error {
	if con.Input == "" {
		return fmt.Errorf("Need to specify an 'Input' table.")
	} else if con.Output == "" {
		return fmt.Errorf("Need to specify an 'Output' table.")
	}

	switch con.Method {
	case "Linear", "Nearest", "Akima":
	default:
		return fmt.Errorf(
			"Unrecognized 'Method' value '%s'. Accepted values are 'Linear', "+
				"'Nearest', and 'Akima'.", con.Method,
		)
	}

	cols := []int{con.RowColumn, con.ColColumn, con.ValueColumn}
	if err := checkColumns("RowColumn/ColColumn/ValueColumn", cols); err != nil {
		return err
	}

	if err := checkRange("Row", con.RowStart, con.RowEnd, con.RowStep); err != nil {
		return err
	}
	return checkRange("Col", con.ColStart, con.ColEnd, con.ColStep)
}

// Rows returns the row coordinates of the evaluation grid.
func (con *GridConfig) Rows() []float64 {
	return span(con.RowStart, con.RowEnd, con.RowStep)
}

// Cols returns the column coordinates of the evaluation grid.
func (con *GridConfig) Cols() []float64 {
	return span(con.ColStart, con.ColEnd, con.ColStep)
}

func checkColumns(name string, cols []int) error {
	seen := map[int]bool{}
	for _, c := range cols {
		if c < 0 {
			return fmt.Errorf("'%s' must be non-negative, but is %d.", name, c)
		} else if seen[c] {
			return fmt.Errorf("'%s' column %d was given twice.", name, c)
		}
		seen[c] = true
	}
	return nil
}

func checkRange(prefix string, start, end, step float64) error {
	if math.IsNaN(step) {
		return fmt.Errorf(
			"Need to specify '%sStep' (or a 'Target' table).", prefix,
		)
	}

	for _, x := range []float64{start, end, step} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf(
				"'%sStart', '%sEnd' and '%sStep' must be finite.",
				prefix, prefix, prefix,
			)
		}
	}

	if step <= 0 {
		return fmt.Errorf(
			"'%sStep' must be positive, but is %g.", prefix, step,
		)
	} else if end < start {
		return fmt.Errorf(
			"'%sEnd' must not be smaller than '%sStart', but %g < %g.",
			prefix, prefix, end, start,
		)
	} else if (end-start)/step >= maxRangeLen {
		return fmt.Errorf(
			"The range [%g, %g] with step %g has more than %d points.",
			start, end, step, maxRangeLen,
		)
	}
	return nil
}

// span returns start, start + step, ... up to and including end. An end point
// within a millionth of a step of the grid is included.
func span(start, end, step float64) []float64 {
	n := int(math.Floor((end-start)/step+1e-6)) + 1
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	if n > 1 && math.Abs(xs[n-1]-end) <= 1e-6*step {
		xs[n-1] = end
	}
	return xs
}
