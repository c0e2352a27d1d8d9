package io

import (
	"fmt"

	plt "github.com/phil-mansfield/pyplot"
)

var plotColors = []string{"b", "r", "g", "m", "c", "y", "k"}

// PlotResample renders the input samples of every column as points and the
// resampled curves as lines, then saves the figure to fname. Rendering runs
// matplotlib through python.
func PlotResample(
	fname, title string, xs []float64, ys [][]float64,
	evalXs []float64, evalYs [][]float64,
) error {
	if len(ys) != len(evalYs) {
		return fmt.Errorf(
			"Plot has %d input columns, but %d resampled columns.",
			len(ys), len(evalYs),
		)
	}
	for i := range ys {
		if len(ys[i]) != len(xs) {
			return fmt.Errorf(
				"Input column %d has %d rows, but there are %d coordinates.",
				i, len(ys[i]), len(xs),
			)
		} else if len(evalYs[i]) != len(evalXs) {
			return fmt.Errorf(
				"Resampled column %d has %d rows, but there are %d coordinates.",
				i, len(evalYs[i]), len(evalXs),
			)
		}
	}

	plt.Reset()
	plt.Figure()
	for i := range ys {
		c := plotColors[i%len(plotColors)]
		plt.Plot(evalXs, evalYs[i], c, plt.LW(2))
		plt.Plot(xs, ys[i], "o"+c)
	}
	plt.Title(title)
	plt.XLabel("$t$", plt.FontSize(16))
	plt.SaveFig(fname)
	plt.Execute()
	return nil
}
