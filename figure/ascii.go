// Package figure renders the sample history as a position-vs-time line plot with a horizontal
// reference line at the target, either as text for the terminal or as a PNG image.
package figure

import (
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"go.viam.com/piddemo/control"
)

// ASCII plots the sample values and the target as text lines at most height rows tall. width
// is the number of data columns; axis labels come on top of it. No samples, no lines.
func ASCII(samples []control.Sample, target float64, width, height int) []string {
	if len(samples) == 0 || height < 1 {
		return nil
	}
	values := lo.Map(samples, func(s control.Sample, _ int) float64 {
		return s.Value
	})
	reference := lo.Map(samples, func(control.Sample, int) float64 {
		return target
	})

	opts := []asciigraph.Option{
		asciigraph.Height(max(height-1, 1)),
		asciigraph.Precision(1),
	}
	if width > 1 {
		opts = append(opts, asciigraph.Width(width))
	}
	graph := asciigraph.PlotMany([][]float64{values, reference}, opts...)
	lines := strings.Split(graph, "\n")
	// rounding of the axis bounds can add a row
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}
