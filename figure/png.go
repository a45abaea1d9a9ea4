package figure

import (
	"image/color"
	"io"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg" // registers the raster formats

	"go.viam.com/piddemo/control"
)

// FigureConfig sizes and labels a rendered figure.
type FigureConfig struct {
	Width  vg.Length
	Height vg.Length
	Title  string
	// Format is one of the raster formats: png, jpg, jpeg, tif or tiff.
	Format string
}

// DefaultFigureConfig returns a 6x6 inch PNG figure.
func DefaultFigureConfig() FigureConfig {
	return FigureConfig{
		Width:  6 * vg.Inch,
		Height: 6 * vg.Inch,
		Title:  "position",
		Format: "png",
	}
}

var (
	positionColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	targetColor   = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// Write renders the samples and a reference line at target to w.
func Write(w io.Writer, samples []control.Sample, target float64, cfg FigureConfig) error {
	if len(samples) == 0 {
		return errors.New("cannot plot an empty sample history")
	}
	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "x"

	position, err := plotter.NewLine(plotter.XYs(lo.Map(samples, func(s control.Sample, _ int) plotter.XY {
		return plotter.XY{X: s.Time, Y: s.Value}
	})))
	if err != nil {
		return errors.Wrap(err, "position series")
	}
	position.Color = positionColor

	reference, err := plotter.NewLine(plotter.XYs(lo.Map(samples, func(s control.Sample, _ int) plotter.XY {
		return plotter.XY{X: s.Time, Y: target}
	})))
	if err != nil {
		return errors.Wrap(err, "target series")
	}
	reference.Color = targetColor
	reference.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(position, reference)
	p.Legend.Add("position", position)
	p.Legend.Add("target", reference)

	wt, err := p.WriterTo(cfg.Width, cfg.Height, cfg.Format)
	if err != nil {
		return errors.Wrapf(err, "cannot render %s figure", cfg.Format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write figure")
	}
	return nil
}
