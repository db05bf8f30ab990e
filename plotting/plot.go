package plotting

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"gonum.org/v1/plot"
	_ "gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/bob-anderson-ok/fourieroptics/field"
)

// StepTicks marks plot axes at fixed step intervals.
type StepTicks struct {
	Step   float64
	Format string
}

func (t StepTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	start := math.Ceil(min/t.Step) * t.Step
	for v := start; v <= max; v += t.Step {
		ticks = append(ticks, plot.Tick{
			Value: v,
			Label: fmt.Sprintf(t.Format, v),
		})
	}
	return ticks
}

// CutProfile extracts a 1D cut through the center of an intensity: the
// middle row of a 2D grid, or the whole intensity on a 1D grid. Returns the
// coordinates along the cut and the intensity values at them.
func CutProfile(intensity []float64, g *field.Grid) (xs, ys []float64, err error) {
	if g == nil || !g.Separable() {
		return nil, nil, ErrNotSeparable
	}
	if len(intensity) != g.Size() {
		return nil, nil, ErrSizeMismatch
	}

	if g.NumDims() == 1 {
		xs = append([]float64(nil), g.Axis(0)...)
		ys = append([]float64(nil), intensity...)
		return xs, ys, nil
	}

	nx := g.Dims()[0]
	iy := g.Dims()[1] / 2
	xs = append([]float64(nil), g.Axis(0)...)
	ys = make([]float64, nx)
	copy(ys, intensity[iy*nx:(iy+1)*nx])
	return xs, ys, nil
}

// RenderCutPlot draws a profile as a line plot with a dashed zero line,
// returning the rendered image.
func RenderCutPlot(xs, ys []float64, title, xLabel, yLabel string, wPx, hPx float64) (image.Image, error) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return nil, ErrEmptyProfile
	}

	p := plot.New()

	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = vg.Points(12)

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	p.X.Tick.Label.Font.Typeface = "Liberation"
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = vg.Points(10)

	p.Y.Tick.Label.Font.Typeface = "Liberation"
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	span := xs[len(xs)-1] - xs[0]
	yMax := ys[0]
	for _, v := range ys[1:] {
		if v > yMax {
			yMax = v
		}
	}
	if span > 0 {
		p.X.Tick.Marker = StepTicks{Step: span / 10, Format: "%.3g"}
	}
	if yMax > 0 {
		p.Y.Tick.Marker = StepTicks{Step: yMax / 5, Format: "%.2g"}
	}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{B: 255, A: 255}
	p.Add(line)

	zero := plotter.XYs{
		{X: xs[0], Y: 0},
		{X: xs[len(xs)-1], Y: 0},
	}
	zline, err := plotter.NewLine(zero)
	if err != nil {
		return nil, err
	}
	zline.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	zline.Color = color.RGBA{A: 255}
	p.Add(zline)

	const dpi = 96
	width := vg.Length(wPx) * vg.Inch / dpi
	height := vg.Length(hPx) * vg.Inch / dpi

	c := vgimg.New(width, height)
	dc := vgdraw.New(c)
	p.Draw(dc)

	return c.Image(), nil
}

// SaveCutPlot renders a profile plot and writes it to a PNG file.
func SaveCutPlot(filename string, xs, ys []float64, title, xLabel, yLabel string, wPx, hPx float64) (err error) {
	img, err := RenderCutPlot(xs, ys, title, xLabel, yLabel, wPx, hPx)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return png.Encode(f, img)
}
