package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/obedmacallums/site-calibration/internal/calib"
	"github.com/obedmacallums/site-calibration/internal/units"
)

// SavePlot renders the horizontal residual scatter (ΔE against ΔN in
// millimeters) as a PNG at path. The axes are symmetric about a zero
// crosshair.
func SavePlot(rep *calib.FitReport, path string) error {
	p := plot.New()
	p.Title.Text = "Horizontal residuals"
	p.X.Label.Text = "ΔE (mm)"
	p.Y.Label.Text = "ΔN (mm)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(rep.Residuals))
	limit := 1.0 // never frame tighter than ±1 mm
	for i, r := range rep.Residuals {
		x := units.MetersToMillimeters(r.DeltaEastingM)
		y := units.MetersToMillimeters(r.DeltaNorthingM)
		pts[i] = plotter.XY{X: x, Y: y}
		if v := math.Abs(x); v > limit {
			limit = v
		}
		if v := math.Abs(y); v > limit {
			limit = v
		}
	}
	limit *= 1.2
	p.X.Min, p.X.Max = -limit, limit
	p.Y.Min, p.Y.Max = -limit, limit

	for _, axis := range []plotter.XYs{
		{{X: -limit, Y: 0}, {X: limit, Y: 0}},
		{{X: 0, Y: -limit}, {X: 0, Y: limit}},
	} {
		line, err := plotter.NewLine(axis)
		if err != nil {
			return fmt.Errorf("failed to build crosshair: %w", err)
		}
		line.Color = color.Gray{Y: 128}
		line.Width = vg.Points(0.5)
		p.Add(line)
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build residual scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save residual plot: %w", err)
	}
	return nil
}
