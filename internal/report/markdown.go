// Package report renders a calibration run for operators: a markdown
// report with the fitted parameters and residual quality, and an optional
// residual scatter plot.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/obedmacallums/site-calibration/internal/calib"
	"github.com/obedmacallums/site-calibration/internal/units"
	"github.com/obedmacallums/site-calibration/internal/version"
)

// Markdown renders rep as a self-contained markdown document. Parameters
// keep full precision; residuals and quality figures are shown in
// millimeters.
func Markdown(rep *calib.FitReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Site Calibration Report\n\n")
	fmt.Fprintf(&b, "- Run: %s\n", rep.RunID)
	fmt.Fprintf(&b, "- Generated: %s by sitecal %s\n", rep.GeneratedAt.Format(time.RFC3339), version.Version)
	fmt.Fprintf(&b, "- Projection: %s\n", rep.Projection)
	fmt.Fprintf(&b, "- Definition: `%s`\n", rep.Definition)
	fmt.Fprintf(&b, "- Control points: %d matched (%d global, %d local)\n",
		rep.MatchedCount, rep.GlobalCount, rep.LocalCount)
	if len(rep.GlobalOnly) > 0 {
		fmt.Fprintf(&b, "- Unmatched global points: %s\n", strings.Join(rep.GlobalOnly, ", "))
	}
	if len(rep.LocalOnly) > 0 {
		fmt.Fprintf(&b, "- Unmatched local points: %s\n", strings.Join(rep.LocalOnly, ", "))
	}

	h := rep.Horizontal
	fmt.Fprintf(&b, "\n## Horizontal adjustment\n\n")
	fmt.Fprintf(&b, "- a: %.10f\n", h.A)
	fmt.Fprintf(&b, "- b: %.10f\n", h.B)
	fmt.Fprintf(&b, "- Translation east: %.4f m\n", h.TranslationEM)
	fmt.Fprintf(&b, "- Translation north: %.4f m\n", h.TranslationNM)
	fmt.Fprintf(&b, "- Rotation: %.8f°\n", h.RotationDeg())
	fmt.Fprintf(&b, "- Scale: %.9f (%+.2f ppm)\n", h.Scale(), units.RatioToPPM(h.Scale()-1))

	v := rep.Vertical
	fmt.Fprintf(&b, "\n## Vertical adjustment\n\n")
	fmt.Fprintf(&b, "- Shift at plane origin: %.4f m\n", v.ShiftM)
	fmt.Fprintf(&b, "- Slope north: %+.2f ppm\n", units.RatioToPPM(v.SlopeNorth))
	fmt.Fprintf(&b, "- Slope east: %+.2f ppm\n", units.RatioToPPM(v.SlopeEast))
	fmt.Fprintf(&b, "- Plane origin (projected centroid): %.4f E, %.4f N\n",
		v.CentroidEastingM, v.CentroidNorthingM)

	fmt.Fprintf(&b, "\n## Residuals\n\n")
	b.WriteString(residualTable(rep.Residuals))
	fmt.Fprintf(&b, "\n\n- RMS horizontal: %.1f mm\n", mm(rep.RMS.HorizontalM))
	fmt.Fprintf(&b, "- RMS vertical: %.1f mm\n", mm(rep.RMS.VerticalM))

	s := rep.Stats
	fmt.Fprintf(&b, "\n## Quality summary\n\n")
	fmt.Fprintf(&b, "- Worst point: %s (%.1f mm horizontal)\n", s.WorstID, mm(s.WorstHorizontalM))
	fmt.Fprintf(&b, "- Best point: %s (%.1f mm horizontal)\n", s.BestID, mm(s.BestHorizontalM))
	fmt.Fprintf(&b, "- Std dev east: %.1f mm\n", mm(s.StdDevEastingM))
	fmt.Fprintf(&b, "- Std dev north: %.1f mm\n", mm(s.StdDevNorthingM))
	fmt.Fprintf(&b, "- Std dev elevation: %.1f mm\n", mm(s.StdDevElevationM))
	fmt.Fprintf(&b, "- 99th percentile horizontal: %.1f mm\n", mm(s.P99HorizontalM))

	return b.String()
}

// WriteMarkdown renders rep and writes the document to path.
func WriteMarkdown(path string, rep *calib.FitReport) error {
	if err := os.WriteFile(path, []byte(Markdown(rep)), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func residualTable(residuals []calib.Residual) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Point", "ΔE (mm)", "ΔN (mm)", "ΔZ (mm)", "Horizontal (mm)"})
	for _, r := range residuals {
		t.AppendRow(table.Row{
			r.ID,
			fmt.Sprintf("%.1f", mm(r.DeltaEastingM)),
			fmt.Sprintf("%.1f", mm(r.DeltaNorthingM)),
			fmt.Sprintf("%.1f", mm(r.DeltaElevationM)),
			fmt.Sprintf("%.1f", mm(r.HorizontalM())),
		})
	}
	return t.RenderMarkdown()
}

func mm(meters float64) float64 { return units.MetersToMillimeters(meters) }
