package calib

import "math"

// Residual is the per-point misfit of the calibration, observed local
// coordinates minus predicted, in meters.
type Residual struct {
	ID              string
	DeltaEastingM   float64
	DeltaNorthingM  float64
	DeltaElevationM float64
}

// HorizontalM returns the planar residual magnitude.
func (r Residual) HorizontalM() float64 {
	return math.Hypot(r.DeltaEastingM, r.DeltaNorthingM)
}

// RMS pairs the root-mean-square misfits of the two adjustments.
type RMS struct {
	HorizontalM float64
	VerticalM   float64
}

// ComputeResiduals applies the fitted parameters back to every control
// point. For each point the horizontal transform predicts the local
// position from the projected coordinates, and the vertical plane
// (evaluated at the projected coordinates) predicts the height
// discrepancy. Residual = observed − predicted per axis. Pure computation
// over already-validated inputs; no error conditions.
func ComputeResiduals(points []ControlPoint, h HorizontalParams, v VerticalParams) ([]Residual, RMS) {
	residuals := make([]Residual, len(points))
	var sumSqPlanar, sumSqVertical float64
	for i, pt := range points {
		predE, predN := h.Apply(pt.ProjEastingM, pt.ProjNorthingM)
		actualZerr := pt.LocalElevationM - pt.GlobalHeightM
		predZerr := v.ElevationError(pt.ProjEastingM, pt.ProjNorthingM)

		r := Residual{
			ID:              pt.ID,
			DeltaEastingM:   pt.LocalEastingM - predE,
			DeltaNorthingM:  pt.LocalNorthingM - predN,
			DeltaElevationM: actualZerr - predZerr,
		}
		residuals[i] = r
		sumSqPlanar += r.DeltaEastingM*r.DeltaEastingM + r.DeltaNorthingM*r.DeltaNorthingM
		sumSqVertical += r.DeltaElevationM * r.DeltaElevationM
	}

	var rms RMS
	if n := float64(len(points)); n > 0 {
		rms.HorizontalM = math.Sqrt(sumSqPlanar / n)
		rms.VerticalM = math.Sqrt(sumSqVertical / n)
	}
	return residuals, rms
}
