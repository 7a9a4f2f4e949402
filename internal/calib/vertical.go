package calib

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/obedmacallums/site-calibration/internal/survey"
)

// VerticalParams is the fitted inclined-plane correction. The plane lives
// on projected coordinates centered on the control centroid:
//
//	Zerr(E, N) = ShiftM + SlopeNorth·(N − CentroidNorthingM) + SlopeEast·(E − CentroidEastingM)
//
// where Zerr is the local elevation minus the global ellipsoidal height.
// The centroid is part of the model: evaluating the plane anywhere requires
// the same centering used during the fit.
type VerticalParams struct {
	// ShiftM is the constant height offset at the control centroid.
	ShiftM float64
	// SlopeNorth is the elevation-error gradient per meter northward.
	SlopeNorth float64
	// SlopeEast is the elevation-error gradient per meter eastward.
	SlopeEast float64

	// Projected centroid of the control set the plane was fitted on.
	CentroidEastingM  float64
	CentroidNorthingM float64
}

// ElevationError evaluates the plane at a projected coordinate pair.
func (v VerticalParams) ElevationError(eastingM, northingM float64) float64 {
	return v.ShiftM +
		v.SlopeNorth*(northingM-v.CentroidNorthingM) +
		v.SlopeEast*(eastingM-v.CentroidEastingM)
}

// FitVertical estimates the inclined-plane parameters by least squares
// over the same matched set the horizontal fit used.
//
// Algorithm:
//  1. Height discrepancy per point: Zerr = local elevation − global
//     ellipsoidal height (local minus global, fixed sign convention).
//  2. Design matrix n×3 with columns [1, N′, E′] over the centered
//     projected coordinates; solve for (shift, slopeNorth, slopeEast)
//     via QR factorization.
//
// No separate collinearity gate: the horizontal geometry check covers the
// same planar spread. A singular system is still a NumericError.
func FitVertical(points []ControlPoint) (VerticalParams, error) {
	n := len(points)
	if n < survey.MinMatchedPoints {
		return VerticalParams{}, &InputError{
			Err: fmt.Errorf("vertical fit needs at least %d control points, got %d", survey.MinMatchedPoints, n),
		}
	}

	ec, nc := projCentroid(points)

	design := mat.NewDense(n, 3, nil)
	obs := mat.NewVecDense(n, nil)
	for i, pt := range points {
		design.Set(i, 0, 1)
		design.Set(i, 1, pt.ProjNorthingM-nc)
		design.Set(i, 2, pt.ProjEastingM-ec)
		obs.SetVec(i, pt.LocalElevationM-pt.GlobalHeightM)
	}

	var qr mat.QR
	qr.Factorize(design)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, obs); err != nil {
		return VerticalParams{}, &NumericError{
			Err: fmt.Errorf("vertical plane system is singular or badly conditioned: %w", err),
		}
	}

	return VerticalParams{
		ShiftM:            sol.AtVec(0),
		SlopeNorth:        sol.AtVec(1),
		SlopeEast:         sol.AtVec(2),
		CentroidEastingM:  ec,
		CentroidNorthingM: nc,
	}, nil
}
