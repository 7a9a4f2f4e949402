package calib

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/obedmacallums/site-calibration/internal/survey"
	"github.com/obedmacallums/site-calibration/internal/units"
)

// HorizontalParams is the fitted 2D similarity transform mapping projected
// global coordinates onto the local grid:
//
//	e = A·E − B·N + TranslationEM
//	n = B·E + A·N + TranslationNM
//
// A and B encode rotation and uniform scale together (A = s·cosθ,
// B = s·sinθ); the translations are in meters.
type HorizontalParams struct {
	A             float64
	B             float64
	TranslationEM float64
	TranslationNM float64
}

// RotationRad returns the grid rotation θ = atan2(B, A) in radians,
// counter-clockwise from the projected frame to the local frame.
func (h HorizontalParams) RotationRad() float64 {
	return math.Atan2(h.B, h.A)
}

// RotationDeg returns RotationRad converted to degrees.
func (h HorizontalParams) RotationDeg() float64 {
	return units.RadiansToDegrees(h.RotationRad())
}

// Scale returns the uniform scale factor s = sqrt(A² + B²) of the fit.
// Any physically valid fit has Scale > 0.
func (h HorizontalParams) Scale() float64 {
	return math.Hypot(h.A, h.B)
}

// Apply maps a projected coordinate pair into the local grid.
func (h HorizontalParams) Apply(eastingM, northingM float64) (e, n float64) {
	e = h.A*eastingM - h.B*northingM + h.TranslationEM
	n = h.B*eastingM + h.A*northingM + h.TranslationNM
	return e, n
}

// FitHorizontal estimates the four similarity parameters by ordinary least
// squares over the matched control points.
//
// Algorithm:
//  1. Center both coordinate sets on their centroids. This absorbs the
//     translations, leaving a linear system in (a, b) alone.
//  2. Stack the 2n×2 design matrix: row i is [E′ −N′] against the centered
//     local easting e′, row n+i is [N′ E′] against the centered local
//     northing n′.
//  3. Solve for (a, b) via QR factorization.
//  4. Recover the translations from the centroids:
//     tE = e_c − a·E_c + b·N_c, tN = n_c − b·E_c − a·N_c.
//
// Callers are expected to have passed ValidateGeometry first; a singular
// system or a collapsed scale still fails with a NumericError.
func FitHorizontal(points []ControlPoint) (HorizontalParams, error) {
	n := len(points)
	if n < survey.MinMatchedPoints {
		return HorizontalParams{}, &InputError{
			Err: fmt.Errorf("similarity fit needs at least %d control points, got %d", survey.MinMatchedPoints, n),
		}
	}

	projEC, projNC := projCentroid(points)
	localEC, localNC := localCentroid(points)

	design := mat.NewDense(2*n, 2, nil)
	obs := mat.NewVecDense(2*n, nil)
	for i, pt := range points {
		pe := pt.ProjEastingM - projEC
		pn := pt.ProjNorthingM - projNC
		design.Set(i, 0, pe)
		design.Set(i, 1, -pn)
		design.Set(n+i, 0, pn)
		design.Set(n+i, 1, pe)
		obs.SetVec(i, pt.LocalEastingM-localEC)
		obs.SetVec(n+i, pt.LocalNorthingM-localNC)
	}

	var qr mat.QR
	qr.Factorize(design)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, obs); err != nil {
		return HorizontalParams{}, &NumericError{
			Err: fmt.Errorf("similarity system is singular or badly conditioned: %w", err),
		}
	}
	a := sol.AtVec(0)
	b := sol.AtVec(1)

	params := HorizontalParams{
		A:             a,
		B:             b,
		TranslationEM: localEC - a*projEC + b*projNC,
		TranslationNM: localNC - b*projEC - a*projNC,
	}
	if s := params.Scale(); s <= 0 || !isFinite(s) {
		return HorizontalParams{}, &NumericError{
			Err: fmt.Errorf("similarity fit collapsed to scale %g", s),
		}
	}
	return params, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
