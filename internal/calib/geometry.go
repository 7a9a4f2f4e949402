package calib

import "math"

// CollinearityRatioMin is the smallest acceptable ratio between the minor
// and major eigenvalues of the projected control-point covariance. Below
// this the point cloud is effectively one-dimensional and the similarity
// fit is refused.
const CollinearityRatioMin = 1e-4

// ValidateGeometry checks that the projected control points span two
// independent directions before either fitter runs. A 4-parameter
// similarity fit on collinear points yields an overconfident, meaningless
// solution rather than an outright failure, so the degenerate configuration
// is rejected explicitly here.
//
// Algorithm:
//  1. Compute the centroid of the projected eastings/northings.
//  2. Build the 2x2 population covariance matrix about the centroid.
//  3. Compute both eigenvalues analytically:
//     λ = (trace ± sqrt(trace² − 4·det)) / 2
//  4. Fail when min(λ)/max(λ) < CollinearityRatioMin.
func ValidateGeometry(points []ControlPoint) error {
	if len(points) == 0 {
		return &GeometryError{Ratio: 0}
	}

	meanE, meanN := projCentroid(points)

	// Population covariance about the centroid.
	var c00, c01, c11 float64
	for _, pt := range points {
		de := pt.ProjEastingM - meanE
		dn := pt.ProjNorthingM - meanN
		c00 += de * de
		c01 += de * dn
		c11 += dn * dn
	}
	nf := float64(len(points))
	c00 /= nf
	c01 /= nf
	c11 /= nf

	trace := c00 + c11
	det := c00*c11 - c01*c01
	discriminant := trace*trace - 4*det
	if discriminant < 0 {
		// The matrix is symmetric, so a negative discriminant can only be
		// floating-point rounding around zero.
		discriminant = 0
	}
	sqrtDisc := math.Sqrt(discriminant)
	lambdaMax := (trace + sqrtDisc) / 2
	lambdaMin := (trace - sqrtDisc) / 2

	if lambdaMax <= 0 {
		// All points coincide; no spread in any direction.
		return &GeometryError{Ratio: 0}
	}
	ratio := lambdaMin / lambdaMax
	if ratio < CollinearityRatioMin {
		return &GeometryError{Ratio: ratio}
	}
	return nil
}
