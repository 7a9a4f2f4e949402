// Package calib fits a site calibration: the 2D similarity transform and
// inclined-plane vertical correction that map projected global coordinates
// onto a local site grid, with residual statistics for every control point.
//
// All functions are pure and deterministic: the same control points in the
// same order produce bit-identical parameters and residuals. Nothing in
// this package performs I/O.
package calib

// ControlPoint is one matched mark with its projected plane coordinates
// alongside both original observations. The pipeline assembles these from
// the matched point set; fitters never see unmatched points.
type ControlPoint struct {
	ID string

	// Projected global position (the fit's source frame).
	ProjEastingM  float64
	ProjNorthingM float64

	// Observed local grid position (the fit's target frame).
	LocalEastingM   float64
	LocalNorthingM  float64
	LocalElevationM float64

	// Ellipsoidal height of the global observation, for the vertical fit.
	GlobalHeightM float64
}

// projCentroid returns the mean projected position of the control set.
// Centering on centroids keeps the least-squares systems well conditioned
// when coordinates are large (UTM eastings run to hundreds of kilometers).
func projCentroid(points []ControlPoint) (eastingM, northingM float64) {
	var sumE, sumN float64
	for _, pt := range points {
		sumE += pt.ProjEastingM
		sumN += pt.ProjNorthingM
	}
	n := float64(len(points))
	return sumE / n, sumN / n
}

// localCentroid returns the mean observed local position of the control set.
func localCentroid(points []ControlPoint) (eastingM, northingM float64) {
	var sumE, sumN float64
	for _, pt := range points {
		sumE += pt.LocalEastingM
		sumN += pt.LocalNorthingM
	}
	n := float64(len(points))
	return sumE / n, sumN / n
}
