// Package units provides shared conversions for survey quantities
package units

import "math"

// MetersToMillimeters converts a length in meters to millimeters.
// Residuals and quality statistics are reported in millimeters.
func MetersToMillimeters(m float64) float64 {
	return m * 1000
}

// RatioToPPM expresses a dimensionless ratio as parts per million.
// Scale deviations and vertical plane slopes are reported in ppm.
func RatioToPPM(r float64) float64 {
	return r * 1e6
}

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
