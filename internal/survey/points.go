// Package survey defines the control-point records exchanged between the
// calibration pipeline and its collaborators, and the identifier matching
// that joins the global and local observation sets.
package survey

// GlobalPoint is a surveyed control point in the global geodetic frame
// (WGS84). Angles are decimal degrees; the height is ellipsoidal, in meters.
type GlobalPoint struct {
	ID      string
	LatDeg  float64
	LonDeg  float64
	HeightM float64
}

// LocalPoint is the same physical mark observed in the local site grid.
// Coordinates are plane meters; the elevation is in the site's own datum.
type LocalPoint struct {
	ID         string
	EastingM   float64
	NorthingM  float64
	ElevationM float64
}

// MatchedPoint pairs the two observations of one mark.
type MatchedPoint struct {
	ID     string
	Global GlobalPoint
	Local  LocalPoint
}
