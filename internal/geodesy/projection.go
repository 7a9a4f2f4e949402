// Package geodesy projects WGS84 geodetic coordinates onto a plane grid.
//
// Three transverse-Mercator styles are supported: a site-local default with
// its origin on the first control point, standard UTM zones, and a fully
// caller-specified local transverse Mercator (LTM). Every style is expressed
// as a proj4 definition string and evaluated by the proj package, so the
// resulting coordinates agree with any proj-based tool fed the same
// definition.
package geodesy

import (
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"

	"github.com/obedmacallums/site-calibration/internal/survey"
)

// Method selects how the projection definition is derived.
type Method string

const (
	// MethodDefault centers a transverse Mercator on the first input point
	// with scale 1 and no false offsets, so that point maps to (0, 0).
	MethodDefault Method = "default"
	// MethodUTM selects a standard UTM zone from the mean longitude.
	MethodUTM Method = "utm"
	// MethodLTM uses caller-supplied transverse Mercator parameters.
	MethodLTM Method = "ltm"
)

// Hemisphere overrides the latitude-derived UTM hemisphere.
type Hemisphere string

const (
	HemisphereAuto  Hemisphere = "auto"
	HemisphereNorth Hemisphere = "north"
	HemisphereSouth Hemisphere = "south"
)

// Standard UTM grid constants.
const (
	utmScaleFactor         = 0.9996
	utmFalseEastingM       = 500000.0
	utmFalseNorthingSouthM = 10000000.0
)

// wgs84LonLat is the geodetic source definition shared by every method.
const wgs84LonLat = "+proj=longlat +ellps=WGS84 +datum=WGS84 +no_defs"

// Config describes the projection to apply to the global points. It is a
// tagged variant: only the fields of the selected Method are consulted.
type Config struct {
	Method Method

	// UTM options. ForcedZone 0 derives the zone from the mean longitude;
	// Hemisphere empty or "auto" derives it from the mean latitude.
	ForcedZone int
	Hemisphere Hemisphere

	// LTM parameters, all required when Method is MethodLTM. The CLI layer
	// enforces that every one was explicitly provided; Validate checks
	// ranges only, since zero is a legal value for all but ScaleFactor.
	CentralMeridianDeg  float64
	LatitudeOfOriginDeg float64
	FalseEastingM       float64
	FalseNorthingM      float64
	ScaleFactor         float64
}

// ParseMethod maps a configuration string onto a Method tag.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodDefault, MethodUTM, MethodLTM:
		return Method(s), nil
	default:
		return "", fmt.Errorf("unknown projection method %q (want default, utm or ltm)", s)
	}
}

// ParseHemisphere maps a configuration string onto a Hemisphere tag. The
// empty string is accepted as auto.
func ParseHemisphere(s string) (Hemisphere, error) {
	switch Hemisphere(s) {
	case "", HemisphereAuto:
		return HemisphereAuto, nil
	case HemisphereNorth, HemisphereSouth:
		return Hemisphere(s), nil
	default:
		return "", fmt.Errorf("unknown hemisphere %q (want auto, north or south)", s)
	}
}

// Validate checks the parameters of the selected method.
func (c Config) Validate() error {
	switch c.Method {
	case MethodDefault:
	case MethodUTM:
		if c.ForcedZone != 0 && (c.ForcedZone < 1 || c.ForcedZone > 60) {
			return fmt.Errorf("UTM zone %d out of range 1-60", c.ForcedZone)
		}
		if _, err := ParseHemisphere(string(c.Hemisphere)); err != nil {
			return err
		}
	case MethodLTM:
		if c.ScaleFactor <= 0 {
			return fmt.Errorf("LTM scale factor must be positive, got %g", c.ScaleFactor)
		}
		if c.CentralMeridianDeg < -180 || c.CentralMeridianDeg > 180 {
			return fmt.Errorf("LTM central meridian %g° out of range [-180, 180]", c.CentralMeridianDeg)
		}
		if c.LatitudeOfOriginDeg < -90 || c.LatitudeOfOriginDeg > 90 {
			return fmt.Errorf("LTM latitude of origin %g° out of range [-90, 90]", c.LatitudeOfOriginDeg)
		}
	default:
		return fmt.Errorf("unknown projection method %q (want default, utm or ltm)", c.Method)
	}
	return nil
}

// ProjectedPoint is a global point mapped onto the projection plane.
type ProjectedPoint struct {
	ID        string
	EastingM  float64
	NorthingM float64
}

// Projection is a resolved plane definition ready to transform points.
// Default and UTM derive parameters from the point set they were built
// with, so the same Config can yield different Projections per input.
type Projection struct {
	// Definition is the proj4 string actually compiled.
	Definition string
	// Description is an operator-facing summary for the report.
	Description string

	transform proj.Transformer
}

// New resolves cfg against the point set and compiles the transform. The
// point set matters for MethodDefault (origin = first point, in caller
// order) and MethodUTM (zone and hemisphere from the coordinate means).
func New(cfg Config, points []survey.GlobalPoint) (*Projection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no points to derive a projection from")
	}

	var definition, description string
	switch cfg.Method {
	case MethodDefault:
		origin := points[0]
		definition = tmercDefinition(origin.LatDeg, origin.LonDeg, 1.0, 0, 0)
		description = fmt.Sprintf("site-local transverse Mercator, origin %s (%.8f°, %.8f°), scale 1.0",
			origin.ID, origin.LatDeg, origin.LonDeg)

	case MethodUTM:
		zone := cfg.ForcedZone
		if zone == 0 {
			zone = ZoneFromLongitude(meanLongitude(points))
		}
		south := meanLatitude(points) < 0
		switch cfg.Hemisphere {
		case HemisphereNorth:
			south = false
		case HemisphereSouth:
			south = true
		}
		falseNorthing := 0.0
		band := "N"
		if south {
			falseNorthing = utmFalseNorthingSouthM
			band = "S"
		}
		cm := CentralMeridianForZone(zone)
		definition = tmercDefinition(0, cm, utmScaleFactor, utmFalseEastingM, falseNorthing)
		description = fmt.Sprintf("UTM zone %d%s (central meridian %.1f°)", zone, band, cm)

	case MethodLTM:
		definition = tmercDefinition(cfg.LatitudeOfOriginDeg, cfg.CentralMeridianDeg,
			cfg.ScaleFactor, cfg.FalseEastingM, cfg.FalseNorthingM)
		description = fmt.Sprintf("local transverse Mercator (central meridian %.6f°, origin latitude %.6f°, scale %.6f)",
			cfg.CentralMeridianDeg, cfg.LatitudeOfOriginDeg, cfg.ScaleFactor)
	}

	src, err := proj.Parse(wgs84LonLat)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geodetic definition: %w", err)
	}
	dst, err := proj.Parse(definition)
	if err != nil {
		return nil, fmt.Errorf("failed to parse projection definition %q: %w", definition, err)
	}
	transform, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to build transform for %q: %w", definition, err)
	}
	return &Projection{Definition: definition, Description: description, transform: transform}, nil
}

// Project maps every point through the compiled transform. Points are
// returned in input order.
func (p *Projection) Project(points []survey.GlobalPoint) ([]ProjectedPoint, error) {
	out := make([]ProjectedPoint, 0, len(points))
	for _, pt := range points {
		easting, northing, err := p.transform(pt.LonDeg, pt.LatDeg)
		if err != nil {
			return nil, fmt.Errorf("failed to project point %s: %w", pt.ID, err)
		}
		if !isFinite(easting) || !isFinite(northing) {
			return nil, fmt.Errorf("projection of point %s is not finite (%g, %g)", pt.ID, easting, northing)
		}
		out = append(out, ProjectedPoint{ID: pt.ID, EastingM: easting, NorthingM: northing})
	}
	return out, nil
}

// Project is a convenience that builds the projection for cfg and applies
// it to the same point set.
func Project(cfg Config, points []survey.GlobalPoint) ([]ProjectedPoint, error) {
	p, err := New(cfg, points)
	if err != nil {
		return nil, err
	}
	return p.Project(points)
}

// ZoneFromLongitude returns the UTM zone containing the given longitude.
// Zones are 6° wide counting from 180°W; the result is clamped to [1, 60]
// so out-of-range longitudes still yield a usable zone.
func ZoneFromLongitude(lonDeg float64) int {
	zone := int(math.Floor((lonDeg+180.0)/6.0)) + 1
	if zone < 1 {
		zone = 1
	}
	if zone > 60 {
		zone = 60
	}
	return zone
}

// CentralMeridianForZone returns the central meridian of a UTM zone in
// degrees.
func CentralMeridianForZone(zone int) float64 {
	return float64(zone)*6.0 - 183.0
}

func tmercDefinition(latOriginDeg, lonOriginDeg, scale, falseEastingM, falseNorthingM float64) string {
	return fmt.Sprintf(
		"+proj=tmerc +lat_0=%.10f +lon_0=%.10f +k_0=%.10f +x_0=%.4f +y_0=%.4f +ellps=WGS84 +datum=WGS84 +units=m +no_defs",
		latOriginDeg, lonOriginDeg, scale, falseEastingM, falseNorthingM)
}

func meanLongitude(points []survey.GlobalPoint) float64 {
	var sum float64
	for _, pt := range points {
		sum += pt.LonDeg
	}
	return sum / float64(len(points))
}

func meanLatitude(points []survey.GlobalPoint) float64 {
	var sum float64
	for _, pt := range points {
		sum += pt.LatDeg
	}
	return sum / float64(len(points))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
