package calib

import "fmt"

// The calibration pipeline fails in four distinct ways, each fatal. The
// concrete cause is wrapped so callers can log or match it; the category
// type is what the CLI switches on. No category is ever recovered from:
// a wrong calibration is worse than no calibration.

// InputError reports a defect in the control-point input itself: missing
// or malformed CSV columns, duplicate identifiers, or too few matched
// points. Raised before any computation is attempted.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return "input error: " + e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// ProjectionError reports that the plane projection could not be derived
// or applied: unknown method tag, invalid or missing parameters, or a
// failing transform. Raised before fitting begins.
type ProjectionError struct {
	Err error
}

func (e *ProjectionError) Error() string { return "projection error: " + e.Err.Error() }
func (e *ProjectionError) Unwrap() error { return e.Err }

// GeometryError reports a degenerate control geometry: the projected
// points are collinear (or coincident), so the similarity transform is not
// determined. Ratio carries the computed eigenvalue ratio min/max so the
// operator can see how far from usable the configuration is.
type GeometryError struct {
	Ratio float64
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry error: control points are collinear or coincident (covariance eigenvalue ratio %.3g, need at least %g)",
		e.Ratio, CollinearityRatioMin)
}

// NumericError reports a singular or near-singular least-squares system,
// or a fit whose scale collapsed to zero or a non-finite value.
type NumericError struct {
	Err error
}

func (e *NumericError) Error() string { return "numeric error: " + e.Err.Error() }
func (e *NumericError) Unwrap() error { return e.Err }
