package calib

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/obedmacallums/site-calibration/internal/geodesy"
	"github.com/obedmacallums/site-calibration/internal/survey"
)

// TransformedPoint is one global input point carried through the fitted
// calibration: its projected plane coordinates and the predicted local
// coordinates. Every global point gets one, matched or not; applying the
// calibration to unmatched points is the tool's whole purpose.
type TransformedPoint struct {
	ID            string
	ProjEastingM  float64
	ProjNorthingM float64
	EastingM      float64
	NorthingM     float64
	ElevationM    float64
}

// FitReport is the complete outcome of one calibration run. Horizontal,
// Vertical and Residuals are deterministic functions of the inputs; RunID
// and GeneratedAt identify the run itself.
type FitReport struct {
	RunID       string
	GeneratedAt time.Time

	// Projection actually used, human description and proj4 definition.
	Projection string
	Definition string

	GlobalCount  int
	LocalCount   int
	MatchedCount int
	GlobalOnly   []string
	LocalOnly    []string

	Horizontal HorizontalParams
	Vertical   VerticalParams
	Residuals  []Residual
	RMS        RMS
	Stats      ResidualStats

	// Transformed holds every global input point in input order.
	Transformed []TransformedPoint
}

// Calibrate runs the full pipeline: match by identifier, project the
// global points, gate on geometry, fit both adjustments, then compute
// residuals and statistics. The first failure aborts the run with one of
// the four error categories; a nil error guarantees a complete report.
//
// The projection is derived from the full global set (not just the matched
// subset): the default method's origin is the first global point as given,
// and UTM zone detection uses the mean over all global coordinates.
func Calibrate(global []survey.GlobalPoint, local []survey.LocalPoint, cfg geodesy.Config) (*FitReport, error) {
	// Matching runs first so an undersized control set fails before any
	// projection work, whatever the projection config looks like.
	match, err := survey.Match(global, local)
	if err != nil {
		return nil, &InputError{Err: err}
	}

	projection, err := geodesy.New(cfg, global)
	if err != nil {
		return nil, &ProjectionError{Err: err}
	}
	projected, err := projection.Project(global)
	if err != nil {
		return nil, &ProjectionError{Err: err}
	}
	projByID := make(map[string]geodesy.ProjectedPoint, len(projected))
	for _, pp := range projected {
		projByID[pp.ID] = pp
	}

	controls := make([]ControlPoint, len(match.Pairs))
	for i, pair := range match.Pairs {
		pp, ok := projByID[pair.ID]
		if !ok {
			return nil, &ProjectionError{Err: fmt.Errorf("no projected coordinates for matched point %s", pair.ID)}
		}
		controls[i] = ControlPoint{
			ID:              pair.ID,
			ProjEastingM:    pp.EastingM,
			ProjNorthingM:   pp.NorthingM,
			LocalEastingM:   pair.Local.EastingM,
			LocalNorthingM:  pair.Local.NorthingM,
			LocalElevationM: pair.Local.ElevationM,
			GlobalHeightM:   pair.Global.HeightM,
		}
	}

	if err := ValidateGeometry(controls); err != nil {
		return nil, err
	}
	horizontal, err := FitHorizontal(controls)
	if err != nil {
		return nil, err
	}
	vertical, err := FitVertical(controls)
	if err != nil {
		return nil, err
	}

	residuals, rms := ComputeResiduals(controls, horizontal, vertical)
	stats := SummarizeResiduals(residuals)

	transformed := make([]TransformedPoint, len(global))
	for i, g := range global {
		pp := projected[i] // Project preserves input order
		e, n := horizontal.Apply(pp.EastingM, pp.NorthingM)
		z := g.HeightM + vertical.ElevationError(pp.EastingM, pp.NorthingM)
		transformed[i] = TransformedPoint{
			ID:            g.ID,
			ProjEastingM:  pp.EastingM,
			ProjNorthingM: pp.NorthingM,
			EastingM:      e,
			NorthingM:     n,
			ElevationM:    z,
		}
	}

	return &FitReport{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Projection:   projection.Description,
		Definition:   projection.Definition,
		GlobalCount:  len(global),
		LocalCount:   len(local),
		MatchedCount: len(match.Pairs),
		GlobalOnly:   match.GlobalOnly,
		LocalOnly:    match.LocalOnly,
		Horizontal:   horizontal,
		Vertical:     vertical,
		Residuals:    residuals,
		RMS:          rms,
		Stats:        stats,
		Transformed:  transformed,
	}, nil
}
