package calib

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

const (
	paramTol = 1e-9
	coordTol = 1e-6
)

// spreadProjected is a well-spread projected point cloud shared by the
// fitter tests. Coordinates are meters around a site-local origin.
func spreadProjected() [][2]float64 {
	return [][2]float64{
		{0, 0},
		{1200.0, 150.0},
		{300.0, 980.0},
		{-450.0, 620.0},
		{800.0, -710.0},
		{-900.0, -300.0},
	}
}

// applySimilarity builds control points whose local coordinates are an
// exact similarity transform of the projected cloud.
func applySimilarity(a, b, tE, tN float64) []ControlPoint {
	cloud := spreadProjected()
	points := make([]ControlPoint, len(cloud))
	for i, c := range cloud {
		points[i] = ControlPoint{
			ID:             fmt.Sprintf("CP%d", i+1),
			ProjEastingM:   c[0],
			ProjNorthingM:  c[1],
			LocalEastingM:  a*c[0] - b*c[1] + tE,
			LocalNorthingM: b*c[0] + a*c[1] + tN,
		}
	}
	return points
}

func TestFitHorizontalRecoversKnownTransform(t *testing.T) {
	const (
		rotationRad = 0.3
		scale       = 1.0000215
		tE          = 152000.25
		tN          = -98000.5
	)
	a := scale * math.Cos(rotationRad)
	b := scale * math.Sin(rotationRad)

	params, err := FitHorizontal(applySimilarity(a, b, tE, tN))
	if err != nil {
		t.Fatalf("FitHorizontal returned error: %v", err)
	}

	if math.Abs(params.A-a) > paramTol {
		t.Errorf("A = %.15f, want %.15f", params.A, a)
	}
	if math.Abs(params.B-b) > paramTol {
		t.Errorf("B = %.15f, want %.15f", params.B, b)
	}
	if math.Abs(params.TranslationEM-tE) > coordTol {
		t.Errorf("TranslationEM = %.9f, want %.9f", params.TranslationEM, tE)
	}
	if math.Abs(params.TranslationNM-tN) > coordTol {
		t.Errorf("TranslationNM = %.9f, want %.9f", params.TranslationNM, tN)
	}
	if math.Abs(params.Scale()-scale) > paramTol {
		t.Errorf("Scale() = %.12f, want %.12f", params.Scale(), scale)
	}
	if math.Abs(params.RotationRad()-rotationRad) > paramTol {
		t.Errorf("RotationRad() = %.12f, want %.12f", params.RotationRad(), rotationRad)
	}
}

func TestFitHorizontalIdentity(t *testing.T) {
	params, err := FitHorizontal(applySimilarity(1, 0, 0, 0))
	if err != nil {
		t.Fatalf("FitHorizontal returned error: %v", err)
	}
	if math.Abs(params.A-1) > paramTol || math.Abs(params.B) > paramTol {
		t.Errorf("identity fit gave A=%.15f B=%.15f, want 1 and 0", params.A, params.B)
	}
	if math.Abs(params.Scale()-1) > paramTol {
		t.Errorf("identity scale = %.15f, want 1", params.Scale())
	}
	if math.Abs(params.RotationDeg()) > paramTol {
		t.Errorf("identity rotation = %.15f°, want 0", params.RotationDeg())
	}
}

func TestFitHorizontalQuarterTurnSignConvention(t *testing.T) {
	// A 90° counter-clockwise rotation maps east onto north: the fit must
	// return a = cos(90°) = 0 and b = sin(90°) = +1.
	params, err := FitHorizontal(applySimilarity(0, 1, 0, 0))
	if err != nil {
		t.Fatalf("FitHorizontal returned error: %v", err)
	}
	if math.Abs(params.A) > paramTol {
		t.Errorf("A = %.15f, want 0", params.A)
	}
	if math.Abs(params.B-1) > paramTol {
		t.Errorf("B = %.15f, want +1 (counter-clockwise positive)", params.B)
	}
	if math.Abs(params.RotationDeg()-90) > paramTol {
		t.Errorf("RotationDeg() = %.12f, want 90", params.RotationDeg())
	}
}

func TestFitHorizontalRejectsTooFewPoints(t *testing.T) {
	points := applySimilarity(1, 0, 0, 0)[:2]
	_, err := FitHorizontal(points)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("FitHorizontal on 2 points returned %v, want InputError", err)
	}
}

func TestHorizontalParamsApply(t *testing.T) {
	// Pure translation.
	h := HorizontalParams{A: 1, B: 0, TranslationEM: 10, TranslationNM: -20}
	e, n := h.Apply(100, 200)
	if e != 110 || n != 180 {
		t.Errorf("Apply(100, 200) = (%g, %g), want (110, 180)", e, n)
	}

	// Pure quarter turn: east becomes north.
	q := HorizontalParams{A: 0, B: 1}
	e, n = q.Apply(1, 0)
	if math.Abs(e) > paramTol || math.Abs(n-1) > paramTol {
		t.Errorf("quarter turn Apply(1, 0) = (%g, %g), want (0, 1)", e, n)
	}
}
