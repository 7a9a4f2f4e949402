package pointio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/obedmacallums/site-calibration/internal/calib"
)

// TransformedWriter wraps csv.Writer with methods for the
// transformed-coordinates output: one row per global input point with its
// projected plane coordinates and the fitted local coordinates.
type TransformedWriter struct {
	w *csv.Writer
}

// NewTransformedWriter creates a TransformedWriter emitting to w.
func NewTransformedWriter(w io.Writer) *TransformedWriter {
	return &TransformedWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the output column names.
func (t *TransformedWriter) WriteHeader() error {
	return t.w.Write([]string{"Point", "ProjectedEasting", "ProjectedNorthing", "Easting", "Northing", "Elevation"})
}

// WriteRow writes one point, coordinates formatted to 0.1 mm.
func (t *TransformedWriter) WriteRow(p calib.TransformedPoint) error {
	return t.w.Write([]string{
		p.ID,
		fmt.Sprintf("%.4f", p.ProjEastingM),
		fmt.Sprintf("%.4f", p.ProjNorthingM),
		fmt.Sprintf("%.4f", p.EastingM),
		fmt.Sprintf("%.4f", p.NorthingM),
		fmt.Sprintf("%.4f", p.ElevationM),
	})
}

// Flush flushes buffered rows and reports any write error.
func (t *TransformedWriter) Flush() error {
	t.w.Flush()
	return t.w.Error()
}

// WriteTransformed writes the header and all points to w.
func WriteTransformed(w io.Writer, points []calib.TransformedPoint) error {
	tw := NewTransformedWriter(w)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, p := range points {
		if err := tw.WriteRow(p); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteTransformedFile writes the transformed-coordinates CSV to path.
func WriteTransformedFile(path string, points []calib.TransformedPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transformed CSV: %w", err)
	}
	if err := WriteTransformed(f, points); err != nil {
		f.Close()
		return fmt.Errorf("failed to write transformed CSV: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close transformed CSV: %w", err)
	}
	return nil
}
