package calib

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ResidualStats summarizes the residual set for the report. Distances are
// meters; the report layer converts to millimeters for display.
type ResidualStats struct {
	// Worst and best control points by horizontal residual magnitude.
	WorstID          string
	WorstHorizontalM float64
	BestID           string
	BestHorizontalM  float64

	// Sample standard deviation per axis.
	StdDevEastingM   float64
	StdDevNorthingM  float64
	StdDevElevationM float64

	// Empirical 99th percentile of the horizontal residual magnitude.
	P99HorizontalM float64
}

// SummarizeResiduals derives the report statistics from a residual set.
// Ties on the horizontal magnitude keep the earlier point, so the summary
// is deterministic for a fixed input order.
func SummarizeResiduals(residuals []Residual) ResidualStats {
	var stats ResidualStats
	if len(residuals) == 0 {
		return stats
	}

	de := make([]float64, len(residuals))
	dn := make([]float64, len(residuals))
	dh := make([]float64, len(residuals))
	horizontal := make([]float64, len(residuals))

	stats.WorstID = residuals[0].ID
	stats.BestID = residuals[0].ID
	stats.WorstHorizontalM = residuals[0].HorizontalM()
	stats.BestHorizontalM = stats.WorstHorizontalM

	for i, r := range residuals {
		de[i] = r.DeltaEastingM
		dn[i] = r.DeltaNorthingM
		dh[i] = r.DeltaElevationM
		h := r.HorizontalM()
		horizontal[i] = h
		if h > stats.WorstHorizontalM {
			stats.WorstHorizontalM = h
			stats.WorstID = r.ID
		}
		if h < stats.BestHorizontalM {
			stats.BestHorizontalM = h
			stats.BestID = r.ID
		}
	}

	stats.StdDevEastingM = stat.StdDev(de, nil)
	stats.StdDevNorthingM = stat.StdDev(dn, nil)
	stats.StdDevElevationM = stat.StdDev(dh, nil)

	sort.Float64s(horizontal)
	stats.P99HorizontalM = stat.Quantile(0.99, stat.Empirical, horizontal, nil)

	return stats
}
