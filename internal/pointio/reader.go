// Package pointio reads and writes the tool's CSV point files.
//
// Input schemas are strict but header-addressed: required columns are
// located by name (case-insensitive), column order is free, and extra
// columns are ignored. Every read-side failure is an input error that
// names the offending line and column.
package pointio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/obedmacallums/site-calibration/internal/calib"
	"github.com/obedmacallums/site-calibration/internal/survey"
)

// Required column names. Matched case-insensitively after trimming
// surrounding whitespace.
const (
	colPoint             = "Point"
	colLatitude          = "Latitude"
	colLongitude         = "Longitude"
	colEllipsoidalHeight = "EllipsoidalHeight"
	colEasting           = "Easting"
	colNorthing          = "Northing"
	colElevation         = "Elevation"
)

// ReadGlobal reads a global control file: one row per point with
// geographic coordinates in decimal degrees and ellipsoidal height in
// meters.
func ReadGlobal(path string) ([]survey.GlobalPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &calib.InputError{Err: fmt.Errorf("failed to open global CSV: %w", err)}
	}
	defer f.Close()

	points, err := ParseGlobal(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// ReadLocal reads a local control file: one row per point with grid
// coordinates and elevation in meters.
func ReadLocal(path string) ([]survey.LocalPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &calib.InputError{Err: fmt.Errorf("failed to open local CSV: %w", err)}
	}
	defer f.Close()

	points, err := ParseLocal(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// ParseGlobal parses global control points from r. The header row must
// contain Point, Latitude, Longitude and EllipsoidalHeight columns.
func ParseGlobal(r io.Reader) ([]survey.GlobalPoint, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(records[0], colPoint, colLatitude, colLongitude, colEllipsoidalHeight)
	if err != nil {
		return nil, err
	}

	points := make([]survey.GlobalPoint, 0, len(records)-1)
	seen := make(map[string]int, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2 // 1-based file line, after the header row
		id, err := pointID(record[cols[colPoint]], seen, line)
		if err != nil {
			return nil, err
		}
		lat, err := parseValue(record, cols, colLatitude, line)
		if err != nil {
			return nil, err
		}
		lon, err := parseValue(record, cols, colLongitude, line)
		if err != nil {
			return nil, err
		}
		height, err := parseValue(record, cols, colEllipsoidalHeight, line)
		if err != nil {
			return nil, err
		}
		points = append(points, survey.GlobalPoint{ID: id, LatDeg: lat, LonDeg: lon, HeightM: height})
	}
	if len(points) == 0 {
		return nil, &calib.InputError{Err: errors.New("no data rows after the header")}
	}
	return points, nil
}

// ParseLocal parses local control points from r. The header row must
// contain Point, Easting, Northing and Elevation columns.
func ParseLocal(r io.Reader) ([]survey.LocalPoint, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(records[0], colPoint, colEasting, colNorthing, colElevation)
	if err != nil {
		return nil, err
	}

	points := make([]survey.LocalPoint, 0, len(records)-1)
	seen := make(map[string]int, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2
		id, err := pointID(record[cols[colPoint]], seen, line)
		if err != nil {
			return nil, err
		}
		easting, err := parseValue(record, cols, colEasting, line)
		if err != nil {
			return nil, err
		}
		northing, err := parseValue(record, cols, colNorthing, line)
		if err != nil {
			return nil, err
		}
		elevation, err := parseValue(record, cols, colElevation, line)
		if err != nil {
			return nil, err
		}
		points = append(points, survey.LocalPoint{ID: id, EastingM: easting, NorthingM: northing, ElevationM: elevation})
	}
	if len(points) == 0 {
		return nil, &calib.InputError{Err: errors.New("no data rows after the header")}
	}
	return points, nil
}

func readRecords(r io.Reader) ([][]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, &calib.InputError{Err: fmt.Errorf("failed to read CSV: %w", err)}
	}
	if len(records) == 0 {
		return nil, &calib.InputError{Err: errors.New("file is empty")}
	}
	return records, nil
}

// columnIndex locates each required column in the header row. The first
// header cell may carry a UTF-8 BOM, which spreadsheet exports commonly
// prepend; it is stripped before matching.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	index := make(map[string]int, len(required))
	for _, want := range required {
		found := -1
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), want) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, &calib.InputError{Err: fmt.Errorf("missing required column %q (header: %s)",
				want, strings.Join(header, ", "))}
		}
		index[want] = found
	}
	return index, nil
}

// pointID validates and records one identifier cell. Identifiers are
// trimmed of surrounding whitespace and must be unique within the file.
func pointID(cell string, seen map[string]int, line int) (string, error) {
	id := strings.TrimSpace(cell)
	if id == "" {
		return "", &calib.InputError{Err: fmt.Errorf("empty point identifier at line %d", line)}
	}
	if first, dup := seen[id]; dup {
		return "", &calib.InputError{Err: fmt.Errorf("duplicate point %q at line %d (first seen at line %d)", id, line, first)}
	}
	seen[id] = line
	return id, nil
}

// parseValue parses one numeric cell. NaN and infinities are rejected
// along with unparsable text.
func parseValue(record []string, cols map[string]int, name string, line int) (float64, error) {
	cell := strings.TrimSpace(record[cols[name]])
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, &calib.InputError{Err: fmt.Errorf("invalid %s %q at line %d", name, cell, line)}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &calib.InputError{Err: fmt.Errorf("non-finite %s %q at line %d", name, cell, line)}
	}
	return v, nil
}
