package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obedmacallums/site-calibration/internal/calib"
	"github.com/obedmacallums/site-calibration/internal/config"
	"github.com/obedmacallums/site-calibration/internal/geodesy"
	"github.com/obedmacallums/site-calibration/internal/pointio"
	"github.com/obedmacallums/site-calibration/internal/report"
	"github.com/obedmacallums/site-calibration/internal/units"
)

// NewLocal2GlobalCommand creates the local2global command.
func NewLocal2GlobalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local2global",
		Short: "Fit a site calibration from matched control points",
		Long: `Fit a site calibration between GNSS control points and their local grid
coordinates. The global points are projected onto a transverse Mercator
plane, a 2D similarity transform is estimated for the horizontal
coordinates by least squares and an inclined plane for the elevation
differences.

Results are written as a markdown report. Optionally the projected and
transformed coordinates of every global point are written as CSV and the
horizontal residuals as a scatter plot.`,
		Example: `  # Site-local projection anchored on the first global point
  sitecal local2global --global-csv global.csv --local-csv local.csv

  # Standard UTM, zone derived from the mean position of the input points
  sitecal local2global --global-csv global.csv --local-csv local.csv --method utm

  # Custom local transverse Mercator
  sitecal local2global --global-csv global.csv --local-csv local.csv --method ltm \
    --central-meridian -70.6693 --latitude-of-origin -33.4489 \
    --false-easting 5000 --false-northing 8000 --scale-factor 1.0000235`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			opts, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runLocal2Global(cmd, opts)
		},
	}

	cmd.Flags().String("global-csv", "", "CSV of GNSS control points (Point, Latitude, Longitude, EllipsoidalHeight)")
	cmd.Flags().String("local-csv", "", "CSV of local grid coordinates (Point, Easting, Northing, Elevation)")
	cmd.Flags().String("method", "default", "projection method: default, utm or ltm")
	cmd.Flags().Int("utm-zone", 0, "force a UTM zone (1-60, 0 derives the zone from the mean position of the input points)")
	cmd.Flags().String("utm-hemisphere", "auto", "UTM hemisphere: auto, north or south")
	cmd.Flags().Float64("central-meridian", 0, "LTM central meridian in degrees")
	cmd.Flags().Float64("latitude-of-origin", 0, "LTM latitude of origin in degrees")
	cmd.Flags().Float64("false-easting", 0, "LTM false easting in meters")
	cmd.Flags().Float64("false-northing", 0, "LTM false northing in meters")
	cmd.Flags().Float64("scale-factor", 0, "LTM scale factor on the central meridian")
	cmd.Flags().String("output-report", "calibration_report.md", "path of the markdown report")
	cmd.Flags().String("output-csv", "", "optional path for the transformed coordinates CSV")
	cmd.Flags().String("output-plot", "", "optional path for the residual scatter plot (PNG)")
	cmd.Flags().Bool("verbose", false, "enable debug logging")

	return cmd
}

func runLocal2Global(cmd *cobra.Command, opts *config.Options) error {
	logger := newLogger(opts.Verbose)
	if opts.ConfigFile != "" {
		logger.Debug("loaded config file", "path", opts.ConfigFile)
	}

	if opts.GlobalCSV == "" || opts.LocalCSV == "" {
		return errors.New("both --global-csv and --local-csv are required")
	}

	method, err := geodesy.ParseMethod(opts.Method)
	if err != nil {
		return &calib.ProjectionError{Err: err}
	}
	hemisphere, err := geodesy.ParseHemisphere(opts.UTMHemisphere)
	if err != nil {
		return &calib.ProjectionError{Err: err}
	}
	// LTM with missing parameters is a usage error. It has to fail here,
	// before any point file is opened.
	if method == geodesy.MethodLTM && !opts.LTMComplete {
		flagNames := make([]string, len(opts.MissingLTM))
		for i, key := range opts.MissingLTM {
			flagNames[i] = "--" + strings.ReplaceAll(key, "_", "-")
		}
		return fmt.Errorf("method ltm requires all five projection parameters, missing %s",
			strings.Join(flagNames, ", "))
	}

	cfg := geodesy.Config{
		Method:              method,
		ForcedZone:          opts.UTMZone,
		Hemisphere:          hemisphere,
		CentralMeridianDeg:  opts.CentralMeridian,
		LatitudeOfOriginDeg: opts.LatitudeOfOrigin,
		FalseEastingM:       opts.FalseEasting,
		FalseNorthingM:      opts.FalseNorthing,
		ScaleFactor:         opts.ScaleFactor,
	}

	global, err := pointio.ReadGlobal(opts.GlobalCSV)
	if err != nil {
		return err
	}
	local, err := pointio.ReadLocal(opts.LocalCSV)
	if err != nil {
		return err
	}
	logger.Debug("control points loaded", "global", len(global), "local", len(local))

	rep, err := calib.Calibrate(global, local, cfg)
	if err != nil {
		return err
	}
	logger.Debug("calibration fitted",
		"projection", rep.Projection,
		"matched", rep.MatchedCount,
		"rotation_deg", rep.Horizontal.RotationDeg(),
		"scale", rep.Horizontal.Scale(),
		"rms_horizontal_m", rep.RMS.HorizontalM,
		"rms_vertical_m", rep.RMS.VerticalM)

	if err := report.WriteMarkdown(opts.OutputReport, rep); err != nil {
		return err
	}
	if opts.OutputCSV != "" {
		if err := pointio.WriteTransformedFile(opts.OutputCSV, rep.Transformed); err != nil {
			return err
		}
	}
	if opts.OutputPlot != "" {
		if err := report.SavePlot(rep, opts.OutputPlot); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Calibrated %d points, RMS horizontal %.1f mm, vertical %.1f mm. Report written to %s\n",
		rep.MatchedCount, units.MetersToMillimeters(rep.RMS.HorizontalM),
		units.MetersToMillimeters(rep.RMS.VerticalM), opts.OutputReport)
	return nil
}
