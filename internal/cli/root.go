// Package cli provides the command-line interface for sitecal.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/obedmacallums/site-calibration/internal/version"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sitecal",
		Short: "Site calibration between GNSS and local survey coordinates",
		Long: `sitecal fits a site calibration between GNSS control points measured in
WGS84 geographic coordinates and the same points measured in a local
survey grid.

The global points are projected onto a transverse Mercator plane, a 2D
similarity transform is fitted to the matched horizontal coordinates and
an inclined plane to the elevation differences. The fitted parameters,
per-point residuals and quality statistics are written as a markdown
report, with optional CSV and plot outputs.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sitecal.yaml)")

	rootCmd.AddCommand(NewLocal2GlobalCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newLogger returns a text logger on stderr at warn level, or debug when
// verbose. Diagnostics never go to stdout.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
