package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlags mirrors the flag set the CLI registers, unparsed.
func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("global-csv", "", "")
	flags.String("local-csv", "", "")
	flags.String("method", "default", "")
	flags.Int("utm-zone", 0, "")
	flags.String("utm-hemisphere", "auto", "")
	flags.Float64("central-meridian", 0, "")
	flags.Float64("latitude-of-origin", 0, "")
	flags.Float64("false-easting", 0, "")
	flags.Float64("false-northing", 0, "")
	flags.Float64("scale-factor", 0, "")
	flags.String("output-report", "calibration_report.md", "")
	flags.String("output-csv", "", "")
	flags.String("output-plot", "", "")
	flags.Bool("verbose", false, "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	opts, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "default", opts.Method)
	assert.Equal(t, 0, opts.UTMZone)
	assert.Equal(t, "auto", opts.UTMHemisphere)
	assert.Equal(t, "calibration_report.md", opts.OutputReport)
	assert.Empty(t, opts.GlobalCSV)
	assert.Empty(t, opts.OutputCSV)
	assert.False(t, opts.Verbose)
	assert.Empty(t, opts.ConfigFile)

	assert.False(t, opts.LTMComplete)
	assert.Equal(t, []string{
		"central_meridian", "latitude_of_origin", "false_easting", "false_northing", "scale_factor",
	}, opts.MissingLTM)
}

func TestLoad_ConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sitecal.yaml")
	cfgContent := `global_csv: /data/points_global.csv
local_csv: /data/points_local.csv
method: utm
utm_zone: 19
utm_hemisphere: south
verbose: true
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o600))

	opts, err := Load(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "/data/points_global.csv", opts.GlobalCSV)
	assert.Equal(t, "/data/points_local.csv", opts.LocalCSV)
	assert.Equal(t, "utm", opts.Method)
	assert.Equal(t, 19, opts.UTMZone)
	assert.Equal(t, "south", opts.UTMHemisphere)
	assert.True(t, opts.Verbose)
	assert.Equal(t, cfgPath, opts.ConfigFile)
}

func TestLoad_BadConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sitecal.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("method: [unclosed"), 0o600))

	_, err := Load(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sitecal.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("method: utm\n"), 0o600))

	t.Setenv("SITECAL_METHOD", "ltm")

	opts, err := Load(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "ltm", opts.Method, "env var should override config file")
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("SITECAL_METHOD", "utm")

	flags := newFlags(t)
	require.NoError(t, flags.Set("method", "ltm"))

	opts, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "ltm", opts.Method, "flag value should override env var")
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	t.Setenv("SITECAL_METHOD", "utm")

	// Flags registered but never set: Changed is false for all of them.
	opts, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "utm", opts.Method, "unset flag must not mask the env var")
}

func TestLoad_LTMDetection(t *testing.T) {
	t.Run("complete via flags", func(t *testing.T) {
		flags := newFlags(t)
		require.NoError(t, flags.Set("central-meridian", "-70.6693"))
		require.NoError(t, flags.Set("latitude-of-origin", "-33.4489"))
		require.NoError(t, flags.Set("false-easting", "5000"))
		require.NoError(t, flags.Set("false-northing", "8000"))
		require.NoError(t, flags.Set("scale-factor", "1.0000235"))

		opts, err := Load("", flags)
		require.NoError(t, err)
		assert.True(t, opts.LTMComplete)
		assert.Empty(t, opts.MissingLTM)
		assert.Equal(t, -70.6693, opts.CentralMeridian)
		assert.Equal(t, 1.0000235, opts.ScaleFactor)
	})

	t.Run("partial via config file", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "sitecal.yaml")
		cfgContent := `method: ltm
central_meridian: -70.6693
latitude_of_origin: -33.4489
false_easting: 5000
false_northing: 8000
`
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o600))

		opts, err := Load(cfgPath, nil)
		require.NoError(t, err)
		assert.False(t, opts.LTMComplete)
		assert.Equal(t, []string{"scale_factor"}, opts.MissingLTM)
	})

	t.Run("complete via env", func(t *testing.T) {
		t.Setenv("SITECAL_CENTRAL_MERIDIAN", "-70.6693")
		t.Setenv("SITECAL_LATITUDE_OF_ORIGIN", "-33.4489")
		t.Setenv("SITECAL_FALSE_EASTING", "5000")
		t.Setenv("SITECAL_FALSE_NORTHING", "8000")
		t.Setenv("SITECAL_SCALE_FACTOR", "1.0000235")

		opts, err := Load("", nil)
		require.NoError(t, err)
		assert.True(t, opts.LTMComplete)
		assert.Equal(t, 5000.0, opts.FalseEasting)
		assert.Equal(t, 8000.0, opts.FalseNorthing)
		assert.Equal(t, -33.4489, opts.LatitudeOfOrigin)
	})
}
