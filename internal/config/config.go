// Package config resolves the tool's settings from defaults, an optional
// YAML file, SITECAL_-prefixed environment variables, and command-line
// flags, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the default config file name.
const ConfigFileName = "sitecal.yaml"

// ConfigFileNameAlt is the alternate config file name.
const ConfigFileNameAlt = "sitecal.yml"

// Options holds every runtime setting of the tool.
type Options struct {
	GlobalCSV string `koanf:"global_csv"`
	LocalCSV  string `koanf:"local_csv"`

	Method        string `koanf:"method"`
	UTMZone       int    `koanf:"utm_zone"`
	UTMHemisphere string `koanf:"utm_hemisphere"`

	// Custom transverse Mercator parameters. All five must be provided
	// together, from any configuration layer.
	CentralMeridian  float64 `koanf:"central_meridian"`
	LatitudeOfOrigin float64 `koanf:"latitude_of_origin"`
	FalseEasting     float64 `koanf:"false_easting"`
	FalseNorthing    float64 `koanf:"false_northing"`
	ScaleFactor      float64 `koanf:"scale_factor"`

	OutputReport string `koanf:"output_report"`
	OutputCSV    string `koanf:"output_csv"`
	OutputPlot   string `koanf:"output_plot"`

	Verbose bool `koanf:"verbose"`

	// Derived during Load, not configuration keys themselves.
	ConfigFile  string   `koanf:"-"`
	LTMComplete bool     `koanf:"-"`
	MissingLTM  []string `koanf:"-"`
}

// ltmKeys are the configuration keys a custom transverse Mercator needs.
// They carry no defaults so that Load can tell "provided" from "absent".
var ltmKeys = []string{
	"central_meridian",
	"latitude_of_origin",
	"false_easting",
	"false_northing",
	"scale_factor",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > sitecal.yaml > sitecal.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if _, err := os.Stat(ConfigFileNameAlt); err == nil {
		return ConfigFileNameAlt
	}
	return ""
}

// Load resolves the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Options, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"global_csv":     "",
		"local_csv":      "",
		"method":         "default",
		"utm_zone":       0,
		"utm_hemisphere": "auto",
		"output_report":  "calibration_report.md",
		"output_csv":     "",
		"output_plot":    "",
		"verbose":        false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load config file when one is given or found
	configFileUsed := findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (SITECAL_ prefix)
	// Transform: SITECAL_GLOBAL_CSV -> global_csv
	if err := k.Load(env.Provider("SITECAL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SITECAL_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var opts Options
	if err := k.Unmarshal("", &opts); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	opts.ConfigFile = configFileUsed

	for _, key := range ltmKeys {
		if !k.Exists(key) {
			opts.MissingLTM = append(opts.MissingLTM, key)
		}
	}
	opts.LTMComplete = len(opts.MissingLTM) == 0

	return &opts, nil
}
