// Package version records build metadata injected at link time via
// -ldflags "-X github.com/obedmacallums/site-calibration/internal/version.Version=...".
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata as a single operator-facing line.
func String() string {
	return fmt.Sprintf("sitecal %s (commit %s, built %s)", Version, GitSHA, BuildTime)
}
