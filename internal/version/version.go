package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build-time variables injected via ldflags
var (
	// Version is the semantic version, injected at build time
	Version = "dev"

	// GitCommit is the git commit hash, injected at build time
	GitCommit = "unknown"

	// BuildDate is the build date, injected at build time
	BuildDate = "unknown"

	// GoVersion is the Go version used to build
	GoVersion = runtime.Version()
)

// Full returns the version with a short commit suffix when known.
func Full() string {
	info := Version
	if len(GitCommit) >= 7 && GitCommit != "unknown" && !strings.Contains(info, GitCommit[:7]) {
		info += fmt.Sprintf(" (%s)", GitCommit[:7])
	}
	return info
}

// BuildInfo returns detailed build information
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
}

// GetBuildInfo returns structured build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Full(),
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
	}
}
