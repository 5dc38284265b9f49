// Package version reports the build version of bistro. The variables are set at link
// time with -ldflags "-X github.com/rshade/bistro/pkg/version.version=...".
package version

import "fmt"

//nolint:gochecknoglobals // Set by the linker.
var (
	version   = "dev"
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the release version, or "dev" for local builds.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from, if known.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp, if known.
func GetBuildDate() string {
	return buildDate
}

// String returns the version with commit and build date when they are known.
func String() string {
	s := version
	if gitCommit != "" {
		s += fmt.Sprintf(" (commit %s", gitCommit)
		if buildDate != "" {
			s += ", built " + buildDate
		}
		s += ")"
	}
	return s
}
