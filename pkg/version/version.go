// Package version exposes build information set via -ldflags.
package version

import "runtime/debug"

// Set at build time:
//
//	go build -ldflags "-X github.com/rshade/azimage/pkg/version.version=v1.0.0"
//
//nolint:gochecknoglobals // ldflags targets
var (
	version   = ""
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the build version. Without ldflags it falls back to
// the module version recorded by go install, then to "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetGitCommit returns the commit the binary was built from, or "unknown".
func GetGitCommit() string {
	if gitCommit != "" {
		return gitCommit
	}
	return "unknown"
}

// GetBuildDate returns the build timestamp, or "unknown".
func GetBuildDate() string {
	if buildDate != "" {
		return buildDate
	}
	return "unknown"
}
