package oasexplorer

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/erraggy/oasexplorer.version=v1.2.3" and
// friends at release time.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Version returns the release version. Binaries built with "go install" report
// their module version; builds from a checkout report "dev".
func Version() string {
	if version != "dev" {
		return version
	}
	if info, ok := readBuildInfo(); ok && strings.HasPrefix(info.Main.Version, "v") {
		return info.Main.Version
	}
	return version
}

// Commit returns the git commit the binary was built from, or "unknown".
func Commit() string {
	if commit != "unknown" {
		return commit
	}
	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return commit
}

// BuildTime returns the RFC3339 build timestamp, or "unknown".
func BuildTime() string {
	return buildTime
}

// GoVersion returns the Go runtime version the binary was compiled with.
func GoVersion() string {
	return runtime.Version()
}

// UserAgent is sent with every document fetched over HTTP.
func UserAgent() string {
	return "oasexplorer/" + Version()
}

// BuildInfo returns a multi-line summary of the build metadata.
func BuildInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Version:    %s\n", Version())
	fmt.Fprintf(&b, "Commit:     %s\n", Commit())
	fmt.Fprintf(&b, "Build Time: %s\n", BuildTime())
	fmt.Fprintf(&b, "Go Version: %s", GoVersion())
	return b.String()
}
