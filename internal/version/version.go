// Package version reports which baseline build is running.
package version

import (
	"fmt"
	"runtime"
)

// Stamped at release time:
// go build -ldflags "-X baseline/internal/version.Version=1.0.0 -X baseline/internal/version.Commit=abc123"
var (
	Version   = "0.4.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

const shortCommit = 7

// Short returns the version, followed by the abbreviated commit when a full
// hash was stamped in.
func Short() string {
	if Commit == "unknown" || len(Commit) <= shortCommit {
		return Version
	}
	return Version + " (" + Commit[:shortCommit] + ")"
}

// Full returns the report printed by "baseline version". parser names the
// syntax backend compiled into the binary.
func Full(parser string) string {
	return fmt.Sprintf("baseline version %s\nCommit: %s\nBuilt: %s\nGo: %s %s/%s\nParser: %s",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH, parser)
}
