// Package version holds build metadata stamped in through -ldflags.
package version

import (
	"fmt"
	"runtime/debug"
)

const unknown = "unknown"

// Set with -ldflags "-X github.com/Sumatoshi-tech/permjudge/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills unstamped fields from the module build info that
// `go install` and `go build` record.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = s.Value
			}
		}
	}
}

// String formats the version line printed by `permjudge version`.
func String() string {
	return fmt.Sprintf("permjudge %s (commit: %s, built: %s)", Version, Commit, Date)
}
