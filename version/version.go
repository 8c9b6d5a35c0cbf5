// Package version exposes build metadata stamped at link time.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Populated via -ldflags at build time. Version stays "dev" for local builds.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info describes the running build.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit"`
	BuildTime string    `json:"build_time"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	Release   bool      `json:"release"`
	Dirty     bool      `json:"dirty"`
}

// Current resolves build metadata, preferring ldflags values and falling
// back to the VCS stamps that the Go toolchain embeds in the binary.
func Current() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		Release:   Version != "dev" && !strings.Contains(Version, "dirty"),
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = shortCommit(s.Value)
				}
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
						info.BuildDate = t
						info.BuildTime = s.Value
					}
				}
			}
		}
	}

	if info.BuildDate.IsZero() {
		info.BuildDate = time.Now().UTC()
		info.BuildTime = info.BuildDate.Format(time.RFC3339)
	}
	return info
}

// Short returns a compact identifier suitable for startup logs,
// e.g. "1.4.0-3f2a9c1" or "dev-3f2a9c1-dirty".
func Short() string {
	info := Current()
	if info.Commit == "" {
		return info.Version
	}
	if info.Dirty {
		return fmt.Sprintf("%s-%s-dirty", info.Version, info.Commit)
	}
	return fmt.Sprintf("%s-%s", info.Version, info.Commit)
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
