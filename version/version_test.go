package version

import (
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	t.Cleanup(func() {
		Version = origVersion
		Commit = origCommit
		BuildTime = origBuildTime
	})
	Version, Commit, BuildTime = version, commit, buildTime
}

func TestCurrentDevDefaults(t *testing.T) {
	stamp(t, "dev", "", "")

	info := Current()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.Release {
		t.Error("dev build must not report Release")
	}
	if info.BuildDate.IsZero() {
		t.Error("BuildDate should be backfilled when no stamp is present")
	}
}

func TestCurrentStampedRelease(t *testing.T) {
	stamp(t, "1.4.0", "3f2a9c1", "2026-03-02T08:15:00Z")

	info := Current()
	if !info.Release {
		t.Error("stamped semver build should report Release")
	}
	if info.Commit != "3f2a9c1" {
		t.Errorf("Commit = %q, want 3f2a9c1", info.Commit)
	}
	if got, want := info.BuildDate.Year(), 2026; got != want {
		t.Errorf("BuildDate year = %d, want %d", got, want)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should come from the embedded build info")
	}
}

func TestCurrentDirtySuffixBlocksRelease(t *testing.T) {
	stamp(t, "1.4.0-dirty", "", "")

	if Current().Release {
		t.Error("a -dirty version string must not count as a release")
	}
}

func TestShortWithoutCommit(t *testing.T) {
	stamp(t, "dev", "", "")

	if got := Short(); !strings.HasPrefix(got, "dev") {
		t.Errorf("Short() = %q, want dev prefix", got)
	}
}

func TestShortWithCommit(t *testing.T) {
	stamp(t, "1.4.0", "3f2a9c1", "2026-03-02T08:15:00Z")

	if got, want := Short(), "1.4.0-3f2a9c1"; got != want {
		t.Errorf("Short() = %q, want %q", got, want)
	}
}

func TestShortCommitTruncation(t *testing.T) {
	if got, want := shortCommit("3f2a9c1d8e0b4a66"), "3f2a9c1"; got != want {
		t.Errorf("shortCommit() = %q, want %q", got, want)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("shortCommit() = %q, want abc", got)
	}
}
