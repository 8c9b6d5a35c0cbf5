// Package version provides build version information for finkit services.
//
// Version, commit, and build time are stamped at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/quantfold/finkit/version.Version=1.4.0"
//
// Binaries built without stamps fall back to the VCS metadata embedded by
// the Go toolchain.
package version
