// Package version holds build-time version information, injected via
// -ldflags at release time.
package version

// Version is the release version, set at build time.
var Version = "dev"

// Commit is the git commit hash, set at build time.
var Commit = "unknown"
