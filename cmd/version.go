// Package cmd holds the build metadata stamped into gamelog binaries.
package cmd

// Set at release time via -ldflags "-X github.com/tessadover/gamelog/cmd.Version=...".
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
