// Package buildinfo carries version metadata stamped in at link time.
package buildinfo

// Set via -ldflags, for example:
//
//	-X 'github.com/m3rciful/marketbot/core/buildinfo.Version=v0.3.0'
//	-X 'github.com/m3rciful/marketbot/core/buildinfo.Commit=1f2e3d4'
//	-X 'github.com/m3rciful/marketbot/core/buildinfo.Date=2026-10-01T09:00:00Z'
var (
	// Version is the release tag of the binary.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "local"
	// Date is the RFC3339 build timestamp.
	Date = ""
)
