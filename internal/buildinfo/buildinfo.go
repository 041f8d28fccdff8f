// Package buildinfo carries version metadata injected at link time.
package buildinfo

// Overridden with -ldflags "-X github.com/five82/partpick/internal/buildinfo.Version=...".
var (
	Version = "0.1.0"
	Commit  = ""
	Date    = ""
)
