// Package buildinfo carries the version stamped into binaries and FITS
// headers.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/matzehuels/simcluster/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/simcluster/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Name identifies the program in CREATOR cards and --version output.
const Name = "simcluster"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the short git SHA.
	Commit = "none"

	// Date is the build timestamp (RFC 3339).
	Date = "unknown"
)

// Resolved returns Version, falling back to the module version recorded by
// `go install` when no ldflags were given.
func Resolved() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

// Creator is the value of the FITS CREATOR card, e.g. "simcluster v0.3.0".
// It always fits in a 68-character card string.
func Creator() string {
	s := Name + " " + Resolved()
	if len(s) > 68 {
		s = s[:68]
	}
	return s
}

// String returns the multi-line build summary.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Resolved(), Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Resolved(), Commit, Date)
}
