package build

import "fmt"

// These are meant to be overridden at build time via:
//
//	go build -ldflags "-X github.com/actorwire/actorwire/internal/build.Commit=$(git rev-parse HEAD)"
//
// the same -ldflags convention btcsuite/lnd projects use to stamp a
// released binary with its exact source commit.
var (
	// Commit is the VCS commit the binary was built from, set via
	// -ldflags. Empty in a plain `go build`.
	Commit string

	// CommitHash is an alternate home for the same value, for build
	// systems that inject it under this name instead of Commit.
	CommitHash string

	// GoVersion is the toolchain version used to produce the binary, set
	// via -ldflags. Empty in a plain `go build`.
	GoVersion string
)

const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0

	// appPreRelease is appended to the semantic version string as-is, so
	// it must follow the semver package pre-release spec.
	appPreRelease = "beta"
)

// Version returns the application version as a properly formed string per
// the semantic versioning 2.0.0 spec (https://semver.org).
func Version() string {
	version := fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
	if appPreRelease != "" {
		version = fmt.Sprintf("%s-%s", version, appPreRelease)
	}
	return version
}
