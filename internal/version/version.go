// Package version holds build metadata set through ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/mtg-manabase/internal/version.Version=v1.2.3 -X github.com/ramonehamilton/mtg-manabase/internal/version.Commit=abc123"
package version

import "fmt"

// Version defaults to "dev" for local builds.
var Version = "dev"

// Commit is the short git revision, empty for local builds.
var Commit = ""

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// String returns the version with its commit when known.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}

// UserAgent returns the HTTP user agent for outbound API calls.
func UserAgent() string {
	return "mtg-manabase/" + Version
}
