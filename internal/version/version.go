package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service current released version.
// Semantic versioning: https://semver.org/
var Version = "0.3.0"

// DevVersion is the service current development version.
var DevVersion = "0.3.1"

// GetCurrentVersion returns the version reported in the given mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}

// GetMinorVersion returns "major.minor" of a semantic version.
func GetMinorVersion(version string) string {
	versionList := strings.Split(version, ".")
	if len(versionList) < 2 {
		return ""
	}
	return versionList[0] + "." + versionList[1]
}

// IsVersionGreaterOrEqualThan reports whether version >= target.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare("v"+version, "v"+target) > -1
}
