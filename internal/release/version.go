package release

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is an opaque release tag, e.g. "v0.1.0". It is resolved once per
// installer run and immutable thereafter.
type Version string

// String returns the version tag.
func (v Version) String() string {
	return string(v)
}

// Pin normalizes a caller-supplied version into canonical tag form. Tags
// that parse as semantic versions gain the "v" prefix release tags carry;
// anything else passes through untouched, since upstream tags are opaque to
// the installer. No network call is made.
func Pin(version string) Version {
	trimmed := strings.TrimSpace(version)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "v") && semver.IsValid("v"+trimmed) {
		return Version("v" + trimmed)
	}
	return Version(trimmed)
}

// IsNewer reports whether version a is a strictly newer semantic version
// than b. Non-semver tags compare as not newer.
func IsNewer(a, b Version) bool {
	av, bv := string(Pin(string(a))), string(Pin(string(b)))
	if !semver.IsValid(av) || !semver.IsValid(bv) {
		return false
	}
	return semver.Compare(av, bv) > 0
}
