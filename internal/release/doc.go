// Package release resolves which hooklistener release to install and where
// its artifacts live.
//
// Version resolution is one network round trip at most: a pinned version
// (e.g. from a packaging wrapper that already knows its own declared
// version) short-circuits the release index entirely, otherwise the latest
// published tag is read from the GitHub releases API. Artifact location is
// a pure function of target identifier and version: identical inputs always
// yield identical descriptors.
package release
