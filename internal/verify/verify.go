// Package verify checks downloaded archives against their checksum manifest
// and, optionally, a detached GPG signature.
//
// Verification has exactly three outcomes. Verified means the computed
// digest matched the manifest entry. Mismatch means it did not, which is
// always fatal upstream. Skipped means no verification data was available:
// this is an intentional trust-degradation path that allows installation to
// proceed, but it must be surfaced as a warning, never silently treated as
// success.
package verify

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Outcome classifies a verification attempt.
type Outcome int

const (
	// OutcomeSkipped means no verification data was available; installation
	// proceeds with a warning.
	OutcomeSkipped Outcome = iota
	// OutcomeVerified means the artifact matched its expected digest.
	OutcomeVerified
	// OutcomeMismatch means the artifact did not match; fatal, never
	// recoverable.
	OutcomeMismatch
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeVerified:
		return "verified"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Result describes how a verification attempt ended.
type Result struct {
	Outcome  Outcome
	Method   string // "sha256" or "gpg"
	Reason   string // set for Skipped: why verification did not happen
	Expected string // set for sha256 Verified/Mismatch
	Actual   string // set for sha256 Verified/Mismatch
}

// Skip builds a Skipped result with the given reason.
func Skip(method, reason string) Result {
	return Result{Outcome: OutcomeSkipped, Method: method, Reason: reason}
}

// Entry is one checksum manifest record.
type Entry struct {
	Digest string
	Name   string
}

// Manifest is a parsed checksum manifest: whitespace-delimited
// "<hex-digest>  <filename>" records, one per line.
type Manifest struct {
	entries []Entry
}

// ParseManifest parses manifest text. Blank lines and lines without at
// least two fields are ignored; a malformed manifest therefore degrades to
// an empty one rather than failing, which downstream reports as Skipped.
func ParseManifest(data []byte) Manifest {
	var m Manifest
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		m.entries = append(m.entries, Entry{Digest: fields[0], Name: fields[1]})
	}
	return m
}

// Len returns the number of manifest entries.
func (m Manifest) Len() int {
	return len(m.entries)
}

// Lookup finds the digest for a file name. Exact match first, then base
// name, so manifests listing path-qualified names still resolve.
func (m Manifest) Lookup(name string) (string, bool) {
	for _, e := range m.entries {
		if e.Name == name {
			return e.Digest, true
		}
	}
	for _, e := range m.entries {
		if filepath.Base(e.Name) == name {
			return e.Digest, true
		}
	}
	return "", false
}

// MismatchError carries the details of a failed integrity check for the
// orchestrator's error taxonomy.
type MismatchError struct {
	Name     string
	Method   string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	if e.Method == "gpg" {
		return fmt.Sprintf("signature verification failed for %s", e.Name)
	}
	return fmt.Sprintf("checksum mismatch for %s:\nexpected: %s\nactual:   %s", e.Name, e.Expected, e.Actual)
}
