package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Checksum verifies archive bytes against the manifest entry for name.
// A missing entry is not an integrity failure: it yields OutcomeSkipped so
// the caller can proceed with a warning. A present entry that does not
// match the computed digest yields OutcomeMismatch.
func Checksum(archive []byte, manifest Manifest, name string) Result {
	expected, ok := manifest.Lookup(name)
	if !ok {
		return Skip("sha256", fmt.Sprintf("no checksum entry for %s in manifest", name))
	}

	sum := sha256.Sum256(archive)
	actual := hex.EncodeToString(sum[:])

	if !strings.EqualFold(actual, expected) {
		return Result{
			Outcome:  OutcomeMismatch,
			Method:   "sha256",
			Expected: expected,
			Actual:   actual,
		}
	}

	return Result{
		Outcome:  OutcomeVerified,
		Method:   "sha256",
		Expected: expected,
		Actual:   actual,
	}
}
