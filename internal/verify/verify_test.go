package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

const sampleManifest = `d2a84f4b8b650937ec8f73cd8be2c74add5a911ba64df27458ed8229da804a26  hooklistener-cli-x86_64-unknown-linux-gnu.tar.gz
0263829989b6fd954f72baaf2fc64bc2e2f01d692d4de72986ea808f6e99813f  hooklistener-cli-aarch64-apple-darwin.tar.gz
48b83b862ebd57f550a8a7b768b93f2a9d2b2b3c  dist/hooklistener-cli-x86_64-pc-windows-msvc.zip
`

func TestParseManifest(t *testing.T) {
	m := ParseManifest([]byte(sampleManifest))
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
}

func TestParseManifestMalformed(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantLen int
	}{
		{name: "empty", data: "", wantLen: 0},
		{name: "blank_lines", data: "\n\n\n", wantLen: 0},
		{name: "single_field_lines", data: "deadbeef\ncafebabe\n", wantLen: 0},
		{name: "mixed", data: "deadbeef\nd2a84f4b  file.tar.gz\n", wantLen: 1},
		{name: "no_trailing_newline", data: "d2a84f4b  file.tar.gz", wantLen: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseManifest([]byte(tt.data)).Len(); got != tt.wantLen {
				t.Errorf("Len() = %d, want %d", got, tt.wantLen)
			}
		})
	}
}

func TestManifestLookup(t *testing.T) {
	m := ParseManifest([]byte(sampleManifest))

	tests := []struct {
		name     string
		file     string
		wantHit  bool
		wantHash string
	}{
		{
			name:     "exact",
			file:     "hooklistener-cli-x86_64-unknown-linux-gnu.tar.gz",
			wantHit:  true,
			wantHash: "d2a84f4b8b650937ec8f73cd8be2c74add5a911ba64df27458ed8229da804a26",
		},
		{
			name:     "basename_of_path_qualified_entry",
			file:     "hooklistener-cli-x86_64-pc-windows-msvc.zip",
			wantHit:  true,
			wantHash: "48b83b862ebd57f550a8a7b768b93f2a9d2b2b3c",
		},
		{name: "absent", file: "hooklistener-cli-armv7-unknown-linux-gnueabihf.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Lookup(tt.file)
			if ok != tt.wantHit {
				t.Fatalf("Lookup() ok = %v, want %v", ok, tt.wantHit)
			}
			if got != tt.wantHash {
				t.Errorf("Lookup() = %q, want %q", got, tt.wantHash)
			}
		})
	}
}

func TestChecksumVerified(t *testing.T) {
	archive := []byte("release archive contents")
	sum := sha256.Sum256(archive)
	digest := hex.EncodeToString(sum[:])

	m := ParseManifest([]byte(digest + "  archive.tar.gz\n"))

	res := Checksum(archive, m, "archive.tar.gz")
	if res.Outcome != OutcomeVerified {
		t.Fatalf("Outcome = %v, want verified", res.Outcome)
	}
	if res.Method != "sha256" {
		t.Errorf("Method = %q, want sha256", res.Method)
	}
	if res.Actual != digest {
		t.Errorf("Actual = %q, want %q", res.Actual, digest)
	}
}

func TestChecksumVerifiedCaseInsensitive(t *testing.T) {
	archive := []byte("release archive contents")
	sum := sha256.Sum256(archive)
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))

	m := ParseManifest([]byte(digest + "  archive.tar.gz\n"))

	if res := Checksum(archive, m, "archive.tar.gz"); res.Outcome != OutcomeVerified {
		t.Errorf("Outcome = %v, want verified for uppercase manifest digest", res.Outcome)
	}
}

func TestChecksumMismatch(t *testing.T) {
	m := ParseManifest([]byte(strings.Repeat("0", 64) + "  archive.tar.gz\n"))

	res := Checksum([]byte("tampered bytes"), m, "archive.tar.gz")
	if res.Outcome != OutcomeMismatch {
		t.Fatalf("Outcome = %v, want mismatch", res.Outcome)
	}
	if res.Expected == res.Actual {
		t.Error("Expected and Actual should differ on mismatch")
	}
}

func TestChecksumSkippedWhenEntryMissing(t *testing.T) {
	m := ParseManifest([]byte("deadbeef  other.tar.gz\n"))

	res := Checksum([]byte("bytes"), m, "archive.tar.gz")
	if res.Outcome != OutcomeSkipped {
		t.Fatalf("Outcome = %v, want skipped", res.Outcome)
	}
	if !strings.Contains(res.Reason, "archive.tar.gz") {
		t.Errorf("Reason should name the missing file, got %q", res.Reason)
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeVerified, "verified"},
		{OutcomeSkipped, "skipped"},
		{OutcomeMismatch, "mismatch"},
		{Outcome(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}

func TestMismatchErrorMessage(t *testing.T) {
	sha := &MismatchError{Name: "a.tar.gz", Method: "sha256", Expected: "aaaa", Actual: "bbbb"}
	msg := sha.Error()
	if !strings.Contains(msg, "aaaa") || !strings.Contains(msg, "bbbb") {
		t.Errorf("sha256 mismatch message should carry both digests, got %q", msg)
	}

	gpg := &MismatchError{Name: "a.tar.gz", Method: "gpg"}
	if !strings.Contains(gpg.Error(), "signature verification failed") {
		t.Errorf("gpg mismatch message = %q", gpg.Error())
	}
}
