package verify

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Signature verifies a detached GPG signature over the archive bytes using
// the keyring at keyringPath. The signature and keyring are both tried in
// armored form first, then binary, since upstream tooling produces either.
//
// An absent signature or keyring yields OutcomeSkipped: signature
// verification is a supplement to the checksum path and degrades the same
// way. A keyring that exists but cannot be read is an environment error,
// not a verification outcome.
func Signature(archive, sig []byte, keyringPath, name string) (Result, error) {
	if keyringPath == "" {
		return Skip("gpg", "no keyring configured"), nil
	}
	if len(sig) == 0 {
		return Skip("gpg", "no signature published for this artifact"), nil
	}

	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return Result{}, err
	}

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(archive), bytes.NewReader(sig), nil)
	if err != nil {
		_, err = openpgp.CheckDetachedSignature(keyring, bytes.NewReader(archive), bytes.NewReader(sig), nil)
	}
	if err != nil {
		return Result{Outcome: OutcomeMismatch, Method: "gpg"}, nil
	}

	return Result{Outcome: OutcomeVerified, Method: "gpg"}, nil
}

// loadKeyring reads a GPG keyring file, armored first with a binary
// fallback.
func loadKeyring(path string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		keyring, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse keyring %s: %w", path, err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring %s is empty", path)
	}

	return keyring, nil
}
