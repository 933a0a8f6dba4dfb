package bootstrap

import (
	"errors"
	"fmt"

	"github.com/hooklistener/hooklistener-install/internal/archive"
	"github.com/hooklistener/hooklistener-install/internal/fetch"
	"github.com/hooklistener/hooklistener-install/internal/installer"
	"github.com/hooklistener/hooklistener-install/internal/platform"
	"github.com/hooklistener/hooklistener-install/internal/release"
	"github.com/hooklistener/hooklistener-install/internal/verify"
)

// Process exit codes. Each failure family gets a distinct code so wrapping
// scripts can decide on remediation (e.g. suggest a manual install path)
// without parsing messages.
const (
	// ExitOK is a successful installation.
	ExitOK = 0
	// ExitUsage covers configuration and other unclassified errors.
	ExitUsage = 1
	// ExitUnsupportedPlatform: no release artifact exists for this OS/arch.
	ExitUnsupportedPlatform = 2
	// ExitNetwork covers version resolution failures, unreachable hosts,
	// and non-success artifact fetches.
	ExitNetwork = 3
	// ExitChecksum: the artifact failed integrity verification, or
	// verification was required but unavailable.
	ExitChecksum = 4
	// ExitExtraction: the archive could not be unpacked.
	ExitExtraction = 5
	// ExitInstall covers permission failures and placement verification
	// failures.
	ExitInstall = 6
)

// ChecksumRequiredError reports that verification data was unavailable
// while the caller demanded fail-closed behavior.
type ChecksumRequiredError struct {
	Reason string
}

func (e *ChecksumRequiredError) Error() string {
	return fmt.Sprintf("checksum verification unavailable (%s); refusing to install because --require-checksum is set", e.Reason)
}

// ExtractionError wraps non-corruption extraction failures, e.g. an
// unwritable workspace, so they map to the extraction exit code.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract archive: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// InstallError wraps installation failures that are not already typed as
// permission or verification errors.
type InstallError struct {
	Err error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install binary: %v", e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error from Run to its process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		unsupportedErr *platform.UnsupportedPlatformError
		indexUnreach   *release.IndexUnreachableError
		resolutionErr  *release.ResolutionError
		unreachErr     *fetch.UnreachableError
		statusErr      *fetch.StatusError
		mismatchErr    *verify.MismatchError
		requiredErr    *ChecksumRequiredError
		corruptErr     *archive.CorruptArchiveError
		extractionErr  *ExtractionError
		permErr        *installer.PermissionError
		placementErr   *installer.VerificationError
		installErr     *InstallError
	)

	switch {
	case errors.As(err, &unsupportedErr):
		return ExitUnsupportedPlatform
	case errors.As(err, &indexUnreach), errors.As(err, &resolutionErr),
		errors.As(err, &unreachErr), errors.As(err, &statusErr):
		return ExitNetwork
	case errors.As(err, &mismatchErr), errors.As(err, &requiredErr):
		return ExitChecksum
	case errors.As(err, &corruptErr), errors.As(err, &extractionErr):
		return ExitExtraction
	case errors.As(err, &permErr), errors.As(err, &placementErr), errors.As(err, &installErr):
		return ExitInstall
	default:
		return ExitUsage
	}
}
