// Package bootstrap sequences the installer stages: platform resolution,
// version resolution, artifact location, fetching, integrity verification,
// extraction, and placement.
//
// The orchestrator owns the workspace lifetime (allocated before any
// network or filesystem side effect, removed on every exit path), performs
// no retries, and never downgrades a fatal condition to a warning. Each
// stage failure surfaces exactly one taxonomy member which ExitCode maps
// to a process exit code.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hooklistener/hooklistener-install/internal/archive"
	"github.com/hooklistener/hooklistener-install/internal/fetch"
	"github.com/hooklistener/hooklistener-install/internal/installer"
	"github.com/hooklistener/hooklistener-install/internal/platform"
	"github.com/hooklistener/hooklistener-install/internal/release"
	"github.com/hooklistener/hooklistener-install/internal/verify"
	"github.com/hooklistener/hooklistener-install/internal/workspace"
)

// Fetcher downloads a URL to bytes. Satisfied by fetch.Client; swapped in
// tests to observe and count fetches.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// VersionResolver resolves the latest published release tag. Satisfied by
// release.Client.
type VersionResolver interface {
	Latest(ctx context.Context) (release.Version, error)
}

// Options is the caller configuration surface for one installer run.
type Options struct {
	// Version pins a release tag; empty means resolve the latest.
	Version string
	// InstallDir overrides the install directory.
	InstallDir string
	// LocalBinary is a pre-supplied binary path that bypasses network
	// fetching entirely.
	LocalBinary string
	// BinaryName overrides the canonical installed name; defaults to
	// release.BinaryName.
	BinaryName string
	// ModifyPath permits persistent PATH changes on POSIX (see installer).
	ModifyPath bool
	// RequireChecksum fails the run instead of proceeding when checksum
	// verification is unavailable.
	RequireChecksum bool
	// GPGKeyring enables detached-signature verification against the
	// keyring at this path.
	GPGKeyring string

	// Logger receives progress and warnings; defaults to slog.Default().
	Logger *slog.Logger
	// HandleSignals installs interrupt-driven workspace cleanup. The CLI
	// sets it; tests leave it off.
	HandleSignals bool

	// Platform overrides detection. Primarily for tests.
	Platform *platform.Info
	// Index overrides the release index client. Primarily for tests.
	Index VersionResolver
	// Fetcher overrides the artifact fetcher. Primarily for tests.
	Fetcher Fetcher
	// DownloadBase overrides the artifact host. Primarily for tests.
	DownloadBase string
	// WorkspaceRoot overrides where the scratch directory is created.
	WorkspaceRoot string
}

// Report describes a completed run.
type Report struct {
	Version       release.Version
	Target        platform.Target
	Verification  verify.Result
	InstalledPath string
	Replaced      bool
	Elevated      bool
	PathUpdate    installer.PathUpdate
}

// Run executes one full install. The returned error, when non-nil, is a
// member of the failure taxonomy; map it with ExitCode.
func Run(ctx context.Context, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	binaryName := opts.BinaryName
	if binaryName == "" {
		binaryName = release.BinaryName
	}

	// Workspace comes first: every later stage stages through it, and its
	// cleanup must cover every exit path from here on.
	wsRoot := opts.WorkspaceRoot
	if wsRoot == "" {
		wsRoot = os.TempDir()
	}
	ws, err := workspace.NewIn(wsRoot)
	if err != nil {
		return nil, err
	}
	if opts.HandleSignals {
		stop := ws.CleanupOnSignal()
		defer stop()
	}
	defer ws.Cleanup()

	// A pre-supplied binary bypasses resolution, fetching, verification,
	// and extraction: there is nothing downloaded to verify.
	if opts.LocalBinary != "" {
		logger.Debug("installing pre-supplied binary", "path", opts.LocalBinary)
		report := &Report{
			Verification: verify.Skip("sha256", "pre-supplied local binary; nothing was downloaded"),
		}
		return finishInstall(ctx, report, opts.LocalBinary, installer.Options{
			Dir:        opts.InstallDir,
			BinaryName: binaryName,
			ModifyPath: opts.ModifyPath,
		})
	}

	info := opts.Platform
	if info == nil {
		detected, detectErr := platform.NewDetector().Detect(ctx)
		if detectErr != nil {
			return nil, fmt.Errorf("detect platform: %w", detectErr)
		}
		info = detected
	}
	logger.Debug("platform detected",
		"os", info.OS, "arch", info.Arch, "distro", info.Platform, "family", info.Family)

	target, err := platform.Resolve(info)
	if err != nil {
		return nil, err
	}
	if info.IsAlpine() {
		logger.Warn("Alpine Linux detected: the glibc release artifact may not run on musl-based systems")
	}

	version := release.Pin(opts.Version)
	if version == "" {
		index := opts.Index
		if index == nil {
			index = release.NewClient()
		}
		latest, latestErr := index.Latest(ctx)
		if latestErr != nil {
			return nil, latestErr
		}
		version = latest
		logger.Debug("resolved latest release", "version", version)
	}

	base := opts.DownloadBase
	if base == "" {
		base = release.DefaultDownloadBase
	}
	art := release.LocateAt(base, target, version)

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewClient()
	}

	// Manifest before archive: an unpublished manifest is the documented
	// verification-skipped state, and it is cheaper to learn that before
	// the archive download. An unreachable host, by contrast, is a network
	// failure for the whole run.
	var manifest verify.Manifest
	manifestReason := ""
	manifestBytes, err := fetcher.Fetch(ctx, art.ChecksumURL)
	if err != nil {
		var statusErr *fetch.StatusError
		if !errors.As(err, &statusErr) {
			return nil, err
		}
		manifestReason = fmt.Sprintf("checksum manifest not published for %s (status %d)", version, statusErr.StatusCode)
	} else {
		manifest = verify.ParseManifest(manifestBytes)
	}

	archiveBytes, err := fetcher.Fetch(ctx, art.ArchiveURL)
	if err != nil {
		return nil, err
	}
	logger.Debug("downloaded archive", "name", art.ArchiveName, "bytes", len(archiveBytes))

	archivePath, err := ws.WriteFile(art.ArchiveName, archiveBytes)
	if err != nil {
		return nil, err
	}

	var result verify.Result
	if manifestReason != "" {
		result = verify.Skip("sha256", manifestReason)
	} else {
		result = verify.Checksum(archiveBytes, manifest, art.ArchiveName)
	}

	switch result.Outcome {
	case verify.OutcomeMismatch:
		// Fatal and non-recoverable: never proceed with a wrong artifact.
		return nil, &verify.MismatchError{
			Name:     art.ArchiveName,
			Method:   result.Method,
			Expected: result.Expected,
			Actual:   result.Actual,
		}
	case verify.OutcomeSkipped:
		if opts.RequireChecksum {
			return nil, &ChecksumRequiredError{Reason: result.Reason}
		}
		logger.Warn("checksum verification skipped; proceeding without integrity guarantees", "reason", result.Reason)
	case verify.OutcomeVerified:
		logger.Debug("checksum verified", "digest", result.Actual)
	}

	if opts.GPGKeyring != "" {
		sigResult, sigErr := verifySignature(ctx, fetcher, art, archiveBytes, opts.GPGKeyring)
		if sigErr != nil {
			return nil, sigErr
		}
		switch sigResult.Outcome {
		case verify.OutcomeMismatch:
			return nil, &verify.MismatchError{Name: art.ArchiveName, Method: "gpg"}
		case verify.OutcomeSkipped:
			logger.Warn("signature verification skipped", "reason", sigResult.Reason)
		case verify.OutcomeVerified:
			logger.Debug("signature verified", "keyring", opts.GPGKeyring)
			result = sigResult
		}
	}

	candidates := archiveBinaryCandidates(art.Kind)
	binaryPath, err := archive.Extract(archivePath, art.Kind, ws.Dir(), candidates[0], candidates)
	if err != nil {
		var corruptErr *archive.CorruptArchiveError
		if errors.As(err, &corruptErr) {
			return nil, err
		}
		return nil, &ExtractionError{Err: err}
	}

	report := &Report{
		Version:      version,
		Target:       target,
		Verification: result,
	}
	return finishInstall(ctx, report, binaryPath, installer.Options{
		Dir:        opts.InstallDir,
		BinaryName: binaryName,
		ModifyPath: opts.ModifyPath,
	})
}

// finishInstall runs the placement stage and folds its result into the report.
func finishInstall(ctx context.Context, report *Report, binaryPath string, opts installer.Options) (*Report, error) {
	res, err := installer.Install(ctx, binaryPath, opts)
	if err != nil {
		var permErr *installer.PermissionError
		var placementErr *installer.VerificationError
		if errors.As(err, &permErr) || errors.As(err, &placementErr) {
			return nil, err
		}
		return nil, &InstallError{Err: err}
	}

	report.InstalledPath = res.Path
	report.Replaced = res.Replaced
	report.Elevated = res.Elevated
	report.PathUpdate = res.PathUpdate
	return report, nil
}

// verifySignature fetches the detached signature (absence is a skip, not a
// failure) and checks it against the archive bytes.
func verifySignature(ctx context.Context, fetcher Fetcher, art release.Artifact, archiveBytes []byte, keyringPath string) (verify.Result, error) {
	sigBytes, err := fetcher.Fetch(ctx, art.SignatureURL)
	if err != nil {
		var statusErr *fetch.StatusError
		if !errors.As(err, &statusErr) {
			return verify.Result{}, err
		}
		sigBytes = nil
	}
	return verify.Signature(archiveBytes, sigBytes, keyringPath, art.ArchiveName)
}

// archiveBinaryCandidates lists the base names the tool binary may carry
// inside a release archive. The installed name is always the canonical
// short name; a differing archive-internal name is renamed during
// extraction.
func archiveBinaryCandidates(kind archive.Kind) []string {
	if kind == archive.KindZip {
		return []string{release.BinaryName + ".exe", release.ToolName + ".exe"}
	}
	return []string{release.BinaryName, release.ToolName}
}
