package release

import (
	"fmt"

	"github.com/hooklistener/hooklistener-install/internal/archive"
	"github.com/hooklistener/hooklistener-install/internal/platform"
)

const (
	// ToolName is the artifact name prefix used in release file names.
	ToolName = "hooklistener-cli"
	// BinaryName is the canonical short name the installed binary is
	// invoked by. Archive-internal names may differ; the installer renames.
	BinaryName = "hooklistener"

	// DefaultDownloadBase is the artifact host path releases are served from.
	DefaultDownloadBase = "https://github.com/" + RepoOwner + "/" + RepoName + "/releases/download"
	// ManifestName is the fixed checksum manifest file name per release.
	ManifestName = "checksums.txt"
)

// Artifact describes where a release's files live and what they are named.
// Derived deterministically from target and version; never mutated.
type Artifact struct {
	ArchiveURL   string
	ChecksumURL  string
	SignatureURL string
	ArchiveName  string
	Kind         archive.Kind
}

// Locate builds the artifact descriptor for a target and version. It is a
// pure function: no network or filesystem access, and identical inputs
// always yield the identical descriptor.
//
// Archive name template: <tool>-<target>.<ext>, where ext is zip for the
// Windows target and tar.gz otherwise. The checksum manifest has a fixed
// name per release; a detached signature, when published, sits next to the
// archive under <name>.sig.
func Locate(target platform.Target, version Version) Artifact {
	return LocateAt(DefaultDownloadBase, target, version)
}

// LocateAt is Locate against an alternate artifact host, primarily for
// test servers.
func LocateAt(downloadBase string, target platform.Target, version Version) Artifact {
	kind := archive.KindTarGz
	if target == platform.TargetWindowsAMD64 {
		kind = archive.KindZip
	}

	name := fmt.Sprintf("%s-%s.%s", ToolName, target, kind)
	base := fmt.Sprintf("%s/%s", downloadBase, version)

	return Artifact{
		ArchiveURL:   fmt.Sprintf("%s/%s", base, name),
		ChecksumURL:  fmt.Sprintf("%s/%s", base, ManifestName),
		SignatureURL: fmt.Sprintf("%s/%s.sig", base, name),
		ArchiveName:  name,
		Kind:         kind,
	}
}
