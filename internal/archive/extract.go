// Package archive extracts the hooklistener binary from downloaded release
// archives. POSIX targets ship tar+gzip archives, the Windows target ships
// zip; both layouts may nest the binary under a top-level directory, so
// entries are matched by base name.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxBinaryBytes is the upper bound on extracted binary size (500 MB).
// Prevents decompression bombs when extracting from a release archive.
const maxBinaryBytes = 500 << 20

// Kind identifies the archive format of a release artifact.
type Kind int

const (
	// KindTarGz is a gzip-compressed tar archive (POSIX targets).
	KindTarGz Kind = iota
	// KindZip is a zip archive (Windows target).
	KindZip
)

// String returns the file extension for the archive kind.
func (k Kind) String() string {
	switch k {
	case KindTarGz:
		return "tar.gz"
	case KindZip:
		return "zip"
	default:
		return "unknown"
	}
}

// CorruptArchiveError reports an archive that could not be read: bad
// compression, malformed entries, or a missing binary entry. It is distinct
// from destination write failures, which propagate as filesystem errors.
type CorruptArchiveError struct {
	Path    string
	Message string
	Cause   error
}

func (e *CorruptArchiveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt archive %s: %s: %v", filepath.Base(e.Path), e.Message, e.Cause)
	}
	return fmt.Sprintf("corrupt archive %s: %s", filepath.Base(e.Path), e.Message)
}

func (e *CorruptArchiveError) Unwrap() error {
	return e.Cause
}

// Extract locates the tool binary inside the archive at archivePath and
// writes it to destDir under destName with executable permissions. Entries
// are matched by base name against the names in candidates, so flat and
// nested archive layouts are both handled, and an archive-internal name
// that differs from the installed name is renamed on the way out.
//
// Extraction never leaves partial output: a failed write removes the
// destination file before returning.
func Extract(archivePath string, kind Kind, destDir, destName string, candidates []string) (string, error) {
	switch kind {
	case KindTarGz:
		return extractTarGz(archivePath, destDir, destName, candidates)
	case KindZip:
		return extractZip(archivePath, destDir, destName, candidates)
	default:
		return "", fmt.Errorf("unknown archive kind: %d", kind)
	}
}

// extractTarGz scans a tar.gz archive for the first regular file whose base
// name matches a candidate and writes it to the destination.
func extractTarGz(archivePath, destDir, destName string, candidates []string) (string, error) {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return "", &CorruptArchiveError{Path: archivePath, Message: "create gzip reader", Cause: err}
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return "", &CorruptArchiveError{Path: archivePath, Message: fmt.Sprintf("binary %q not found in archive", candidates[0])}
		}
		if err != nil {
			return "", &CorruptArchiveError{Path: archivePath, Message: "read tar header", Cause: err}
		}

		if header.Typeflag != tar.TypeReg || !matchesCandidate(header.Name, candidates) {
			continue
		}

		return writeBinary(destDir, destName, tarReader)
	}
}

// extractZip scans a zip archive for the first file whose base name matches
// a candidate and writes it to the destination.
func extractZip(archivePath, destDir, destName string, candidates []string) (string, error) {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", &CorruptArchiveError{Path: archivePath, Message: "open zip reader", Cause: err}
	}
	defer zipReader.Close()

	for _, f := range zipReader.File {
		if f.FileInfo().IsDir() || !matchesCandidate(f.Name, candidates) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", &CorruptArchiveError{Path: archivePath, Message: fmt.Sprintf("open entry %s", f.Name), Cause: err}
		}

		dest, err := writeBinary(destDir, destName, rc)
		rc.Close()
		return dest, err
	}

	return "", &CorruptArchiveError{Path: archivePath, Message: fmt.Sprintf("binary %q not found in archive", candidates[0])}
}

// matchesCandidate reports whether the entry's base name equals one of the
// candidate binary names.
func matchesCandidate(entryName string, candidates []string) bool {
	base := filepath.Base(filepath.FromSlash(entryName))
	for _, c := range candidates {
		if base == c {
			return true
		}
	}
	return false
}

// writeBinary copies the binary contents to destDir/destName with executable
// permissions, bounded by maxBinaryBytes.
func writeBinary(destDir, destName string, r io.Reader) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create dest dir: %w", err)
	}

	destPath := filepath.Join(destDir, destName)
	outFile, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return "", fmt.Errorf("create file %s: %w", destPath, err)
	}

	if _, err := io.Copy(outFile, io.LimitReader(r, maxBinaryBytes)); err != nil {
		outFile.Close()
		os.Remove(destPath)
		return "", fmt.Errorf("write file %s: %w", destPath, err)
	}

	if err := outFile.Close(); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("close file %s: %w", destPath, err)
	}

	return destPath, nil
}

// SetExecutable sets executable permissions on a file.
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
