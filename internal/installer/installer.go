// Package installer places the downloaded binary onto the machine's
// executable search path.
//
// Installation resolves a directory (explicit override, environment
// override, platform default, in that precedence), probes writability and
// escalates privileges when needed and possible, copies the binary under
// its canonical short name with the executable bit set, verifies the
// placement, and reports PATH status as data rather than mutating anything
// implicitly.
package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnvInstallDir is the environment override for the install directory.
const EnvInstallDir = "HOOKLISTENER_INSTALL_DIR"

// Options configures an installation.
type Options struct {
	// Dir is the explicit install directory override; highest precedence.
	Dir string
	// BinaryName is the canonical short name the tool is invoked by,
	// without any platform executable suffix.
	BinaryName string
	// ModifyPath permits appending the PATH line to the user's shell rc
	// file on POSIX platforms. Without it the installer only reports the
	// instruction. On Windows the persisted user PATH is updated
	// regardless, as that is standard practice there.
	ModifyPath bool
}

// PathUpdate reports the PATH advisory outcome as observable data.
type PathUpdate struct {
	// OnPath is true when the install directory was already on the
	// process's search path.
	OnPath bool
	// Mutated is true when a persistent environment store was changed.
	Mutated bool
	// RequiresRestart is true when the change only takes effect in new
	// shells or sessions.
	RequiresRestart bool
	// Instruction is the human-actionable step when nothing was mutated.
	Instruction string
}

// Result describes a completed installation.
type Result struct {
	// Path is where the binary was placed.
	Path string
	// Replaced is true when an existing binary was overwritten (an update
	// rather than a fresh install).
	Replaced bool
	// Elevated is true when privilege escalation was used.
	Elevated bool
	// PathUpdate is the PATH advisory outcome.
	PathUpdate PathUpdate
}

// PermissionError reports an unwritable install directory with no
// escalation mechanism available.
type PermissionError struct {
	Dir string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf(
		"install directory %s is not writable and no privilege escalation is available; re-run with --install-dir (or %s) pointing to a writable directory",
		e.Dir, EnvInstallDir)
}

// VerificationError reports that the installed file is missing or not
// executable after placement. This check is the run's definitive success
// signal, so its failure is always fatal.
type VerificationError struct {
	Path    string
	Message string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("installed binary failed verification (%s): %s", e.Path, e.Message)
}

// ResolveDir picks the install directory: explicit override, then the
// environment override, then the platform default.
func ResolveDir(override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv(EnvInstallDir); env != "" {
		return env
	}
	return defaultDir()
}

// CanWrite reports whether the current user can create files in dir. When
// dir does not exist yet, the nearest existing parent is probed instead,
// since installation will create the directory.
func CanWrite(dir string) bool {
	probe := dir
	for {
		if info, err := os.Stat(probe); err == nil {
			if !info.IsDir() {
				return false
			}
			break
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return false
		}
		probe = parent
	}

	f, err := os.CreateTemp(probe, ".hooklistener-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// Install places the binary at srcPath into the resolved install directory
// under the canonical name and verifies the placement.
func Install(ctx context.Context, srcPath string, opts Options) (*Result, error) {
	if opts.BinaryName == "" {
		return nil, fmt.Errorf("binary name is required")
	}

	dir := ResolveDir(opts.Dir)
	dst := filepath.Join(dir, opts.BinaryName+exeSuffix)

	elevated := false
	if !CanWrite(dir) {
		if !canElevate() {
			return nil, &PermissionError{Dir: dir}
		}
		elevated = true
	}

	replaced := fileExists(dst)

	if elevated {
		if err := elevatedInstall(ctx, srcPath, dir, dst); err != nil {
			return nil, fmt.Errorf("elevated install: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create install dir: %w", err)
		}
		if err := placeBinary(srcPath, dst); err != nil {
			return nil, err
		}
	}

	if err := verifyPlacement(dst); err != nil {
		return nil, err
	}

	pathUpd, err := pathUpdate(dir, opts.ModifyPath)
	if err != nil {
		return nil, fmt.Errorf("update PATH: %w", err)
	}

	return &Result{
		Path:       dst,
		Replaced:   replaced,
		Elevated:   elevated,
		PathUpdate: pathUpd,
	}, nil
}

// placeBinary copies src over dst atomically: the content is written to a
// temporary file in the destination directory and renamed into place, so a
// failed copy never leaves a half-written binary on the search path.
func placeBinary(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source binary: %w", err)
	}
	defer srcFile.Close()

	dir := filepath.Dir(dst)
	tmpFile, err := os.CreateTemp(dir, ".hooklistener-install-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // no-op after successful rename

	if _, err := io.Copy(tmpFile, srcFile); err != nil {
		tmpFile.Close()
		return fmt.Errorf("copy binary: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}

	return nil
}

// verifyPlacement confirms the installed file exists, is a regular file,
// and carries executable permission on platforms that track it.
func verifyPlacement(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &VerificationError{Path: path, Message: fmt.Sprintf("stat failed: %v", err)}
	}
	if !info.Mode().IsRegular() {
		return &VerificationError{Path: path, Message: "not a regular file"}
	}
	if requireExecBit && info.Mode().Perm()&0111 == 0 {
		return &VerificationError{Path: path, Message: "executable bit not set"}
	}
	return nil
}

// dirOnPath reports whether dir is already on the process's search path.
func dirOnPath(dir string) bool {
	cleaned := filepath.Clean(dir)
	for _, entry := range filepath.SplitList(os.Getenv("PATH")) {
		if entry == "" {
			continue
		}
		if filepath.Clean(entry) == cleaned {
			return true
		}
	}
	return false
}

// fileExists checks if a path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
