//go:build windows

package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// exeSuffix is the Windows executable extension.
const exeSuffix = ".exe"

// requireExecBit is false on Windows; executability is by extension.
const requireExecBit = false

// canElevate is false on Windows: the default install directory is
// per-user precisely so no elevation is needed, and an unwritable override
// is remediated by choosing another directory rather than prompting UAC.
func canElevate() bool {
	return false
}

func elevatedInstall(ctx context.Context, src, dir, dst string) error {
	return fmt.Errorf("privilege escalation is not supported on windows")
}

// pathUpdate checks the process PATH and the persisted user PATH in the
// registry. Persisting the install directory there is standard practice on
// Windows, so it is applied without a separate opt-in and reported with
// RequiresRestart set: the change only reaches new sessions.
func pathUpdate(dir string, modify bool) (PathUpdate, error) {
	upd := PathUpdate{OnPath: dirOnPath(dir)}
	if upd.OnPath {
		return upd, nil
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, "Environment", registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		upd.Instruction = fmt.Sprintf("add %s to your PATH (the user environment could not be opened: %v)", dir, err)
		return upd, nil
	}
	defer key.Close()

	current, _, err := key.GetStringValue("Path")
	if err != nil && err != registry.ErrNotExist {
		return upd, fmt.Errorf("read user PATH: %w", err)
	}

	if pathListContains(current, dir) {
		// Persisted but not visible to this process yet.
		upd.RequiresRestart = true
		return upd, nil
	}

	updated := dir
	if current != "" {
		updated = current + ";" + dir
	}
	if err := key.SetStringValue("Path", updated); err != nil {
		return upd, fmt.Errorf("write user PATH: %w", err)
	}

	upd.Mutated = true
	upd.RequiresRestart = true
	return upd, nil
}

// pathListContains reports whether the semicolon-separated PATH value
// already includes dir.
func pathListContains(pathValue, dir string) bool {
	cleaned := filepath.Clean(dir)
	for _, entry := range strings.Split(pathValue, ";") {
		if entry == "" {
			continue
		}
		if strings.EqualFold(filepath.Clean(os.ExpandEnv(entry)), cleaned) {
			return true
		}
	}
	return false
}
