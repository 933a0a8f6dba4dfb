//go:build windows

package installer

import (
	"os"
	"path/filepath"
)

// defaultDir is a per-user application directory: Windows has no universal
// system-wide binary directory convention, and a per-user default avoids
// needing elevation at all.
func defaultDir() string {
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		return filepath.Join(local, "Programs", "hooklistener")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("C:\\", "Program Files", "hooklistener")
	}
	return filepath.Join(home, "AppData", "Local", "Programs", "hooklistener")
}
