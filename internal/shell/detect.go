package shell

import (
	"os"
	"path/filepath"
	"strings"
)

// Detect determines the user's shell from the $SHELL environment variable.
// Returns ShellUnknown when $SHELL is unset or names a shell the PATH
// advisory has no rc-file convention for; callers fall back to a generic
// instruction in that case.
func Detect() ShellType {
	shellPath := os.Getenv("SHELL")
	if shellPath == "" {
		return ShellUnknown
	}
	return parseShellFromPath(shellPath)
}

// parseShellFromPath extracts the shell type from a shell binary path
// Examples:
//   - /bin/bash -> bash
//   - /usr/bin/zsh -> zsh
//   - /usr/local/bin/fish -> fish
func parseShellFromPath(shellPath string) ShellType {
	baseName := strings.ToLower(filepath.Base(shellPath))

	switch baseName {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	default:
		return ShellUnknown
	}
}
