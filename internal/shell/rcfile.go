package shell

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RCFilePath returns the path to the shell's rc file.
func RCFilePath(shell ShellType) (string, error) {
	if !shell.IsValid() {
		return "", &UnsupportedShellError{Shell: shell.String()}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	switch shell {
	case ShellBash:
		return filepath.Join(homeDir, ".bashrc"), nil
	case ShellZsh:
		return filepath.Join(homeDir, ".zshrc"), nil
	case ShellFish:
		return filepath.Join(homeDir, ".config", "fish", "config.fish"), nil
	default:
		return "", &UnsupportedShellError{Shell: shell.String()}
	}
}

// ExportLine returns the line that puts dir on PATH for the given shell.
func ExportLine(shell ShellType, dir string) string {
	if shell == ShellFish {
		return fmt.Sprintf("fish_add_path %s", dir)
	}
	return fmt.Sprintf("export PATH=%q:\"$PATH\"", dir)
}

// HasPathLine checks whether the rc file already references dir, so
// repeated installs never stack duplicate PATH lines.
func HasPathLine(rcPath, dir string) (bool, error) {
	file, err := os.Open(rcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &RCFileError{Path: rcPath, Message: "failed to open file", Cause: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, dir) {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return false, &RCFileError{Path: rcPath, Message: "failed to read file", Cause: err}
	}

	return false, nil
}

// AppendPathLine appends the PATH line for dir to the rc file, creating it
// if absent. The write is atomic: content goes to a temporary file in the
// same directory which is then renamed over the original.
func AppendPathLine(rcPath string, shell ShellType, dir string) error {
	var existing []byte
	if content, err := os.ReadFile(rcPath); err == nil {
		existing = content
	} else if !os.IsNotExist(err) {
		return &RCFileError{Path: rcPath, Message: "failed to read existing file", Cause: err}
	}

	rcDir := filepath.Dir(rcPath)
	if err := os.MkdirAll(rcDir, 0755); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to create parent directory", Cause: err}
	}

	tmpFile, err := os.CreateTemp(rcDir, ".hooklistener-tmp-*")
	if err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to create temporary file", Cause: err}
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // no-op after successful rename

	if len(existing) > 0 {
		if _, err := tmpFile.Write(existing); err != nil {
			tmpFile.Close()
			return &RCFileError{Path: rcPath, Message: "failed to write existing content", Cause: err}
		}
		if !strings.HasSuffix(string(existing), "\n") {
			if _, err := tmpFile.WriteString("\n"); err != nil {
				tmpFile.Close()
				return &RCFileError{Path: rcPath, Message: "failed to write newline", Cause: err}
			}
		}
	}

	section := fmt.Sprintf("\n# hooklistener\n%s\n", ExportLine(shell, dir))
	if _, err := tmpFile.WriteString(section); err != nil {
		tmpFile.Close()
		return &RCFileError{Path: rcPath, Message: "failed to write PATH line", Cause: err}
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return &RCFileError{Path: rcPath, Message: "failed to sync file", Cause: err}
	}
	tmpFile.Close()

	if err := os.Rename(tmpPath, rcPath); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to rename temp file", Cause: err}
	}

	return nil
}
