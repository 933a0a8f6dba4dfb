package platform

import "fmt"

// Target is the canonical release target identifier for an OS/arch pair,
// matching the naming convention of published hooklistener artifacts.
type Target string

const (
	// TargetLinuxAMD64 is 64-bit x86 Linux (glibc).
	TargetLinuxAMD64 Target = "x86_64-unknown-linux-gnu"
	// TargetDarwinAMD64 is Intel macOS.
	TargetDarwinAMD64 Target = "x86_64-apple-darwin"
	// TargetDarwinARM64 is Apple Silicon macOS.
	TargetDarwinARM64 Target = "aarch64-apple-darwin"
	// TargetWindowsAMD64 is 64-bit x86 Windows.
	TargetWindowsAMD64 Target = "x86_64-pc-windows-msvc"
)

// String returns the target identifier string.
func (t Target) String() string {
	return string(t)
}

// targetTable enumerates every OS/arch pair a release artifact is published
// for. Pairs outside this table never produce a Target.
var targetTable = map[string]map[string]Target{
	"linux": {
		"amd64": TargetLinuxAMD64,
	},
	"darwin": {
		"amd64": TargetDarwinAMD64,
		"arm64": TargetDarwinARM64,
	},
	"windows": {
		"amd64": TargetWindowsAMD64,
	},
}

// UnsupportedPlatformError reports an OS/arch combination with no published
// release artifact. OSKnown distinguishes "this architecture on a supported
// OS" from "this OS is not supported at all" so the message can be specific.
type UnsupportedPlatformError struct {
	OS      string
	Arch    string
	OSKnown bool
}

func (e *UnsupportedPlatformError) Error() string {
	if e.OSKnown {
		return fmt.Sprintf("%s on %s is not yet supported (no release artifact is published for it)", e.Arch, e.OS)
	}
	return fmt.Sprintf("unsupported operating system: %s", e.OS)
}

// Resolve maps detected platform information to a release target.
// It is a pure table lookup with no side effects.
func Resolve(info *Info) (Target, error) {
	if info == nil {
		return "", fmt.Errorf("platform info is required")
	}

	archs, ok := targetTable[info.OS]
	if !ok {
		return "", &UnsupportedPlatformError{OS: info.OS, Arch: info.Arch}
	}

	target, ok := archs[info.Arch]
	if !ok {
		return "", &UnsupportedPlatformError{OS: info.OS, Arch: info.Arch, OSKnown: true}
	}

	return target, nil
}
