//go:build !windows

package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/hooklistener/hooklistener-install/internal/shell"
)

// exeSuffix is empty on POSIX targets.
const exeSuffix = ""

// requireExecBit is true where the filesystem tracks executability.
const requireExecBit = true

// canElevate reports whether a privilege escalation mechanism is available.
func canElevate() bool {
	_, err := exec.LookPath("sudo")
	return err == nil
}

// elevatedInstall performs the directory creation, copy, and permission
// steps through sudo. The sudo prompt may block on interactive input; its
// streams are wired to the terminal for that reason.
func elevatedInstall(ctx context.Context, src, dir, dst string) error {
	steps := [][]string{
		{"mkdir", "-p", dir},
		{"cp", src, dst},
		{"chmod", "0755", dst},
	}

	for _, step := range steps {
		args := append([]string{}, step...)
		cmd := exec.CommandContext(ctx, "sudo", args...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("sudo %s: %w", step[0], err)
		}
	}

	return nil
}

// pathUpdate reports PATH status for the install directory. Nothing
// persistent is touched unless the caller opted in with ModifyPath; the
// default outcome is an instruction the user applies themselves.
func pathUpdate(dir string, modify bool) (PathUpdate, error) {
	upd := PathUpdate{OnPath: dirOnPath(dir)}
	if upd.OnPath {
		return upd, nil
	}

	genericInstruction := fmt.Sprintf("add %s to your PATH to run hooklistener from anywhere", dir)

	sh := shell.Detect()
	if !sh.IsValid() {
		upd.Instruction = genericInstruction
		return upd, nil
	}

	rcPath, err := shell.RCFilePath(sh)
	if err != nil {
		upd.Instruction = genericInstruction
		return upd, nil
	}

	if !modify {
		upd.Instruction = fmt.Sprintf("add %s to your PATH by appending this line to %s:\n  %s",
			dir, rcPath, shell.ExportLine(sh, dir))
		return upd, nil
	}

	present, err := shell.HasPathLine(rcPath, dir)
	if err != nil {
		return upd, err
	}
	if present {
		// Already configured; it just hasn't been picked up by this shell.
		upd.RequiresRestart = true
		return upd, nil
	}

	if err := shell.AppendPathLine(rcPath, sh, dir); err != nil {
		return upd, err
	}
	upd.Mutated = true
	upd.RequiresRestart = true
	return upd, nil
}
