// Package workspace manages the process-exclusive scratch directory used
// for download and extraction staging.
//
// Each installer run owns exactly one workspace, named with a fresh UUID so
// concurrent runs never collide, and removed on every exit path: normal
// return, expected failure, and interrupt. Signal-driven cleanup is
// installed explicitly because a user-initiated interrupt bypasses deferred
// cleanup.
package workspace

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/google/uuid"
)

// dirPrefix names workspace directories so stragglers are identifiable.
const dirPrefix = "hooklistener-install-"

// Workspace is a uniquely-named scratch directory owned by one installer run.
type Workspace struct {
	dir     string
	cleanup sync.Once
}

// New creates a workspace under the system temp directory.
func New() (*Workspace, error) {
	return NewIn(os.TempDir())
}

// NewIn creates a workspace under root. Used directly by tests that need
// to observe cleanup.
func NewIn(root string) (*Workspace, error) {
	dir := filepath.Join(root, dirPrefix+uuid.New().String())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns the path of name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteFile persists bytes into the workspace under name and returns the
// resulting path.
func (w *Workspace) WriteFile(name string, data []byte) (string, error) {
	path := w.Path(name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("write %s to workspace: %w", name, err)
	}
	return path, nil
}

// Cleanup removes the workspace directory. Idempotent; safe to call from
// both a defer and a signal handler.
func (w *Workspace) Cleanup() {
	w.cleanup.Do(func() {
		os.RemoveAll(w.dir)
	})
}

// CleanupOnSignal installs an interrupt handler that removes the workspace
// before the process dies, covering the exit path deferred cleanup cannot.
// The returned stop function uninstalls the handler.
func (w *Workspace) CleanupOnSignal() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		if _, ok := <-ch; !ok {
			return
		}
		w.Cleanup()
		// 130 is the conventional exit status for an interrupted process.
		os.Exit(130)
	}()

	return func() {
		signal.Stop(ch)
		close(ch)
	}
}
