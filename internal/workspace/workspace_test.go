package workspace

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewIn(t *testing.T) {
	root := t.TempDir()

	ws, err := NewIn(root)
	if err != nil {
		t.Fatalf("NewIn() error = %v", err)
	}
	defer ws.Cleanup()

	if !strings.HasPrefix(filepath.Base(ws.Dir()), dirPrefix) {
		t.Errorf("workspace name %q missing prefix %q", filepath.Base(ws.Dir()), dirPrefix)
	}

	info, err := os.Stat(ws.Dir())
	if err != nil {
		t.Fatalf("workspace directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("workspace path is not a directory")
	}
}

func TestNewInUniqueNames(t *testing.T) {
	root := t.TempDir()

	a, err := NewIn(root)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Cleanup()

	b, err := NewIn(root)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Cleanup()

	if a.Dir() == b.Dir() {
		t.Errorf("two workspaces share the same directory: %s", a.Dir())
	}
}

func TestWriteFile(t *testing.T) {
	ws, err := NewIn(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Cleanup()

	want := []byte("staged archive")
	path, err := ws.WriteFile("archive.tar.gz", want)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if path != ws.Path("archive.tar.gz") {
		t.Errorf("WriteFile() path = %q, want %q", path, ws.Path("archive.tar.gz"))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Error("staged file content does not match")
	}
}

func TestCleanup(t *testing.T) {
	ws, err := NewIn(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ws.WriteFile("junk", []byte("x")); err != nil {
		t.Fatal(err)
	}

	ws.Cleanup()

	if _, err := os.Stat(ws.Dir()); !os.IsNotExist(err) {
		t.Errorf("workspace still present after Cleanup: %v", err)
	}

	// Idempotent: second call must not panic or error.
	ws.Cleanup()
}

func TestCleanupOnSignalStop(t *testing.T) {
	ws, err := NewIn(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Cleanup()

	stop := ws.CleanupOnSignal()
	stop()

	// Handler uninstalled; the workspace must still exist.
	if _, err := os.Stat(ws.Dir()); err != nil {
		t.Errorf("workspace removed by stopped handler: %v", err)
	}
}
