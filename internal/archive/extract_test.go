package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeTarGz builds a tar.gz archive on disk containing the named files.
func writeTarGz(t *testing.T, files map[string][]byte) string {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	for name, content := range files {
		hdr := &tar.Header{
			Name:     name,
			Mode:     0o755,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write tar header: %v", err)
		}
		if _, err := tw.Write(content); err != nil {
			t.Fatalf("write tar entry: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeZip builds a zip archive on disk containing the named files.
func writeZip(t *testing.T, files map[string][]byte) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "archive.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestKindString(t *testing.T) {
	if got := KindTarGz.String(); got != "tar.gz" {
		t.Errorf("KindTarGz.String() = %q, want tar.gz", got)
	}
	if got := KindZip.String(); got != "zip" {
		t.Errorf("KindZip.String() = %q, want zip", got)
	}
}

func TestExtractTarGz(t *testing.T) {
	content := []byte("#!/bin/sh\necho hooklistener\n")

	tests := []struct {
		name  string
		files map[string][]byte
	}{
		{
			name:  "flat",
			files: map[string][]byte{"hooklistener": content},
		},
		{
			name: "nested_under_release_dir",
			files: map[string][]byte{
				"hooklistener-cli-x86_64-unknown-linux-gnu/README.md":    []byte("docs"),
				"hooklistener-cli-x86_64-unknown-linux-gnu/hooklistener": content,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archivePath := writeTarGz(t, tt.files)
			destDir := t.TempDir()

			got, err := Extract(archivePath, KindTarGz, destDir, "hooklistener", []string{"hooklistener"})
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != filepath.Join(destDir, "hooklistener") {
				t.Errorf("Extract() = %q, want %q", got, filepath.Join(destDir, "hooklistener"))
			}

			data, err := os.ReadFile(got)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(data, content) {
				t.Error("extracted content does not match archive entry")
			}

			if runtime.GOOS != "windows" {
				info, err := os.Stat(got)
				if err != nil {
					t.Fatal(err)
				}
				if info.Mode().Perm()&0o111 == 0 {
					t.Errorf("extracted binary mode = %v, want executable", info.Mode())
				}
			}
		})
	}
}

func TestExtractRenamesArchiveInternalName(t *testing.T) {
	archivePath := writeTarGz(t, map[string][]byte{
		"hooklistener-cli": []byte("binary"),
	})
	destDir := t.TempDir()

	got, err := Extract(archivePath, KindTarGz, destDir, "hooklistener", []string{"hooklistener", "hooklistener-cli"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if filepath.Base(got) != "hooklistener" {
		t.Errorf("extracted as %q, want renamed to hooklistener", filepath.Base(got))
	}
}

func TestExtractZip(t *testing.T) {
	content := []byte("MZ fake windows binary")
	archivePath := writeZip(t, map[string][]byte{
		"hooklistener-cli-x86_64-pc-windows-msvc/hooklistener.exe": content,
	})
	destDir := t.TempDir()

	got, err := Extract(archivePath, KindZip, destDir, "hooklistener.exe", []string{"hooklistener.exe"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, content) {
		t.Error("extracted content does not match archive entry")
	}
}

func TestExtractCorruptArchive(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage.tar.gz")
	if err := os.WriteFile(garbage, []byte("this is not gzip"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		kind Kind
	}{
		{name: "tar_gz", kind: KindTarGz},
		{name: "zip", kind: KindZip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(garbage, tt.kind, t.TempDir(), "hooklistener", []string{"hooklistener"})
			if err == nil {
				t.Fatal("Extract() expected error, got none")
			}

			var corrupt *CorruptArchiveError
			if !errors.As(err, &corrupt) {
				t.Errorf("Extract() error = %T, want *CorruptArchiveError", err)
			}
		})
	}
}

func TestExtractBinaryNotFound(t *testing.T) {
	archivePath := writeTarGz(t, map[string][]byte{
		"README.md": []byte("docs only"),
	})

	_, err := Extract(archivePath, KindTarGz, t.TempDir(), "hooklistener", []string{"hooklistener"})
	if err == nil {
		t.Fatal("Extract() expected error, got none")
	}

	var corrupt *CorruptArchiveError
	if !errors.As(err, &corrupt) {
		t.Fatalf("Extract() error = %T, want *CorruptArchiveError", err)
	}
}

func TestExtractUnknownKind(t *testing.T) {
	if _, err := Extract("whatever", Kind(99), t.TempDir(), "x", []string{"x"}); err == nil {
		t.Error("Extract() expected error for unknown kind")
	}
}

func TestSetExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}

	path := filepath.Join(t.TempDir(), "bin")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := SetExecutable(path); err != nil {
		t.Fatalf("SetExecutable() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}
