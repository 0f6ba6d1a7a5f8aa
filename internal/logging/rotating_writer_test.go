package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRotatingWriterKeepsOneGeneration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casino.log")
	w, err := newRotatingWriter(path, 1)
	if err != nil {
		t.Fatalf("newRotatingWriter() error = %v", err)
	}
	defer w.Close()

	for _, b := range []byte{'a', 'b', 'c'} {
		if _, err := w.Write(bytes.Repeat([]byte{b}, 512*1024)); err != nil {
			t.Fatalf("Write(%c) error = %v", b, err)
		}
	}

	cur, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current: %v", err)
	}
	if len(cur) != 512*1024 || cur[0] != 'c' {
		t.Fatalf("current log = %d bytes starting %q, want 512KiB of c", len(cur), cur[0])
	}
	old, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("read rotated: %v", err)
	}
	if len(old) != 1024*1024 || old[0] != 'a' {
		t.Fatalf("rotated log = %d bytes starting %q, want 1MiB from a", len(old), old[0])
	}
}

func TestRotatingWriterResumesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casino.log")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := newRotatingWriter(path, 1)
	if err != nil {
		t.Fatalf("newRotatingWriter() error = %v", err)
	}
	if _, err := w.Write([]byte("new\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	_ = w.Close()

	got, _ := os.ReadFile(path)
	if string(got) != "old\nnew\n" {
		t.Fatalf("log = %q, want appended", got)
	}
}
