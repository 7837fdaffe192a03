package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hotkeyd.toml", "timeout = 1\n")

	w, err := NewWatcher([]string{path}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	// Unrelated files in the same directory are ignored.
	writeFile(t, dir, "other.txt", "x")
	select {
	case <-w.Changes():
		t.Fatal("change reported for unrelated file")
	case <-time.After(150 * time.Millisecond):
	}

	// A rename-over save is a change.
	tmp := writeFile(t, dir, "hotkeyd.toml.tmp", "timeout = 2\n")
	if err := os.Rename(tmp, filepath.Join(dir, "hotkeyd.toml")); err != nil {
		t.Fatal(err)
	}
	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hotkeyd.toml", "")
	w, err := NewWatcher([]string{path}, time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
