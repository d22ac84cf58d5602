package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherSignalsOnChange(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "module.wasm"), []byte{0}, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	select {
	case <-w.C:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload signal after file change")
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// A rebuild touches several files in quick succession.
	for _, name := range []string{"a.js", "b.js", "c.wasm"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	select {
	case <-w.C:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload signal after burst")
	}

	// The burst collapses into a single signal.
	select {
	case <-w.C:
		t.Error("burst produced more than one signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope"), time.Millisecond); err == nil {
		t.Error("NewWatcher should fail for a missing directory")
	}
}
