package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveOutDir(t *testing.T) {
	origHome := homeDir
	t.Cleanup(func() { homeDir = origHome })
	homeDir = filepath.Join(t.TempDir(), ".specmill")

	t.Run("explicit flag wins", func(t *testing.T) {
		got, err := resolveOutDir("./results", "/configured", "spec")
		if err != nil {
			t.Fatalf("resolveOutDir failed: %v", err)
		}
		if got != "./results" {
			t.Errorf("expected flag value, got %s", got)
		}
	})

	t.Run("configured output dir", func(t *testing.T) {
		got, err := resolveOutDir("", "/configured", "spec")
		if err != nil {
			t.Fatalf("resolveOutDir failed: %v", err)
		}
		if got != filepath.Join("/configured", "spec") {
			t.Errorf("unexpected dir: %s", got)
		}
	})

	t.Run("falls back to home run dir", func(t *testing.T) {
		got, err := resolveOutDir("", "", "spec")
		if err != nil {
			t.Fatalf("resolveOutDir failed: %v", err)
		}
		want := filepath.Join(homeDir, "output", "spec")
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
		if _, err := os.Stat(got); err != nil {
			t.Errorf("expected run directory to be created: %v", err)
		}
	})
}
