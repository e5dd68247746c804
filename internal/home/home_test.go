package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-specmill")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-specmill" {
			t.Errorf("expected path /tmp/test-specmill, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-specmill")

	t.Run("OutputPath", func(t *testing.T) {
		expected := "/tmp/test-specmill/output"
		if dir.OutputPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.OutputPath())
		}
	})

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-specmill/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})

	t.Run("RunDir", func(t *testing.T) {
		expected := "/tmp/test-specmill/output/run-123"
		if dir.RunDir("run-123") != expected {
			t.Errorf("expected %s, got %s", expected, dir.RunDir("run-123"))
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	// Use a temp directory
	tmpDir := t.TempDir()
	millDir := filepath.Join(tmpDir, "specmill-test")

	dir, err := New(millDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Directory shouldn't exist yet
	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	// Create it
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	// Now it should exist
	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}

	// Output directory should also exist
	if _, err := os.Stat(dir.OutputPath()); os.IsNotExist(err) {
		t.Error("output directory should exist after EnsureExists")
	}
}

func TestDir_EnsureRunDir(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	runDir, err := dir.EnsureRunDir("run-abc")
	if err != nil {
		t.Fatalf("EnsureRunDir failed: %v", err)
	}
	if runDir != filepath.Join(tmpDir, "output", "run-abc") {
		t.Errorf("unexpected run dir: %s", runDir)
	}
	if _, err := os.Stat(runDir); os.IsNotExist(err) {
		t.Error("run directory should exist after EnsureRunDir")
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	// Config doesn't exist
	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	// Create a config file
	configPath := dir.ConfigPath()
	if err := os.WriteFile(configPath, []byte("test: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Now it should exist
	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}
