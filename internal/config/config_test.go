package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Defaults.OutputDir != "" {
		t.Errorf("expected empty default output dir, got %q", cfg.Defaults.OutputDir)
	}
	if cfg.Defaults.TOCScanPages != 10 {
		t.Errorf("expected 10 toc scan pages, got %d", cfg.Defaults.TOCScanPages)
	}
	if cfg.Heuristics.TOCBaseConfidence != 0.7 {
		t.Errorf("expected toc base confidence 0.7, got %v", cfg.Heuristics.TOCBaseConfidence)
	}
	if cfg.Heuristics.MaxPageNumber != 5000 {
		t.Errorf("expected max page number 5000, got %d", cfg.Heuristics.MaxPageNumber)
	}
	if cfg.Heuristics.SectionBaseConfidence != 0.6 {
		t.Errorf("expected section base confidence 0.6, got %v", cfg.Heuristics.SectionBaseConfidence)
	}
	if cfg.Heuristics.MinWordCount != 10 {
		t.Errorf("expected min word count 10, got %d", cfg.Heuristics.MinWordCount)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
defaults:
  output_dir: /custom/out
  toc_scan_pages: 15
heuristics:
  toc_base_confidence: 0.8
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cm, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}

		cfg := cm.Get()
		if cfg.Defaults.OutputDir != "/custom/out" {
			t.Errorf("expected /custom/out, got %q", cfg.Defaults.OutputDir)
		}
		if cfg.Defaults.TOCScanPages != 15 {
			t.Errorf("expected 15 scan pages, got %d", cfg.Defaults.TOCScanPages)
		}
		if cfg.Heuristics.TOCBaseConfidence != 0.8 {
			t.Errorf("expected overridden base confidence 0.8, got %v", cfg.Heuristics.TOCBaseConfidence)
		}
		// Unspecified values keep their defaults.
		if cfg.Heuristics.MaxPageNumber != 5000 {
			t.Errorf("expected default max page number, got %d", cfg.Heuristics.MaxPageNumber)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "# specmill configuration") {
		t.Error("expected header comment")
	}
	for _, key := range []string{"output_dir", "toc_base_confidence", "max_page_number"} {
		if !strings.Contains(content, key) {
			t.Errorf("expected key %q in written config", key)
		}
	}

	// The written file must load back cleanly.
	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if cm.Get().Heuristics.TOCBaseConfidence != 0.7 {
		t.Errorf("round-trip changed base confidence: %v", cm.Get().Heuristics.TOCBaseConfidence)
	}
}
