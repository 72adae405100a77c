package core

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDefaultsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultsFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing defaults file: %v", err)
	}
	return path
}

func TestLoadDefaultsMissingFile(t *testing.T) {
	d, err := LoadDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error, got: %v", err)
	}
	if d.Model != nil || d.KeyColor != nil {
		t.Error("missing file should yield empty defaults")
	}
}

func TestLoadDefaultsParsesValues(t *testing.T) {
	path := writeDefaultsFile(t, `
model: gemini-2.5-flash-image
key_color: "E0E0E0"
threshold: 12
similarity: 0.1
remove_bg: false
bg_mode: key
`)

	d, err := LoadDefaults(path)
	if err != nil {
		t.Fatalf("LoadDefaults() error: %v", err)
	}

	if d.Model == nil || *d.Model != "gemini-2.5-flash-image" {
		t.Errorf("Model = %v, want gemini-2.5-flash-image", d.Model)
	}
	if d.KeyColor == nil || *d.KeyColor != "E0E0E0" {
		t.Errorf("KeyColor = %v, want E0E0E0", d.KeyColor)
	}
	if d.Threshold == nil || *d.Threshold != 12 {
		t.Errorf("Threshold = %v, want 12", d.Threshold)
	}
	if d.Similarity == nil || *d.Similarity != 0.1 {
		t.Errorf("Similarity = %v, want 0.1", d.Similarity)
	}
	if d.RemoveBG == nil || *d.RemoveBG != false {
		t.Errorf("RemoveBG = %v, want false", d.RemoveBG)
	}
	if d.BGMode == nil || *d.BGMode != "key" {
		t.Errorf("BGMode = %v, want key", d.BGMode)
	}
}

func TestLoadDefaultsRejectsBadYAML(t *testing.T) {
	path := writeDefaultsFile(t, "model: [unclosed")

	_, err := LoadDefaults(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if GetErrorCode(err) != ErrCodeConfigFile {
		t.Errorf("error code = %q, want %q", GetErrorCode(err), ErrCodeConfigFile)
	}
}

func TestLoadDefaultsRejectsBadMode(t *testing.T) {
	path := writeDefaultsFile(t, "bg_mode: magic")

	_, err := LoadDefaults(path)
	if err == nil {
		t.Fatal("expected error for unknown bg_mode")
	}
}
