package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redact.yaml")
	data := []byte("scan_dpi: 300\nband_fraction: 0.25\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ScanDPI != 300 {
		t.Errorf("ScanDPI = %d, want 300", cfg.ScanDPI)
	}
	if cfg.BandFraction != 0.25 {
		t.Errorf("BandFraction = %g, want 0.25", cfg.BandFraction)
	}
	// Untouched fields keep their defaults.
	if cfg.MinPageTokens != Default().MinPageTokens {
		t.Errorf("MinPageTokens = %d, want default %d", cfg.MinPageTokens, Default().MinPageTokens)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("scan_dpi: 9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for scan_dpi 9999")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
