// Package config holds the tunable parameters of the redaction engine.
// Defaults are chosen against representative office documents; operators can
// override them from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries every heuristic threshold the engine consumes. The zero
// value is not usable; start from Default.
type Config struct {
	// Classifier settings.
	SampleLeadPages     int     `yaml:"sample_lead_pages"`     // first N pages always sampled
	SampleInteriorPages int     `yaml:"sample_interior_pages"` // additional interior samples
	MinPageTokens       int     `yaml:"min_page_tokens"`       // below this a page counts as image-only
	ScannedMajority     float64 `yaml:"scanned_majority"`      // fraction of sampled pages that must be image-only

	// Logo detector settings.
	BandFraction    float64 `yaml:"band_fraction"`     // header/footer band height as a fraction of page height
	RecurrenceRatio float64 `yaml:"recurrence_ratio"`  // fraction of pages an image must appear on
	LogoMinEdgePt   float64 `yaml:"logo_min_edge_pt"`  // smallest long-edge placement still considered a logo
	LogoMaxEdgePt   float64 `yaml:"logo_max_edge_pt"`  // largest long-edge placement still considered a logo
	LogoMaxAreaFrac float64 `yaml:"logo_max_area_frac"` // placement area cap as a fraction of page area

	// Redaction settings.
	RedactionMarginPt float64 `yaml:"redaction_margin_pt"` // padding around removed regions

	// Scanned pipeline settings.
	ScanDPI      int `yaml:"scan_dpi"`
	RasterWorkers int `yaml:"raster_workers"` // 0 means size from available memory
}

// Default returns the engine's built-in configuration.
func Default() Config {
	return Config{
		SampleLeadPages:     5,
		SampleInteriorPages: 3,
		MinPageTokens:       10,
		ScannedMajority:     0.5,

		BandFraction:    0.18,
		RecurrenceRatio: 0.5,
		LogoMinEdgePt:   16,
		LogoMaxEdgePt:   400,
		LogoMaxAreaFrac: 0.35,

		RedactionMarginPt: 2,

		ScanDPI: 200,
	}
}

// Load reads a YAML overrides file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the pipelines cannot run with.
func (c Config) Validate() error {
	if c.SampleLeadPages < 1 {
		return fmt.Errorf("sample_lead_pages must be at least 1, got %d", c.SampleLeadPages)
	}
	if c.ScannedMajority <= 0 || c.ScannedMajority > 1 {
		return fmt.Errorf("scanned_majority must be in (0,1], got %g", c.ScannedMajority)
	}
	if c.BandFraction <= 0 || c.BandFraction >= 0.5 {
		return fmt.Errorf("band_fraction must be in (0,0.5), got %g", c.BandFraction)
	}
	if c.RecurrenceRatio <= 0 || c.RecurrenceRatio > 1 {
		return fmt.Errorf("recurrence_ratio must be in (0,1], got %g", c.RecurrenceRatio)
	}
	if c.LogoMinEdgePt >= c.LogoMaxEdgePt {
		return fmt.Errorf("logo edge envelope is empty: min %g >= max %g", c.LogoMinEdgePt, c.LogoMaxEdgePt)
	}
	if c.ScanDPI < 72 || c.ScanDPI > 600 {
		return fmt.Errorf("scan_dpi must be in [72,600], got %d", c.ScanDPI)
	}
	return nil
}
