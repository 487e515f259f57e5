package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/protein"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Structure.Path != DefaultStructure {
		t.Errorf("expected default structure, got %s", cfg.Structure.Path)
	}
	if cfg.Viewer.FPS != 60 {
		t.Errorf("expected 60 fps, got %d", cfg.Viewer.FPS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	p := cfg.Params()
	if p.Scale != 75 || p.AtomRadius != 25 || p.BondWidth != 5 || p.BondColor != molecule.White {
		t.Errorf("unexpected params %+v", p)
	}
	if cfg.Style().Color != protein.Spectrum {
		t.Errorf("unexpected style %+v", cfg.Style())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "molview.yml")
	yml := "structure:\n  path: models/water.pdb\nviewer:\n  fps: 30\nprotein:\n  timeout: 3s\n"
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOLVIEW_GEOMETRY__SCALE", "50")
	t.Setenv("MOLVIEW_LOG__LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Structure.Path != "models/water.pdb" {
		t.Errorf("path = %s", cfg.Structure.Path)
	}
	if cfg.Viewer.FPS != 30 {
		t.Errorf("fps = %d", cfg.Viewer.FPS)
	}
	if cfg.Protein.Timeout != 3*time.Second {
		t.Errorf("timeout = %v", cfg.Protein.Timeout)
	}
	if cfg.Geometry.Scale != 50 {
		t.Errorf("env override ignored: scale = %v", cfg.Geometry.Scale)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %s", cfg.Log.Level)
	}
	// Untouched fields keep their defaults.
	if cfg.Geometry.AtomRadius != 25 || cfg.Viewer.Backend != DefaultBackend {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Viewer.FPS != DefaultFPS {
		t.Errorf("fps = %d", cfg.Viewer.FPS)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yml")
	cfg := DefaultConfig()
	cfg.Viewer.Backend = "widget"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Viewer.Backend != "widget" || back.Protein.Timeout != DefaultTimeout {
		t.Errorf("round trip lost values: %+v", back)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no path", func(c *Config) { c.Structure.Path = "" }},
		{"bad format", func(c *Config) { c.Structure.Format = "xyz" }},
		{"zero scale", func(c *Config) { c.Geometry.Scale = 0 }},
		{"bad colour", func(c *Config) { c.Geometry.BondColor = "white" }},
		{"fps", func(c *Config) { c.Viewer.FPS = 0 }},
		{"scheme", func(c *Config) { c.Protein.ColorScheme = "chain" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	g := GetPreset("compact")
	if g == nil {
		t.Fatal("expected preset, got nil")
	}
	if g.AtomRadius != 15 {
		t.Errorf("expected radius 15, got %f", g.AtomRadius)
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) || presets[0] != "classic" {
		t.Errorf("ListPresets() = %v", presets)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("wire"); err != nil {
		t.Fatal(err)
	}
	if cfg.Params().AtomRadius != 6 {
		t.Errorf("preset not applied: %+v", cfg.Geometry)
	}
	if err := cfg.ApplyPreset("nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
	for _, name := range ListPresets() {
		c := DefaultConfig()
		_ = c.ApplyPreset(name)
		if err := c.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
