package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WindowWidth != 800 || cfg.WindowHeight != 600 {
		t.Errorf("default window %dx%d, want 800x600", cfg.WindowWidth, cfg.WindowHeight)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log level %q, want info", cfg.LogLevel)
	}
	if cfg.StartLevel != 8 {
		t.Errorf("default start level %d, want 8", cfg.StartLevel)
	}
	if len(cfg.TileSources) != 0 {
		t.Errorf("default tile sources %v, want none", cfg.TileSources)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
window_width: 1024
window_height: 768
log_level: debug
start_level: 11
tile_sources:
  - path: /maps/osm-aip
    format: png
  - path: /maps/osm
    format: png
`
	if err := os.WriteFile(filepath.Join(dir, "movingmap.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WindowWidth != 1024 || cfg.WindowHeight != 768 {
		t.Errorf("window %dx%d, want 1024x768", cfg.WindowWidth, cfg.WindowHeight)
	}
	if cfg.StartLevel != 11 {
		t.Errorf("start level %d, want 11", cfg.StartLevel)
	}
	if len(cfg.TileSources) != 2 {
		t.Fatalf("%d tile sources, want 2", len(cfg.TileSources))
	}
	if cfg.TileSources[0].Path != "/maps/osm-aip" || cfg.TileSources[0].Format != "png" {
		t.Errorf("first source %+v", cfg.TileSources[0])
	}
	// Unset keys keep their defaults.
	if cfg.TelemetryPort != 49003 {
		t.Errorf("telemetry port %d, want default 49003", cfg.TelemetryPort)
	}
}

func TestLoadRejectsBadStartLevel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "movingmap.yaml"), []byte("start_level: 19\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("start_level 19 accepted")
	}
}
