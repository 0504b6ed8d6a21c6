package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(NewViper(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tiles.Workers != 4 || cfg.Tiles.CacheSize != 512 || cfg.Tiles.Timeout != 10*time.Second {
		t.Errorf("unexpected tile defaults %+v", cfg.Tiles)
	}
	if cfg.Tiles.Offline || cfg.Metrics.Addr != "" {
		t.Errorf("offline and metrics must be off by default: %+v", cfg)
	}
	if cfg.Window.Width != 1024 || cfg.Window.Height != 768 {
		t.Errorf("window = %+v", cfg.Window)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geomap.yaml")
	yaml := "tiles:\n  workers: 2\n  timeout: 3s\nlog:\n  format: json\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEOMAP_TILES_OFFLINE", "true")

	cfg, err := Load(NewViper(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tiles.Workers != 2 || cfg.Tiles.Timeout != 3*time.Second || cfg.Log.Format != "json" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.Tiles.Offline {
		t.Error("GEOMAP_TILES_OFFLINE not applied")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Tiles:  TilesConfig{Workers: 0, CacheSize: -1, Timeout: 0},
		Log:    LogConfig{Level: "loud", Format: "xml"},
		Window: WindowConfig{Width: 0, Height: 10},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, key := range []string{"tiles.workers", "tiles.cache_size", "tiles.timeout", "log.level", "log.format", "window size"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error does not mention %s: %v", key, err)
		}
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
