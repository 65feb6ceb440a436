package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.TimeoutMS != 15000 {
		t.Errorf("TimeoutMS = %d, want 15000", cfg.TimeoutMS)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("Timeout() = %v, want 15s", cfg.Timeout())
	}
	if len(cfg.DNSServers) == 0 {
		t.Errorf("expected default DNS servers")
	}
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(path) != ConfigFile {
		t.Errorf("GetConfigPath() = %q, want basename %q", path, ConfigFile)
	}
	if filepath.Base(filepath.Dir(path)) != DefaultConfigDir {
		t.Errorf("GetConfigPath() dir = %q, want %q", filepath.Dir(path), DefaultConfigDir)
	}
}

func TestLoadFallsBackToDefaultWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TimeoutMS != Default().TimeoutMS {
		t.Errorf("Load() without a config file = %+v, want defaults", cfg)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.DefaultUsername = "netops"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.DefaultUsername != "netops" {
		t.Errorf("Load() after Save() = %+v, want DefaultUsername=netops", got)
	}
}
