package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadConfig("missing.yaml")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != ":8430" || cfg.ImageMaxAttempts != 5 || cfg.SourcesDB != "sources.db" {
		t.Errorf("defaults = %+v", cfg)
	}
	if d, _ := cfg.checkInterval(); d != 6*time.Hour {
		t.Errorf("check interval = %v", d)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`addr: ":9000"
log_level: debug
image_max_attempts: 3
check_interval: "0"
collections:
  - id: extra
    schema: ver9
    dataset: data/extra.csv
    placeholder: assets/placeholder.jpeg
`), 0o644)
	os.WriteFile(filepath.Join(dir, ".env"), []byte("CATALOGUE_SOURCES_DB=/tmp/from-dotenv.db\n"), 0o644)
	t.Setenv("CATALOGUE_ADDR", ":9100")
	if _, set := os.LookupEnv("CATALOGUE_SOURCES_DB"); set {
		t.Skip("CATALOGUE_SOURCES_DB set in the environment")
	}
	t.Cleanup(func() { os.Unsetenv("CATALOGUE_SOURCES_DB") })

	cfg, err := loadConfig("config.yaml")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != ":9100" {
		t.Errorf("addr = %q, env should win", cfg.Addr)
	}
	if cfg.SourcesDB != "/tmp/from-dotenv.db" {
		t.Errorf("sources_db = %q, want value from .env", cfg.SourcesDB)
	}
	if cfg.level() != slog.LevelDebug || cfg.ImageMaxAttempts != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if d, err := cfg.checkInterval(); err != nil || d != 0 {
		t.Errorf("check interval = %v, %v", d, err)
	}

	found := false
	for _, c := range cfg.collections() {
		if c.ID == "extra" && c.Schema == "ver9" {
			found = true
		}
	}
	if !found {
		t.Error("configured collection not registered")
	}
}

func TestLoadConfig_BadInterval(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("check_interval: soon\n"), 0o644)
	if _, err := loadConfig("config.yaml"); err == nil {
		t.Error("expected error for bad check_interval")
	}
}
