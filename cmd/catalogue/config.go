package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
)

type config struct {
	Addr             string                 `yaml:"addr"`
	LogLevel         string                 `yaml:"log_level"`
	Root             string                 `yaml:"root"`
	DictsDir         string                 `yaml:"dicts_dir"`
	SchemasDir       string                 `yaml:"schemas_dir"`
	AssetsDir        string                 `yaml:"assets_dir"`
	SourcesDB        string                 `yaml:"sources_db"`
	LacunaTables     string                 `yaml:"lacuna_tables"`
	ImageMaxAttempts int                    `yaml:"image_max_attempts"`
	CheckInterval    string                 `yaml:"check_interval"`
	Collections      []catalogue.Collection `yaml:"collections"`
}

func defaultConfig() config {
	return config{
		Addr:             ":8430",
		LogLevel:         "info",
		Root:             ".",
		DictsDir:         "dicts",
		SchemasDir:       "schemas",
		AssetsDir:        ".",
		SourcesDB:        "sources.db",
		LacunaTables:     "lacuna.yaml",
		ImageMaxAttempts: 5,
		CheckInterval:    "6h",
	}
}

// loadConfig reads path (defaults when missing), then applies .env and
// CATALOGUE_* environment overrides.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()
	if v := os.Getenv("CATALOGUE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("CATALOGUE_SOURCES_DB"); v != "" {
		cfg.SourcesDB = v
	}
	if v := os.Getenv("CATALOGUE_ASSETS_DIR"); v != "" {
		cfg.AssetsDir = v
	}
	if v := os.Getenv("CATALOGUE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if _, err := cfg.checkInterval(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// checkInterval parses CheckInterval; "" or "0" disables the checker.
func (c config) checkInterval() (time.Duration, error) {
	if c.CheckInterval == "" || c.CheckInterval == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CheckInterval)
	if err != nil {
		return 0, fmt.Errorf("check_interval: %w", err)
	}
	return d, nil
}

func (c config) level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (c config) logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.level()}))
}

// collections registers configured collections over the built-in ones and
// returns the full list.
func (c config) collections() []catalogue.Collection {
	for _, col := range c.Collections {
		catalogue.Register(col)
	}
	return catalogue.All()
}
