// Package config loads the xtci host CLI's YAML configuration, mirroring
// the struct-tag + yaml.Unmarshal style the teacher's test fixtures use
// (internal/testhelper's example loader).
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the host-only configuration for cmd/xtci. None of it is part of
// the on-device wire format (spec.md §3 "Application State" is the
// on-device analog).
type Config struct {
	BooksDir             string `yaml:"books_dir"`
	CatalogPath          string `yaml:"catalog_path"`
	ScreenWidth          int    `yaml:"screen_width"`
	ScreenHeight         int    `yaml:"screen_height"`
	WatchIntervalSeconds int    `yaml:"watch_interval_seconds"`
}

// WatchInterval converts WatchIntervalSeconds to a time.Duration for the
// watch subcommand's cron schedule.
func (c Config) WatchInterval() time.Duration {
	return time.Duration(c.WatchIntervalSeconds) * time.Second
}

// Default returns the configuration xtci falls back to when no config file
// is given, matching the on-device paths from spec.md §6.
func Default() Config {
	return Config{
		BooksDir:             "/sdcard/books",
		CatalogPath:          "/sdcard/portal/.xtcreader/catalog.bin",
		ScreenWidth:          800,
		ScreenHeight:         600,
		WatchIntervalSeconds: 300,
	}
}

// Load reads and parses a YAML config file at path, layering it over
// Default() so a partial file only overrides the fields it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: read file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: parse yaml")
	}
	return cfg, nil
}
