package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_OverridesDefaultsPartially(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xtci.yaml")
	yaml := "books_dir: /mnt/books\nscreen_width: 1200\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BooksDir != "/mnt/books" {
		t.Fatalf("BooksDir = %q, want /mnt/books", cfg.BooksDir)
	}
	if cfg.ScreenWidth != 1200 {
		t.Fatalf("ScreenWidth = %d, want 1200", cfg.ScreenWidth)
	}
	// Fields absent from the fixture keep their defaults.
	if cfg.ScreenHeight != 600 {
		t.Fatalf("ScreenHeight = %d, want default 600", cfg.ScreenHeight)
	}
	if cfg.CatalogPath != Default().CatalogPath {
		t.Fatalf("CatalogPath = %q, want default %q", cfg.CatalogPath, Default().CatalogPath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestWatchInterval_ConvertsSecondsToDuration(t *testing.T) {
	c := Config{WatchIntervalSeconds: 30}
	if c.WatchInterval() != 30*time.Second {
		t.Fatalf("WatchInterval() = %v, want 30s", c.WatchInterval())
	}
}
