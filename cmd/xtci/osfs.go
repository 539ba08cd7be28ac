package main

import (
	"os"

	"github.com/SimonWaldherr/xtcreader/internal/sdk"
)

// osFS is a thin sdk.FS adapter over the real host filesystem. Subcommands
// that must leave results on disk (rebuild-catalog, watch) use it in place
// of internal/sdk/fake's in-memory filesystem; the device SDK binding
// itself stays abstract (spec.md §6) and lives only behind this interface.
type osFS struct{}

func (osFS) MountCheck() bool { return true }
func (osFS) Mount() error     { return nil }

func (osFS) Open(path string, flag sdk.OpenFlag) (sdk.File, error) {
	switch flag {
	case sdk.OpenWrite:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	case sdk.OpenReadWrite:
		return os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	default:
		return os.Open(path)
	}
}

func (osFS) Remove(path string) error { return os.Remove(path) }

func (osFS) MkdirAll(path string) error { return os.MkdirAll(path, 0o755) }

func (osFS) ReadDir(path string) ([]sdk.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]sdk.DirEntry, len(entries))
	for i, e := range entries {
		out[i] = sdk.DirEntry{Name: e.Name(), IsDir: e.IsDir()}
	}
	return out, nil
}
