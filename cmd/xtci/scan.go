package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/SimonWaldherr/xtcreader/internal/library"
	"github.com/SimonWaldherr/xtcreader/internal/position"
	"github.com/SimonWaldherr/xtcreader/internal/sdk/fake"
)

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("usage: xtci scan <books-dir>")
	}
	booksDir := fs.Arg(0)

	// scan reads; it never needs to persist a catalog or reading positions,
	// so an in-memory mirror of the directory is enough.
	fsys := fake.NewFS()
	if err := fsys.LoadDir(booksDir, "books"); err != nil {
		return errors.Wrap(err, "load books directory")
	}
	store := position.NewStore(fake.NewNVS())

	entries, overflow, err := library.LoadBooks(fsys, store, "books", "books/.catalog.bin", nil)
	if err != nil {
		return errors.Wrap(err, "scan")
	}
	for _, e := range entries {
		fmt.Printf("%-40s %-24s pages=%-4d progress=%3d%% %s\n", e.Title, e.Author, e.PageCount, e.Progress, e.Filename)
	}
	if overflow {
		fmt.Fprintln(os.Stderr, "warning: library exceeds MaxEntries, list truncated")
	}
	return nil
}
