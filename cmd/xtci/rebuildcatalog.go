package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/SimonWaldherr/xtcreader/internal/library"
	"github.com/SimonWaldherr/xtcreader/internal/position"
	"github.com/SimonWaldherr/xtcreader/internal/sdk/fake"
	"github.com/SimonWaldherr/xtcreader/internal/xlog"
)

func runRebuildCatalog(args []string) error {
	fs := flag.NewFlagSet("rebuild-catalog", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 2 {
		return errors.New("usage: xtci rebuild-catalog <books-dir> <catalog-path>")
	}
	booksDir, catalogPath := fs.Arg(0), fs.Arg(1)

	log := xlog.New(os.Stderr, xlog.Info)
	// No on-device reading-position store exists on the host, so progress
	// figures written into the rebuilt catalog are always zero.
	store := position.NewStore(fake.NewNVS())

	entries, overflow, err := library.RefreshBooks(osFS{}, store, booksDir, catalogPath, log)
	if err != nil {
		return errors.Wrap(err, "rebuild catalog")
	}
	fmt.Printf("wrote %d entries to %s\n", len(entries), catalogPath)
	if overflow {
		fmt.Fprintf(os.Stderr, "warning: library exceeds MaxEntries; the count above is capped at %d, the catalog file is not\n", library.MaxEntries)
	}
	return nil
}
