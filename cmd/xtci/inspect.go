package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/SimonWaldherr/xtcreader/internal/xtc"
)

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("usage: xtci inspect <file>")
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer f.Close()

	rdr, err := xtc.Open(&osStream{f: f})
	if err != nil {
		return errors.Wrap(err, "xtc: open container")
	}

	h := rdr.Header()
	fmt.Printf("magic: 0x%08x\n", h.Magic)
	fmt.Printf("version: %d.%d\n", h.VersionMajor, h.VersionMinor)
	fmt.Printf("bit_depth: %d\n", rdr.BitDepth())
	fmt.Printf("page_count: %d\n", h.PageCount)
	fmt.Printf("read_direction: %d\n", h.ReadDirection)
	fmt.Printf("has_metadata: %v\n", h.HasMetadata)
	fmt.Printf("has_thumbnails: %v\n", h.HasThumbnails)
	fmt.Printf("has_chapters: %v\n", h.HasChapters)
	fmt.Printf("current_page (1-based): %d\n", h.CurrentPage1Based)

	if h.HasMetadata {
		meta, err := rdr.ReadMetadata()
		if err != nil {
			return errors.Wrap(err, "read metadata")
		}
		fmt.Printf("title: %q\n", meta.Title)
		fmt.Printf("author: %q\n", meta.Author)
	}

	if h.HasChapters {
		fmt.Println("chapters:")
		err := rdr.ForEachChapter(func(c xtc.Chapter) error {
			fmt.Printf("  %-30s pages %d-%d\n", c.Name, c.Start, c.End)
			return nil
		})
		if err != nil {
			return errors.Wrap(err, "read chapters")
		}
	}

	fmt.Println("pages:")
	for i := 0; i < rdr.PageCount(); i++ {
		entry, err := rdr.ReadPageEntry(i)
		if err != nil {
			return errors.Wrapf(err, "page %d entry", i)
		}
		fmt.Printf("  %4d: offset=%-10d size=%-8d %dx%d\n", i, entry.DataOffset, entry.DataSize, entry.Width, entry.Height)
	}
	return nil
}
