package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/SimonWaldherr/xtcreader/internal/render"
	"github.com/SimonWaldherr/xtcreader/internal/xtc"
)

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	screenW := fs.Int("width", 0, "screen width in pixels (defaults to the page's own width)")
	screenH := fs.Int("height", 0, "screen height in pixels (defaults to the page's own height)")
	fs.Parse(args)
	if fs.NArg() != 3 {
		return errors.New("usage: xtci render <file> <page> <out.pgm>")
	}
	path := fs.Arg(0)
	outPath := fs.Arg(2)

	page, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return errors.Wrap(err, "parse page index")
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer f.Close()

	rdr, err := xtc.Open(&osStream{f: f})
	if err != nil {
		return errors.Wrap(err, "xtc: open container")
	}

	entry, err := rdr.ReadPageEntry(page)
	if err != nil {
		return errors.Wrap(err, "read page entry")
	}
	w, h := *screenW, *screenH
	if w == 0 {
		w = int(entry.Width)
	}
	if h == 0 {
		h = int(entry.Height)
	}

	disp := newPGMDisplay(w, h)
	scratch := render.NewScratch(4096)
	if err := render.RenderPage(rdr, disp, page, w, h, scratch); err != nil {
		return errors.Wrap(err, "render page")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer out.Close()
	if err := disp.writePGM(out); err != nil {
		return errors.Wrap(err, "write pgm")
	}
	fmt.Printf("wrote %dx%d PGM to %s\n", w, h, outPath)
	return nil
}
