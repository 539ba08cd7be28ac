package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/SimonWaldherr/xtcreader/internal/sdk"
)

// pgmDisplay is an sdk.Display that rasterizes every draw call into an
// 8-bit grayscale framebuffer, so cmd/xtci render can dump a page as a PGM
// for visual inspection. It is the one place in this module that actually
// decodes an XTH 2-plane grayscale blob into pixels; everywhere else the
// blob is treated as opaque bytes handed to the real device driver.
type pgmDisplay struct {
	w, h int
	gray []uint8
}

func newPGMDisplay(w, h int) *pgmDisplay {
	g := make([]uint8, w*h)
	for i := range g {
		g[i] = 255
	}
	return &pgmDisplay{w: w, h: h, gray: g}
}

func colorToGray(c sdk.Color) uint8 {
	if c == sdk.ColorBlack {
		return 0
	}
	return 255
}

func (d *pgmDisplay) Dimensions() (int, int) { return d.w, d.h }

func (d *pgmDisplay) set(x, y int, v uint8) {
	if x < 0 || x >= d.w || y < 0 || y >= d.h {
		return
	}
	d.gray[y*d.w+x] = v
}

func (d *pgmDisplay) FillScreen(c sdk.Color) error {
	v := colorToGray(c)
	for i := range d.gray {
		d.gray[i] = v
	}
	return nil
}

func (d *pgmDisplay) HLine(x, y, length int, c sdk.Color) error {
	return d.FillRect(sdk.Rect{X: x, Y: y, W: length, H: 1}, c)
}

func (d *pgmDisplay) VLine(x, y, length int, c sdk.Color) error {
	return d.FillRect(sdk.Rect{X: x, Y: y, W: 1, H: length}, c)
}

func (d *pgmDisplay) FillRect(r sdk.Rect, c sdk.Color) error {
	v := colorToGray(c)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			d.set(x, y, v)
		}
	}
	return nil
}

func (d *pgmDisplay) StrokeRect(r sdk.Rect, c sdk.Color) error { return d.FillRect(r, c) }

func (d *pgmDisplay) DrawText(int, int, string, string) error { return nil }

// PushImage1bpp unpacks a tightly-packed MSB-first 1-bpp image and paints it
// at (x,y) using the two-entry palette, mirroring the real driver's
// contract (spec.md §6).
func (d *pgmDisplay) PushImage1bpp(x, y, w, h int, packed []byte, palette [2]sdk.Color) error {
	rowBytes := (w + 7) / 8
	for row := 0; row < h; row++ {
		rowData := packed[row*rowBytes : (row+1)*rowBytes]
		for col := 0; col < w; col++ {
			bit := (rowData[col/8] >> uint(7-col%8)) & 1
			d.set(x+col, y+row, colorToGray(palette[bit]))
		}
	}
	return nil
}

// PushXTH decodes a centred 2-plane grayscale blob (spec.md §8 edge case):
// each plane is w*h bits, packed MSB-first with no per-row padding, indexed
// by bit_linear = (w-1-x)*h + y. The first plane contributes the high bit,
// the second the low bit, giving a 2-bit value in {0,1,2,3} mapped to
// {255, 85, 170, 0}.
func (d *pgmDisplay) PushXTH(blob []byte, w, h int, clearFirst bool) error {
	if clearFirst {
		d.FillScreen(sdk.ColorWhite)
	}
	const hdrSize = 22
	planeBits := w * h
	planeBytes := (planeBits + 7) / 8
	need := hdrSize + 2*planeBytes
	if len(blob) < need {
		return errors.Errorf("pgm: xth blob too short: have %d, need %d", len(blob), need)
	}
	high := blob[hdrSize : hdrSize+planeBytes]
	low := blob[hdrSize+planeBytes : hdrSize+2*planeBytes]

	getBit := func(plane []byte, idx int) uint8 {
		return (plane[idx/8] >> uint(7-idx%8)) & 1
	}

	x0 := (d.w - w) / 2
	y0 := (d.h - h) / 2

	var grayFor = [4]uint8{255, 85, 170, 0}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			idx := (w-1-x)*h + y
			val := (getBit(high, idx) << 1) | getBit(low, idx)
			d.set(x0+x, y0+y, grayFor[val])
		}
	}
	return nil
}

func (d *pgmDisplay) Update() error { return nil }

func (d *pgmDisplay) writePGM(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "P5\n%d %d\n255\n", d.w, d.h); err != nil {
		return err
	}
	_, err := w.Write(d.gray)
	return err
}
