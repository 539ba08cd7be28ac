// Package render implements the page render pipeline: it validates a
// page's header against container expectations and either submits a
// precomputed XTH grayscale blob directly to the display, or decodes an
// XTG bitmap into tightly-packed MSB-first bitplanes, cropping and
// letterboxing to the physical screen (spec.md §4.6).
package render

import (
	"github.com/pkg/errors"

	"github.com/SimonWaldherr/xtcreader/internal/bitutil"
	"github.com/SimonWaldherr/xtcreader/internal/sdk"
	"github.com/SimonWaldherr/xtcreader/internal/xtc"
)

// pageReader is the subset of *xtc.Reader the pipeline depends on, kept
// narrow so tests can exercise it against a fake reader if ever needed.
type pageReader interface {
	BitDepth() int
	ReadPageEntry(i int) (xtc.PageTableEntry, error)
	Prepare(i int) (xtc.PreparedPage, error)
	LoadPage(i int, out []byte) (int, error)
	ReadPageBlob(i int, out []byte) (int, error)
	StreamPage(i int, scratch []byte, cb xtc.StreamCallback) error
}

// streamScratchSize is the scratch buffer size used when streaming an XTG
// payload row-by-row (spec.md §4.6: "a 2 KiB scratch").
const streamScratchSize = 2048

// RenderPage validates page index's header and pushes it to disp, centred
// inside a screenW × screenH physical screen. scratch backs every
// intermediate buffer the pipeline needs and is reused across calls.
func RenderPage(r pageReader, disp sdk.Display, index int, screenW, screenH int, scratch *Scratch) error {
	entry, err := r.ReadPageEntry(index)
	if err != nil {
		return errors.Wrap(err, "render: page table entry")
	}
	w, h := int(entry.Width), int(entry.Height)

	prepared, err := r.Prepare(index)
	if err != nil {
		return errors.Wrap(err, "render: prepare page")
	}
	if int(prepared.Header.Width) != w || int(prepared.Header.Height) != h {
		return errors.Wrapf(ErrInvalidPageHeader, "entry %dx%d != header %dx%d", w, h, prepared.Header.Width, prepared.Header.Height)
	}

	if r.BitDepth() == 2 {
		return renderXTH(r, disp, index, prepared, w, h, screenW, screenH, scratch)
	}
	return renderXTG(r, disp, index, w, h, screenW, screenH, scratch)
}

func renderXTH(r pageReader, disp sdk.Display, index int, prepared xtc.PreparedPage, w, h, screenW, screenH int, scratch *Scratch) error {
	blobSize := int(xtc.PageHeaderSize) + int(prepared.PayloadSize)
	buf := scratch.Get(blobSize)
	n, err := r.ReadPageBlob(index, buf)
	if err != nil {
		return errors.Wrap(err, "render: read xth blob")
	}
	clearFirst := !(w == screenW && h == screenH)
	if err := disp.PushXTH(buf[:n], w, h, clearFirst); err != nil {
		return errors.Wrap(err, "render: push xth")
	}
	return disp.Update()
}

func renderXTG(r pageReader, disp sdk.Display, index int, w, h, screenW, screenH int, scratch *Scratch) error {
	rowBytes := (w + 7) / 8

	// Direct-push path: the source is already byte-aligned with the
	// screen and needs no cropping; it is centred vertically.
	if w == screenW && h <= screenH && w%8 == 0 {
		size := rowBytes * h
		buf := scratch.Get(size)
		n, err := r.LoadPage(index, buf)
		if err != nil {
			return errors.Wrap(err, "render: load xtg page")
		}
		// direct-push palette order follows spec.md §4.6 literally: {white, black}.
		if err := disp.PushImage1bpp(0, (screenH-h)/2, w, h, buf[:n], [2]sdk.Color{sdk.ColorWhite, sdk.ColorBlack}); err != nil {
			return errors.Wrap(err, "render: push 1bpp")
		}
		return disp.Update()
	}

	return streamAndCrop(r, disp, index, w, h, rowBytes, screenW, screenH, scratch)
}

// visibleRect computes the clipped destination rectangle obtained by
// centring a w×h source inside a screenW×screenH screen, along with the
// horizontal source offset (sourceX) that corresponds to the left edge of
// the visible rectangle.
func visibleRect(w, h, screenW, screenH int) (xVisStart, xVisEnd, yVisStart, yVisEnd, sourceX, sourceYOff int) {
	x0 := (screenW - w) / 2
	y0 := (screenH - h) / 2

	xVisStart = max(0, x0)
	xVisEnd = min(screenW, x0+w)
	yVisStart = max(0, y0)
	yVisEnd = min(screenH, y0+h)

	sourceX = xVisStart - x0
	sourceYOff = yVisStart - y0
	return
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func streamAndCrop(r pageReader, disp sdk.Display, index int, w, h, rowBytes, screenW, screenH int, scratch *Scratch) error {
	xVisStart, xVisEnd, yVisStart, yVisEnd, sourceX, sourceYOff := visibleRect(w, h, screenW, screenH)
	visW := xVisEnd - xVisStart
	visH := yVisEnd - yVisStart
	if visW <= 0 || visH <= 0 {
		// Nothing of the page is visible; still must drain the stream so
		// the caller's reader stays positioned correctly for callers that
		// reuse it, and so the row-count invariant below still applies.
		visW, visH = 0, 0
	}

	mainW := visW &^ 7
	tailW := visW - mainW
	mainRowBytes := mainW / 8

	mainBuf := scratch.Get(max(1, mainRowBytes*visH))
	var tailBuf []byte
	if tailW > 0 {
		tailBuf = make([]byte, visH) // one byte per row; small, not process-wide scratch
	}

	rowAcc := make([]byte, 0, rowBytes*2)
	rowIdx := 0
	rowsConsumed := 0

	flushRow := func(rowData []byte) error {
		defer func() { rowIdx++ }()
		srcRow := rowIdx - sourceYOff
		if srcRow < 0 || srcRow >= visH {
			return nil
		}
		if mainW > 0 {
			dst := mainBuf[srcRow*mainRowBytes : (srcRow+1)*mainRowBytes]
			bitutil.CropRow1bppMSB(dst, rowData, sourceX, mainW)
		}
		if tailW > 0 {
			var tb [1]byte
			bitutil.CropRow1bppMSB(tb[:], rowData, sourceX+mainW, tailW)
			tailBuf[srcRow] = tb[0]
		}
		return nil
	}

	scratchBuf := make([]byte, streamScratchSize)
	var cbErr error
	err := r.StreamPage(index, scratchBuf, func(chunk []byte, _ uint64) error {
		rowAcc = append(rowAcc, chunk...)
		for len(rowAcc) >= rowBytes {
			row := rowAcc[:rowBytes]
			if err := flushRow(row); err != nil {
				cbErr = err
				return err
			}
			rowsConsumed++
			rowAcc = append(rowAcc[:0], rowAcc[rowBytes:]...)
		}
		return nil
	})
	if err != nil {
		if cbErr != nil {
			return cbErr
		}
		return errors.Wrap(err, "render: stream xtg page")
	}
	if rowsConsumed != h || len(rowAcc) != 0 {
		return errors.Wrapf(ErrInvalidPageHeader, "consumed %d of %d rows, %d leftover bytes", rowsConsumed, h, len(rowAcc))
	}

	if mainW > 0 {
		if err := disp.PushImage1bpp(xVisStart, yVisStart, mainW, visH, mainBuf[:mainRowBytes*visH], [2]sdk.Color{sdk.ColorBlack, sdk.ColorWhite}); err != nil {
			return errors.Wrap(err, "render: push main region")
		}
	}
	if tailW > 0 {
		packedTail := make([]byte, visH)
		copy(packedTail, tailBuf)
		if err := disp.PushImage1bpp(xVisStart+mainW, yVisStart, 8, visH, packedTail, [2]sdk.Color{sdk.ColorBlack, sdk.ColorWhite}); err != nil {
			return errors.Wrap(err, "render: push tail column")
		}
	}
	return disp.Update()
}
