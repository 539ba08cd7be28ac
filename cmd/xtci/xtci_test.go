package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/SimonWaldherr/xtcreader/internal/sdk"
)

func TestPGMDisplay_PushXTH_DecodesTwoPlaneGrayscale(t *testing.T) {
	// spec edge case: 2x2 page, planes [0xC0] and [0x90], decoded row-major
	// pixels (x,y)=(0,0),(1,0),(0,1),(1,1) equal [255, 0, 85, 170] under
	// bit_linear = (w-1-x)*h + y and value = (high<<1)|low.
	d := newPGMDisplay(2, 2)
	header := make([]byte, 22)
	blob := append(header, 0xC0, 0x90)

	if err := d.PushXTH(blob, 2, 2, false); err != nil {
		t.Fatalf("PushXTH: %v", err)
	}

	want := []uint8{255, 0, 85, 170}
	if !bytes.Equal(d.gray, want) {
		t.Fatalf("gray = %v, want %v", d.gray, want)
	}
}

func TestPGMDisplay_PushImage1bpp_UnpacksMSBFirst(t *testing.T) {
	d := newPGMDisplay(8, 1)
	// 0b10110000 -> bits 1,0,1,1,0,0,0,0 (MSB first)
	palette := [2]sdk.Color{sdk.ColorWhite, sdk.ColorBlack}
	if err := d.PushImage1bpp(0, 0, 8, 1, []byte{0xB0}, palette); err != nil {
		t.Fatalf("PushImage1bpp: %v", err)
	}
	want := []uint8{0, 255, 0, 0, 255, 255, 255, 255}
	if !bytes.Equal(d.gray, want) {
		t.Fatalf("gray = %v, want %v", d.gray, want)
	}
}

func TestPGMDisplay_WritePGM_EmitsP5Header(t *testing.T) {
	d := newPGMDisplay(2, 1)
	var buf bytes.Buffer
	if err := d.writePGM(&buf); err != nil {
		t.Fatalf("writePGM: %v", err)
	}
	want := "P5\n2 1\n255\n" + string([]byte{255, 255})
	if buf.String() != want {
		t.Fatalf("writePGM output = %q, want %q", buf.String(), want)
	}
}

// buildInspectableContainer writes a minimal single-page XTC container with
// metadata to a temp file and returns its path.
func buildInspectableContainer(t *testing.T) string {
	t.Helper()
	const (
		headerSize  = 56
		entrySize   = 16
		pageHdrSize = 22
	)
	metaOff := uint64(0x38)
	// The page table follows the fixed title (0x38) and author (0xB8) slots.
	pageTableOff := uint64(0xB8 + 64)
	dataOff := pageTableOff + entrySize
	payload := []byte{0xFF}
	total := dataOff + pageHdrSize + uint64(len(payload))
	if total < 0xB8+64 {
		total = 0xB8 + 64
	}

	out := make([]byte, total)
	binary.LittleEndian.PutUint32(out[0:], 0x00435458)
	out[4] = 1
	binary.LittleEndian.PutUint16(out[6:], 1)
	out[9] = 1
	binary.LittleEndian.PutUint64(out[16:], metaOff)
	binary.LittleEndian.PutUint64(out[24:], pageTableOff)
	binary.LittleEndian.PutUint64(out[32:], dataOff)
	copy(out[0x38:], "Test Title")
	copy(out[0xB8:], "Test Author")

	entry := out[pageTableOff:]
	binary.LittleEndian.PutUint64(entry[0:], dataOff)
	binary.LittleEndian.PutUint32(entry[8:], uint32(len(payload)))
	binary.LittleEndian.PutUint16(entry[12:], 8)
	binary.LittleEndian.PutUint16(entry[14:], 1)

	hdr := out[dataOff:]
	binary.LittleEndian.PutUint32(hdr[0:], 0x00475458)
	binary.LittleEndian.PutUint16(hdr[4:], 8)
	binary.LittleEndian.PutUint16(hdr[6:], 1)
	binary.LittleEndian.PutUint32(hdr[10:], uint32(len(payload)))
	copy(out[dataOff+pageHdrSize:], payload)

	path := filepath.Join(t.TempDir(), "book.xtc")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatalf("write test container: %v", err)
	}
	return path
}

func TestRunInspect_PrintsHeaderFields(t *testing.T) {
	path := buildInspectableContainer(t)
	if err := runInspect([]string{path}); err != nil {
		t.Fatalf("runInspect: %v", err)
	}
}

func TestRunRender_WritesPGMFile(t *testing.T) {
	path := buildInspectableContainer(t)
	outPath := filepath.Join(t.TempDir(), "page0.pgm")
	if err := runRender([]string{path, "0", outPath}); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("P5\n")) {
		t.Fatalf("output does not start with a PGM header: %q", data[:min(16, len(data))])
	}
}
