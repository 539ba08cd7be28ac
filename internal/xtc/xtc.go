// Package xtc implements a memory-conservative reader for the XTC/XTCH
// e-book container format.
//
// The reader never loads a full page table or page payload into memory: it
// reads the fixed-size header, metadata, and page-table entries on demand,
// and streams page bitmap payloads in caller-sized chunks. It is generic
// over any seekable byte stream (see Stream) so it can sit directly atop a
// filesystem file, a WASM linear-memory window, or an in-memory buffer in
// tests.
package xtc

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ───────────────────────────────────────────────────────────────────────────
// Magic numbers and sizes
// ───────────────────────────────────────────────────────────────────────────

const (
	// MagicXTC identifies a 1-bpp container.
	MagicXTC uint32 = 0x00435458
	// MagicXTCH identifies a 2-bpp (grayscale) container.
	MagicXTCH uint32 = 0x48435458

	// MagicXTG identifies a 1-bpp per-page bitmap.
	MagicXTG uint32 = 0x00475458
	// MagicXTH identifies a 2-bpp per-page grayscale blob.
	MagicXTH uint32 = 0x00485458

	// HeaderSize is the size in bytes of the container header at offset 0.
	HeaderSize = 56

	// PageTableEntrySize is the size in bytes of one page-table record.
	PageTableEntrySize = 16

	// PageHeaderSize is the size in bytes of the per-page header preceding
	// each page's bitmap payload.
	PageHeaderSize = 22

	// ChapterRecordSize is the size in bytes of one chapter record.
	ChapterRecordSize = 96

	// Header field offsets, relative to the start of the container.
	hdrMagicOff          = 0
	hdrVersionMajorOff   = 4
	hdrVersionMinorOff   = 5
	hdrPageCountOff      = 6
	hdrReadDirectionOff  = 8
	hdrHasMetadataOff    = 9
	hdrHasThumbnailsOff  = 10
	hdrHasChaptersOff    = 11
	hdrCurrentPageOff    = 12
	hdrMetadataOffOff    = 16
	hdrPageTableOffOff   = 24
	hdrDataOffOff        = 32
	hdrThumbOffOff       = 40
	hdrChapterOffOff     = 48
	hdrPaddingOff        = 52

	// Metadata field offsets, absolute within the file.
	metadataTitleOff  = 0x38
	metadataTitleLen  = 128
	metadataAuthorOff = 0xB8
	metadataAuthorLen = 64
)

// Header is the parsed 56-byte container header.
type Header struct {
	Magic             uint32
	VersionMajor      uint8
	VersionMinor      uint8
	PageCount         uint16
	ReadDirection     uint8
	HasMetadata       bool
	HasThumbnails     bool
	HasChapters       bool
	CurrentPage1Based uint32
	MetadataOffset    uint64
	PageTableOffset   uint64
	DataOffset        uint64
	ThumbOffset       uint64
	ChapterOffset     uint32
}

// BitDepth returns 1 for an XTC (1-bpp) container and 2 for an XTCH (2-bpp)
// container. It is only meaningful after the header has been validated.
func (h Header) BitDepth() int {
	if h.Magic == MagicXTCH {
		return 2
	}
	return 1
}

func parseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, errors.Wrap(ErrCorruptedHeader, "short header buffer")
	}
	var h Header
	h.Magic = binary.LittleEndian.Uint32(buf[hdrMagicOff:])
	h.VersionMajor = buf[hdrVersionMajorOff]
	h.VersionMinor = buf[hdrVersionMinorOff]
	h.PageCount = binary.LittleEndian.Uint16(buf[hdrPageCountOff:])
	h.ReadDirection = buf[hdrReadDirectionOff]
	h.HasMetadata = buf[hdrHasMetadataOff] != 0
	h.HasThumbnails = buf[hdrHasThumbnailsOff] != 0
	h.HasChapters = buf[hdrHasChaptersOff] != 0
	h.CurrentPage1Based = binary.LittleEndian.Uint32(buf[hdrCurrentPageOff:])
	h.MetadataOffset = binary.LittleEndian.Uint64(buf[hdrMetadataOffOff:])
	h.PageTableOffset = binary.LittleEndian.Uint64(buf[hdrPageTableOffOff:])
	h.DataOffset = binary.LittleEndian.Uint64(buf[hdrDataOffOff:])
	h.ThumbOffset = binary.LittleEndian.Uint64(buf[hdrThumbOffOff:])
	h.ChapterOffset = binary.LittleEndian.Uint32(buf[hdrChapterOffOff:])

	if h.Magic != MagicXTC && h.Magic != MagicXTCH {
		return Header{}, errors.Wrapf(ErrInvalidMagic, "magic=0x%08x", h.Magic)
	}
	if !validVersion(h.VersionMajor, h.VersionMinor) {
		return Header{}, errors.Wrapf(ErrInvalidVersion, "version=%d.%d", h.VersionMajor, h.VersionMinor)
	}
	if h.PageCount == 0 {
		return Header{}, errors.Wrap(ErrCorruptedHeader, "page_count is zero")
	}
	if h.PageTableOffset == 0 {
		return Header{}, errors.Wrap(ErrCorruptedHeader, "page_table_offset is zero")
	}
	return h, nil
}

// validVersion accepts (1,0) and, for compatibility with a historical
// encoder, (0,1). See DESIGN.md for the open question this preserves.
func validVersion(major, minor uint8) bool {
	return (major == 1 && minor == 0) || (major == 0 && minor == 1)
}

// PageTableEntry describes one page's location and dimensions.
type PageTableEntry struct {
	DataOffset uint64
	DataSize   uint32
	Width      uint16
	Height     uint16
}

func parsePageTableEntry(buf []byte) PageTableEntry {
	return PageTableEntry{
		DataOffset: binary.LittleEndian.Uint64(buf[0:]),
		DataSize:   binary.LittleEndian.Uint32(buf[8:]),
		Width:      binary.LittleEndian.Uint16(buf[12:]),
		Height:     binary.LittleEndian.Uint16(buf[14:]),
	}
}

// PageHeader is the 22-byte header at the start of every page payload.
type PageHeader struct {
	Magic       uint32
	Width       uint16
	Height      uint16
	ColorMode   uint8
	Compression uint8
	DataSize    uint32
	MD5_8       uint64
}

func parsePageHeader(buf []byte) PageHeader {
	return PageHeader{
		Magic:       binary.LittleEndian.Uint32(buf[0:]),
		Width:       binary.LittleEndian.Uint16(buf[4:]),
		Height:      binary.LittleEndian.Uint16(buf[6:]),
		ColorMode:   buf[8],
		Compression: buf[9],
		DataSize:    binary.LittleEndian.Uint32(buf[10:]),
		MD5_8:       binary.LittleEndian.Uint64(buf[14:]),
	}
}

// Metadata holds the container's optional title/author strings.
type Metadata struct {
	Title  string
	Author string
}

func stringFromNULPadded(buf []byte) string {
	n := len(buf)
	for i, b := range buf {
		if b == 0 {
			n = i
			break
		}
	}
	return string(buf[:n])
}

// payloadSize computes the on-disk payload size for a w×h page at the given
// bit depth.
//
// XTG (1-bpp) rows are individually byte-aligned — the render pipeline reads
// and crops one row of ceil(w/8) bytes at a time (spec.md §4.6) — so the
// total is ceil(w/8)*h, not ceil(w*h/8); the two coincide whenever w is a
// multiple of 8, which is the common case, but diverge otherwise. XTH
// (2-bpp) planes are not row-streamed and use ceil(w*h/8) per plane, times
// two planes. Intermediates are computed in 64-bit; a result above a fixed
// ceiling fails ErrTooLarge.
func payloadSize(bitDepth int, w, h uint16) (uint64, error) {
	var bits uint64
	if bitDepth == 2 {
		bits = 2 * ((uint64(w)*uint64(h) + 7) / 8)
	} else {
		rowBytes := (uint64(w) + 7) / 8
		bits = rowBytes * uint64(h)
	}
	const maxReasonable = 1 << 34 // generous ceiling; catches corrupt dimensions
	if bits > maxReasonable {
		return 0, ErrTooLarge
	}
	return bits, nil
}
