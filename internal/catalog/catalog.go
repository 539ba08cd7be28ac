// Package catalog encodes and decodes the on-disk book catalog: a compact
// accelerator index of title, author, page count, tags, and progress for
// every book the library has scanned, so subsequent startups can skip
// re-probing every file (spec.md §4.4).
package catalog

import (
	"encoding/binary"
	stderrors "errors"

	"github.com/pkg/errors"
)

const (
	// Magic identifies a catalog file.
	Magic = "XCAT"
	// Version is the only catalog format version this package understands.
	Version uint16 = 1
	// MaxBooks bounds the number of records a catalog may hold.
	MaxBooks = 4096

	// HeaderSize is magic(4) + version(2) + count(2).
	HeaderSize = 8

	titleSlotSize  = 96 // 1-byte length + 95 payload
	authorSlotSize = 64 // 1-byte length + 63 payload
	tagSlotSize    = 32 // 1-byte length + 31 payload
	tagCount       = 8
	filenameSlotSize = 256 // 1-byte length + 255 payload

	// RecordSize is the fixed size of one catalog record.
	RecordSize = titleSlotSize + authorSlotSize + 2 /*page_count*/ + 1 /*progress*/ + 1 /*tag_count*/ + tagCount*tagSlotSize + filenameSlotSize
)

var (
	// ErrTooShort indicates the input is shorter than HeaderSize.
	ErrTooShort = stderrors.New("catalog: input too short")
	// ErrBadMagic indicates the magic bytes do not match "XCAT".
	ErrBadMagic = stderrors.New("catalog: bad magic")
	// ErrBadVersion indicates an unsupported version field.
	ErrBadVersion = stderrors.New("catalog: bad version")
	// ErrTooManyBooks indicates count exceeds MaxBooks.
	ErrTooManyBooks = stderrors.New("catalog: too many books")
	// ErrMisalignedSize indicates the trailing bytes do not evenly divide
	// into RecordSize-sized records.
	ErrMisalignedSize = stderrors.New("catalog: misaligned record area")
	// ErrSlotOverflow indicates a string exceeds its fixed-length slot.
	ErrSlotOverflow = stderrors.New("catalog: string exceeds slot capacity")
)

// Record is one catalog entry, field-for-field as stored on disk.
type Record struct {
	Title     string
	Author    string
	PageCount uint16
	Progress  uint8 // 0..100
	Tags      []string
	Filename  string
}

// Encode serializes records into dst, returning the number of bytes
// written. If dst is too small to hold the header and all records, or
// len(records) exceeds the uint16 range, Encode writes nothing and returns
// 0 (spec.md §4.4: "produces an empty output").
func Encode(dst []byte, records []Record) int {
	if len(records) > 0xFFFF || len(records) > MaxBooks {
		return 0
	}
	need := HeaderSize + len(records)*RecordSize
	if len(dst) < need {
		return 0
	}

	copy(dst[0:4], Magic)
	binary.LittleEndian.PutUint16(dst[4:6], Version)
	binary.LittleEndian.PutUint16(dst[6:8], uint16(len(records)))

	off := HeaderSize
	for _, rec := range records {
		buf := dst[off : off+RecordSize]
		encodeRecord(buf, rec)
		off += RecordSize
	}
	return off
}

func encodeRecord(buf []byte, rec Record) {
	pos := 0
	pos += putSlot(buf[pos:pos+titleSlotSize], rec.Title)
	pos += putSlot(buf[pos:pos+authorSlotSize], rec.Author)
	binary.LittleEndian.PutUint16(buf[pos:], rec.PageCount)
	pos += 2
	buf[pos] = rec.Progress
	pos++

	tc := len(rec.Tags)
	if tc > tagCount {
		tc = tagCount
	}
	buf[pos] = uint8(tc)
	pos++

	for i := 0; i < tagCount; i++ {
		slot := buf[pos : pos+tagSlotSize]
		if i < tc {
			putSlot(slot, rec.Tags[i])
		}
		pos += tagSlotSize
	}

	putSlot(buf[pos:pos+filenameSlotSize], rec.Filename)
}

// putSlot writes s truncated to slot's capacity (len(slot)-1 bytes),
// preceded by its length byte. It returns len(slot) (the slot is always
// fully consumed, zero-padded).
func putSlot(slot []byte, s string) int {
	for i := range slot {
		slot[i] = 0
	}
	maxLen := len(slot) - 1
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	slot[0] = byte(len(s))
	copy(slot[1:], s)
	return len(slot)
}

// getSlot reads a length-prefixed fixed-length-string slot. It fails
// ErrSlotOverflow if the stored length exceeds the slot's capacity —
// a corrupt catalog should not be trusted to memcpy its claimed length.
func getSlot(slot []byte) (string, error) {
	l := int(slot[0])
	if l > len(slot)-1 {
		return "", errors.Wrapf(ErrSlotOverflow, "length %d exceeds capacity %d", l, len(slot)-1)
	}
	return string(slot[1 : 1+l]), nil
}

// Decode validates and parses a catalog from bytes, writing up to
// min(count, len(out)) records into out[0:n] and returning n.
func Decode(data []byte, out []Record) (int, error) {
	if len(data) < HeaderSize {
		return 0, ErrTooShort
	}
	if string(data[0:4]) != Magic {
		return 0, errors.Wrapf(ErrBadMagic, "got %q", data[0:4])
	}
	version := binary.LittleEndian.Uint16(data[4:6])
	if version != Version {
		return 0, errors.Wrapf(ErrBadVersion, "got %d, want %d", version, Version)
	}
	count := int(binary.LittleEndian.Uint16(data[6:8]))
	if count > MaxBooks {
		return 0, errors.Wrapf(ErrTooManyBooks, "count=%d, max=%d", count, MaxBooks)
	}
	trailing := data[HeaderSize:]
	if len(trailing)%RecordSize != 0 {
		return 0, errors.Wrapf(ErrMisalignedSize, "trailing=%d, record_size=%d", len(trailing), RecordSize)
	}

	n := count
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		rec, err := decodeRecord(trailing[i*RecordSize : (i+1)*RecordSize])
		if err != nil {
			return i, errors.Wrapf(err, "record %d", i)
		}
		out[i] = rec
	}
	return n, nil
}

func decodeRecord(buf []byte) (Record, error) {
	pos := 0
	title, err := getSlot(buf[pos : pos+titleSlotSize])
	if err != nil {
		return Record{}, errors.Wrap(err, "title")
	}
	pos += titleSlotSize

	author, err := getSlot(buf[pos : pos+authorSlotSize])
	if err != nil {
		return Record{}, errors.Wrap(err, "author")
	}
	pos += authorSlotSize

	pageCount := binary.LittleEndian.Uint16(buf[pos:])
	pos += 2

	progress := buf[pos]
	pos++

	tc := int(buf[pos])
	pos++
	if tc > tagCount {
		tc = tagCount
	}

	var tags []string
	if tc > 0 {
		tags = make([]string, 0, tc)
	}
	for i := 0; i < tagCount; i++ {
		slot := buf[pos : pos+tagSlotSize]
		if i < tc {
			tag, err := getSlot(slot)
			if err != nil {
				return Record{}, errors.Wrapf(err, "tag %d", i)
			}
			tags = append(tags, tag)
		}
		pos += tagSlotSize
	}

	filename, err := getSlot(buf[pos : pos+filenameSlotSize])
	if err != nil {
		return Record{}, errors.Wrap(err, "filename")
	}

	return Record{
		Title:     title,
		Author:    author,
		PageCount: pageCount,
		Progress:  progress,
		Tags:      tags,
		Filename:  filename,
	}, nil
}
