package xtc

import (
	"encoding/binary"
	stderrors "errors"

	"github.com/pkg/errors"
)

const (
	chapterNameLen    = 80
	chapterStartOff   = 0x50
	chapterEndOff     = 0x52
)

// Chapter is a single table-of-contents entry, converted to 0-based page
// indices. Name is only valid for the duration of the ForEachChapter
// callback it was passed to.
type Chapter struct {
	Name  string
	Start int // 0-based, inclusive
	End   int // 0-based, inclusive
}

// ChapterCallback receives one chapter. Returning an error stops iteration
// and the error is propagated to the ForEachChapter caller.
type ChapterCallback func(Chapter) error

// ForEachChapter iterates the container's chapter table, if present. It is
// a no-op if the container declares no chapters or chapter_offset is zero.
//
// Iteration stops when (a) the next record would cross the derived
// chapter-area end, (b) a short read occurs at a record boundary, or (c) a
// record has an empty name and both indices zero. Records are converted to
// 0-based page indices; a record whose start is out of range, or whose
// start exceeds its (possibly clamped) end, is skipped rather than stopping
// iteration.
func (r *Reader) ForEachChapter(cb ChapterCallback) error {
	h := r.header
	if !h.HasChapters || h.ChapterOffset == 0 {
		return nil
	}

	areaEnd := chapterAreaEnd(h)

	var buf [ChapterRecordSize]byte
	pos := uint64(h.ChapterOffset)
	for {
		if areaEnd > 0 && pos+ChapterRecordSize > areaEnd {
			break
		}
		if err := readFull(r.s, pos, buf[:]); err != nil {
			if stderrors.Is(err, ErrEndOfStream) {
				break
			}
			return errors.Wrap(err, "xtc: read chapter record")
		}

		name := stringFromNULPadded(buf[:chapterNameLen])
		start1 := binary.LittleEndian.Uint16(buf[chapterStartOff:])
		end1 := binary.LittleEndian.Uint16(buf[chapterEndOff:])

		if name == "" && start1 == 0 && end1 == 0 {
			break
		}

		pos += ChapterRecordSize

		pageCount := int(h.PageCount)
		if start1 == 0 || int(start1) > pageCount {
			continue
		}
		start0 := int(start1) - 1
		end0 := int(end1) - 1
		if end0 > pageCount-1 {
			end0 = pageCount - 1
		}
		if start0 >= pageCount || start0 > end0 {
			continue
		}

		if err := cb(Chapter{Name: name, Start: start0, End: end0}); err != nil {
			return err
		}
	}
	return nil
}

// chapterAreaEnd derives the end of the chapter record area as the minimum
// of page_table_offset, data_offset, and thumb_offset that is strictly
// greater than chapter_offset. If none qualifies, 0 is returned, meaning
// "iterate until EOF / short read" (spec.md §3, §9 open question).
func chapterAreaEnd(h Header) uint64 {
	start := uint64(h.ChapterOffset)
	var end uint64
	consider := func(off uint64) {
		if off > start && (end == 0 || off < end) {
			end = off
		}
	}
	consider(h.PageTableOffset)
	consider(h.DataOffset)
	consider(h.ThumbOffset)
	return end
}
