package xtc

import "encoding/binary"

// containerBuilder assembles a well-formed XTC/XTCH container in memory for
// tests. It is not part of the public API.
type containerBuilder struct {
	bitDepth      int
	pages         [][]byte // raw payload bytes per page, already sized
	widths        []uint16
	heights       []uint16
	title, author string
	chapters      []rawChapter
	major, minor  uint8
}

type rawChapter struct {
	name       string
	start, end uint16 // 1-based
}

func newContainerBuilder(bitDepth int) *containerBuilder {
	return &containerBuilder{bitDepth: bitDepth, major: 1, minor: 0}
}

func (b *containerBuilder) addPage(w, h uint16, payload []byte) {
	b.pages = append(b.pages, payload)
	b.widths = append(b.widths, w)
	b.heights = append(b.heights, h)
}

func (b *containerBuilder) build() []byte {
	pageCount := len(b.pages)
	hasMeta := b.title != "" || b.author != ""
	hasChapters := len(b.chapters) > 0

	metaOff := uint64(0)
	if hasMeta {
		metaOff = 0x38
	}

	pageTableOff := uint64(HeaderSize)
	if hasMeta {
		// Title and author occupy fixed offsets 0x38..0xF8; the page table
		// follows them.
		pageTableOff = metadataAuthorOff + metadataAuthorLen
	}
	pageTableSize := uint64(pageCount) * PageTableEntrySize
	dataOff := pageTableOff + pageTableSize

	// Lay out per-page blobs sequentially starting at dataOff.
	entryOffsets := make([]uint64, pageCount)
	cur := dataOff
	for i, payload := range b.pages {
		entryOffsets[i] = cur
		cur += PageHeaderSize + uint64(len(payload))
	}

	chapterOff := uint64(0)
	var chapterBytes []byte
	if hasChapters {
		chapterOff = cur
		chapterBytes = make([]byte, 0, len(b.chapters)*ChapterRecordSize)
		for _, ch := range b.chapters {
			rec := make([]byte, ChapterRecordSize)
			copy(rec, ch.name)
			binary.LittleEndian.PutUint16(rec[chapterStartOff:], ch.start)
			binary.LittleEndian.PutUint16(rec[chapterEndOff:], ch.end)
			chapterBytes = append(chapterBytes, rec...)
		}
		cur += uint64(len(chapterBytes))
	}

	out := make([]byte, cur)

	magic := MagicXTC
	if b.bitDepth == 2 {
		magic = MagicXTCH
	}
	binary.LittleEndian.PutUint32(out[hdrMagicOff:], magic)
	out[hdrVersionMajorOff] = b.major
	out[hdrVersionMinorOff] = b.minor
	binary.LittleEndian.PutUint16(out[hdrPageCountOff:], uint16(pageCount))
	if hasMeta {
		out[hdrHasMetadataOff] = 1
	}
	if hasChapters {
		out[hdrHasChaptersOff] = 1
	}
	binary.LittleEndian.PutUint64(out[hdrMetadataOffOff:], metaOff)
	binary.LittleEndian.PutUint64(out[hdrPageTableOffOff:], pageTableOff)
	binary.LittleEndian.PutUint64(out[hdrDataOffOff:], dataOff)
	binary.LittleEndian.PutUint32(out[hdrChapterOffOff:], uint32(chapterOff))

	if hasMeta {
		titleBuf := make([]byte, metadataTitleLen)
		copy(titleBuf, b.title)
		copy(out[metadataTitleOff:], titleBuf)
		authorBuf := make([]byte, metadataAuthorLen)
		copy(authorBuf, b.author)
		copy(out[metadataAuthorOff:], authorBuf)
	}

	for i, payload := range b.pages {
		off := entryOffsets[i]
		entry := out[pageTableOff+uint64(i)*PageTableEntrySize:]
		binary.LittleEndian.PutUint64(entry[0:], off)
		binary.LittleEndian.PutUint32(entry[8:], uint32(len(payload)))
		binary.LittleEndian.PutUint16(entry[12:], b.widths[i])
		binary.LittleEndian.PutUint16(entry[14:], b.heights[i])

		hdr := out[off:]
		pageMagic := MagicXTG
		if b.bitDepth == 2 {
			pageMagic = MagicXTH
		}
		binary.LittleEndian.PutUint32(hdr[0:], pageMagic)
		binary.LittleEndian.PutUint16(hdr[4:], b.widths[i])
		binary.LittleEndian.PutUint16(hdr[6:], b.heights[i])
		hdr[8] = 0
		hdr[9] = 0
		binary.LittleEndian.PutUint32(hdr[10:], uint32(len(payload)))
		copy(out[off+PageHeaderSize:], payload)
	}

	if hasChapters {
		copy(out[chapterOff:], chapterBytes)
	}

	return out
}
