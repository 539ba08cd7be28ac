package xtc

import "github.com/pkg/errors"

// Reader parses an XTC/XTCH container over a Stream. It borrows the stream
// for the duration of its lifetime and owns no heap allocations beyond its
// own small, fixed-size scratch buffers — it never holds a full page table
// or page payload in memory (spec.md §4.3).
type Reader struct {
	s      Stream
	header Header
}

// Open reads and validates the 56-byte container header at offset 0.
func Open(s Stream) (*Reader, error) {
	var buf [HeaderSize]byte
	if err := readFull(s, 0, buf[:]); err != nil {
		return nil, errors.Wrap(err, "xtc: read header")
	}
	h, err := parseHeader(buf[:])
	if err != nil {
		return nil, err
	}
	return &Reader{s: s, header: h}, nil
}

// Header returns the cached container header.
func (r *Reader) Header() Header { return r.header }

// PageCount returns the number of pages in the container.
func (r *Reader) PageCount() int { return int(r.header.PageCount) }

// BitDepth returns 1 for an XTC (1-bpp) container, 2 for XTCH (2-bpp).
func (r *Reader) BitDepth() int { return r.header.BitDepth() }

// ReadMetadata reads the title/author strings if the container declares
// has_metadata; otherwise it returns an empty Metadata.
func (r *Reader) ReadMetadata() (Metadata, error) {
	if !r.header.HasMetadata {
		return Metadata{}, nil
	}
	var title [metadataTitleLen]byte
	if err := readFull(r.s, metadataTitleOff, title[:]); err != nil {
		return Metadata{}, errors.Wrap(err, "xtc: read title")
	}
	var author [metadataAuthorLen]byte
	if err := readFull(r.s, metadataAuthorOff, author[:]); err != nil {
		return Metadata{}, errors.Wrap(err, "xtc: read author")
	}
	return Metadata{
		Title:  stringFromNULPadded(title[:]),
		Author: stringFromNULPadded(author[:]),
	}, nil
}

// ReadPageEntry reads the i-th page-table entry on demand.
func (r *Reader) ReadPageEntry(i int) (PageTableEntry, error) {
	if i < 0 || i >= int(r.header.PageCount) {
		return PageTableEntry{}, errors.Wrapf(ErrPageOutOfRange, "index %d, count %d", i, r.header.PageCount)
	}
	off := r.header.PageTableOffset + uint64(i)*PageTableEntrySize
	var buf [PageTableEntrySize]byte
	if err := readFull(r.s, off, buf[:]); err != nil {
		return PageTableEntry{}, errors.Wrap(err, "xtc: read page table entry")
	}
	return parsePageTableEntry(buf[:]), nil
}

// PreparedPage is the result of validating a page's per-page header and
// computing its payload location and size, without reading the payload
// itself. The render pipeline uses it to decide between the XTH
// direct-submit path and the XTG stream-and-crop path (spec.md §4.6).
type PreparedPage struct {
	Entry         PageTableEntry
	Header        PageHeader
	PayloadOffset uint64
	PayloadSize   uint64
}

// Prepare validates the per-page header for page i and computes its
// payload size. It performs the same checks LoadPage and StreamPage rely
// on internally, exposed here so callers needing the blob's raw header
// (the render pipeline's XTH path) don't have to re-derive it.
func (r *Reader) Prepare(i int) (PreparedPage, error) {
	return r.preparePageRead(i)
}

// preparePageRead validates the per-page header at entry.DataOffset and
// computes the payload size, without reading the payload itself.
func (r *Reader) preparePageRead(i int) (PreparedPage, error) {
	entry, err := r.ReadPageEntry(i)
	if err != nil {
		return PreparedPage{}, err
	}

	var hdrBuf [PageHeaderSize]byte
	if err := readFull(r.s, entry.DataOffset, hdrBuf[:]); err != nil {
		return PreparedPage{}, errors.Wrap(err, "xtc: read page header")
	}
	ph := parsePageHeader(hdrBuf[:])

	bitDepth := r.BitDepth()
	wantMagic := MagicXTG
	if bitDepth == 2 {
		wantMagic = MagicXTH
	}
	if ph.Magic != wantMagic {
		return PreparedPage{}, errors.Wrapf(ErrInvalidPageMagic, "page %d: magic=0x%08x, want=0x%08x", i, ph.Magic, wantMagic)
	}
	if ph.ColorMode != 0 {
		return PreparedPage{}, errors.Wrapf(ErrUnsupportedColorMode, "page %d: color_mode=%d", i, ph.ColorMode)
	}
	if ph.Compression != 0 {
		return PreparedPage{}, errors.Wrapf(ErrUnsupportedCompression, "page %d: compression=%d", i, ph.Compression)
	}

	size, err := payloadSize(bitDepth, ph.Width, ph.Height)
	if err != nil {
		return PreparedPage{}, errors.Wrapf(err, "page %d", i)
	}

	return PreparedPage{
		Entry:         entry,
		Header:        ph,
		PayloadOffset: entry.DataOffset + PageHeaderSize,
		PayloadSize:   size,
	}, nil
}

// ReadPageBlob reads page i's full on-disk blob — its 22-byte per-page
// header followed by its payload — into outBuf, returning the number of
// bytes written. Used by the XTH direct-submit path, which pushes the
// header-prefixed blob straight to the display (spec.md §4.6 step 4).
func (r *Reader) ReadPageBlob(i int, outBuf []byte) (int, error) {
	p, err := r.preparePageRead(i)
	if err != nil {
		return 0, err
	}
	blobSize := PageHeaderSize + p.PayloadSize
	if uint64(len(outBuf)) < blobSize {
		return 0, errors.Wrapf(ErrBufferTooSmall, "have %d, need %d", len(outBuf), blobSize)
	}
	if err := readFull(r.s, p.Entry.DataOffset, outBuf[:blobSize]); err != nil {
		return 0, errors.Wrap(err, "xtc: read page blob")
	}
	return int(blobSize), nil
}

// LoadPage reads page i's entire payload into outBuf, returning the number
// of bytes written. It fails ErrBufferTooSmall if outBuf cannot hold the
// payload.
func (r *Reader) LoadPage(i int, outBuf []byte) (int, error) {
	p, err := r.preparePageRead(i)
	if err != nil {
		return 0, err
	}
	if uint64(len(outBuf)) < p.PayloadSize {
		return 0, errors.Wrapf(ErrBufferTooSmall, "have %d, need %d", len(outBuf), p.PayloadSize)
	}
	if err := readFull(r.s, p.PayloadOffset, outBuf[:p.PayloadSize]); err != nil {
		return 0, errors.Wrap(err, "xtc: read page payload")
	}
	return int(p.PayloadSize), nil
}

// StreamCallback receives one chunk of a page's payload. chunk is only
// valid for the duration of the call. offset is the payload offset at which
// chunk begins.
type StreamCallback func(chunk []byte, offset uint64) error

// StreamPage prepares page i, then repeatedly fills scratch (which must be
// non-empty) with the next chunk of the payload and invokes cb. The
// accumulated offset equals the payload size exactly when streaming
// completes; ErrEndOfStream is returned if the underlying stream is
// exhausted first.
func (r *Reader) StreamPage(i int, scratch []byte, cb StreamCallback) error {
	if len(scratch) == 0 {
		panic("xtc: scratch buffer must be non-empty")
	}
	p, err := r.preparePageRead(i)
	if err != nil {
		return err
	}
	if err := r.s.Seek(p.PayloadOffset); err != nil {
		return errors.Wrap(err, "xtc: seek to payload")
	}

	var delivered uint64
	for delivered < p.PayloadSize {
		want := p.PayloadSize - delivered
		chunkBuf := scratch
		if uint64(len(chunkBuf)) > want {
			chunkBuf = chunkBuf[:want]
		}
		n, err := r.s.Read(chunkBuf)
		if err != nil {
			return errors.Wrap(err, "xtc: read payload chunk")
		}
		if n == 0 {
			return errors.Wrapf(ErrEndOfStream, "page %d: delivered %d of %d bytes", i, delivered, p.PayloadSize)
		}
		if err := cb(chunkBuf[:n], delivered); err != nil {
			return err
		}
		delivered += uint64(n)
	}
	return nil
}
