package xtc

import "github.com/pkg/errors"

// Stream is a seekable byte source. The container reader depends on nothing
// but these two operations, so it can sit atop a filesystem file, an
// in-memory buffer, or a host-provided linear-memory window with equal
// ease (spec.md §4.1, §9 "generic-over-stream").
type Stream interface {
	// Seek sets the absolute read position. It fails with ErrSeekTooLarge
	// if pos exceeds the target's addressable seek range, or with ErrIO on
	// a backend error.
	Seek(pos uint64) error

	// Read reads up to len(buf) bytes, returning the number read. It
	// returns (0, nil) at EOF and fails with ErrIO on a backend error.
	Read(buf []byte) (int, error)
}

// readFull reads exactly len(buf) bytes from s, seeking to off first.
// It fails ErrEndOfStream if the stream is exhausted before buf is filled.
func readFull(s Stream, off uint64, buf []byte) error {
	if err := s.Seek(off); err != nil {
		return errors.Wrap(err, "xtc: seek")
	}
	read := 0
	for read < len(buf) {
		n, err := s.Read(buf[read:])
		if err != nil {
			return errors.Wrap(err, "xtc: read")
		}
		if n == 0 {
			return errors.Wrap(ErrEndOfStream, "xtc: short read")
		}
		read += n
	}
	return nil
}
