package main

import (
	"io"
	"os"
)

// osStream adapts an *os.File to xtc.Stream: absolute-position seeks, and a
// Read that reports end-of-file as a clean (n, nil) rather than io.EOF, the
// convention xtc.Reader's streaming loop relies on.
type osStream struct {
	f *os.File
}

func (s *osStream) Seek(pos uint64) error {
	_, err := s.f.Seek(int64(pos), io.SeekStart)
	return err
}

func (s *osStream) Read(buf []byte) (int, error) {
	n, err := s.f.Read(buf)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}
