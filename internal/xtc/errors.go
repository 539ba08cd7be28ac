package xtc

import "errors"

// Reader error taxonomy (spec.md §4.3, §7). Each is a distinct sentinel so
// callers can errors.Is against a specific failure kind even after
// github.com/pkg/errors wrapping adds context.
var (
	ErrEndOfStream          = errors.New("xtc: end of stream")
	ErrIO                   = errors.New("xtc: io error")
	ErrInvalidMagic         = errors.New("xtc: invalid container magic")
	ErrInvalidVersion       = errors.New("xtc: invalid version")
	ErrCorruptedHeader      = errors.New("xtc: corrupted header")
	ErrPageOutOfRange       = errors.New("xtc: page index out of range")
	ErrInvalidPageMagic     = errors.New("xtc: invalid per-page magic")
	ErrUnsupportedCompression = errors.New("xtc: unsupported compression")
	ErrUnsupportedColorMode = errors.New("xtc: unsupported color mode")
	ErrBufferTooSmall       = errors.New("xtc: buffer too small")
	ErrTooLarge             = errors.New("xtc: payload size too large")

	// ErrSeekTooLarge is returned by Stream.Seek when pos exceeds the
	// target's addressable range.
	ErrSeekTooLarge = errors.New("xtc: seek position too large")
)
