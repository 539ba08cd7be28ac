// Package sdk declares the abstract capabilities the embedded host SDK must
// provide (spec.md §6): display, touch, filesystem, non-volatile key-value
// storage, and logging. Nothing in this package talks to real hardware —
// internal/sdk/fake provides an in-memory implementation used by the host
// CLI and by every test in this module; on-device, wasmexports binds these
// interfaces to the real Portal-class host bindings.
package sdk

import "io"

// Color is a display grayscale value in the driver's native palette space.
type Color uint8

const (
	ColorWhite Color = 0
	ColorBlack Color = 1
)

// Rect is an axis-aligned pixel rectangle, [X,X+W) × [Y,Y+H).
type Rect struct {
	X, Y, W, H int
}

// Display is the e-paper display capability (spec.md §6).
type Display interface {
	// Dimensions returns the physical screen size in pixels.
	Dimensions() (w, h int)

	// FillScreen fills the entire screen with c.
	FillScreen(c Color) error

	// HLine draws a fast horizontal line.
	HLine(x, y, length int, c Color) error
	// VLine draws a fast vertical line.
	VLine(x, y, length int, c Color) error

	// FillRect draws a filled rectangle.
	FillRect(r Rect, c Color) error
	// StrokeRect draws a rectangle outline.
	StrokeRect(r Rect, c Color) error

	// PushImage1bpp pushes a tightly-packed MSB-first 1-bpp image at (x,y),
	// using a two-entry palette {palette[0]=bit0, palette[1]=bit1}. The
	// image must contain no end-of-row padding.
	PushImage1bpp(x, y, w, h int, packed []byte, palette [2]Color) error

	// PushXTH pushes a precomputed 2-plane grayscale page blob (its 22-byte
	// per-page header followed by both planes), centred on the screen. clearFirst requests a full-screen clear before the push;
	// callers elide it when the blob exactly fills the screen.
	PushXTH(blob []byte, w, h int, clearFirst bool) error

	// DrawText renders s at (x,y) using a VLW font resource.
	DrawText(x, y int, s string, font string) error

	// Update presents the accumulated draw calls to the physical panel.
	Update() error
}

// TapEvent is a single tap gesture.
type TapEvent struct {
	X, Y int
}

// Touch is the touch-input capability.
type Touch interface {
	// PollTap returns the next pending tap, if any.
	PollTap() (TapEvent, bool)
}

// OpenFlag selects file-open mode, mirroring os.O_* at a coarser grain.
type OpenFlag int

const (
	OpenRead OpenFlag = iota
	OpenWrite
	OpenReadWrite
)

// File is an open filesystem handle.
type File interface {
	io.ReadWriteSeeker
	io.Closer
}

// DirEntry describes one directory entry.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FS is the filesystem capability.
type FS interface {
	// MountCheck reports whether the backing store is mounted.
	MountCheck() bool
	// Mount mounts the backing store.
	Mount() error

	Open(path string, flag OpenFlag) (File, error)
	Remove(path string) error
	MkdirAll(path string) error

	// ReadDir lists entries of a directory. It does not recurse.
	ReadDir(path string) ([]DirEntry, error)
}

// NVSMode selects read-only or read-write access when opening a namespace.
type NVSMode int

const (
	NVSReadOnly NVSMode = iota
	NVSReadWrite
)

// Namespace is an open non-volatile key-value namespace.
type Namespace interface {
	GetUint32(key string) (uint32, bool)
	SetUint32(key string, v uint32) error
	Commit() error
	Close() error
}

// NVS is the non-volatile key-value store capability.
type NVS interface {
	Open(namespace string, mode NVSMode) (Namespace, error)
}

// LogLevel identifies a log severity.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

// Logger is the logging capability.
type Logger interface {
	Log(level LogLevel, msg string)
}
