// Package fake provides in-memory implementations of every internal/sdk
// capability, used by cmd/xtci and by every test in this module in place of
// the real Portal-class host bindings.
package fake

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/SimonWaldherr/xtcreader/internal/sdk"
)

// Display is an in-memory framebuffer-less recorder: it records every
// PushImage1bpp/PushXTH call in Pushes and counts Update calls, enough for
// tests to assert on pushes. Its other draw calls are no-ops.
type Display struct {
	mu        sync.Mutex
	w, h      int
	Pushes    []Push
	UpdateCnt int
}

// Push records one call to PushImage1bpp or PushXTH.
type Push struct {
	Kind       string // "1bpp" or "xth"
	X, Y       int
	W, H       int
	Packed     []byte
	Palette    [2]sdk.Color
	ClearFirst bool
}

// NewDisplay creates a fake display of the given physical size.
func NewDisplay(w, h int) *Display {
	return &Display{w: w, h: h}
}

func (d *Display) Dimensions() (int, int) { return d.w, d.h }

func (d *Display) FillScreen(sdk.Color) error { return nil }
func (d *Display) HLine(int, int, int, sdk.Color) error { return nil }
func (d *Display) VLine(int, int, int, sdk.Color) error { return nil }
func (d *Display) FillRect(sdk.Rect, sdk.Color) error    { return nil }
func (d *Display) StrokeRect(sdk.Rect, sdk.Color) error  { return nil }
func (d *Display) DrawText(int, int, string, string) error { return nil }

func (d *Display) PushImage1bpp(x, y, w, h int, packed []byte, palette [2]sdk.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := append([]byte(nil), packed...)
	d.Pushes = append(d.Pushes, Push{Kind: "1bpp", X: x, Y: y, W: w, H: h, Packed: cp, Palette: palette})
	return nil
}

func (d *Display) PushXTH(blob []byte, w, h int, clearFirst bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := append([]byte(nil), blob...)
	d.Pushes = append(d.Pushes, Push{Kind: "xth", W: w, H: h, Packed: cp, ClearFirst: clearFirst})
	return nil
}

func (d *Display) Update() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.UpdateCnt++
	return nil
}

// Touch is a fake touch source fed by tests via Enqueue.
type Touch struct {
	mu     sync.Mutex
	events []sdk.TapEvent
}

func (t *Touch) Enqueue(e sdk.TapEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

func (t *Touch) PollTap() (sdk.TapEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.events) == 0 {
		return sdk.TapEvent{}, false
	}
	e := t.events[0]
	t.events = t.events[1:]
	return e, true
}

// memFile implements sdk.File over an in-memory byte buffer. The buffer
// itself lives in fs.files[path] so that multiple concurrently open handles
// observe the same content.
type memFile struct {
	pos  int64
	fs   *FS
	path string
}

func (f *memFile) Read(p []byte) (int, error) {
	data := f.fs.files[f.path]
	if f.pos >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	data := f.fs.files[f.path]
	end := f.pos + int64(len(p))
	if end > int64(len(data)) {
		grown := make([]byte, end)
		copy(grown, data)
		data = grown
	}
	copy(data[f.pos:end], p)
	f.fs.files[f.path] = data
	f.pos = end
	return len(p), nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	data := f.fs.files[f.path]
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		base = int64(len(data))
	}
	f.pos = base + offset
	return f.pos, nil
}

func (f *memFile) Close() error { return nil }

// FS is an in-memory filesystem keyed by slash-separated path. It can be
// seeded from a real directory via LoadDir for cmd/xtci use, or populated
// directly via AddFile in tests.
type FS struct {
	mu      sync.Mutex
	mounted bool
	files   map[string][]byte
}

// NewFS creates an empty, unmounted in-memory filesystem.
func NewFS() *FS {
	return &FS{files: make(map[string][]byte)}
}

func (f *FS) AddFile(path string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = append([]byte(nil), data...)
}

// LoadDir mirrors a real OS directory's regular files into the fake FS,
// letting cmd/xtci drive the exact same library/render code paths tests
// use against fabricated containers.
func (f *FS) LoadDir(osDir, fsDir string) error {
	entries, err := os.ReadDir(osDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(osDir, e.Name()))
		if err != nil {
			return err
		}
		f.AddFile(fsDir+"/"+e.Name(), data)
	}
	return nil
}

func (f *FS) MountCheck() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounted
}

func (f *FS) Mount() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mounted = true
	return nil
}

var ErrNotFound = fmt.Errorf("fake: not found")

func (f *FS) Open(path string, flag sdk.OpenFlag) (sdk.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; !ok {
		if flag == sdk.OpenRead {
			return nil, ErrNotFound
		}
		f.files[path] = nil
	}
	return &memFile{fs: f, path: path}, nil
}

func (f *FS) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; !ok {
		return ErrNotFound
	}
	delete(f.files, path)
	return nil
}

func (f *FS) MkdirAll(string) error { return nil } // in-memory FS has no directory objects

func (f *FS) ReadDir(path string) ([]sdk.DirEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(path, "/") + "/"
	seen := make(map[string]bool)
	var out []sdk.DirEntry
	for p := range f.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		if strings.Contains(rest, "/") {
			continue
		}
		if seen[rest] {
			continue
		}
		seen[rest] = true
		out = append(out, sdk.DirEntry{Name: rest, IsDir: false})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// NVS is an in-memory non-volatile key-value store.
type NVS struct {
	mu   sync.Mutex
	data map[string]map[string]uint32
}

func NewNVS() *NVS {
	return &NVS{data: make(map[string]map[string]uint32)}
}

type nvsNamespace struct {
	nvs  *NVS
	name string
}

func (n *NVS) Open(namespace string, _ sdk.NVSMode) (sdk.Namespace, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.data[namespace]; !ok {
		n.data[namespace] = make(map[string]uint32)
	}
	return &nvsNamespace{nvs: n, name: namespace}, nil
}

func (ns *nvsNamespace) GetUint32(key string) (uint32, bool) {
	ns.nvs.mu.Lock()
	defer ns.nvs.mu.Unlock()
	v, ok := ns.nvs.data[ns.name][key]
	return v, ok
}

func (ns *nvsNamespace) SetUint32(key string, v uint32) error {
	ns.nvs.mu.Lock()
	defer ns.nvs.mu.Unlock()
	ns.nvs.data[ns.name][key] = v
	return nil
}

func (ns *nvsNamespace) Commit() error { return nil }
func (ns *nvsNamespace) Close() error  { return nil }

// Logger forwards to the standard log package, matching the teacher's use
// of stdlib log for CLI and server tooling.
type Logger struct {
	l *log.Logger
}

func NewLogger(out io.Writer) *Logger {
	return &Logger{l: log.New(out, "", log.LstdFlags)}
}

func (lg *Logger) Log(level sdk.LogLevel, msg string) {
	prefix := [...]string{"DEBUG", "INFO", "WARN", "ERROR"}[level]
	lg.l.Printf("[%s] %s", prefix, msg)
}
