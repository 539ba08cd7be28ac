// Package wasmexports implements the pp_* host ABI (spec.md §6) over one
// package-level shell.Shell instance. This is the one place the single-
// instance global-state model is allowed to live (spec.md §9), and it is
// deliberately thin: everything else is a re-export of *shell.Shell.
package wasmexports

import (
	"sync"

	"github.com/SimonWaldherr/xtcreader/internal/config"
	"github.com/SimonWaldherr/xtcreader/internal/position"
	"github.com/SimonWaldherr/xtcreader/internal/sdk"
	"github.com/SimonWaldherr/xtcreader/internal/sdk/fake"
	"github.com/SimonWaldherr/xtcreader/internal/shell"
	"github.com/SimonWaldherr/xtcreader/internal/xlog"
)

const contractVersion int32 = 1

var (
	mu       sync.Mutex
	theShell *shell.Shell

	// arena maps pp_alloc tokens to host-side buffers. The real
	// linear-memory address a device host sees is established by the
	// wasip1/js bootstrap glue that copies into/out of these buffers; this
	// package only tracks their lifetime.
	arena     = map[int32][]byte{}
	nextToken int32 = 1
)

// Bind wires the package-level shell to a concrete set of capabilities.
// Production bootstraps call it once with the real host SDK bindings;
// tests call it with internal/sdk/fake.
func Bind(disp sdk.Display, touch sdk.Touch, fs sdk.FS, nvs sdk.NVS, log *xlog.Logger, cfg config.Config) {
	mu.Lock()
	defer mu.Unlock()
	store := position.NewStore(nvs)
	theShell = shell.New(disp, touch, fs, store, log, cfg.BooksDir, cfg.CatalogPath)
}

// reset clears package state; used by tests so each test starts fresh.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	theShell = nil
	arena = map[int32][]byte{}
	nextToken = 1
}

func contractVersionImpl() int32 { return contractVersion }

func initImpl(apiVersion int32, apiFeatures int64, screenW, screenH int32) int32 {
	mu.Lock()
	defer mu.Unlock()
	if theShell == nil {
		disp := fake.NewDisplay(int(screenW), int(screenH))
		cfg := config.Default()
		theShell = shell.New(disp, &fake.Touch{}, fake.NewFS(), position.NewStore(fake.NewNVS()), nil, cfg.BooksDir, cfg.CatalogPath)
	}
	if apiVersion != contractVersion {
		return -1
	}
	return 0
}

func tickImpl(nowMs int32) int32 {
	mu.Lock()
	sh := theShell
	mu.Unlock()
	if sh == nil {
		return -1
	}
	sh.Tick()
	return 0
}

func onGestureImpl(kind, x, y, dx, dy, durationMs, nowMs, flags int32) int32 {
	mu.Lock()
	sh := theShell
	mu.Unlock()
	if sh == nil {
		return -1
	}
	sh.OnGesture(int(kind), int(x), int(y))
	return 0
}

func allocImpl(length int32) int32 {
	if length <= 0 {
		return 0
	}
	mu.Lock()
	defer mu.Unlock()
	tok := nextToken
	nextToken++
	arena[tok] = make([]byte, length)
	return tok
}

func freeImpl(ptr, length int32) {
	mu.Lock()
	defer mu.Unlock()
	delete(arena, ptr)
}
