// Package shell implements the application shell: a single State instance,
// a single pending-tap slot, and the tick/redraw loop that dispatches taps
// to the current screen and asks it to render (spec.md §4.8). Concrete
// list/TOC visual layout is out of scope; this package owns the navigation
// state machine and the reading view's page-turn/render wiring, which are
// in scope.
package shell

import (
	"io"

	"github.com/SimonWaldherr/xtcreader/internal/library"
	"github.com/SimonWaldherr/xtcreader/internal/position"
	"github.com/SimonWaldherr/xtcreader/internal/render"
	"github.com/SimonWaldherr/xtcreader/internal/sdk"
	"github.com/SimonWaldherr/xtcreader/internal/xlog"
	"github.com/SimonWaldherr/xtcreader/internal/xtc"
)

// Screen identifies which screen the shell is currently presenting.
type Screen int

const (
	ScreenBookList Screen = iota
	ScreenTOC
	ScreenReading
	ScreenError
)

// TapRegion is the horizontal third a tap landed in (spec.md §4.8).
type TapRegion int

const (
	RegionLeft TapRegion = iota
	RegionCenter
	RegionRight
)

// ClassifyTap partitions the screen into horizontal thirds and reports
// which one x falls into, given the screen's width in pixels.
func ClassifyTap(x, screenW int) TapRegion {
	third := screenW / 3
	switch {
	case x < third:
		return RegionLeft
	case x >= 2*third:
		return RegionRight
	default:
		return RegionCenter
	}
}

// State is the shell's single mutable aggregate (spec.md §3 "Application
// State", §9 "model as a shell-owned aggregate").
type State struct {
	Screen         Screen
	Selection      int
	PageIndex      int
	SavedPageIndex int
	PendingTap     *sdk.TapEvent
	NeedsRedraw    bool
	ErrorMessage   string
	Books          []library.Entry
	CurrentBook    string
	PageCount      int
}

// Shell owns the State and every capability needed to drive a tick:
// display, touch, filesystem, reading-position store, and a process-wide
// render scratch buffer.
type Shell struct {
	State State

	Disp  sdk.Display
	Touch sdk.Touch
	FS    sdk.FS
	Store *position.Store
	Log   *xlog.Logger

	Scratch *render.Scratch

	BooksDir    string
	CatalogPath string
	ScreenW     int
	ScreenH     int

	currentReader *xtc.Reader
	currentFile   sdk.File
}

// New constructs a shell over the given capabilities, starting on the book
// list screen with a pending redraw.
func New(disp sdk.Display, touch sdk.Touch, fs sdk.FS, store *position.Store, log *xlog.Logger, booksDir, catalogPath string) *Shell {
	w, h := disp.Dimensions()
	return &Shell{
		Disp:        disp,
		Touch:       touch,
		FS:          fs,
		Store:       store,
		Log:         log,
		Scratch:     render.NewScratch(4096),
		BooksDir:    booksDir,
		CatalogPath: catalogPath,
		ScreenW:     w,
		ScreenH:     h,
		State:       State{Screen: ScreenBookList, NeedsRedraw: true},
	}
}

// Tick runs one cooperative step: dispatch any pending tap, then redraw if
// requested (spec.md §4.8).
func (sh *Shell) Tick() {
	if sh.State.PendingTap == nil {
		if tap, ok := sh.Touch.PollTap(); ok {
			t := tap
			sh.State.PendingTap = &t
		}
	}
	if sh.State.PendingTap != nil {
		sh.dispatchTap(*sh.State.PendingTap)
		sh.State.PendingTap = nil
	}
	if sh.State.NeedsRedraw {
		if err := sh.renderCurrent(); err != nil {
			sh.State.ErrorMessage = formatError("render", err)
			sh.State.Screen = ScreenError
			sh.State.NeedsRedraw = true
		} else {
			sh.State.NeedsRedraw = false
		}
	}
}

// OnGesture feeds a host gesture event into the shell's single pending-tap
// slot. Only kind == 1 (tap) is recognised; all others are ignored
// (spec.md §6).
func (sh *Shell) OnGesture(kind, x, y int) {
	if kind != 1 {
		return
	}
	if sh.State.PendingTap == nil {
		sh.State.PendingTap = &sdk.TapEvent{X: x, Y: y}
	}
}

func (sh *Shell) dispatchTap(tap sdk.TapEvent) {
	if sh.State.Screen == ScreenError {
		sh.rescan()
		sh.State.NeedsRedraw = true
		return
	}

	region := ClassifyTap(tap.X, sh.ScreenW)
	switch sh.State.Screen {
	case ScreenReading:
		sh.handleReadingTap(region)
	case ScreenBookList:
		sh.handleBookListTap(region)
	case ScreenTOC:
		sh.handleTOCTap(region)
	}
	sh.State.NeedsRedraw = true
}

func (sh *Shell) handleReadingTap(region TapRegion) {
	switch region {
	case RegionLeft:
		if sh.State.PageIndex > 0 {
			sh.State.PageIndex--
			sh.Store.Store(sh.State.CurrentBook, uint32(sh.State.PageIndex))
		}
	case RegionRight:
		if sh.State.PageIndex < sh.State.PageCount-1 {
			sh.State.PageIndex++
			sh.Store.Store(sh.State.CurrentBook, uint32(sh.State.PageIndex))
		}
	case RegionCenter:
		sh.State.SavedPageIndex = sh.State.PageIndex
		sh.State.Screen = ScreenTOC
	}
}

func (sh *Shell) handleBookListTap(region TapRegion) {
	if region != RegionRight {
		return
	}
	if sh.State.Selection < 0 || sh.State.Selection >= len(sh.State.Books) {
		return
	}
	entry := sh.State.Books[sh.State.Selection]
	if err := sh.openBook(entry.Filename); err != nil {
		sh.State.ErrorMessage = formatError("open book", err)
		sh.State.Screen = ScreenError
		return
	}
	sh.State.Screen = ScreenReading
}

func (sh *Shell) handleTOCTap(region TapRegion) {
	if region == RegionLeft {
		sh.State.Screen = ScreenBookList
		return
	}
	// Entering the reading view from the TOC restores the previously
	// saved position (spec.md §4.8: "preserving position").
	sh.State.PageIndex = sh.State.SavedPageIndex
	sh.State.Screen = ScreenReading
}

// openBook opens filename under BooksDir, constructs a container reader
// over it, and restores the saved reading position.
func (sh *Shell) openBook(filename string) error {
	sh.closeBook()

	f, err := sh.FS.Open(sh.BooksDir+"/"+filename, sdk.OpenRead)
	if err != nil {
		return err
	}
	rdr, err := xtc.Open(&fileStream{f: f})
	if err != nil {
		f.Close()
		return err
	}

	sh.currentFile = f
	sh.currentReader = rdr
	sh.State.CurrentBook = filename
	sh.State.PageCount = rdr.PageCount()
	if saved, ok := sh.Store.Load(filename); ok && int(saved) < sh.State.PageCount {
		sh.State.PageIndex = int(saved)
	} else {
		sh.State.PageIndex = 0
	}
	return nil
}

func (sh *Shell) closeBook() {
	if sh.currentFile != nil {
		sh.currentFile.Close()
		sh.currentFile = nil
		sh.currentReader = nil
	}
}

// rescan re-enters the book-load path after an error, per spec.md §7 ("On
// the error screen, any tap re-enters the book-load path").
func (sh *Shell) rescan() {
	entries, _, err := library.LoadBooks(sh.FS, sh.Store, sh.BooksDir, sh.CatalogPath, sh.Log)
	if err != nil {
		sh.State.ErrorMessage = formatError("load books", err)
		sh.State.Screen = ScreenError
		return
	}
	sh.State.Books = entries
	sh.State.Selection = 0
	sh.State.Screen = ScreenBookList
}

// renderCurrent draws the current screen. Only the reading screen has an
// in-scope concrete render path (the page render pipeline); list/TOC
// layout is left to the out-of-scope UI layer and is a no-op here.
func (sh *Shell) renderCurrent() error {
	switch sh.State.Screen {
	case ScreenReading:
		if sh.currentReader == nil {
			return nil
		}
		return render.RenderPage(sh.currentReader, sh.Disp, sh.State.PageIndex, sh.ScreenW, sh.ScreenH, sh.Scratch)
	default:
		return nil
	}
}

// fileStream adapts an sdk.File to xtc.Stream.
type fileStream struct {
	f sdk.File
}

func (s *fileStream) Seek(pos uint64) error {
	_, err := s.f.Seek(int64(pos), io.SeekStart)
	return err
}

func (s *fileStream) Read(buf []byte) (int, error) {
	n, err := s.f.Read(buf)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}
