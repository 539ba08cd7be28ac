// Package library implements the book library: loading from an on-disk
// catalog when present, falling back to a directory scan, and persisting a
// freshly scanned catalog for the next startup (spec.md §4.7).
package library

import (
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"

	"github.com/SimonWaldherr/xtcreader/internal/catalog"
	"github.com/SimonWaldherr/xtcreader/internal/position"
	"github.com/SimonWaldherr/xtcreader/internal/sdk"
	"github.com/SimonWaldherr/xtcreader/internal/xlog"
	"github.com/SimonWaldherr/xtcreader/internal/xtc"
)

// MaxEntries bounds the in-memory library, matching the fixed-capacity
// array the on-device application state holds (spec.md §3).
const MaxEntries = 128

// maxTitleLen and maxAuthorLen clamp scanned metadata to the catalog's
// on-disk string-slot capacities (spec.md §4.4: slot size minus its length
// byte).
const (
	maxTitleLen  = 95
	maxAuthorLen = 63
)

// Entry is one in-memory library entry (spec.md §3 "Library Entry").
type Entry struct {
	Filename  string
	Title     string
	Author    string
	PageCount uint16
	Progress  uint8
}

var caseFold = cases.Fold()

func sortKey(e Entry) string {
	return caseFold.String(e.Author) + "\x00" + caseFold.String(e.Title) + "\x00" + caseFold.String(e.Filename)
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return sortKey(entries[i]) < sortKey(entries[j])
	})
}

// parentDir returns the slash-separated parent of path, or "" if path has
// no parent segment. sdk.FS paths are always forward-slash joined (see
// scanBooks), so this avoids path/filepath's OS-specific separator.
func parentDir(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}

func clamp(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func computeProgress(saved uint32, ok bool, pageCount uint16) uint8 {
	if !ok || pageCount < 2 {
		return 0
	}
	p := int(saved) * 100 / (int(pageCount) - 1)
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}
	return uint8(p)
}

// fsStream adapts an sdk.File (io.ReadWriteSeeker) to xtc.Stream.
type fsStream struct {
	f sdk.File
}

func (s *fsStream) Seek(pos uint64) error {
	_, err := s.f.Seek(int64(pos), io.SeekStart)
	return err
}

func (s *fsStream) Read(buf []byte) (int, error) {
	n, err := s.f.Read(buf)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}

// LoadBooks implements spec.md §4.7 step 1-3: mount the filesystem,
// attempt the catalog fast path, and fall back to a directory scan. It
// returns the sorted entries and whether an overflow past MaxEntries
// occurred.
func LoadBooks(fsys sdk.FS, store *position.Store, booksDir, catalogPath string, log *xlog.Logger) ([]Entry, bool, error) {
	if !fsys.MountCheck() {
		if err := fsys.Mount(); err != nil {
			return nil, false, errors.Wrap(err, "library: mount filesystem")
		}
	}

	if entries, overflow, ok := loadFromCatalog(fsys, store, catalogPath, log); ok {
		return entries, overflow, nil
	}

	entries, err := scanBooks(fsys, store, booksDir, log)
	if err != nil {
		return nil, false, err
	}
	rewriteCatalog(fsys, catalogPath, entries, log)
	overflow := len(entries) > MaxEntries
	if overflow {
		entries = entries[:MaxEntries]
	}
	return entries, overflow, nil
}

// RefreshBooks implements spec.md §4.7 refresh_books: delete the catalog
// (ignoring a missing file) and re-run the scan path unconditionally.
func RefreshBooks(fsys sdk.FS, store *position.Store, booksDir, catalogPath string, log *xlog.Logger) ([]Entry, bool, error) {
	if !fsys.MountCheck() {
		if err := fsys.Mount(); err != nil {
			return nil, false, errors.Wrap(err, "library: mount filesystem")
		}
	}
	// A missing catalog is not an error worth surfacing; any removal
	// failure is logged and the scan proceeds regardless (spec.md §4.7
	// "ignoring NotFound").
	if err := fsys.Remove(catalogPath); err != nil && log != nil {
		log.Debug("library: remove catalog %s: %v", catalogPath, err)
	}
	entries, err := scanBooks(fsys, store, booksDir, log)
	if err != nil {
		return nil, false, err
	}
	rewriteCatalog(fsys, catalogPath, entries, log)
	overflow := len(entries) > MaxEntries
	if overflow {
		entries = entries[:MaxEntries]
	}
	return entries, overflow, nil
}

// loadFromCatalog loads entries from the on-disk catalog, sorts them, and
// truncates to MaxEntries (spec.md §3's fixed-capacity array), reporting
// whether the catalog held more than MaxEntries records.
func loadFromCatalog(fsys sdk.FS, store *position.Store, catalogPath string, log *xlog.Logger) ([]Entry, bool, bool) {
	f, err := fsys.Open(catalogPath, sdk.OpenRead)
	if err != nil {
		return nil, false, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, false, false
	}

	recs := make([]catalog.Record, catalog.MaxBooks)
	n, err := catalog.Decode(data, recs)
	if err != nil {
		if log != nil {
			log.Warn("library: catalog decode: %v", err)
		}
		return nil, false, false
	}

	entries := make([]Entry, 0, n)
	for _, rec := range recs[:n] {
		saved, ok := store.Load(rec.Filename)
		entries = append(entries, Entry{
			Filename:  rec.Filename,
			Title:     rec.Title,
			Author:    rec.Author,
			PageCount: rec.PageCount,
			Progress:  computeProgress(saved, ok, rec.PageCount),
		})
	}
	sortEntries(entries)
	overflow := len(entries) > MaxEntries
	if overflow {
		entries = entries[:MaxEntries]
	}
	return entries, overflow, true
}

func scanBooks(fsys sdk.FS, store *position.Store, booksDir string, log *xlog.Logger) ([]Entry, error) {
	dirEntries, err := fsys.ReadDir(booksDir)
	if err != nil {
		return nil, errors.Wrap(err, "library: read books directory")
	}

	var out []Entry
	for _, de := range dirEntries {
		if de.IsDir {
			continue
		}
		if strings.HasPrefix(de.Name, ".") {
			continue
		}
		lower := strings.ToLower(de.Name)
		if !strings.HasSuffix(lower, ".xtc") && !strings.HasSuffix(lower, ".xtch") {
			continue
		}

		entry := Entry{Filename: de.Name, Title: de.Name}
		path := booksDir + "/" + de.Name
		if f, err := fsys.Open(path, sdk.OpenRead); err == nil {
			probeBook(f, &entry, log, de.Name)
			f.Close()
		}

		saved, ok := store.Load(de.Name)
		entry.Progress = computeProgress(saved, ok, entry.PageCount)
		entry.Title = clamp(entry.Title, maxTitleLen)
		entry.Author = clamp(entry.Author, maxAuthorLen)
		out = append(out, entry)
	}
	sortEntries(out)
	return out, nil
}

func probeBook(f sdk.File, entry *Entry, log *xlog.Logger, name string) {
	rdr, err := xtc.Open(&fsStream{f: f})
	if err != nil {
		if log != nil {
			log.Debug("library: %s: falling back to filename title: %v", name, err)
		}
		return
	}
	entry.PageCount = uint16(rdr.PageCount())
	meta, err := rdr.ReadMetadata()
	if err != nil {
		return
	}
	if meta.Title != "" {
		entry.Title = meta.Title
	}
	entry.Author = meta.Author
}

func rewriteCatalog(fsys sdk.FS, catalogPath string, entries []Entry, log *xlog.Logger) {
	recs := make([]catalog.Record, len(entries))
	for i, e := range entries {
		recs[i] = catalog.Record{
			Title:     e.Title,
			Author:    e.Author,
			PageCount: e.PageCount,
			Progress:  e.Progress,
			Filename:  e.Filename,
		}
	}
	buf := make([]byte, catalog.HeaderSize+len(recs)*catalog.RecordSize)
	n := catalog.Encode(buf, recs)
	if n == 0 && len(recs) > 0 {
		if log != nil {
			log.Warn("library: catalog encode failed for %d records", len(recs))
		}
		return
	}

	// The catalog's ancestor directories are created as needed (spec.md
	// §6): a fresh install has no .xtcreader/ yet, and Open would otherwise
	// fail on the very first write.
	if dir := parentDir(catalogPath); dir != "" {
		if err := fsys.MkdirAll(dir); err != nil {
			if log != nil {
				log.Warn("library: mkdir catalog parent %s: %v", dir, err)
			}
			return
		}
	}

	f, err := fsys.Open(catalogPath, sdk.OpenWrite)
	if err != nil {
		if log != nil {
			log.Warn("library: open catalog for write: %v", err)
		}
		return
	}
	defer f.Close()
	if _, err := f.Write(buf[:n]); err != nil && log != nil {
		log.Warn("library: write catalog: %v", err)
	}
}
