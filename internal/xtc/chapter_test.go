package xtc

import "testing"

// Scenario 4: chapter list with pages = [p0, p1] and chapters
// ("Ch1", start=1, end=2), ("SkipMe", start=99, end=99) — iteration yields
// exactly one record ("Ch1", 0, 1).
func TestForEachChapter_SkipsOutOfRange(t *testing.T) {
	b := newContainerBuilder(1)
	b.addPage(8, 1, []byte{0})
	b.addPage(8, 1, []byte{0})
	b.chapters = []rawChapter{
		{name: "Ch1", start: 1, end: 2},
		{name: "SkipMe", start: 99, end: 99},
	}
	data := b.build()

	r, err := Open(NewMemStream(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var got []Chapter
	err = r.ForEachChapter(func(c Chapter) error {
		got = append(got, c)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachChapter: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d chapters, want 1: %+v", len(got), got)
	}
	if got[0].Name != "Ch1" || got[0].Start != 0 || got[0].End != 1 {
		t.Fatalf("chapter = %+v, want {Ch1 0 1}", got[0])
	}
}

func TestForEachChapter_NoOpWithoutFlag(t *testing.T) {
	b := newContainerBuilder(1)
	b.addPage(8, 1, []byte{0})
	data := b.build()
	r, err := Open(NewMemStream(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	called := false
	if err := r.ForEachChapter(func(Chapter) error { called = true; return nil }); err != nil {
		t.Fatalf("ForEachChapter: %v", err)
	}
	if called {
		t.Fatal("callback invoked despite has_chapters == false")
	}
}

// Property: chapter 0-based conversion for any 1 ≤ s ≤ e ≤ page_count.
func TestForEachChapter_ZeroBasedConversion(t *testing.T) {
	pageCount := 10
	cases := []struct{ s, e uint16 }{
		{1, 1}, {1, 10}, {5, 5}, {3, 7}, {10, 10},
	}
	for _, c := range cases {
		b := newContainerBuilder(1)
		for i := 0; i < pageCount; i++ {
			b.addPage(8, 1, []byte{0})
		}
		b.chapters = []rawChapter{{name: "X", start: c.s, end: c.e}}
		data := b.build()
		r, err := Open(NewMemStream(data))
		if err != nil {
			t.Fatalf("s=%d e=%d Open: %v", c.s, c.e, err)
		}
		var got Chapter
		found := false
		err = r.ForEachChapter(func(ch Chapter) error {
			got = ch
			found = true
			return nil
		})
		if err != nil {
			t.Fatalf("s=%d e=%d ForEachChapter: %v", c.s, c.e, err)
		}
		if !found {
			t.Fatalf("s=%d e=%d: chapter not yielded", c.s, c.e)
		}
		if got.Start != int(c.s)-1 || got.End != int(c.e)-1 {
			t.Fatalf("s=%d e=%d: got (%d,%d), want (%d,%d)", c.s, c.e, got.Start, got.End, c.s-1, c.e-1)
		}
	}
}

func TestForEachChapter_EndClampedToPageCount(t *testing.T) {
	b := newContainerBuilder(1)
	b.addPage(8, 1, []byte{0})
	b.addPage(8, 1, []byte{0})
	b.chapters = []rawChapter{{name: "Over", start: 1, end: 50}}
	data := b.build()
	r, err := Open(NewMemStream(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var got Chapter
	err = r.ForEachChapter(func(ch Chapter) error {
		got = ch
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachChapter: %v", err)
	}
	if got.End != 1 { // page_count(2) - 1
		t.Fatalf("End = %d, want 1 (clamped)", got.End)
	}
}

func TestForEachChapter_StopsAtTerminator(t *testing.T) {
	b := newContainerBuilder(1)
	for i := 0; i < 3; i++ {
		b.addPage(8, 1, []byte{0})
	}
	b.chapters = []rawChapter{
		{name: "First", start: 1, end: 1},
		{name: "", start: 0, end: 0}, // terminator
		{name: "Unreachable", start: 2, end: 3},
	}
	data := b.build()
	r, err := Open(NewMemStream(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var names []string
	err = r.ForEachChapter(func(c Chapter) error {
		names = append(names, c.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachChapter: %v", err)
	}
	if len(names) != 1 || names[0] != "First" {
		t.Fatalf("names = %v, want [First]", names)
	}
}
