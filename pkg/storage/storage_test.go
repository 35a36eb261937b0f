package storage

import (
	"bytes"
	"path/filepath"
	"testing"
)

func openTestPager(t *testing.T) *Pager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	io, err := OpenDirectFileIo(path)
	if err != nil {
		t.Fatalf("OpenDirectFileIo: %v", err)
	}
	t.Cleanup(func() { io.Close() })
	pager, err := NewPager(io)
	if err != nil {
		t.Fatalf("NewPager: %v", err)
	}
	return pager
}

func TestPageEmptyOccupiedIsTwo(t *testing.T) {
	p := NewPage()
	if p.Occupied() != PageHeaderSize {
		t.Fatalf("Occupied() = %d, want %d", p.Occupied(), PageHeaderSize)
	}
	if p.Free() != PageSize-PageHeaderSize {
		t.Fatalf("Free() = %d", p.Free())
	}
}

func TestPageWriteAtClampsToOccupied(t *testing.T) {
	p := NewPage()
	p.Write([]byte("hello"))
	if p.Occupied() != PageHeaderSize+5 {
		t.Fatalf("Occupied() = %d", p.Occupied())
	}
	n := p.WriteAt([]byte("world"), 0)
	if n != 5 {
		t.Fatalf("WriteAt returned %d", n)
	}
	out := make([]byte, 10)
	m := p.ReadAt(out, PageHeaderSize)
	if m != 10 || string(out) != "helloworld" {
		t.Fatalf("got %q", out[:m])
	}
}

func TestPageReplaceAtNeverShrinksOccupied(t *testing.T) {
	p := NewPage()
	p.Write([]byte("abcdef"))
	before := p.Occupied()
	p.ReplaceAt([]byte("xy"), PageHeaderSize)
	if p.Occupied() != before {
		t.Fatalf("Occupied() = %d, want unchanged %d", p.Occupied(), before)
	}
	out := make([]byte, 6)
	p.ReadAt(out, PageHeaderSize)
	if string(out) != "xycdef" {
		t.Fatalf("got %q", out)
	}
}

func TestPageReplaceAtGrowsOccupiedPastEnd(t *testing.T) {
	p := NewPage()
	p.Write([]byte("ab"))
	p.ReplaceAt([]byte("wxyz"), PageHeaderSize)
	if p.Occupied() != PageHeaderSize+4 {
		t.Fatalf("Occupied() = %d", p.Occupied())
	}
}

func TestPageEraseAtZeroFillsWithoutChangingOccupied(t *testing.T) {
	p := NewPage()
	p.Write([]byte("abcdef"))
	before := p.Occupied()
	p.EraseAt(3, PageHeaderSize)
	if p.Occupied() != before {
		t.Fatalf("Occupied() changed: %d vs %d", p.Occupied(), before)
	}
	out := make([]byte, 3)
	p.ReadAt(out, PageHeaderSize)
	if !bytes.Equal(out, []byte{0, 0, 0}) {
		t.Fatalf("expected zero-fill, got %v", out)
	}
}

func TestPagerWriteSpansMultiplePages(t *testing.T) {
	pager := openTestPager(t)
	payload := bytes.Repeat([]byte{0xAB}, 100000)
	pos, err := pager.Write(payload)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if pos.Page != 0 || pos.InPage != PageHeaderSize {
		t.Fatalf("first write should land at (0,2), got %+v", pos)
	}
	out := make([]byte, len(payload))
	if err := pager.ReadAt(out, pos); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("round-tripped bytes mismatch")
	}
}

func TestPagerSequentialWritesDoNotOverlap(t *testing.T) {
	pager := openTestPager(t)
	a := bytes.Repeat([]byte{1}, 5000)
	b := bytes.Repeat([]byte{2}, 5000)

	posA, err := pager.Write(a)
	if err != nil {
		t.Fatalf("Write a: %v", err)
	}
	posB, err := pager.Write(b)
	if err != nil {
		t.Fatalf("Write b: %v", err)
	}

	outA := make([]byte, len(a))
	if err := pager.ReadAt(outA, posA); err != nil {
		t.Fatalf("ReadAt a: %v", err)
	}
	outB := make([]byte, len(b))
	if err := pager.ReadAt(outB, posB); err != nil {
		t.Fatalf("ReadAt b: %v", err)
	}
	if !bytes.Equal(outA, a) || !bytes.Equal(outB, b) {
		t.Fatalf("sequential writes overlapped")
	}
}

func TestPagerReplaceAtSameSizeInPlace(t *testing.T) {
	pager := openTestPager(t)
	orig := bytes.Repeat([]byte{9}, 20)
	pos, err := pager.Write(orig)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	replacement := bytes.Repeat([]byte{7}, 20)
	if err := pager.ReplaceAt(replacement, pos); err != nil {
		t.Fatalf("ReplaceAt: %v", err)
	}
	out := make([]byte, 20)
	if err := pager.ReadAt(out, pos); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(out, replacement) {
		t.Fatalf("replace did not take effect")
	}
}

func TestAdvanceStaysWithinPageWhenNoBoundaryCrossed(t *testing.T) {
	pos := Advance(Position{Page: 2, InPage: 100}, 50)
	want := Position{Page: 2, InPage: 150}
	if pos != want {
		t.Fatalf("Advance = %+v, want %+v", pos, want)
	}
}

func TestAdvanceSkipsHeaderOnSinglePageCrossing(t *testing.T) {
	// 10 bytes remain on the page (4096-4086); advancing by 10 lands exactly
	// on the next page's first content byte, past its 2-byte header.
	pos := Advance(Position{Page: 0, InPage: 4086}, 10)
	want := Position{Page: 1, InPage: PageHeaderSize}
	if pos != want {
		t.Fatalf("Advance = %+v, want %+v", pos, want)
	}
}

func TestAdvanceSkipsHeaderOnEachMultiPageCrossing(t *testing.T) {
	// 10 bytes remain on page 0; each subsequent page offers 4094 usable
	// bytes. Advancing across two full pages plus 5 bytes into a third.
	n := uint64(10) + uint64(PageSize-PageHeaderSize)*2 + 5
	pos := Advance(Position{Page: 0, InPage: 4086}, n)
	want := Position{Page: 3, InPage: PageHeaderSize + 5}
	if pos != want {
		t.Fatalf("Advance = %+v, want %+v", pos, want)
	}
}

func TestPositionByteOffsetRoundTrip(t *testing.T) {
	cases := []Position{
		{Page: 0, InPage: 2},
		{Page: 1, InPage: 0},
		{Page: 42, InPage: 4095},
	}
	for _, c := range cases {
		off := c.ByteOffset()
		got := PositionFromByteOffset(off)
		if got != c {
			t.Fatalf("round trip mismatch: %+v -> %d -> %+v", c, off, got)
		}
	}
}

func TestWriteBehindFlushesAtCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wb.bin")
	inner, err := OpenDirectFileIo(path)
	if err != nil {
		t.Fatalf("OpenDirectFileIo: %v", err)
	}
	defer inner.Close()

	wb := NewWriteBehindFileIO(inner, 2)
	pager, err := NewPager(wb)
	if err != nil {
		t.Fatalf("NewPager: %v", err)
	}
	if _, err := pager.Write([]byte("first")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := inner.Stats()["writes"]; got != 0 {
		t.Fatalf("page writes below capacity = %d, want 0", got)
	}
	// Spans pages 0 and 1, so the batch holds two pages and reaches capacity.
	if _, err := pager.Write(bytes.Repeat([]byte{0xCD}, PageSize)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := inner.Stats()["writes"]; got != 2 {
		t.Fatalf("page writes at capacity = %d, want 2", got)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
