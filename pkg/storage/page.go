package storage

import "encoding/binary"

// PageSize is the fixed size of every frame this engine reads or writes.
const PageSize = 4096

// PageHeaderSize is the width of the occupancy header at the front of every page.
const PageHeaderSize = 2

// Page is a 4096-byte frame. The first two bytes hold occupied as a little-endian
// u16: the count of used bytes including the header itself, so an empty page
// reports occupied() == 2.
type Page struct {
	buf   [PageSize]byte
	dirty bool
}

// NewPage returns a freshly allocated, empty page.
func NewPage() *Page {
	p := &Page{}
	p.setOccupied(PageHeaderSize)
	return p
}

func (p *Page) setOccupied(v uint16) {
	binary.LittleEndian.PutUint16(p.buf[0:2], v)
}

// Occupied returns the stored header value.
func (p *Page) Occupied() uint16 {
	return binary.LittleEndian.Uint16(p.buf[0:2])
}

// Free returns 4096 - occupied().
func (p *Page) Free() uint16 {
	return PageSize - p.Occupied()
}

// Dirty reports whether the page has been mutated since the last Flush.
func (p *Page) Dirty() bool {
	return p.dirty
}

// Flush clears the dirty flag; the caller is responsible for persisting the bytes.
func (p *Page) Flush() {
	p.dirty = false
}

// Bytes exposes the page's full 4096-byte frame for direct I/O.
func (p *Page) Bytes() []byte {
	return p.buf[:]
}

// LoadBytes overwrites the page's frame wholesale, e.g. after a DirectFileIo read.
func (p *Page) LoadBytes(buf []byte) {
	copy(p.buf[:], buf)
}

// Write appends buf at the current occupied offset, writing min(len(buf), Free()) bytes.
func (p *Page) Write(buf []byte) int {
	return p.WriteAt(buf, p.Occupied())
}

// WriteAt writes buf starting at off. If off < occupied, off is clamped up to
// occupied (append semantics: a live prefix is never overwritten). Otherwise
// up to 4096-off bytes are copied and occupied advances to off+written.
func (p *Page) WriteAt(buf []byte, off uint16) int {
	occ := p.Occupied()
	if off < occ {
		off = occ
	}
	if off > PageSize {
		return 0
	}
	avail := int(PageSize - off)
	n := len(buf)
	if n > avail {
		n = avail
	}
	copy(p.buf[off:int(off)+n], buf[:n])
	p.setOccupied(off + uint16(n))
	p.dirty = true
	return n
}

// ReplaceAt unconditionally overwrites in place starting at off. occupied
// only ever grows: a rewrite of a record that isn't the last one on the page
// must not shrink occupied and discard whatever records follow it, so
// occupied is raised to off+written only if that exceeds the current value.
func (p *Page) ReplaceAt(buf []byte, off uint16) int {
	if off > PageSize {
		return 0
	}
	avail := int(PageSize - off)
	n := len(buf)
	if n > avail {
		n = avail
	}
	copy(p.buf[off:int(off)+n], buf[:n])
	if newOccupied := off + uint16(n); newOccupied > p.Occupied() {
		p.setOccupied(newOccupied)
	}
	p.dirty = true
	return n
}

// EraseAt zero-fills n bytes starting at off without changing occupied.
func (p *Page) EraseAt(n int, off uint16) {
	if off > PageSize {
		return
	}
	end := int(off) + n
	if end > PageSize {
		end = PageSize
	}
	for i := int(off); i < end; i++ {
		p.buf[i] = 0
	}
	p.dirty = true
}

// ReadAt copies up to min(len(buf), 4096-off) bytes out starting at off, returning the count copied.
func (p *Page) ReadAt(buf []byte, off uint16) int {
	if off > PageSize {
		return 0
	}
	avail := int(PageSize - off)
	n := len(buf)
	if n > avail {
		n = avail
	}
	copy(buf[:n], p.buf[off:int(off)+n])
	return n
}
