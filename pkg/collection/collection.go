// Package collection implements the append-only document stream built on top
// of a Pager: each record is a 4-byte little-endian slot-size header followed
// by a document's own self-framed bytes. After a gap reuse, the remainder of
// the slot holds a 4-byte slack trailer (when at least 4 bytes remain) and
// zero padding, all of which a Cursor skips over.
package collection

import (
	"encoding/binary"

	"github.com/mnohosten/vanilladb/pkg/document"
	"github.com/mnohosten/vanilladb/pkg/storage"
)

// Collection is an append-only stream of documents over a single data file.
type Collection struct {
	pager *storage.Pager
}

// Open attaches a Collection to io, an already-opened FileIO.
func Open(io storage.FileIO) (*Collection, error) {
	pager, err := storage.NewPager(io)
	if err != nil {
		return nil, err
	}
	return &Collection{pager: pager}, nil
}

// InsertDocument appends doc at the collection's logical tail and returns the
// position its slot header starts at.
func (c *Collection) InsertDocument(doc *document.Document) (storage.Position, error) {
	body := doc.Encode()
	slotSize := uint32(4 + len(body))
	buf := make([]byte, slotSize)
	binary.LittleEndian.PutUint32(buf[0:4], slotSize)
	copy(buf[4:], body)
	return c.pager.Write(buf)
}

// Cursor returns a new cursor positioned at the start of the stream.
func (c *Collection) Cursor() *Cursor {
	return &Cursor{pager: c.pager, pos: storage.Position{Page: 0, InPage: storage.PageHeaderSize}}
}

// CursorAt returns a new cursor positioned at an arbitrary byte offset, used
// to resume from a RecordId captured by an index.
func (c *Collection) CursorAt(offset uint64) *Cursor {
	return &Cursor{pager: c.pager, pos: storage.PositionFromByteOffset(offset)}
}
