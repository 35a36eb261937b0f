package collection

import (
	"encoding/binary"

	"github.com/mnohosten/vanilladb/pkg/document"
	"github.com/mnohosten/vanilladb/pkg/storage"
)

// Cursor walks a Collection's document stream forward, one slot at a time.
type Cursor struct {
	pager *storage.Pager
	pos   storage.Position
}

// Offset returns the cursor's current byte offset into the stream, suitable
// for storing as a RecordId.
func (c *Cursor) Offset() uint64 {
	return c.pos.ByteOffset()
}

func (c *Cursor) bodyPosition() storage.Position {
	return storage.Advance(c.pos, 4)
}

// CurrentDocumentSize returns the current slot's total size (header + body).
// A zero header marks the logical end of the stream.
func (c *Cursor) CurrentDocumentSize() (uint32, error) {
	header := make([]byte, 4)
	if err := c.pager.ReadAt(header, c.pos); err != nil {
		return 0, err
	}
	slotSize := binary.LittleEndian.Uint32(header)
	if slotSize == 0 {
		return 0, ErrEndOfStream
	}
	return slotSize, nil
}

// IsCurrentDocumentRemoved reports whether the current slot's body is all
// zero bytes, the tombstone convention RemoveCurrentDocument leaves behind.
func (c *Cursor) IsCurrentDocumentRemoved() (bool, error) {
	slotSize, err := c.CurrentDocumentSize()
	if err != nil {
		return false, err
	}
	body := make([]byte, slotSize-4)
	if err := c.pager.ReadAt(body, c.bodyPosition()); err != nil {
		return false, err
	}
	for _, b := range body {
		if b != 0 {
			return false, nil
		}
	}
	return true, nil
}

// ReadCurrentDocument decodes the document at the cursor's current slot.
func (c *Cursor) ReadCurrentDocument() (*document.Document, error) {
	slotSize, err := c.CurrentDocumentSize()
	if err != nil {
		return nil, err
	}
	removed, err := c.IsCurrentDocumentRemoved()
	if err != nil {
		return nil, err
	}
	if removed {
		return nil, ErrCursorNotOnTombstone
	}
	body := make([]byte, slotSize-4)
	if err := c.pager.ReadAt(body, c.bodyPosition()); err != nil {
		return nil, err
	}
	doc, _, err := document.Decode(body)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// NextDocument advances the cursor past the current slot, using its header to
// skip exactly slot_size bytes regardless of how much of the slot a reinserted
// document actually occupies.
func (c *Cursor) NextDocument() error {
	slotSize, err := c.CurrentDocumentSize()
	if err != nil {
		return err
	}
	c.pos = storage.Advance(c.pos, uint64(slotSize))
	return nil
}

// RemoveCurrentDocument tombstones the current slot by zero-filling its body.
// The slot-size header is left untouched so the stream can still be walked.
func (c *Cursor) RemoveCurrentDocument() error {
	slotSize, err := c.CurrentDocumentSize()
	if err != nil {
		return err
	}
	removed, err := c.IsCurrentDocumentRemoved()
	if err != nil {
		return err
	}
	if removed {
		return ErrCursorNotOnTombstone
	}
	return c.pager.EraseAt(int(slotSize-4), c.bodyPosition())
}

// InsertDocument reuses the current tombstoned slot for doc, failing if doc's
// encoded size does not fit the gap. When at least 4 bytes of slack remain
// after the new body, a trailer recording the slack length is written after
// it; the slot-size header itself is never altered, so NextDocument's skip
// distance is unaffected by how small a document ends up occupying the gap.
func (c *Cursor) InsertDocument(doc *document.Document) error {
	slotSize, err := c.CurrentDocumentSize()
	if err != nil {
		return err
	}
	removed, err := c.IsCurrentDocumentRemoved()
	if err != nil {
		return err
	}
	if !removed {
		return ErrCursorNotOnTombstone
	}
	body := doc.Encode()
	needed := uint32(4 + len(body))
	if needed > slotSize {
		return ErrDocumentTooLargeForGap
	}
	bodyPos := c.bodyPosition()
	if err := c.pager.ReplaceAt(body, bodyPos); err != nil {
		return err
	}
	slack := slotSize - needed
	if slack >= 4 {
		trailerPos := storage.Advance(bodyPos, uint64(len(body)))
		trailer := make([]byte, 4)
		binary.LittleEndian.PutUint32(trailer, slack)
		if err := c.pager.ReplaceAt(trailer, trailerPos); err != nil {
			return err
		}
	}
	return nil
}
