package storage

// Position is a logical (page, in-page-offset) cursor into a pager's byte stream.
type Position struct {
	Page   uint64
	InPage uint16
}

// ByteOffset converts a Position to a flat file-byte offset, valid because
// every page is a uniform PageSize frame starting at file byte 0.
func (p Position) ByteOffset() uint64 {
	return p.Page*PageSize + uint64(p.InPage)
}

// PositionFromByteOffset is the inverse of Position.ByteOffset, used to turn a
// RecordId.Offset back into a page-relative position.
func PositionFromByteOffset(offset uint64) Position {
	return Position{Page: offset / PageSize, InPage: uint16(offset % PageSize)}
}

// Advance returns the position n logical bytes after pos, skipping the
// 2-byte header at the start of every page boundary crossed along the way.
// ByteOffset/PositionFromByteOffset are plain file addresses and must not be
// used to simulate "n bytes later in the record stream" by adding n directly:
// whenever that span crosses a page boundary it would miss the header bytes
// the pager actually interposes there. Advance is the span-aware equivalent.
func Advance(pos Position, n uint64) Position {
	avail := uint64(PageSize) - uint64(pos.InPage)
	if n < avail {
		return Position{Page: pos.Page, InPage: pos.InPage + uint16(n)}
	}
	n -= avail
	bodyPerPage := uint64(PageSize - PageHeaderSize)
	page := pos.Page + 1 + n/bodyPerPage
	remainder := uint16(n % bodyPerPage)
	return Position{Page: page, InPage: PageHeaderSize + remainder}
}

// Pager is the logical byte stream spanning a sequence of pages behind a
// FileIO. It tracks last_free_page, the highest page index it has written.
type Pager struct {
	io           FileIO
	lastFreePage uint64
}

// NewPager opens a Pager over io, probing the file's current logical tail.
func NewPager(io FileIO) (*Pager, error) {
	idx, _, err := io.Occupied()
	if err != nil {
		return nil, err
	}
	return &Pager{io: io, lastFreePage: idx}, nil
}

// Tail returns the pager's current logical append position.
func (p *Pager) Tail() (Position, error) {
	page, err := p.io.LoadPage(p.lastFreePage)
	if err != nil {
		return Position{}, err
	}
	if page.Occupied() >= PageSize {
		return Position{Page: p.lastFreePage + 1, InPage: PageHeaderSize}, nil
	}
	return Position{Page: p.lastFreePage, InPage: page.Occupied()}, nil
}

// ReadAt reads len(buf) bytes starting at pos, skipping the 2-byte header of
// every page boundary crossed.
func (p *Pager) ReadAt(buf []byte, pos Position) error {
	page, err := p.io.LoadPage(pos.Page)
	if err != nil {
		return err
	}
	n := page.ReadAt(buf, pos.InPage)
	remaining := buf[n:]
	pageIdx := pos.Page
	for len(remaining) > 0 {
		pageIdx++
		page, err = p.io.LoadPage(pageIdx)
		if err != nil {
			return err
		}
		m := page.ReadAt(remaining, PageHeaderSize)
		if m == 0 {
			return ErrShortRead
		}
		remaining = remaining[m:]
	}
	return nil
}

// WriteAt writes buf starting at pos using append semantics on the first page
// (Page.WriteAt) and on every subsequent page, flushing each touched page in order.
func (p *Pager) WriteAt(buf []byte, pos Position) error {
	return p.spanningWrite(buf, pos, (*Page).WriteAt)
}

// ReplaceAt writes buf starting at pos using unconditional overwrite semantics
// (Page.ReplaceAt) on every touched page.
func (p *Pager) ReplaceAt(buf []byte, pos Position) error {
	return p.spanningWrite(buf, pos, (*Page).ReplaceAt)
}

func (p *Pager) spanningWrite(buf []byte, pos Position, op func(*Page, []byte, uint16) int) error {
	page, err := p.io.LoadPage(pos.Page)
	if err != nil {
		return err
	}
	n := op(page, buf, pos.InPage)
	if err := p.io.FlushPage(pos.Page, page); err != nil {
		return err
	}
	remaining := buf[n:]
	pageIdx := pos.Page
	for len(remaining) > 0 {
		pageIdx++
		page, err = p.io.LoadPage(pageIdx)
		if err != nil {
			return err
		}
		m := op(page, remaining, PageHeaderSize)
		if err := p.io.FlushPage(pageIdx, page); err != nil {
			return err
		}
		if m == 0 {
			return ErrShortRead
		}
		remaining = remaining[m:]
	}
	if pageIdx > p.lastFreePage {
		p.lastFreePage = pageIdx
	}
	return nil
}

// EraseAt zero-fills n bytes starting at pos, spanning pages as needed.
func (p *Pager) EraseAt(n int, pos Position) error {
	page, err := p.io.LoadPage(pos.Page)
	if err != nil {
		return err
	}
	avail := int(PageSize - pos.InPage)
	first := n
	if first > avail {
		first = avail
	}
	page.EraseAt(first, pos.InPage)
	if err := p.io.FlushPage(pos.Page, page); err != nil {
		return err
	}
	remaining := n - first
	pageIdx := pos.Page
	for remaining > 0 {
		pageIdx++
		page, err = p.io.LoadPage(pageIdx)
		if err != nil {
			return err
		}
		avail = int(PageSize - PageHeaderSize)
		chunk := remaining
		if chunk > avail {
			chunk = avail
		}
		page.EraseAt(chunk, PageHeaderSize)
		if err := p.io.FlushPage(pageIdx, page); err != nil {
			return err
		}
		remaining -= chunk
	}
	return nil
}

// Write appends buf at the pager's logical tail.
func (p *Pager) Write(buf []byte) (Position, error) {
	tail, err := p.Tail()
	if err != nil {
		return Position{}, err
	}
	if err := p.WriteAt(buf, tail); err != nil {
		return Position{}, err
	}
	return tail, nil
}
