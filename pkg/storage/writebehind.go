package storage

import "sync"

// WriteBehindFileIO wraps a DirectFileIo with a small fixed-capacity batching
// layer: FlushPage buffers pages in memory and only hits the underlying file
// once the batch fills, per the optional write-behind allowance in the
// concurrency model. Close flushes any remaining pages and is idempotent.
type WriteBehindFileIO struct {
	mu       sync.Mutex
	inner    *DirectFileIo
	capacity int
	order    []uint64
	pending  map[uint64]*Page
	closed   bool
}

// NewWriteBehindFileIO wraps inner with a batch of the given capacity (at least 1).
func NewWriteBehindFileIO(inner *DirectFileIo, capacity int) *WriteBehindFileIO {
	if capacity < 1 {
		capacity = 1
	}
	return &WriteBehindFileIO{
		inner:    inner,
		capacity: capacity,
		pending:  make(map[uint64]*Page),
	}
}

// LoadPage returns a buffered page if one is pending, else delegates to the inner FileIO.
func (w *WriteBehindFileIO) LoadPage(index uint64) (*Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.pending[index]; ok {
		return p, nil
	}
	return w.inner.LoadPage(index)
}

// FlushPage buffers the page; once the batch reaches capacity, the whole batch is flushed.
func (w *WriteBehindFileIO) FlushPage(index uint64, page *Page) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.pending[index]; !exists {
		w.order = append(w.order, index)
	}
	w.pending[index] = page
	if len(w.pending) < w.capacity {
		return nil
	}
	return w.flushAllLocked()
}

func (w *WriteBehindFileIO) flushAllLocked() error {
	for len(w.order) > 0 {
		idx := w.order[0]
		w.order = w.order[1:]
		page, ok := w.pending[idx]
		if !ok {
			continue
		}
		delete(w.pending, idx)
		if err := w.inner.FlushPage(idx, page); err != nil {
			return err
		}
	}
	return nil
}

// Occupied reports the append point, accounting for pages still pending in the batch.
func (w *WriteBehindFileIO) Occupied() (uint64, uint16, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.order) > 0 {
		idx := w.order[len(w.order)-1]
		return idx, w.pending[idx].Occupied(), nil
	}
	return w.inner.Occupied()
}

// Close flushes any remaining buffered pages and closes the inner file. Safe to call more than once.
func (w *WriteBehindFileIO) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	if err := w.flushAllLocked(); err != nil {
		return err
	}
	if err := w.inner.Close(); err != nil {
		return err
	}
	w.closed = true
	return nil
}
