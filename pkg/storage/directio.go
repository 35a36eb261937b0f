package storage

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/mnohosten/vanilladb/pkg/concurrent"
)

// FileIO is the minimal page-level I/O surface the Pager and the B+ tree
// depend on. DirectFileIo is the synchronous, write-through implementation;
// WriteBehindFileIO wraps it with a small batching layer.
type FileIO interface {
	LoadPage(index uint64) (*Page, error)
	FlushPage(index uint64, page *Page) error
	Occupied() (pageIdx uint64, offset uint16, err error)
	Close() error
}

// DirectFileIo performs aligned whole-page I/O against a single file opened
// with O_DIRECT. It has no internal synchronization: callers own exclusive
// access to the handle, matching the single-writer model of the engine.
type DirectFileIo struct {
	file *os.File

	reads  *concurrent.Counter
	writes *concurrent.Counter
}

// OpenDirectFileIo opens (creating if necessary) the file at path for direct,
// synchronous read/write access.
func OpenDirectFileIo(path string) (*DirectFileIo, error) {
	fd, err := unix.Open(path, unix.O_DIRECT|unix.O_SYNC|unix.O_RDWR|unix.O_CREAT, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailed, path, err)
	}
	return &DirectFileIo{
		file:   os.NewFile(uintptr(fd), path),
		reads:  concurrent.NewCounter(),
		writes: concurrent.NewCounter(),
	}, nil
}

// LoadPage reads exactly PageSize bytes at index*PageSize. A short read past
// end-of-file yields a zero-filled, freshly-initialized page rather than an error.
func (d *DirectFileIo) LoadPage(index uint64) (*Page, error) {
	buf := alignedBuffer(PageSize)
	n, err := d.file.ReadAt(buf, int64(index)*PageSize)
	d.reads.Inc()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("storage: read page %d: %w", index, err)
	}
	page := NewPage()
	if n == PageSize {
		page.LoadBytes(buf)
	}
	return page, nil
}

// FlushPage writes the page's full frame at index*PageSize and clears its dirty flag.
func (d *DirectFileIo) FlushPage(index uint64, page *Page) error {
	buf := alignedBuffer(PageSize)
	copy(buf, page.Bytes())
	if _, err := d.file.WriteAt(buf, int64(index)*PageSize); err != nil {
		return fmt.Errorf("storage: write page %d: %w", index, err)
	}
	d.writes.Inc()
	page.Flush()
	return nil
}

// Occupied returns the logical append point: the last page with occupied > 2,
// or (0, 2) if the file holds no data yet.
func (d *DirectFileIo) Occupied() (uint64, uint16, error) {
	info, err := d.file.Stat()
	if err != nil {
		return 0, 0, fmt.Errorf("storage: stat: %w", err)
	}
	if info.Size() == 0 {
		return 0, PageHeaderSize, nil
	}
	totalPages := uint64(info.Size() / PageSize)
	if totalPages == 0 {
		return 0, PageHeaderSize, nil
	}
	for i := totalPages; i > 0; i-- {
		idx := i - 1
		page, err := d.LoadPage(idx)
		if err != nil {
			return 0, 0, err
		}
		if page.Occupied() > PageHeaderSize {
			return idx, page.Occupied(), nil
		}
	}
	return 0, PageHeaderSize, nil
}

// Stats reports cumulative page read/write counts, for a host application to observe I/O volume.
func (d *DirectFileIo) Stats() map[string]uint64 {
	return map[string]uint64{
		"reads":  d.reads.Load(),
		"writes": d.writes.Load(),
	}
}

// Close releases the underlying file descriptor.
func (d *DirectFileIo) Close() error {
	return d.file.Close()
}

// alignedBuffer returns a PageSize-length slice whose address is aligned to
// PageSize, the customary cgo-free way to satisfy O_DIRECT's alignment
// requirement in Go.
func alignedBuffer(size int) []byte {
	const alignment = PageSize
	buf := make([]byte, size+alignment)
	addr := addressOf(buf)
	offset := 0
	if r := addr % alignment; r != 0 {
		offset = alignment - r
	}
	return buf[offset : offset+size]
}
