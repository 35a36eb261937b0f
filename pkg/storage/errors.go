package storage

import "errors"

var (
	// ErrOutOfBounds is returned when a positional op would read or write outside a page's 4096 bytes.
	ErrOutOfBounds = errors.New("storage: offset out of page bounds")

	// ErrShortRead is returned when the pager runs out of pages before a read_at buffer is filled.
	ErrShortRead = errors.New("storage: short read past end of pages")

	// ErrAlignment is returned when a direct I/O buffer is not aligned to the device sector size.
	ErrAlignment = errors.New("storage: buffer not aligned to sector size")

	// ErrOpenFailed wraps a failure to open the underlying file for direct I/O.
	ErrOpenFailed = errors.New("storage: failed to open file")
)
