package storage

import "unsafe"

// addressOf returns the starting address of buf's backing array, used only to
// compute the padding alignedBuffer needs to satisfy O_DIRECT's sector-alignment
// requirement.
func addressOf(buf []byte) int {
	return int(uintptr(unsafe.Pointer(&buf[0])))
}
