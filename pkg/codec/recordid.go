package codec

import "encoding/binary"

// RecordId is a (path, offset) reference to a byte-exact location in a file.
// An empty Path means "the current tree's own data file".
type RecordId struct {
	Path   string
	Offset uint64
}

// Encode returns size(u32 LE, total bytes including this u32) | path_bytes | offset(u64 LE).
func (r RecordId) Encode() []byte {
	total := 4 + len(r.Path) + 8
	buf := make([]byte, total)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(total))
	copy(buf[4:4+len(r.Path)], r.Path)
	binary.LittleEndian.PutUint64(buf[4+len(r.Path):], r.Offset)
	return buf
}

// DecodeRecordId reads a RecordId from the front of buf and returns it along
// with the number of bytes consumed (== the encoded total_size).
func DecodeRecordId(buf []byte) (RecordId, int, error) {
	if len(buf) < 4 {
		return RecordId{}, 0, ErrShortBuffer
	}
	total := binary.LittleEndian.Uint32(buf[0:4])
	if total < 12 {
		return RecordId{}, 0, ErrBadLength
	}
	if uint64(len(buf)) < uint64(total) {
		return RecordId{}, 0, ErrShortBuffer
	}
	pathLen := int(total) - 4 - 8
	path := string(buf[4 : 4+pathLen])
	offset := binary.LittleEndian.Uint64(buf[4+pathLen : 4+pathLen+8])
	return RecordId{Path: path, Offset: offset}, int(total), nil
}
