package codec

import (
	"bytes"
	"encoding/binary"
)

// EncodeVecPrefixed encodes fields as u32_le(total_len) ++ concat(serialize(f_i)),
// where total_len counts itself.
func EncodeVecPrefixed(fields []Field) []byte {
	var payload bytes.Buffer
	for _, f := range fields {
		payload.Write(f.Encode())
	}
	buf := make([]byte, 4+payload.Len())
	binary.LittleEndian.PutUint32(buf[0:4], uint32(4+payload.Len()))
	copy(buf[4:], payload.Bytes())
	return buf
}

// DecodeVecPrefixed decodes a prefixed vector from the front of buf and
// returns the fields plus the number of bytes consumed (== total_len).
func DecodeVecPrefixed(buf []byte) ([]Field, int, error) {
	if len(buf) < 4 {
		return nil, 0, ErrShortBuffer
	}
	totalLen := binary.LittleEndian.Uint32(buf[0:4])
	if totalLen < 4 || uint64(len(buf)) < uint64(totalLen) {
		return nil, 0, ErrShortBuffer
	}
	fields, err := decodeFieldsUntilExhausted(buf[4:totalLen])
	if err != nil {
		return nil, 0, err
	}
	return fields, int(totalLen), nil
}

// EncodeVecUnprefixed concatenates each field's full encoding with no outer
// length; the caller's record must already delimit the resulting byte range.
func EncodeVecUnprefixed(fields []Field) []byte {
	var buf bytes.Buffer
	for _, f := range fields {
		buf.Write(f.Encode())
	}
	return buf.Bytes()
}

// DecodeVecUnprefixed decodes fields from buf until it is fully consumed.
func DecodeVecUnprefixed(buf []byte) ([]Field, error) {
	return decodeFieldsUntilExhausted(buf)
}

func decodeFieldsUntilExhausted(buf []byte) ([]Field, error) {
	var out []Field
	pos := 0
	for pos < len(buf) {
		f, consumed, err := DecodeField(buf[pos:])
		if err != nil {
			return nil, err
		}
		out = append(out, f)
		pos += consumed
	}
	return out, nil
}
