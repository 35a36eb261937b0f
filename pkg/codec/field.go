// Package codec implements the typed, self-describing little-endian binary
// encoding shared by every other package in this module: documents, B+ tree
// nodes, and record pointers all serialize through it.
package codec

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// FieldType is the one-octet discriminator of a Field. It is a closed
// enumeration; any other value is rejected by DecodeField.
type FieldType uint8

const (
	FieldTypeString FieldType = iota
	FieldTypeByte
	FieldTypeUByte
	FieldTypeInt32
	FieldTypeUInt32
	FieldTypeInt64
	FieldTypeUInt64
	FieldTypeFloat32
	FieldTypeFloat64
	FieldTypeMap
)

// Field is a tagged value. The zero Field is a String of "" and is never a
// meaningful value on its own; always construct one with the New* functions.
type Field struct {
	Type FieldType

	str string
	i8  int8
	u8  uint8
	i32 int32
	u32 uint32
	i64 int64
	u64 uint64
	f32 float32
	f64 float64
	m   *Map
}

func NewString(v string) Field  { return Field{Type: FieldTypeString, str: v} }
func NewByte(v int8) Field      { return Field{Type: FieldTypeByte, i8: v} }
func NewUByte(v uint8) Field    { return Field{Type: FieldTypeUByte, u8: v} }
func NewInt32(v int32) Field    { return Field{Type: FieldTypeInt32, i32: v} }
func NewUInt32(v uint32) Field  { return Field{Type: FieldTypeUInt32, u32: v} }
func NewInt64(v int64) Field    { return Field{Type: FieldTypeInt64, i64: v} }
func NewUInt64(v uint64) Field  { return Field{Type: FieldTypeUInt64, u64: v} }
func NewFloat32(v float32) Field { return Field{Type: FieldTypeFloat32, f32: v} }
func NewFloat64(v float64) Field { return Field{Type: FieldTypeFloat64, f64: v} }
func NewMapField(m *Map) Field   { return Field{Type: FieldTypeMap, m: m} }

func (f Field) StringValue() string   { return f.str }
func (f Field) ByteValue() int8       { return f.i8 }
func (f Field) UByteValue() uint8     { return f.u8 }
func (f Field) Int32Value() int32     { return f.i32 }
func (f Field) UInt32Value() uint32   { return f.u32 }
func (f Field) Int64Value() int64     { return f.i64 }
func (f Field) UInt64Value() uint64   { return f.u64 }
func (f Field) Float32Value() float32 { return f.f32 }
func (f Field) Float64Value() float64 { return f.f64 }
func (f Field) MapValue() *Map        { return f.m }

// payload returns the primitive encoding of the field's value, without the
// tag/length envelope.
func (f Field) payload() []byte {
	switch f.Type {
	case FieldTypeString:
		return []byte(f.str)
	case FieldTypeByte:
		return []byte{byte(f.i8)}
	case FieldTypeUByte:
		return []byte{f.u8}
	case FieldTypeInt32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(f.i32))
		return b
	case FieldTypeUInt32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, f.u32)
		return b
	case FieldTypeInt64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(f.i64))
		return b
	case FieldTypeUInt64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, f.u64)
		return b
	case FieldTypeFloat32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(f.f32))
		return b
	case FieldTypeFloat64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(f.f64))
		return b
	case FieldTypeMap:
		return f.m.Encode()
	default:
		return nil
	}
}

// Encode returns the field's full wire encoding: tag(1) | payload_length(4, LE) | payload.
func (f Field) Encode() []byte {
	p := f.payload()
	buf := make([]byte, 5+len(p))
	buf[0] = byte(f.Type)
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(p)))
	copy(buf[5:], p)
	return buf
}

// Size returns len(f.Encode()) without allocating the encoding.
func (f Field) Size() int {
	return 5 + len(f.payload())
}

// DecodeField reads one field from the front of buf and returns it along with
// the number of bytes consumed.
func DecodeField(buf []byte) (Field, int, error) {
	if len(buf) < 5 {
		return Field{}, 0, ErrShortBuffer
	}
	tag := FieldType(buf[0])
	if tag > FieldTypeMap {
		return Field{}, 0, ErrInvalidTag
	}
	plen := binary.LittleEndian.Uint32(buf[1:5])
	if uint64(len(buf)) < uint64(5)+uint64(plen) {
		return Field{}, 0, ErrShortBuffer
	}
	payload := buf[5 : 5+plen]
	f, err := decodePayload(tag, payload)
	if err != nil {
		return Field{}, 0, err
	}
	return f, int(5 + plen), nil
}

func decodePayload(tag FieldType, payload []byte) (Field, error) {
	switch tag {
	case FieldTypeString:
		if !utf8.Valid(payload) {
			return Field{}, ErrInvalidUTF8
		}
		return NewString(string(payload)), nil
	case FieldTypeByte:
		if len(payload) != 1 {
			return Field{}, ErrBadLength
		}
		return NewByte(int8(payload[0])), nil
	case FieldTypeUByte:
		if len(payload) != 1 {
			return Field{}, ErrBadLength
		}
		return NewUByte(payload[0]), nil
	case FieldTypeInt32:
		if len(payload) != 4 {
			return Field{}, ErrBadLength
		}
		return NewInt32(int32(binary.LittleEndian.Uint32(payload))), nil
	case FieldTypeUInt32:
		if len(payload) != 4 {
			return Field{}, ErrBadLength
		}
		return NewUInt32(binary.LittleEndian.Uint32(payload)), nil
	case FieldTypeInt64:
		if len(payload) != 8 {
			return Field{}, ErrBadLength
		}
		return NewInt64(int64(binary.LittleEndian.Uint64(payload))), nil
	case FieldTypeUInt64:
		if len(payload) != 8 {
			return Field{}, ErrBadLength
		}
		return NewUInt64(binary.LittleEndian.Uint64(payload)), nil
	case FieldTypeFloat32:
		if len(payload) != 4 {
			return Field{}, ErrBadLength
		}
		return NewFloat32(math.Float32frombits(binary.LittleEndian.Uint32(payload))), nil
	case FieldTypeFloat64:
		if len(payload) != 8 {
			return Field{}, ErrBadLength
		}
		return NewFloat64(math.Float64frombits(binary.LittleEndian.Uint64(payload))), nil
	case FieldTypeMap:
		m, err := DecodeMapPayload(payload)
		if err != nil {
			return Field{}, err
		}
		return NewMapField(m), nil
	default:
		return Field{}, ErrInvalidTag
	}
}

// Equal reports whether two fields have the same tag and semantically equal payloads.
func (f Field) Equal(other Field) bool {
	if f.Type != other.Type {
		return false
	}
	switch f.Type {
	case FieldTypeString:
		return f.str == other.str
	case FieldTypeByte:
		return f.i8 == other.i8
	case FieldTypeUByte:
		return f.u8 == other.u8
	case FieldTypeInt32:
		return f.i32 == other.i32
	case FieldTypeUInt32:
		return f.u32 == other.u32
	case FieldTypeInt64:
		return f.i64 == other.i64
	case FieldTypeUInt64:
		return f.u64 == other.u64
	case FieldTypeFloat32:
		return f.f32 == other.f32
	case FieldTypeFloat64:
		return f.f64 == other.f64
	case FieldTypeMap:
		return f.m.Equal(other.m)
	default:
		return false
	}
}

// Compare orders two fields of the same FieldType. Behavior is undefined for
// fields of differing type or Map type (maps are not an ordered key domain).
func Compare(a, b Field) int {
	switch a.Type {
	case FieldTypeString:
		switch {
		case a.str < b.str:
			return -1
		case a.str > b.str:
			return 1
		default:
			return 0
		}
	case FieldTypeByte:
		return cmpInt64(int64(a.i8), int64(b.i8))
	case FieldTypeUByte:
		return cmpInt64(int64(a.u8), int64(b.u8))
	case FieldTypeInt32:
		return cmpInt64(int64(a.i32), int64(b.i32))
	case FieldTypeUInt32:
		return cmpInt64(int64(a.u32), int64(b.u32))
	case FieldTypeInt64:
		return cmpInt64(a.i64, b.i64)
	case FieldTypeUInt64:
		return cmpUint64(a.u64, b.u64)
	case FieldTypeFloat32:
		return cmpFloat64(float64(a.f32), float64(b.f32))
	case FieldTypeFloat64:
		return cmpFloat64(a.f64, b.f64)
	default:
		return 0
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
