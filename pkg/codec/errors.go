package codec

import "errors"

var (
	// ErrShortBuffer is returned when fewer bytes are available than a decode requires.
	ErrShortBuffer = errors.New("codec: short buffer")

	// ErrInvalidTag is returned when a FieldType byte falls outside the closed enumeration.
	ErrInvalidTag = errors.New("codec: invalid field tag")

	// ErrInvalidUTF8 is returned when a String field's payload is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("codec: invalid utf8")

	// ErrBadLength is returned when a decoded length does not match the primitive's fixed width
	// or otherwise makes the buffer inconsistent.
	ErrBadLength = errors.New("codec: bad length")
)
