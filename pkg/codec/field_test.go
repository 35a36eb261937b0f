package codec

import (
	"bytes"
	"testing"
)

func TestFieldRoundTrip(t *testing.T) {
	values := []Field{
		NewString("whyneet"),
		NewString(""),
		NewByte(-12),
		NewUByte(250),
		NewInt32(-100),
		NewUInt32(100),
		NewInt64(-1 << 40),
		NewUInt64(1 << 40),
		NewFloat32(3.5),
		NewFloat64(-2.25),
	}
	for _, v := range values {
		encoded := v.Encode()
		got, consumed, err := DecodeField(encoded)
		if err != nil {
			t.Fatalf("DecodeField(%v): unexpected error: %v", v, err)
		}
		if consumed != len(encoded) {
			t.Fatalf("DecodeField(%v): consumed %d bytes, want %d", v, consumed, len(encoded))
		}
		if !got.Equal(v) {
			t.Fatalf("DecodeField(%v): round-trip mismatch, got %v", v, got)
		}
	}
}

func TestFieldMapRoundTrip(t *testing.T) {
	m := NewMapEmpty()
	m.Set("name", NewString("whyneet"))
	m.Set("stars", NewInt32(100))
	f := NewMapField(m)

	encoded := f.Encode()
	got, consumed, err := DecodeField(encoded)
	if err != nil {
		t.Fatalf("DecodeField: unexpected error: %v", err)
	}
	if consumed != len(encoded) {
		t.Fatalf("consumed %d bytes, want %d", consumed, len(encoded))
	}
	if !got.Equal(f) {
		t.Fatalf("round-trip mismatch: got %v, want %v", got, f)
	}
}

// Scenario A from the specification's testable properties.
func TestScenarioA_CodecRoundTrip(t *testing.T) {
	m := NewMapEmpty()
	m.Set("name", NewString("whyneet"))
	m.Set("stars", NewInt32(100))
	f := NewMapField(m)

	encoded := f.Encode()
	if len(encoded) != 37 {
		t.Fatalf("encoded length = %d, want 37", len(encoded))
	}
	wantPrefix := []byte{9, 32, 0, 0, 0}
	if !bytes.Equal(encoded[:5], wantPrefix) {
		t.Fatalf("encoded prefix = %v, want %v", encoded[:5], wantPrefix)
	}

	got, consumed, err := DecodeField(encoded)
	if err != nil {
		t.Fatalf("DecodeField: unexpected error: %v", err)
	}
	if consumed != 37 {
		t.Fatalf("consumed %d bytes, want 37", consumed)
	}
	if !got.Equal(f) {
		t.Fatalf("decoded field does not equal original")
	}
}

func TestDecodeFieldInvalidTag(t *testing.T) {
	buf := []byte{10, 0, 0, 0, 0}
	if _, _, err := DecodeField(buf); err != ErrInvalidTag {
		t.Fatalf("err = %v, want ErrInvalidTag", err)
	}
}

func TestDecodeFieldShortBuffer(t *testing.T) {
	buf := []byte{0, 5, 0, 0}
	if _, _, err := DecodeField(buf); err != ErrShortBuffer {
		t.Fatalf("err = %v, want ErrShortBuffer", err)
	}
}

func TestDecodeFieldInvalidUTF8(t *testing.T) {
	buf := []byte{byte(FieldTypeString), 2, 0, 0, 0, 0xff, 0xfe}
	if _, _, err := DecodeField(buf); err != ErrInvalidUTF8 {
		t.Fatalf("err = %v, want ErrInvalidUTF8", err)
	}
}

func TestCompare(t *testing.T) {
	if Compare(NewInt32(1), NewInt32(2)) >= 0 {
		t.Fatalf("Compare(1,2) should be negative")
	}
	if Compare(NewUInt32(5), NewUInt32(5)) != 0 {
		t.Fatalf("Compare(5,5) should be zero")
	}
	if Compare(NewString("b"), NewString("a")) <= 0 {
		t.Fatalf("Compare(b,a) should be positive")
	}
}
