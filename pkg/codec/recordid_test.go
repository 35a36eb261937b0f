package codec

import (
	"bytes"
	"testing"
)

func TestRecordIdRoundTrip(t *testing.T) {
	cases := []RecordId{
		{Path: "", Offset: 0},
		{Path: "/serialization/test", Offset: 1024},
		{Path: "index.btree", Offset: 1 << 32},
	}
	for _, rid := range cases {
		encoded := rid.Encode()
		got, consumed, err := DecodeRecordId(encoded)
		if err != nil {
			t.Fatalf("DecodeRecordId(%v): unexpected error: %v", rid, err)
		}
		if consumed != len(encoded) {
			t.Fatalf("consumed %d bytes, want %d", consumed, len(encoded))
		}
		if got != rid {
			t.Fatalf("round-trip mismatch: got %v, want %v", got, rid)
		}
	}
}

// Scenario B from the specification's testable properties.
func TestScenarioB_RecordId(t *testing.T) {
	rid := RecordId{Path: "/serialization/test", Offset: 1024}
	encoded := rid.Encode()

	want := []byte{31, 0, 0, 0}
	want = append(want, []byte("/serialization/test")...)
	want = append(want, 0, 4, 0, 0, 0, 0, 0, 0)

	if len(encoded) != 31 {
		t.Fatalf("encoded length = %d, want 31", len(encoded))
	}
	if !bytes.Equal(encoded, want) {
		t.Fatalf("encoded = %v, want %v", encoded, want)
	}

	got, consumed, err := DecodeRecordId(encoded)
	if err != nil {
		t.Fatalf("DecodeRecordId: unexpected error: %v", err)
	}
	if consumed != 31 {
		t.Fatalf("consumed %d bytes, want 31", consumed)
	}
	if got != rid {
		t.Fatalf("decoded = %v, want %v", got, rid)
	}
}

func TestDecodeRecordIdBadLength(t *testing.T) {
	buf := []byte{4, 0, 0, 0}
	if _, _, err := DecodeRecordId(buf); err != ErrBadLength {
		t.Fatalf("err = %v, want ErrBadLength", err)
	}
}
