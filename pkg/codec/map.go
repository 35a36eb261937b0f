package codec

import (
	"bytes"
)

// Map is an ordered collection of (name, Field) entries. Names are unique and
// must be non-empty with no embedded NUL byte. Wire order follows insertion
// order; the spec only requires key-set equality, but a stable order keeps
// encodings reproducible for tests.
type Map struct {
	order  []string
	fields map[string]Field
}

// NewMapEmpty returns an empty, ready-to-use Map.
func NewMapEmpty() *Map {
	return &Map{fields: make(map[string]Field)}
}

// Set inserts or overwrites the field stored under name.
func (m *Map) Set(name string, f Field) {
	if _, exists := m.fields[name]; !exists {
		m.order = append(m.order, name)
	}
	m.fields[name] = f
}

// Get returns the field stored under name, if any.
func (m *Map) Get(name string) (Field, bool) {
	f, ok := m.fields[name]
	return f, ok
}

// Delete removes name from the map, if present.
func (m *Map) Delete(name string) {
	if _, ok := m.fields[name]; !ok {
		return
	}
	delete(m.fields, name)
	for i, k := range m.order {
		if k == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Keys returns the map's field names in insertion order.
func (m *Map) Keys() []string {
	return m.order
}

// Len returns the number of entries in the map.
func (m *Map) Len() int {
	return len(m.fields)
}

// Encode returns the map's wire encoding: a concatenation of
// name_bytes | NUL | field_encoding entries, in insertion order.
func (m *Map) Encode() []byte {
	var buf bytes.Buffer
	for _, k := range m.order {
		buf.WriteString(k)
		buf.WriteByte(0)
		f := m.fields[k]
		buf.Write(f.Encode())
	}
	return buf.Bytes()
}

// DecodeMapPayload decodes a map's entries from buf, which must contain
// exactly the map's encoded bytes (no surrounding length prefix).
func DecodeMapPayload(buf []byte) (*Map, error) {
	m := NewMapEmpty()
	pos := 0
	for pos < len(buf) {
		nul := bytes.IndexByte(buf[pos:], 0)
		if nul < 0 {
			return nil, ErrShortBuffer
		}
		if nul == 0 {
			return nil, ErrBadLength
		}
		name := string(buf[pos : pos+nul])
		pos += nul + 1
		f, consumed, err := DecodeField(buf[pos:])
		if err != nil {
			return nil, err
		}
		pos += consumed
		m.Set(name, f)
	}
	return m, nil
}

// Equal reports whether two maps hold the same key set with equal values.
func (m *Map) Equal(other *Map) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Len() != other.Len() {
		return false
	}
	for k, f := range m.fields {
		of, ok := other.fields[k]
		if !ok || !f.Equal(of) {
			return false
		}
	}
	return true
}
