// Package document implements the outer document envelope: a Map-kind Field
// whose own tag+length framing is the document's complete encoding. A
// Collection stores that encoding behind its own 4-byte slot-size header.
package document

import (
	"github.com/mnohosten/vanilladb/pkg/codec"
)

// Document wraps a Map-kind Field and is the unit a Collection stores.
type Document struct {
	field codec.Field
}

// New returns an empty document.
func New() *Document {
	return &Document{field: codec.NewMapField(codec.NewMapEmpty())}
}

// FromMap wraps an existing map as a document.
func FromMap(m *codec.Map) *Document {
	return &Document{field: codec.NewMapField(m)}
}

// AppendField sets name to field within the document's map, preserving
// insertion order for new keys.
func (d *Document) AppendField(name string, field codec.Field) {
	d.field.MapValue().Set(name, field)
}

// GetField returns the named field, if present.
func (d *Document) GetField(name string) (codec.Field, bool) {
	return d.field.MapValue().Get(name)
}

// RemoveField deletes name from the document, if present.
func (d *Document) RemoveField(name string) {
	d.field.MapValue().Delete(name)
}

// Fields returns the document's field names in insertion order.
func (d *Document) Fields() []string {
	return d.field.MapValue().Keys()
}

// Size returns the document's encoded size in bytes, including its own length prefix.
func (d *Document) Size() int {
	return d.field.Size()
}

// Encode serializes the document as a single Map-kind Field: a 1-byte tag, a
// 4-byte little-endian length of the map body, and the map body.
func (d *Document) Encode() []byte {
	return d.field.Encode()
}

// Decode parses a document from the front of buf, returning the number of
// bytes consumed.
func Decode(buf []byte) (*Document, int, error) {
	field, n, err := codec.DecodeField(buf)
	if err != nil {
		return nil, 0, err
	}
	if field.Type != codec.FieldTypeMap {
		return nil, 0, codec.ErrInvalidTag
	}
	return &Document{field: field}, n, nil
}

// Equal reports whether two documents hold equal fields.
func (d *Document) Equal(other *Document) bool {
	return d.field.Equal(other.field)
}
