package btree

import "errors"

var (
	// ErrCorruptNode is returned when a node's on-disk encoding cannot be parsed.
	ErrCorruptNode = errors.New("btree: corrupt node encoding")

	// ErrMissingChild is returned when an internal node's pointer count does
	// not exceed its key count by exactly one.
	ErrMissingChild = errors.New("btree: internal node has a missing child pointer")

	// ErrKeyTypeMismatch is returned when Open is called with a key FieldType
	// that does not match the tree's persisted key type, and when Insert is
	// given a key of a different FieldType.
	ErrKeyTypeMismatch = errors.New("btree: key type does not match persisted tree metadata")

	// ErrKeyNotFound is returned by Get when no entry matches the lookup key.
	ErrKeyNotFound = errors.New("btree: key not found")

	// ErrDuplicateKey is returned by Insert on a unique tree when the key already exists.
	ErrDuplicateKey = errors.New("btree: duplicate key in unique index")
)
