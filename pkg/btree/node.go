package btree

import (
	"encoding/binary"

	"github.com/mnohosten/vanilladb/pkg/codec"
)

// NodeKind discriminates a btree Node's on-disk layout.
type NodeKind uint8

const (
	NodeLeaf NodeKind = iota
	NodeInternal
)

// Node is a single B+ tree page. Leaves hold a sorted key list, each paired
// with the list of RecordIds matching it (non-unique indexes may have more
// than one). Internal nodes alternate Pointer, Key, Pointer, ..., Pointer: len(Children) == len(Keys)+1.
type Node struct {
	Kind     NodeKind
	Keys     []codec.Field
	Values   [][]codec.RecordId // leaf only
	Children []codec.RecordId   // internal only
}

// Encode serializes the node: kind(1) | numKeys(u32 LE) | keys/values or
// children interleaved per Kind.
func (n *Node) Encode() []byte {
	var buf []byte
	buf = append(buf, byte(n.Kind))
	numKeys := make([]byte, 4)
	binary.LittleEndian.PutUint32(numKeys, uint32(len(n.Keys)))
	buf = append(buf, numKeys...)

	switch n.Kind {
	case NodeLeaf:
		for i, k := range n.Keys {
			buf = append(buf, k.Encode()...)
			vals := n.Values[i]
			countBuf := make([]byte, 4)
			binary.LittleEndian.PutUint32(countBuf, uint32(len(vals)))
			buf = append(buf, countBuf...)
			for _, v := range vals {
				buf = append(buf, v.Encode()...)
			}
		}
	case NodeInternal:
		buf = append(buf, n.Children[0].Encode()...)
		for i, k := range n.Keys {
			buf = append(buf, k.Encode()...)
			buf = append(buf, n.Children[i+1].Encode()...)
		}
	}
	return buf
}

// DecodeNode parses a Node from buf, which must contain exactly one node's bytes.
func DecodeNode(buf []byte) (*Node, error) {
	if len(buf) < 5 {
		return nil, ErrCorruptNode
	}
	kind := NodeKind(buf[0])
	numKeys := binary.LittleEndian.Uint32(buf[1:5])
	pos := 5
	n := &Node{Kind: kind}

	switch kind {
	case NodeLeaf:
		n.Keys = make([]codec.Field, 0, numKeys)
		n.Values = make([][]codec.RecordId, 0, numKeys)
		for i := uint32(0); i < numKeys; i++ {
			key, consumed, err := codec.DecodeField(buf[pos:])
			if err != nil {
				return nil, err
			}
			pos += consumed
			if pos+4 > len(buf) {
				return nil, ErrCorruptNode
			}
			count := binary.LittleEndian.Uint32(buf[pos : pos+4])
			pos += 4
			vals := make([]codec.RecordId, 0, count)
			for j := uint32(0); j < count; j++ {
				rid, rn, err := codec.DecodeRecordId(buf[pos:])
				if err != nil {
					return nil, err
				}
				pos += rn
				vals = append(vals, rid)
			}
			n.Keys = append(n.Keys, key)
			n.Values = append(n.Values, vals)
		}
	case NodeInternal:
		n.Children = make([]codec.RecordId, 0, numKeys+1)
		first, rn, err := codec.DecodeRecordId(buf[pos:])
		if err != nil {
			return nil, err
		}
		pos += rn
		n.Children = append(n.Children, first)
		n.Keys = make([]codec.Field, 0, numKeys)
		for i := uint32(0); i < numKeys; i++ {
			key, consumed, err := codec.DecodeField(buf[pos:])
			if err != nil {
				return nil, err
			}
			pos += consumed
			child, rn, err := codec.DecodeRecordId(buf[pos:])
			if err != nil {
				return nil, err
			}
			pos += rn
			n.Keys = append(n.Keys, key)
			n.Children = append(n.Children, child)
		}
		if len(n.Children) != len(n.Keys)+1 {
			return nil, ErrMissingChild
		}
	default:
		return nil, ErrCorruptNode
	}
	return n, nil
}
