// Package btree implements an on-disk B+ tree index over a Pager's byte
// stream: typed Field keys, leaf value lists, and internal nodes alternating
// Pointer, Key, ..., Pointer. Only max_degree and unique are not persisted;
// a caller must supply the same values on every Open of an existing tree.
package btree

import (
	"encoding/binary"
	"sort"

	"github.com/mnohosten/vanilladb/pkg/codec"
	"github.com/mnohosten/vanilladb/pkg/storage"
)

const metaRecordSize = 1 + 12 // keyType(1) + RecordId with empty Path(12)

// Tree is a single on-disk B+ tree index.
type Tree struct {
	pager     *storage.Pager
	keyType   codec.FieldType
	maxDegree int
	unique    bool
	rootID    codec.RecordId
}

// Open attaches to (or initializes, if the pager's stream is empty) a B+ tree
// index backed by pager. maxDegree and unique are not persisted and must be
// supplied identically on every Open of the same underlying file.
func Open(pager *storage.Pager, keyType codec.FieldType, maxDegree int, unique bool) (*Tree, error) {
	t := &Tree{pager: pager, keyType: keyType, maxDegree: maxDegree, unique: unique}

	tail, err := pager.Tail()
	if err != nil {
		return nil, err
	}
	if tail.Page == 0 && tail.InPage == storage.PageHeaderSize {
		return t, t.initialize()
	}

	kt, rootID, err := t.readMeta()
	if err != nil {
		return nil, err
	}
	if kt != keyType {
		return nil, ErrKeyTypeMismatch
	}
	t.rootID = rootID
	return t, nil
}

func (t *Tree) initialize() error {
	placeholder := codec.RecordId{}
	metaBuf := make([]byte, metaRecordSize)
	metaBuf[0] = byte(t.keyType)
	copy(metaBuf[1:], placeholder.Encode())
	metaPos, err := t.pager.Write(metaBuf)
	if err != nil {
		return err
	}

	root := &Node{Kind: NodeLeaf}
	rootID, err := t.persistNewNode(root)
	if err != nil {
		return err
	}
	t.rootID = rootID

	copy(metaBuf[1:], rootID.Encode())
	return t.pager.ReplaceAt(metaBuf, metaPos)
}

func (t *Tree) metaPosition() storage.Position {
	return storage.Position{Page: 0, InPage: storage.PageHeaderSize}
}

func (t *Tree) readMeta() (codec.FieldType, codec.RecordId, error) {
	buf := make([]byte, metaRecordSize)
	if err := t.pager.ReadAt(buf, t.metaPosition()); err != nil {
		return 0, codec.RecordId{}, err
	}
	kt := codec.FieldType(buf[0])
	rid, _, err := codec.DecodeRecordId(buf[1:])
	if err != nil {
		return 0, codec.RecordId{}, err
	}
	return kt, rid, nil
}

func (t *Tree) writeMeta() error {
	buf := make([]byte, metaRecordSize)
	buf[0] = byte(t.keyType)
	copy(buf[1:], t.rootID.Encode())
	return t.pager.ReplaceAt(buf, t.metaPosition())
}

// persistNewNode always allocates a fresh record, the only safe choice for a
// node whose item list has changed: the data file is append-only, so growing
// an existing record in place would corrupt whatever bytes follow it.
func (t *Tree) persistNewNode(n *Node) (codec.RecordId, error) {
	body := n.Encode()
	sized := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(sized[0:4], uint32(len(sized)))
	copy(sized[4:], body)
	pos, err := t.pager.Write(sized)
	if err != nil {
		return codec.RecordId{}, err
	}
	return codec.RecordId{Offset: pos.ByteOffset()}, nil
}

// saveInPlace re-encodes n and overwrites the bytes at rid. This is only safe
// when n's keys are unchanged from what was last persisted at rid (only
// RecordId Offset values inside it may differ), since every RecordId here has
// an empty Path and therefore always encodes to the same 12 bytes.
func (t *Tree) saveInPlace(rid codec.RecordId, n *Node) error {
	body := n.Encode()
	sized := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(sized[0:4], uint32(len(sized)))
	copy(sized[4:], body)
	pos := storage.PositionFromByteOffset(rid.Offset)
	return t.pager.ReplaceAt(sized, pos)
}

func (t *Tree) loadNode(rid codec.RecordId) (*Node, error) {
	pos := storage.PositionFromByteOffset(rid.Offset)
	header := make([]byte, 4)
	if err := t.pager.ReadAt(header, pos); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(header)
	if size < 4 {
		return nil, ErrCorruptNode
	}
	body := make([]byte, size-4)
	bodyPos := storage.Advance(pos, 4)
	if err := t.pager.ReadAt(body, bodyPos); err != nil {
		return nil, err
	}
	return DecodeNode(body)
}

// childPointerIndex returns the index of the child subtree that may hold key.
func childPointerIndex(keys []codec.Field, key codec.Field) int {
	return sort.Search(len(keys), func(j int) bool {
		return codec.Compare(key, keys[j]) < 0
	})
}

// leafInsertIndex returns the index at which key belongs within keys (first
// index holding a key >= the lookup key).
func leafInsertIndex(keys []codec.Field, key codec.Field) int {
	return sort.Search(len(keys), func(j int) bool {
		return codec.Compare(key, keys[j]) <= 0
	})
}

// Get returns every RecordId stored under key.
func (t *Tree) Get(key codec.Field) ([]codec.RecordId, error) {
	node, err := t.loadNode(t.rootID)
	if err != nil {
		return nil, err
	}
	for node.Kind == NodeInternal {
		i := childPointerIndex(node.Keys, key)
		node, err = t.loadNode(node.Children[i])
		if err != nil {
			return nil, err
		}
	}
	i := leafInsertIndex(node.Keys, key)
	if i < len(node.Keys) && codec.Compare(node.Keys[i], key) == 0 {
		return node.Values[i], nil
	}
	return nil, ErrKeyNotFound
}

// splitResult describes a node split: the separator key promoted to the
// parent and the RecordId of the freshly created right sibling.
type splitResult struct {
	Key     codec.Field
	RightID codec.RecordId
}

// Insert adds (key, value) to the tree. On a unique tree, a duplicate key
// returns ErrDuplicateKey; otherwise value is appended to the key's list. A key
// whose FieldType differs from the tree's key type returns ErrKeyTypeMismatch.
func (t *Tree) Insert(key codec.Field, value codec.RecordId) error {
	if key.Type != t.keyType {
		return ErrKeyTypeMismatch
	}
	newRootID, split, err := t.insertInto(t.rootID, key, value)
	if err != nil {
		return err
	}
	if split != nil {
		newRoot := &Node{
			Kind:     NodeInternal,
			Keys:     []codec.Field{split.Key},
			Children: []codec.RecordId{newRootID, split.RightID},
		}
		rootID, err := t.persistNewNode(newRoot)
		if err != nil {
			return err
		}
		t.rootID = rootID
	} else {
		t.rootID = newRootID
	}
	return t.writeMeta()
}

func (t *Tree) insertInto(nodeID codec.RecordId, key codec.Field, value codec.RecordId) (codec.RecordId, *splitResult, error) {
	node, err := t.loadNode(nodeID)
	if err != nil {
		return codec.RecordId{}, nil, err
	}

	if node.Kind == NodeLeaf {
		return t.insertIntoLeaf(node, key, value)
	}

	i := childPointerIndex(node.Keys, key)
	childID := node.Children[i]
	newChildID, split, err := t.insertInto(childID, key, value)
	if err != nil {
		return codec.RecordId{}, nil, err
	}

	if split == nil {
		if newChildID == childID {
			return nodeID, nil, nil
		}
		node.Children[i] = newChildID
		if err := t.saveInPlace(nodeID, node); err != nil {
			return codec.RecordId{}, nil, err
		}
		return nodeID, nil, nil
	}

	node.Children[i] = newChildID
	keys := make([]codec.Field, 0, len(node.Keys)+1)
	keys = append(keys, node.Keys[:i]...)
	keys = append(keys, split.Key)
	keys = append(keys, node.Keys[i:]...)
	children := make([]codec.RecordId, 0, len(node.Children)+1)
	children = append(children, node.Children[:i+1]...)
	children = append(children, split.RightID)
	children = append(children, node.Children[i+1:]...)
	node.Keys = keys
	node.Children = children

	if len(node.Keys) < t.maxDegree {
		newID, err := t.persistNewNode(node)
		return newID, nil, err
	}
	return t.splitInternal(node)
}

func (t *Tree) insertIntoLeaf(node *Node, key codec.Field, value codec.RecordId) (codec.RecordId, *splitResult, error) {
	i := leafInsertIndex(node.Keys, key)
	if i < len(node.Keys) && codec.Compare(node.Keys[i], key) == 0 {
		if t.unique {
			return codec.RecordId{}, nil, ErrDuplicateKey
		}
		node.Values[i] = append(node.Values[i], value)
	} else {
		keys := make([]codec.Field, 0, len(node.Keys)+1)
		keys = append(keys, node.Keys[:i]...)
		keys = append(keys, key)
		keys = append(keys, node.Keys[i:]...)

		values := make([][]codec.RecordId, 0, len(node.Values)+1)
		values = append(values, node.Values[:i]...)
		values = append(values, []codec.RecordId{value})
		values = append(values, node.Values[i:]...)

		node.Keys = keys
		node.Values = values
	}

	if len(node.Keys) < t.maxDegree {
		newID, err := t.persistNewNode(node)
		return newID, nil, err
	}
	return t.splitLeaf(node)
}

func (t *Tree) splitLeaf(node *Node) (codec.RecordId, *splitResult, error) {
	mid := len(node.Keys) / 2
	left := &Node{Kind: NodeLeaf, Keys: node.Keys[:mid], Values: node.Values[:mid]}
	right := &Node{Kind: NodeLeaf, Keys: node.Keys[mid:], Values: node.Values[mid:]}

	leftID, err := t.persistNewNode(left)
	if err != nil {
		return codec.RecordId{}, nil, err
	}
	rightID, err := t.persistNewNode(right)
	if err != nil {
		return codec.RecordId{}, nil, err
	}
	return leftID, &splitResult{Key: right.Keys[0], RightID: rightID}, nil
}

func (t *Tree) splitInternal(node *Node) (codec.RecordId, *splitResult, error) {
	midKeyIdx := len(node.Keys) / 2
	promoted := node.Keys[midKeyIdx]

	left := &Node{
		Kind:     NodeInternal,
		Keys:     node.Keys[:midKeyIdx],
		Children: node.Children[:midKeyIdx+1],
	}
	right := &Node{
		Kind:     NodeInternal,
		Keys:     node.Keys[midKeyIdx+1:],
		Children: node.Children[midKeyIdx+1:],
	}

	leftID, err := t.persistNewNode(left)
	if err != nil {
		return codec.RecordId{}, nil, err
	}
	rightID, err := t.persistNewNode(right)
	if err != nil {
		return codec.RecordId{}, nil, err
	}
	return leftID, &splitResult{Key: promoted, RightID: rightID}, nil
}
