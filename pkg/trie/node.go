package trie

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/hyperledger-labs/crosschain-interop/pkg/rlp"
)

// Node is one of the four canonical merkle-patricia node shapes. Nodes are
// immutable; structural updates build new nodes and share unchanged subtrees.
type Node interface {
	// Encoded returns the canonical RLP encoding of the node.
	Encoded() []byte
	// Hash returns the Keccak-256 of the encoding.
	Hash() common.Hash

	encodeValue() rlp.Value
}

// EmptyNode is the canonical empty tree.
type EmptyNode struct{}

// Empty is the singleton empty node.
var Empty = EmptyNode{}

// LeafNode holds the terminal remainder of a key and its value.
type LeafNode struct {
	Path  Nibbles
	Value []byte
}

// ExtensionNode carries a shared path prefix in front of a single branch.
type ExtensionNode struct {
	Path  Nibbles
	Child Node
}

// BranchNode fans out on the next nibble and may terminate a key ending here.
type BranchNode struct {
	Children [16]Node
	Value    []byte
}

// hashNode stands in for a node that a decoded parent references by hash.
// It appears only in nodes produced by DecodeNode.
type hashNode common.Hash

func (EmptyNode) encodeValue() rlp.Value { return rlp.StringValue(nil) }

func (n *LeafNode) encodeValue() rlp.Value {
	return rlp.ListValue(
		rlp.StringValue(hexPrefixEncode(n.Path, true)),
		rlp.StringValue(n.Value),
	)
}

func (n *ExtensionNode) encodeValue() rlp.Value {
	return rlp.ListValue(
		rlp.StringValue(hexPrefixEncode(n.Path, false)),
		ref(n.Child),
	)
}

func (n *BranchNode) encodeValue() rlp.Value {
	items := make([]rlp.Value, 0, 17)
	for _, child := range n.Children {
		items = append(items, ref(child))
	}
	return rlp.ListValue(append(items, rlp.StringValue(n.Value))...)
}

func (n hashNode) encodeValue() rlp.Value { return rlp.StringValue(n[:]) }

func (n EmptyNode) Encoded() []byte      { return rlp.Encode(n.encodeValue()) }
func (n *LeafNode) Encoded() []byte      { return rlp.Encode(n.encodeValue()) }
func (n *ExtensionNode) Encoded() []byte { return rlp.Encode(n.encodeValue()) }
func (n *BranchNode) Encoded() []byte    { return rlp.Encode(n.encodeValue()) }
func (n hashNode) Encoded() []byte       { return nil }

func (n EmptyNode) Hash() common.Hash      { return keccak256(n.Encoded()) }
func (n *LeafNode) Hash() common.Hash      { return keccak256(n.Encoded()) }
func (n *ExtensionNode) Hash() common.Hash { return keccak256(n.Encoded()) }
func (n *BranchNode) Hash() common.Hash    { return keccak256(n.Encoded()) }
func (n hashNode) Hash() common.Hash       { return common.Hash(n) }

// ref renders a child for placement inside its parent's list: the raw
// structural encoding when shorter than 32 bytes, otherwise the 32-byte hash.
func ref(n Node) rlp.Value {
	v := n.encodeValue()
	if len(rlp.Encode(v)) < 32 {
		return v
	}
	h := n.Hash()
	return rlp.StringValue(h[:])
}

// DecodeNode reconstructs a node from its canonical encoding. A two-element
// list is a leaf or extension depending on the hex-prefix leaf bit; a
// seventeen-element list is a branch. Inline child references are decoded
// eagerly; hashed references become placeholders carrying the hash.
func DecodeNode(encoded []byte) (Node, error) {
	v, err := rlp.Decode(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "decode node rlp")
	}
	return decodeNodeValue(v)
}

func decodeNodeValue(v rlp.Value) (Node, error) {
	if v.Kind == rlp.KindString {
		if len(v.Str) == 0 {
			return Empty, nil
		}
		return nil, errors.Wrap(ErrInvalidNode, "top-level string is not a node")
	}

	switch len(v.List) {
	case 2:
		prefix := v.List[0]
		if prefix.Kind != rlp.KindString {
			return nil, errors.Wrap(ErrInvalidNode, "path slot is not a string")
		}
		path, leaf, err := hexPrefixDecode(prefix.Str)
		if err != nil {
			return nil, err
		}
		if leaf {
			if v.List[1].Kind != rlp.KindString {
				return nil, errors.Wrap(ErrInvalidNode, "leaf value is not a string")
			}
			return &LeafNode{Path: path, Value: v.List[1].Str}, nil
		}
		child, err := decodeChildRef(v.List[1])
		if err != nil {
			return nil, err
		}
		return &ExtensionNode{Path: path, Child: child}, nil

	case 17:
		branch := &BranchNode{}
		for i := 0; i < 16; i++ {
			child, err := decodeChildRef(v.List[i])
			if err != nil {
				return nil, err
			}
			branch.Children[i] = child
		}
		if v.List[16].Kind != rlp.KindString {
			return nil, errors.Wrap(ErrInvalidNode, "branch value is not a string")
		}
		branch.Value = v.List[16].Str
		return branch, nil

	default:
		return nil, errors.Wrapf(ErrInvalidNode, "list of %d elements", len(v.List))
	}
}

func decodeChildRef(v rlp.Value) (Node, error) {
	if v.Kind == rlp.KindList {
		// Inline node, embedded because its encoding is under 32 bytes.
		return decodeNodeValue(v)
	}
	switch len(v.Str) {
	case 0:
		return Empty, nil
	case common.HashLength:
		return hashNode(common.BytesToHash(v.Str)), nil
	default:
		return nil, errors.Wrapf(ErrInvalidNode, "child reference of %d bytes", len(v.Str))
	}
}
