package trie

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Prove generates an inclusion proof for key: the nodes on the root-to-leaf
// walk, each stored under its hash. Nodes whose encoding is shorter than 32
// bytes are embedded in their parent and are not deposited separately; the
// root is always deposited so the verifier has an entry for the root hash.
// Only positive proofs exist; proving an absent key returns ErrKeyNotFound.
func (t *Trie) Prove(key []byte) (*NodeSet, error) {
	ns := NewNodeSet()
	path := NibblesFromBytes(key)
	current := t.root
	isRoot := true
	deposit := func(n Node) {
		encoded := n.Encoded()
		if isRoot || len(encoded) >= 32 {
			ns.Put(n.Hash(), encoded)
		}
		isRoot = false
	}
	for {
		switch n := current.(type) {
		case *LeafNode:
			deposit(n)
			if n.Path.Equal(path) {
				return ns, nil
			}
			return nil, ErrKeyNotFound

		case *ExtensionNode:
			deposit(n)
			if !path.StartsWith(n.Path) {
				return nil, ErrKeyNotFound
			}
			path = path.DropFirst(n.Path.Len())
			current = n.Child

		case *BranchNode:
			deposit(n)
			if path.IsEmpty() {
				if len(n.Value) > 0 {
					return ns, nil
				}
				return nil, ErrKeyNotFound
			}
			current = n.Children[path.Head()]
			path = path.Tail()

		default:
			return nil, ErrKeyNotFound
		}
	}
}

// VerifyProof replays a proof against a root hash and reports whether the
// proof commits key to expected. The walk starts at the node stored under
// root and follows one reference per step; hashed references are resolved
// through the proof set, inline references are decoded in place. A proof
// whose nodes do not hash to their keys, or that is missing a referenced
// node, fails with ErrInvalidProof; a walk that diverges from key fails with
// ErrKeyNotFound.
func VerifyProof(root common.Hash, key, expected []byte, proof *NodeSet) (bool, error) {
	path := NibblesFromBytes(key)
	current, err := proofNode(root, proof)
	if err != nil {
		return false, err
	}
	for {
		switch n := current.(type) {
		case *LeafNode:
			if !n.Path.Equal(path) {
				return false, ErrKeyNotFound
			}
			return bytes.Equal(n.Value, expected), nil

		case *ExtensionNode:
			if !path.StartsWith(n.Path) {
				return false, ErrKeyNotFound
			}
			path = path.DropFirst(n.Path.Len())
			current, err = resolve(n.Child, proof)
			if err != nil {
				return false, err
			}

		case *BranchNode:
			if path.IsEmpty() {
				return bytes.Equal(n.Value, expected), nil
			}
			child := n.Children[path.Head()]
			path = path.Tail()
			current, err = resolve(child, proof)
			if err != nil {
				return false, err
			}

		default:
			return false, ErrKeyNotFound
		}
	}
}

// proofNode fetches and decodes the node stored under hash, checking that the
// stored bytes actually hash to the key they were filed under.
func proofNode(hash common.Hash, proof *NodeSet) (Node, error) {
	encoded, ok := proof.Node(hash)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidProof, "missing node %s", hash.Hex())
	}
	if keccak256(encoded) != hash {
		return nil, errors.Wrapf(ErrInvalidProof, "node %s does not match its hash", hash.Hex())
	}
	n, err := DecodeNode(encoded)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidProof, "decode node %s: %v", hash.Hex(), err)
	}
	return n, nil
}

// resolve turns a child reference into a walkable node. Hashed references go
// through the proof set; inline children were decoded eagerly and are used as
// is. An empty child means the walk fell off the trie.
func resolve(child Node, proof *NodeSet) (Node, error) {
	switch n := child.(type) {
	case hashNode:
		return proofNode(common.Hash(n), proof)
	case EmptyNode, nil:
		return nil, ErrKeyNotFound
	default:
		return child, nil
	}
}
