// Package trie implements the hexary merkle-patricia trie over byte keys used
// to commit Ethereum transaction receipts, together with inclusion-proof
// generation and verification against a root hash.
package trie

import (
	"github.com/ethereum/go-ethereum/common"
)

// Trie is an in-memory merkle-patricia trie. Nodes are immutable: every Put
// builds a fresh path to the root and shares all untouched subtrees, so a
// reader holding an old root is never invalidated. A single Trie value is not
// safe for concurrent writers.
type Trie struct {
	root Node
}

// New returns an empty trie. Its hash is Keccak256(RLP("")).
func New() *Trie {
	return &Trie{root: Empty}
}

// Hash returns the Keccak-256 of the root node's encoding.
func (t *Trie) Hash() common.Hash {
	return t.root.Hash()
}

// RootNode exposes the current root.
func (t *Trie) RootNode() Node {
	return t.root
}

// Put inserts or replaces the value for key.
func (t *Trie) Put(key, value []byte) {
	t.root = put(t.root, NibblesFromBytes(key), value)
}

// Get returns the value stored under key, or nil when the key is absent.
// Absence is not an error in this trie: an empty result is a meaningful
// signal to the proof protocol.
func (t *Trie) Get(key []byte) []byte {
	return lookup(t.root, NibblesFromBytes(key))
}

func lookup(n Node, path Nibbles) []byte {
	switch n := n.(type) {
	case *LeafNode:
		if n.Path.Equal(path) {
			return n.Value
		}
		return nil
	case *ExtensionNode:
		if path.StartsWith(n.Path) {
			return lookup(n.Child, path.DropFirst(n.Path.Len()))
		}
		return nil
	case *BranchNode:
		if path.IsEmpty() {
			return n.Value
		}
		return lookup(n.Children[path.Head()], path.Tail())
	default:
		return nil
	}
}

func put(n Node, path Nibbles, value []byte) Node {
	switch n := n.(type) {
	case nil, EmptyNode:
		return &LeafNode{Path: path, Value: value}
	case *LeafNode:
		return putLeaf(n, path, value)
	case *ExtensionNode:
		return putExtension(n, path, value)
	case *BranchNode:
		return putBranch(n, path, value)
	default:
		// hashNode: decoded placeholders never appear in tries built by Put.
		panic("trie: put into unresolved node")
	}
}

func putLeaf(n *LeafNode, path Nibbles, value []byte) Node {
	matched := n.Path.PrefixMatchedLen(path)
	if matched == n.Path.Len() && matched == path.Len() {
		return &LeafNode{Path: n.Path, Value: value}
	}

	// The keys diverge at matched; fan out into a branch there.
	branch := newBranch()
	if rest := n.Path.DropFirst(matched); rest.IsEmpty() {
		branch.Value = n.Value
	} else {
		branch.Children[rest.Head()] = &LeafNode{Path: rest.Tail(), Value: n.Value}
	}
	if rest := path.DropFirst(matched); rest.IsEmpty() {
		branch.Value = value
	} else {
		branch.Children[rest.Head()] = &LeafNode{Path: rest.Tail(), Value: value}
	}

	return wrapPrefix(path[:matched], collapse(branch))
}

func putExtension(n *ExtensionNode, path Nibbles, value []byte) Node {
	matched := n.Path.PrefixMatchedLen(path)
	if matched == n.Path.Len() {
		child := put(n.Child, path.DropFirst(matched), value)
		return &ExtensionNode{Path: n.Path, Child: child}
	}

	// Split the extension at the divergence point.
	branch := newBranch()
	extRest := n.Path.DropFirst(matched)
	if extRest.Len() == 1 {
		branch.Children[extRest.Head()] = n.Child
	} else {
		branch.Children[extRest.Head()] = &ExtensionNode{Path: extRest.Tail(), Child: n.Child}
	}
	if rest := path.DropFirst(matched); rest.IsEmpty() {
		branch.Value = value
	} else {
		branch.Children[rest.Head()] = &LeafNode{Path: rest.Tail(), Value: value}
	}

	return wrapPrefix(n.Path[:matched], collapse(branch))
}

func putBranch(n *BranchNode, path Nibbles, value []byte) Node {
	next := *n
	if path.IsEmpty() {
		next.Value = value
		return collapse(&next)
	}
	next.Children[path.Head()] = put(n.Children[path.Head()], path.Tail(), value)
	return collapse(&next)
}

func newBranch() *BranchNode {
	b := &BranchNode{}
	for i := range b.Children {
		b.Children[i] = Empty
	}
	return b
}

// wrapPrefix puts the shared prefix back in front of a split result.
func wrapPrefix(prefix Nibbles, n Node) Node {
	if prefix.IsEmpty() {
		return n
	}
	if branch, ok := n.(*BranchNode); ok {
		return &ExtensionNode{Path: prefix, Child: branch}
	}
	// The collapse below the prefix produced a short node; merge paths.
	switch n := n.(type) {
	case *LeafNode:
		return &LeafNode{Path: prefix.Concat(n.Path), Value: n.Value}
	case *ExtensionNode:
		return &ExtensionNode{Path: prefix.Concat(n.Path), Child: n.Child}
	default:
		return &ExtensionNode{Path: prefix, Child: n}
	}
}

func isEmptyNode(n Node) bool {
	if n == nil {
		return true
	}
	_, ok := n.(EmptyNode)
	return ok
}

// collapse re-canonicalises a branch: a branch carrying a single child and no
// value must not exist, it is represented by the child with the branching
// nibble folded into its path.
func collapse(b *BranchNode) Node {
	childIndex, childCount := -1, 0
	for i, c := range b.Children {
		if !isEmptyNode(c) {
			childIndex, childCount = i, childCount+1
		}
	}

	if len(b.Value) > 0 {
		if childCount == 0 {
			return &LeafNode{Path: Nibbles{}, Value: b.Value}
		}
		return b
	}

	switch childCount {
	case 0:
		return Empty
	case 1:
		nib := Nibbles{byte(childIndex)}
		switch child := b.Children[childIndex].(type) {
		case *LeafNode:
			return &LeafNode{Path: nib.Concat(child.Path), Value: child.Value}
		case *ExtensionNode:
			return &ExtensionNode{Path: nib.Concat(child.Path), Child: child.Child}
		case *BranchNode:
			return &ExtensionNode{Path: nib, Child: child}
		default:
			return b
		}
	default:
		return b
	}
}
