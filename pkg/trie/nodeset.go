package trie

import (
	"github.com/ethereum/go-ethereum/common"
)

// NodeSet is an insertion-ordered collection of RLP-encoded trie nodes keyed
// by their Keccak-256 hash. It is the wire shape of an inclusion proof: the
// generator fills it along the root-to-leaf walk and the verifier reads it
// back by hash.
type NodeSet struct {
	order []common.Hash
	nodes map[common.Hash][]byte
}

// NewNodeSet returns an empty set.
func NewNodeSet() *NodeSet {
	return &NodeSet{nodes: make(map[common.Hash][]byte)}
}

// Put stores an encoded node under its hash. Re-inserting a known hash keeps
// the original position.
func (ns *NodeSet) Put(hash common.Hash, encoded []byte) {
	if _, ok := ns.nodes[hash]; ok {
		return
	}
	ns.order = append(ns.order, hash)
	ns.nodes[hash] = encoded
}

// Node returns the encoded node stored under hash.
func (ns *NodeSet) Node(hash common.Hash) ([]byte, bool) {
	encoded, ok := ns.nodes[hash]
	return encoded, ok
}

// Has reports whether hash is present.
func (ns *NodeSet) Has(hash common.Hash) bool {
	_, ok := ns.nodes[hash]
	return ok
}

// KeyCount returns the number of stored nodes.
func (ns *NodeSet) KeyCount() int {
	return len(ns.order)
}

// NodeSetFromList rebuilds a set from encoded nodes received off the wire,
// keying each node by its hash.
func NodeSetFromList(nodes [][]byte) *NodeSet {
	ns := NewNodeSet()
	for _, encoded := range nodes {
		ns.Put(keccak256(encoded), encoded)
	}
	return ns
}

// NodeList returns the encoded nodes in insertion order, root first.
func (ns *NodeSet) NodeList() [][]byte {
	list := make([][]byte, 0, len(ns.order))
	for _, hash := range ns.order {
		list = append(list, ns.nodes[hash])
	}
	return list
}
