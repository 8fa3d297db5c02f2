package trie

import "errors"

var (
	// ErrKeyNotFound is returned when a proof is requested for a key the trie
	// does not contain, and when a verification walk diverges from the key.
	// Only inclusion proofs are supported.
	ErrKeyNotFound = errors.New("trie: key is not part of the trie")

	// ErrInvalidProof is returned when verification cannot locate a referenced
	// node in the proof set, finds a node that does not match its hash, or
	// decodes a malformed node.
	ErrInvalidProof = errors.New("trie: invalid proof")

	// ErrInvalidNode is returned when encoded bytes do not conform to any of
	// the four canonical node shapes.
	ErrInvalidNode = errors.New("trie: invalid node encoding")
)
