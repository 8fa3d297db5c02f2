package trie

import (
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// keccak256 hashes data with the legacy (pre-NIST) Keccak-256 used across
// Ethereum consensus structures.
func keccak256(data []byte) common.Hash {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	var h common.Hash
	copy(h[:], d.Sum(nil))
	return h
}
