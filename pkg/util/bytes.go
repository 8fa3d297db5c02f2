// Copyright 2021 Compass Systems
// SPDX-License-Identifier: LGPL-3.0-only

package util

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Key2Hex expands an RLP-encoded trie key into one byte per nibble, the key
// shape on-chain proof verifiers walk.
func Key2Hex(key []byte) []byte {
	ret := make([]byte, 0, len(key)*2)
	for _, b := range key {
		ret = append(ret, b/16, b%16)
	}
	return ret
}

// FromHexString decodes a hex string with or without a 0x prefix. An odd
// number of characters is evened up with a leading zero.
func FromHexString(data string) ([]byte, error) {
	data = strings.TrimPrefix(data, "0x")
	if len(data)%2 == 1 {
		data = "0" + data
	}
	ret, err := hex.DecodeString(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode hex %q", data)
	}
	return ret, nil
}

// ToHexString renders bytes as lowercase 0x-prefixed hex.
func ToHexString(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

// EqualHex compares two hex strings ignoring case and 0x prefixes. Ethereum
// addresses and hashes are hex with informational checksum casing only.
func EqualHex(a, b string) bool {
	return normalizeHex(a) == normalizeHex(b)
}

func normalizeHex(s string) string {
	return strings.TrimPrefix(strings.ToLower(s), "0x")
}

// HashToByte copies a hash into a fresh byte slice.
func HashToByte(h common.Hash) []byte {
	ret := make([]byte, len(h))
	copy(ret, h[:])
	return ret
}
