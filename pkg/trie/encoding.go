package trie

import (
	"github.com/pkg/errors"
)

// Hex-prefix encoding as specified in the Yellow Paper, Appendix C. The high
// nibble of the first byte carries two flags: 0x2 when the path belongs to a
// leaf, 0x1 when the nibble count is odd. An even-length path gets a zero
// padding nibble so the packed form always ends on a byte boundary.

const (
	hpOddFlag  = 0x1
	hpLeafFlag = 0x2
)

// hexPrefixEncode packs a nibble path and a leaf flag into bytes.
func hexPrefixEncode(path Nibbles, leaf bool) []byte {
	flags := byte(0)
	if leaf {
		flags = hpLeafFlag
	}
	out := make([]byte, 0, len(path)/2+1)
	if len(path)%2 == 1 {
		out = append(out, (flags|hpOddFlag)<<4|path[0])
		path = path.Tail()
	} else {
		out = append(out, flags<<4)
	}
	for i := 0; i < len(path); i += 2 {
		out = append(out, path[i]<<4|path[i+1])
	}
	return out
}

// hexPrefixDecode recovers the nibble path and leaf flag from a hex-prefix
// encoding.
func hexPrefixDecode(b []byte) (Nibbles, bool, error) {
	if len(b) == 0 {
		return nil, false, errors.Wrap(ErrInvalidNode, "empty hex-prefix encoding")
	}
	flags := b[0] >> 4
	if flags > 3 {
		return nil, false, errors.Wrapf(ErrInvalidNode, "bad hex-prefix flags %#x", flags)
	}
	leaf := flags&hpLeafFlag != 0

	path := make(Nibbles, 0, len(b)*2)
	if flags&hpOddFlag != 0 {
		path = append(path, b[0]&0x0F)
	} else if b[0]&0x0F != 0 {
		return nil, false, errors.Wrap(ErrInvalidNode, "nonzero hex-prefix padding")
	}
	for _, c := range b[1:] {
		path = append(path, c>>4, c&0x0F)
	}
	return path, leaf, nil
}
