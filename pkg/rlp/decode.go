package rlp

import (
	"github.com/pkg/errors"
)

// ErrMalformed is the root cause of every decoding failure: truncated input,
// trailing bytes, or a prefix that is not the canonical encoding of its
// payload.
var ErrMalformed = errors.New("rlp: malformed input")

// Decode parses exactly one RLP value from b. Trailing bytes after the value
// are rejected.
func Decode(b []byte) (Value, error) {
	v, rest, err := decodeValue(b)
	if err != nil {
		return Value{}, err
	}
	if len(rest) != 0 {
		return Value{}, errors.Wrapf(ErrMalformed, "%d trailing bytes", len(rest))
	}
	return v, nil
}

// DecodeList parses b as a list and returns its elements.
func DecodeList(b []byte) ([]Value, error) {
	v, err := Decode(b)
	if err != nil {
		return nil, err
	}
	if v.Kind != KindList {
		return nil, errors.Wrap(ErrMalformed, "expected list")
	}
	return v.List, nil
}

func decodeValue(b []byte) (Value, []byte, error) {
	if len(b) == 0 {
		return Value{}, nil, errors.Wrap(ErrMalformed, "empty input")
	}
	prefix := b[0]
	switch {
	case prefix < 0x80:
		return StringValue(b[:1]), b[1:], nil

	case prefix <= 0xB7:
		size := int(prefix - 0x80)
		payload, rest, err := take(b[1:], size)
		if err != nil {
			return Value{}, nil, err
		}
		if size == 1 && payload[0] < 0x80 {
			return Value{}, nil, errors.Wrap(ErrMalformed, "non-canonical single byte")
		}
		return StringValue(payload), rest, nil

	case prefix <= 0xBF:
		size, rest, err := longSize(b[1:], int(prefix-0xB7))
		if err != nil {
			return Value{}, nil, err
		}
		if size < 56 {
			return Value{}, nil, errors.Wrap(ErrMalformed, "non-canonical string length")
		}
		payload, rest, err := take(rest, size)
		if err != nil {
			return Value{}, nil, err
		}
		return StringValue(payload), rest, nil

	case prefix <= 0xF7:
		size := int(prefix - 0xC0)
		payload, rest, err := take(b[1:], size)
		if err != nil {
			return Value{}, nil, err
		}
		items, err := decodeListPayload(payload)
		if err != nil {
			return Value{}, nil, err
		}
		return ListValue(items...), rest, nil

	default:
		size, rest, err := longSize(b[1:], int(prefix-0xF7))
		if err != nil {
			return Value{}, nil, err
		}
		if size < 56 {
			return Value{}, nil, errors.Wrap(ErrMalformed, "non-canonical list length")
		}
		payload, rest, err := take(rest, size)
		if err != nil {
			return Value{}, nil, err
		}
		items, err := decodeListPayload(payload)
		if err != nil {
			return Value{}, nil, err
		}
		return ListValue(items...), rest, nil
	}
}

func decodeListPayload(payload []byte) ([]Value, error) {
	items := []Value{}
	for len(payload) > 0 {
		item, rest, err := decodeValue(payload)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		payload = rest
	}
	return items, nil
}

// longSize reads an n-byte big-endian length. Leading zero bytes make the
// length non-canonical and are rejected.
func longSize(b []byte, n int) (int, []byte, error) {
	if n == 0 || n > 8 {
		return 0, nil, errors.Wrap(ErrMalformed, "bad length-of-length")
	}
	if len(b) < n {
		return 0, nil, errors.Wrap(ErrMalformed, "truncated length")
	}
	if b[0] == 0 {
		return 0, nil, errors.Wrap(ErrMalformed, "length has leading zero")
	}
	var size uint64
	for i := 0; i < n; i++ {
		size = size<<8 | uint64(b[i])
	}
	if size > uint64(int(^uint(0)>>1)) {
		return 0, nil, errors.Wrap(ErrMalformed, "length overflow")
	}
	return int(size), b[n:], nil
}

func take(b []byte, n int) ([]byte, []byte, error) {
	if len(b) < n {
		return nil, nil, errors.Wrapf(ErrMalformed, "need %d bytes, have %d", n, len(b))
	}
	return b[:n], b[n:], nil
}
