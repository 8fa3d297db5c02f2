// Package abi encodes the subset of Solidity value types that appear in event
// parameters: one 32-byte word per static value, offset-plus-tail layout for
// dynamic values, exactly as contract ABI encoding lays them out.
package abi

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/hyperledger-labs/crosschain-interop/pkg/util"
)

// WordSize is the width of every head slot and of an encoded static value.
const WordSize = 32

var (
	// ErrUnsupportedType is returned for any ABI type outside the supported
	// set: string, uint256, uint8, int256, address, bool, bytes.
	ErrUnsupportedType = errors.New("abi: unsupported type")

	// ErrTypeMismatch is returned when a value's shape does not match its
	// declared type.
	ErrTypeMismatch = errors.New("abi: value does not match type")
)

var (
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	minInt256  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	maxInt256  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
)

// IsDynamic reports whether typ uses the offset-plus-tail layout.
func IsDynamic(typ string) bool {
	return typ == "string" || typ == "bytes"
}

// IsSupported reports whether typ is in the encoder's supported set.
func IsSupported(typ string) bool {
	switch typ {
	case "string", "uint256", "uint8", "int256", "address", "bool", "bytes":
		return true
	}
	return false
}

// EncodeValue encodes a single static value into one 32-byte word, the shape
// an indexed event parameter takes as a topic. Dynamic types have no
// single-word form and are rejected here.
func EncodeValue(typ string, value interface{}) ([]byte, error) {
	switch typ {
	case "uint256":
		return encodeUint(value, 256)
	case "uint8":
		return encodeUint(value, 8)
	case "int256":
		return encodeInt(value)
	case "address":
		return encodeAddress(value)
	case "bool":
		return encodeBool(value)
	case "string", "bytes":
		return nil, errors.Wrapf(ErrTypeMismatch, "%s has no single-word encoding", typ)
	default:
		return nil, errors.Wrap(ErrUnsupportedType, typ)
	}
}

// EncodeArguments encodes a value sequence as one contiguous ABI blob: a head
// word per argument, with dynamic arguments deferred to the tail behind a
// byte offset.
func EncodeArguments(types []string, values []interface{}) ([]byte, error) {
	if len(types) != len(values) {
		return nil, errors.Wrapf(ErrTypeMismatch, "%d types for %d values", len(types), len(values))
	}

	head := make([][]byte, len(types))
	var tail []byte
	headSize := len(types) * WordSize

	for i, typ := range types {
		if !IsSupported(typ) {
			return nil, errors.Wrap(ErrUnsupportedType, typ)
		}
		if !IsDynamic(typ) {
			word, err := EncodeValue(typ, values[i])
			if err != nil {
				return nil, err
			}
			head[i] = word
			continue
		}

		data, err := dynamicBytes(typ, values[i])
		if err != nil {
			return nil, err
		}
		head[i] = padUintWord(uint64(headSize + len(tail)))
		tail = append(tail, encodeDynamicTail(data)...)
	}

	out := make([]byte, 0, headSize+len(tail))
	for _, word := range head {
		out = append(out, word...)
	}
	return append(out, tail...), nil
}

// encodeDynamicTail lays out a dynamic value as its length word followed by
// the data right-padded to a word multiple.
func encodeDynamicTail(data []byte) []byte {
	out := padUintWord(uint64(len(data)))
	out = append(out, data...)
	if rem := len(data) % WordSize; rem != 0 {
		out = append(out, make([]byte, WordSize-rem)...)
	}
	return out
}

func dynamicBytes(typ string, value interface{}) ([]byte, error) {
	switch typ {
	case "string":
		s, ok := value.(string)
		if !ok {
			return nil, errors.Wrapf(ErrTypeMismatch, "string requires a Go string, got %T", value)
		}
		return []byte(s), nil
	case "bytes":
		switch v := value.(type) {
		case []byte:
			return v, nil
		case string:
			decoded, err := util.FromHexString(v)
			if err != nil {
				return nil, errors.Wrap(ErrTypeMismatch, err.Error())
			}
			return decoded, nil
		default:
			return nil, errors.Wrapf(ErrTypeMismatch, "bytes requires []byte or hex string, got %T", value)
		}
	default:
		return nil, errors.Wrap(ErrUnsupportedType, typ)
	}
}

func encodeUint(value interface{}, bits uint) ([]byte, error) {
	i, err := toBig(value)
	if err != nil {
		return nil, err
	}
	if i.Sign() < 0 {
		return nil, errors.Wrapf(ErrTypeMismatch, "negative value for uint%d", bits)
	}
	if i.BitLen() > int(bits) {
		return nil, errors.Wrapf(ErrTypeMismatch, "value overflows uint%d", bits)
	}
	return padLeft(i.Bytes()), nil
}

func encodeInt(value interface{}) ([]byte, error) {
	i, err := toBig(value)
	if err != nil {
		return nil, err
	}
	if i.Cmp(minInt256) < 0 || i.Cmp(maxInt256) > 0 {
		return nil, errors.Wrap(ErrTypeMismatch, "value overflows int256")
	}
	if i.Sign() < 0 {
		// Two's complement within 256 bits.
		i = new(big.Int).Add(new(big.Int).Add(maxUint256, big.NewInt(1)), i)
	}
	return padLeft(i.Bytes()), nil
}

func encodeAddress(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case common.Address:
		return padLeft(v.Bytes()), nil
	case string:
		if !strings.HasPrefix(v, "0x") || len(v) != 2+2*common.AddressLength {
			return nil, errors.Wrapf(ErrTypeMismatch, "address requires a 20-byte 0x hex string, got %q", v)
		}
		decoded, err := util.FromHexString(v)
		if err != nil {
			return nil, errors.Wrap(ErrTypeMismatch, err.Error())
		}
		return padLeft(decoded), nil
	default:
		return nil, errors.Wrapf(ErrTypeMismatch, "address requires common.Address or hex string, got %T", value)
	}
}

func encodeBool(value interface{}) ([]byte, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, errors.Wrapf(ErrTypeMismatch, "bool requires a Go bool, got %T", value)
	}
	word := make([]byte, WordSize)
	if b {
		word[WordSize-1] = 1
	}
	return word, nil
}

func toBig(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, errors.Wrap(ErrTypeMismatch, "nil *big.Int")
		}
		return v, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case uint8:
		return big.NewInt(int64(v)), nil
	default:
		return nil, errors.Wrapf(ErrTypeMismatch, "numeric value requires *big.Int or integer, got %T", value)
	}
}

func padUintWord(i uint64) []byte {
	return padLeft(new(big.Int).SetUint64(i).Bytes())
}

func padLeft(b []byte) []byte {
	word := make([]byte, WordSize)
	copy(word[WordSize-len(b):], b)
	return word
}
