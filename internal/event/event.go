// Package event builds the canonical fingerprint of an EVM log - signature
// hash, indexed topics, data blob - and locates that fingerprint inside a
// decoded transaction receipt.
package event

import (
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/hyperledger-labs/crosschain-interop/pkg/abi"
	"github.com/hyperledger-labs/crosschain-interop/pkg/util"
)

// ErrInvalidSignature is returned when an event signature cannot be parsed
// into a name and a parenthesised type list.
var ErrInvalidSignature = errors.New("event: invalid signature")

// Param is one event parameter: its declared ABI type, the value, and
// whether the contract declared it indexed.
type Param struct {
	Type    string
	Value   interface{}
	Indexed bool
}

// Indexed annotates a parameter that the contract emits as a topic.
func Indexed(typ string, value interface{}) Param {
	return Param{Type: typ, Value: value, Indexed: true}
}

// NonIndexed annotates a parameter emitted in the data blob.
func NonIndexed(typ string, value interface{}) Param {
	return Param{Type: typ, Value: value}
}

// Encoded is the fingerprint of an emitted log: the emitting contract, the
// topic list headed by the signature hash, and the ABI blob of the
// non-indexed parameters. All hex is lowercase and 0x-prefixed.
type Encoded struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// Encode builds the fingerprint for an event emitted by contractAddress with
// the given signature, e.g. "Transfer(address,address,uint256)". Parameter
// values are paired with the signature's types in order; indexed parameters
// must be value types, one 32-byte topic each, and the rest are laid out as
// one contiguous data blob.
func Encode(contractAddress, signature string, params ...Param) (*Encoded, error) {
	addr, err := util.FromHexString(contractAddress)
	if err != nil || len(addr) != common.AddressLength {
		return nil, errors.Wrapf(abi.ErrTypeMismatch, "contract address %q is not a 20-byte hex string", contractAddress)
	}

	signature = stripWhitespace(signature)
	types, err := parseSignatureTypes(signature)
	if err != nil {
		return nil, err
	}
	if len(types) != len(params) {
		return nil, errors.Wrapf(abi.ErrTypeMismatch,
			"signature %s declares %d parameters, got %d values", signature, len(types), len(params))
	}

	topics := []string{crypto.Keccak256Hash([]byte(signature)).Hex()}

	var dataTypes []string
	var dataValues []interface{}
	for i, typ := range types {
		if !abi.IsSupported(typ) {
			return nil, errors.Wrap(abi.ErrUnsupportedType, typ)
		}
		if !params[i].Indexed {
			dataTypes = append(dataTypes, typ)
			dataValues = append(dataValues, params[i].Value)
			continue
		}
		if abi.IsDynamic(typ) {
			// Indexed reference types are stored as hashes on chain; the
			// protocol's events carry value types only.
			return nil, errors.Wrapf(abi.ErrUnsupportedType, "indexed %s", typ)
		}
		word, err := abi.EncodeValue(typ, params[i].Value)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %d", i)
		}
		topics = append(topics, util.ToHexString(word))
	}

	data, err := abi.EncodeArguments(dataTypes, dataValues)
	if err != nil {
		return nil, err
	}

	return &Encoded{
		Address: util.ToHexString(addr),
		Topics:  topics,
		Data:    util.ToHexString(data),
	}, nil
}

// parseSignatureTypes extracts the comma-separated types between the
// signature's outer parentheses.
func parseSignatureTypes(signature string) ([]string, error) {
	open := strings.Index(signature, "(")
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return nil, errors.Wrap(ErrInvalidSignature, signature)
	}
	inner := signature[open+1 : len(signature)-1]
	if inner == "" {
		return nil, nil
	}
	types := strings.Split(inner, ",")
	for i, typ := range types {
		types[i] = strings.TrimSpace(typ)
		if types[i] == "" {
			return nil, errors.Wrap(ErrInvalidSignature, signature)
		}
	}
	return types, nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
