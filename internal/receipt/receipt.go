// Package receipt models Ethereum transaction receipts the way the proof
// protocol consumes them: the JSON shape delivered by an RPC endpoint for
// log matching, and the consensus RLP that values the block's receipt trie.
package receipt

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/hyperledger-labs/crosschain-interop/pkg/rlp"
	"github.com/hyperledger-labs/crosschain-interop/pkg/util"
)

const bloomLength = 256

var (
	statusFailedRLP     = []byte{}
	statusSuccessfulRLP = []byte{0x01}
)

// Log is a single event entry of a receipt as reported over RPC. Hex fields
// keep whatever casing the source used; comparisons are case-insensitive.
type Log struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
	Removed bool     `json:"removed"`
}

// Receipt is the RPC shape of a transaction receipt, restricted to the
// consensus fields the receipt trie commits.
type Receipt struct {
	Type              string `json:"type,omitempty"`
	Status            string `json:"status"`
	CumulativeGasUsed string `json:"cumulativeGasUsed"`
	Bloom             string `json:"logsBloom"`
	Logs              []Log  `json:"logs"`
}

// Succeeded reports whether the receipt's status is non-zero. A receipt
// carrying a pre-Byzantium state root instead of a status also counts as
// succeeded; reverts only exist in the status scheme.
func (r *Receipt) Succeeded() bool {
	status, isRoot, err := r.statusBytes()
	if err != nil {
		return false
	}
	if isRoot {
		return true
	}
	return len(status) > 0
}

// TypeByte returns the EIP-2718 transaction type, zero for legacy receipts.
func (r *Receipt) TypeByte() (uint8, error) {
	if r.Type == "" {
		return 0, nil
	}
	t, err := hexutil.DecodeUint64(r.Type)
	if err != nil {
		return 0, errors.Wrapf(err, "receipt type %q", r.Type)
	}
	if t > 0x7f {
		return 0, errors.Errorf("receipt type %#x out of range", t)
	}
	return uint8(t), nil
}

// ConsensusRLP encodes the receipt's consensus fields
// [statusOrPostState, cumulativeGasUsed, bloom, logs], prefixed with the
// transaction type byte for typed receipts. This is the value stored in the
// block's receipt trie.
func (r *Receipt) ConsensusRLP() ([]byte, error) {
	status, _, err := r.statusBytes()
	if err != nil {
		return nil, err
	}
	gas, err := hexutil.DecodeUint64(zeroIfEmpty(r.CumulativeGasUsed))
	if err != nil {
		return nil, errors.Wrapf(err, "cumulative gas %q", r.CumulativeGasUsed)
	}
	bloom, err := r.bloomBytes()
	if err != nil {
		return nil, err
	}

	logs := make([]rlp.Value, 0, len(r.Logs))
	for i, lg := range r.Logs {
		v, err := lg.rlpValue()
		if err != nil {
			return nil, errors.Wrapf(err, "log %d", i)
		}
		logs = append(logs, v)
	}

	encoded := rlp.Encode(rlp.ListValue(
		rlp.StringValue(status),
		rlp.StringValue(uintBytes(gas)),
		rlp.StringValue(bloom),
		rlp.ListValue(logs...),
	))

	typeByte, err := r.TypeByte()
	if err != nil {
		return nil, err
	}
	if typeByte == 0 {
		return encoded, nil
	}
	return append([]byte{typeByte}, encoded...), nil
}

// rlpValue encodes a log as [address, [topic, ...], data].
func (lg Log) rlpValue() (rlp.Value, error) {
	addr, err := util.FromHexString(lg.Address)
	if err != nil {
		return rlp.Value{}, err
	}
	if len(addr) != common.AddressLength {
		return rlp.Value{}, errors.Errorf("log address %q is not 20 bytes", lg.Address)
	}
	topics := make([]rlp.Value, 0, len(lg.Topics))
	for _, topic := range lg.Topics {
		b, err := util.FromHexString(topic)
		if err != nil {
			return rlp.Value{}, err
		}
		if len(b) != common.HashLength {
			return rlp.Value{}, errors.Errorf("topic %q is not 32 bytes", topic)
		}
		topics = append(topics, rlp.StringValue(b))
	}
	data, err := util.FromHexString(lg.Data)
	if err != nil {
		return rlp.Value{}, err
	}
	return rlp.ListValue(
		rlp.StringValue(addr),
		rlp.ListValue(topics...),
		rlp.StringValue(data),
	), nil
}

// statusBytes maps the hex status to its consensus form: empty for failed,
// 0x01 for succeeded, or the 32-byte pre-Byzantium state root untouched.
func (r *Receipt) statusBytes() ([]byte, bool, error) {
	s := strings.TrimPrefix(r.Status, "0x")
	if len(s) == 2*common.HashLength {
		root, err := util.FromHexString(r.Status)
		if err != nil {
			return nil, false, errors.Wrapf(err, "receipt state root %q", r.Status)
		}
		return root, true, nil
	}
	status, err := hexutil.DecodeUint64(zeroIfEmpty(r.Status))
	if err != nil {
		return nil, false, errors.Wrapf(err, "receipt status %q", r.Status)
	}
	if status == 0 {
		return statusFailedRLP, false, nil
	}
	return statusSuccessfulRLP, false, nil
}

func (r *Receipt) bloomBytes() ([]byte, error) {
	bloom, err := util.FromHexString(r.Bloom)
	if err != nil {
		return nil, errors.Wrap(err, "logs bloom")
	}
	if len(bloom) == 0 {
		return make([]byte, bloomLength), nil
	}
	if len(bloom) != bloomLength {
		return nil, errors.Errorf("logs bloom is %d bytes, want %d", len(bloom), bloomLength)
	}
	return bloom, nil
}

// FromGethReceipt converts a go-ethereum receipt into the wire shape.
func FromGethReceipt(r *ethtypes.Receipt) *Receipt {
	out := &Receipt{
		Type:              hexutil.EncodeUint64(uint64(r.Type)),
		Status:            hexutil.EncodeUint64(r.Status),
		CumulativeGasUsed: hexutil.EncodeUint64(r.CumulativeGasUsed),
		Bloom:             util.ToHexString(r.Bloom.Bytes()),
	}
	if len(r.PostState) == common.HashLength {
		out.Status = util.ToHexString(r.PostState)
	}
	for _, lg := range r.Logs {
		topics := make([]string, 0, len(lg.Topics))
		for _, topic := range lg.Topics {
			topics = append(topics, topic.Hex())
		}
		out.Logs = append(out.Logs, Log{
			Address: strings.ToLower(lg.Address.Hex()),
			Topics:  topics,
			Data:    util.ToHexString(lg.Data),
			Removed: lg.Removed,
		})
	}
	return out
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0x0"
	}
	return s
}

func uintBytes(i uint64) []byte {
	if i == 0 {
		return nil
	}
	var out []byte
	for shift := 56; shift >= 0; shift -= 8 {
		c := byte(i >> uint(shift))
		if len(out) == 0 && c == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}
