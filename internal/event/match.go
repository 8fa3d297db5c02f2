package event

import (
	"github.com/hyperledger-labs/crosschain-interop/internal/receipt"
	"github.com/hyperledger-labs/crosschain-interop/pkg/util"
)

// FindIn searches a decoded receipt for the log this fingerprint describes.
// It reports success only when exactly one live log matches: the protocol
// embeds a draft-transaction identifier in every event, so two matches mean
// the receipt cannot be attributed and the proof must not proceed. Failed
// receipts and removed logs never match.
func (e *Encoded) FindIn(r *receipt.Receipt) (bool, receipt.Log) {
	if r == nil || !r.Succeeded() {
		return false, receipt.Log{}
	}

	var match receipt.Log
	count := 0
	for _, lg := range r.Logs {
		if lg.Removed {
			continue
		}
		if e.matches(lg) {
			match = lg
			count++
		}
	}
	if count != 1 {
		return false, receipt.Log{}
	}
	return true, match
}

// IsFoundIn reports whether exactly one live log of the receipt matches.
func (e *Encoded) IsFoundIn(r *receipt.Receipt) bool {
	found, _ := e.FindIn(r)
	return found
}

// matches compares address, topic list and data, all case-insensitively:
// hex casing in receipt fields is informational.
func (e *Encoded) matches(lg receipt.Log) bool {
	if !util.EqualHex(e.Address, lg.Address) {
		return false
	}
	if len(e.Topics) != len(lg.Topics) {
		return false
	}
	for i, topic := range e.Topics {
		if !util.EqualHex(topic, lg.Topics[i]) {
			return false
		}
	}
	return util.EqualHex(e.Data, lg.Data)
}
