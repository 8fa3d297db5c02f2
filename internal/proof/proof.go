// Copyright 2021 Compass Systems
// SPDX-License-Identifier: LGPL-3.0-only

// Package proof assembles and checks inclusion proofs for transaction
// receipts: it derives the block's receipt trie, extracts the node path for
// one transaction index, and packages it for an on-chain verifier.
package proof

import (
	"math/big"

	log "github.com/ChainSafe/log15"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/hyperledger-labs/crosschain-interop/internal/event"
	"github.com/hyperledger-labs/crosschain-interop/internal/receipt"
	"github.com/hyperledger-labs/crosschain-interop/pkg/rlp"
	"github.com/hyperledger-labs/crosschain-interop/pkg/trie"
	"github.com/hyperledger-labs/crosschain-interop/pkg/util"
)

// Get derives the receipt trie and returns the proof nodes for txIndex,
// root first.
func Get(receipts []*receipt.Receipt, txIndex uint) ([][]byte, error) {
	if int(txIndex) >= len(receipts) {
		return nil, errors.Errorf("tx index %d out of range, block has %d receipts", txIndex, len(receipts))
	}
	tr, err := receipt.DeriveTrie(receipts)
	if err != nil {
		return nil, errors.Wrap(err, "derive receipt trie")
	}

	key := rlp.AppendUint64(nil, uint64(txIndex))
	ns, err := tr.Prove(key)
	if err != nil {
		return nil, errors.Wrapf(err, "prove tx index %d", txIndex)
	}
	log.Debug("generated receipt proof", "txIndex", txIndex, "nodes", ns.KeyCount(), "root", tr.Hash())
	return ns.NodeList(), nil
}

// Assemble builds the full proof payload for one transaction of a block.
func Assemble(receipts []*receipt.Receipt, txIndex uint, blockNum *big.Int) (*Data, error) {
	prf, err := Get(receipts, txIndex)
	if err != nil {
		return nil, err
	}

	target := receipts[txIndex]
	receiptRLP, err := target.ConsensusRLP()
	if err != nil {
		return nil, errors.Wrapf(err, "encode receipt %d", txIndex)
	}
	typeByte, err := target.TypeByte()
	if err != nil {
		return nil, err
	}

	key := rlp.AppendUint64(nil, uint64(txIndex))
	return &Data{
		BlockNum: blockNum,
		ReceiptProof: ReceiptProof{
			TxReceipt:   receiptRLP,
			ReceiptType: big.NewInt(int64(typeByte)),
			KeyIndex:    util.Key2Hex(key),
			Proof:       prf,
		},
	}, nil
}

// Verify replays proof nodes against a block's receiptsRoot and reports
// whether they commit txIndex to receiptRLP.
func Verify(root common.Hash, txIndex uint, receiptRLP []byte, nodes [][]byte) (bool, error) {
	key := rlp.AppendUint64(nil, uint64(txIndex))
	ok, err := trie.VerifyProof(root, key, receiptRLP, trie.NodeSetFromList(nodes))
	if err != nil {
		return false, err
	}
	if !ok {
		log.Debug("receipt proof mismatch", "txIndex", txIndex, "root", root)
	}
	return ok, nil
}

// VerifyEvent runs the full event check: the fingerprint must appear exactly
// once in the receipt, and the receipt must be committed under txIndex by the
// block's receiptsRoot.
func VerifyEvent(root common.Hash, txIndex uint, r *receipt.Receipt, nodes [][]byte, fingerprint *event.Encoded) (bool, error) {
	if !fingerprint.IsFoundIn(r) {
		return false, nil
	}
	receiptRLP, err := r.ConsensusRLP()
	if err != nil {
		return false, err
	}
	return Verify(root, txIndex, receiptRLP, nodes)
}
