package proof

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ReceiptProof is the payload shape an on-chain verifier consumes: the
// consensus RLP of the proven receipt, its transaction type, the trie key
// expanded to one byte per nibble, and the proof nodes root first.
type ReceiptProof struct {
	TxReceipt   []byte
	ReceiptType *big.Int
	KeyIndex    []byte
	Proof       [][]byte
}

// Data pairs a receipt proof with the block it belongs to.
type Data struct {
	BlockNum     *big.Int
	ReceiptProof ReceiptProof
}

// Attestation carries the validator material a notary attaches to a proof.
// The core treats it as opaque: the threshold and validator set are inputs
// chosen elsewhere, and no aggregation policy is applied here.
type Attestation struct {
	Threshold  *big.Int
	Validators []common.Address
	Signatures [][]byte
}

// SignedData is a proof accompanied by the receipts root it verifies against
// and the attestation over that root.
type SignedData struct {
	BlockNum     *big.Int
	ReceiptRoot  [32]byte
	Attestation  Attestation
	ReceiptProof ReceiptProof
}
