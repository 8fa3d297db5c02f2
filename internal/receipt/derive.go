package receipt

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/hyperledger-labs/crosschain-interop/pkg/rlp"
	"github.com/hyperledger-labs/crosschain-interop/pkg/trie"
)

// DeriveTrie builds the receipt trie of a block: keys are RLP-encoded
// transaction indices, values are consensus-RLP receipts. Indices below 0x80
// after the first are inserted before index 0 so that short RLP keys go in
// ahead of the single-byte overlap, matching how clients derive the committed
// root; the resulting root does not depend on insertion order.
func DeriveTrie(receipts []*Receipt) (*trie.Trie, error) {
	tr := trie.New()
	insert := func(i int) error {
		value, err := receipts[i].ConsensusRLP()
		if err != nil {
			return errors.Wrapf(err, "receipt %d", i)
		}
		tr.Put(rlp.AppendUint64(nil, uint64(i)), value)
		return nil
	}

	for i := 1; i < len(receipts) && i <= 0x7f; i++ {
		if err := insert(i); err != nil {
			return nil, err
		}
	}
	if len(receipts) > 0 {
		if err := insert(0); err != nil {
			return nil, err
		}
	}
	for i := 0x80; i < len(receipts); i++ {
		if err := insert(i); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

// ReceiptsRoot derives the trie and returns its root hash, the value a block
// header commits in its receiptsRoot field.
func ReceiptsRoot(receipts []*Receipt) (common.Hash, error) {
	tr, err := DeriveTrie(receipts)
	if err != nil {
		return common.Hash{}, err
	}
	return tr.Hash(), nil
}

// VerifyReceiptsRoot reports whether the receipt list commits to root.
func VerifyReceiptsRoot(receipts []*Receipt, root common.Hash) (bool, error) {
	derived, err := ReceiptsRoot(receipts)
	if err != nil {
		return false, err
	}
	return derived == root, nil
}
