package proof

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// getBytesAbiJSON mirrors the verifier contract's getBytes helper: a single
// tuple argument whose ABI encoding is the byte payload submitted on chain.
const getBytesAbiJSON = `[
  {
    "name": "getBytes",
    "type": "function",
    "stateMutability": "pure",
    "inputs": [
      {
        "name": "_data",
        "type": "tuple",
        "components": [
          {"name": "blockNum", "type": "uint256"},
          {
            "name": "receiptProof",
            "type": "tuple",
            "components": [
              {"name": "txReceipt", "type": "bytes"},
              {"name": "receiptType", "type": "uint256"},
              {"name": "keyIndex", "type": "bytes"},
              {"name": "proof", "type": "bytes[]"}
            ]
          }
        ]
      }
    ],
    "outputs": [{"name": "", "type": "bytes"}]
  }
]`

const methodOfGetBytes = "getBytes"

var packAbi abi.ABI

func init() {
	var err error
	packAbi, err = abi.JSON(strings.NewReader(getBytesAbiJSON))
	if err != nil {
		panic(err)
	}
}

// Pack ABI-encodes a proof payload the way the verifier contract unpacks it.
func Pack(d *Data) ([]byte, error) {
	input, err := packAbi.Methods[methodOfGetBytes].Inputs.Pack(*d)
	if err != nil {
		return nil, errors.Wrap(err, "pack getBytes failed")
	}
	return input, nil
}
