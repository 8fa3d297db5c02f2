// Copyright 2021 Compass Systems
// SPDX-License-Identifier: LGPL-3.0-only

// proofctl is a thin shell over the event-proof core: it encodes event
// fingerprints, derives receipt-trie roots, and generates or checks inclusion
// proofs from receipt lists held in JSON files. All trust decisions stay with
// the caller.
package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/hyperledger-labs/crosschain-interop/internal/event"
	"github.com/hyperledger-labs/crosschain-interop/internal/proof"
	"github.com/hyperledger-labs/crosschain-interop/internal/receipt"
	"github.com/hyperledger-labs/crosschain-interop/pkg/util"
)

var app = cli.NewApp()

var (
	receiptsFlag = &cli.StringFlag{
		Name:     "receipts",
		Usage:    "path to a JSON array of transaction receipts",
		Required: true,
	}
	txIndexFlag = &cli.UintFlag{
		Name:  "tx-index",
		Usage: "transaction index inside the block",
	}
	blockNumFlag = &cli.Uint64Flag{
		Name:  "block",
		Usage: "block number carried in the assembled payload",
	}
	rootFlag = &cli.StringFlag{
		Name:  "root",
		Usage: "expected receiptsRoot (0x hex)",
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "log level: debug, info, warn, error",
		Value: "info",
	}
)

func main() {
	app.Name = "proofctl"
	app.Usage = "encode EVM event fingerprints and work with receipt inclusion proofs"
	app.Flags = []cli.Flag{verbosityFlag}
	app.Before = func(ctx *cli.Context) error {
		level, err := log.ParseLevel(ctx.String(verbosityFlag.Name))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	}
	app.Commands = []*cli.Command{
		{
			Name:      "encode-event",
			Usage:     "build the (address, topics, data) fingerprint of an event",
			ArgsUsage: "<contract-address> <signature> [indexed:type=value|type=value ...]",
			Action:    handleEncodeEvent,
		},
		{
			Name:   "receipts-root",
			Usage:  "derive the receipt-trie root of a block",
			Flags:  []cli.Flag{receiptsFlag},
			Action: handleReceiptsRoot,
		},
		{
			Name:   "prove",
			Usage:  "assemble the inclusion proof payload for one transaction",
			Flags:  []cli.Flag{receiptsFlag, txIndexFlag, blockNumFlag},
			Action: handleProve,
		},
		{
			Name:   "verify",
			Usage:  "derive the inclusion proof for one transaction and check it against a receiptsRoot",
			Flags:  []cli.Flag{rootFlag, txIndexFlag, receiptsFlag},
			Action: handleVerify,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func handleEncodeEvent(ctx *cli.Context) error {
	args := ctx.Args()
	if args.Len() < 2 {
		return fmt.Errorf("usage: %s", ctx.Command.ArgsUsage)
	}
	params := make([]event.Param, 0, args.Len()-2)
	for _, raw := range args.Slice()[2:] {
		param, err := parseParam(raw)
		if err != nil {
			return err
		}
		params = append(params, param)
	}

	encoded, err := event.Encode(args.Get(0), args.Get(1), params...)
	if err != nil {
		return err
	}
	return printJSON(encoded)
}

// parseParam reads "indexed:type=value" or "type=value". Numeric values are
// decimal or 0x hex; a bool is true only for the text "true"; everything else
// passes through as a string.
func parseParam(raw string) (event.Param, error) {
	indexed := false
	if strings.HasPrefix(raw, "indexed:") {
		indexed = true
		raw = strings.TrimPrefix(raw, "indexed:")
	}
	typ, rawValue, ok := strings.Cut(raw, "=")
	if !ok {
		return event.Param{}, fmt.Errorf("parameter %q is not type=value", raw)
	}

	var value interface{} = rawValue
	switch typ {
	case "uint256", "uint8", "int256":
		i, ok := new(big.Int).SetString(strings.TrimPrefix(rawValue, "0x"), pickBase(rawValue))
		if !ok {
			return event.Param{}, fmt.Errorf("parameter %q is not a number", raw)
		}
		value = i
	case "bool":
		value = rawValue == "true"
	}
	return event.Param{Type: typ, Value: value, Indexed: indexed}, nil
}

func pickBase(s string) int {
	if strings.HasPrefix(s, "0x") {
		return 16
	}
	return 10
}

func handleReceiptsRoot(ctx *cli.Context) error {
	receipts, err := loadReceipts(ctx.String(receiptsFlag.Name))
	if err != nil {
		return err
	}
	root, err := receipt.ReceiptsRoot(receipts)
	if err != nil {
		return err
	}
	fmt.Println(root.Hex())
	return nil
}

func handleProve(ctx *cli.Context) error {
	receipts, err := loadReceipts(ctx.String(receiptsFlag.Name))
	if err != nil {
		return err
	}
	txIndex := ctx.Uint(txIndexFlag.Name)

	data, err := proof.Assemble(receipts, txIndex, new(big.Int).SetUint64(ctx.Uint64(blockNumFlag.Name)))
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"txIndex": txIndex, "nodes": len(data.ReceiptProof.Proof)}).Debug("assembled proof")

	out := struct {
		BlockNum    *big.Int `json:"blockNum"`
		TxReceipt   string   `json:"txReceipt"`
		ReceiptType *big.Int `json:"receiptType"`
		KeyIndex    string   `json:"keyIndex"`
		Proof       []string `json:"proof"`
	}{
		BlockNum:    data.BlockNum,
		TxReceipt:   util.ToHexString(data.ReceiptProof.TxReceipt),
		ReceiptType: data.ReceiptProof.ReceiptType,
		KeyIndex:    util.ToHexString(data.ReceiptProof.KeyIndex),
	}
	for _, node := range data.ReceiptProof.Proof {
		out.Proof = append(out.Proof, util.ToHexString(node))
	}
	return printJSON(out)
}

func handleVerify(ctx *cli.Context) error {
	receipts, err := loadReceipts(ctx.String(receiptsFlag.Name))
	if err != nil {
		return err
	}
	txIndex := ctx.Uint(txIndexFlag.Name)
	root := common.HexToHash(ctx.String(rootFlag.Name))

	nodes, err := proof.Get(receipts, txIndex)
	if err != nil {
		return err
	}
	receiptRLP, err := receipts[txIndex].ConsensusRLP()
	if err != nil {
		return err
	}
	ok, err := proof.Verify(root, txIndex, receiptRLP, nodes)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("receipt %d does not verify against root %s", txIndex, root.Hex())
	}
	fmt.Println("ok")
	return nil
}

func loadReceipts(path string) ([]*receipt.Receipt, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var receipts []*receipt.Receipt
	if err := json.Unmarshal(raw, &receipts); err != nil {
		return nil, fmt.Errorf("parse receipts %s: %w", path, err)
	}
	return receipts, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
