package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/weave-escrow/crypto"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

Signatures are bound to a chain. The chain ID is read from the genesis of the
node unless provided.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use ESCROWCLI_TM_ADDR environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use ESCROWCLI_PRIV_KEY environment variable to set it.")
		chainIDFl = fl.String("chain", "", "Chain ID to sign for. When set, the node is not contacted.")
	)
	fl.Parse(args)

	key, err := crypto.LoadPrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	chainID := *chainIDFl
	if chainID == "" {
		chainID, err = newClient(*tmAddrFl).ChainID()
		if err != nil {
			return fmt.Errorf("cannot fetch chain ID: %s", err)
		}
	}

	if err := tx.Sign(key, chainID); err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	_, err = writeTx(output, tx)
	return err
}
