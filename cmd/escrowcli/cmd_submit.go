package main

import (
	"flag"
	"fmt"
	"io"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it. Wait
until the transaction is included in a block and print its hash and the
block height.

Make sure to collect enough signatures before submitting the transaction.
A transaction that was already executed is rejected as a duplicate, even when
signed again.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use ESCROWCLI_TM_ADDR environment variable to set it.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %s", err)
	}

	res, err := newClient(*tmAddrFl).CommitTx(tx)
	if err != nil {
		return fmt.Errorf("cannot broadcast transaction: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s\t%d\n", res.ID, res.Height)
	return err
}
