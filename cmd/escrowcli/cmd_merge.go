package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/weave-escrow/cmd/escrowd/app"
)

func cmdMerge(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read a stream of transactions and combine them into a single transaction.
Instructions keep their order and are executed all or nothing. Memos are
joined and signatures are dropped, because the signed content changes.
`)
		fl.PrintDefaults()
	}
	var (
		memoFl = fl.String("memo", "", "Memo of the merged transaction. Overrides the memos of the input transactions.")
	)
	fl.Parse(args)

	var merged app.Tx
	var count int
	for {
		tx, _, err := readTx(input)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("cannot read transaction #%d: %s", count, err)
		}
		count++
		merged.Instructions = append(merged.Instructions, tx.Instructions...)
		if tx.Memo != "" {
			if merged.Memo != "" {
				merged.Memo += "; "
			}
			merged.Memo += tx.Memo
		}
	}
	if count == 0 {
		return errors.New("no input data")
	}
	if *memoFl != "" {
		merged.Memo = *memoFl
	}
	_, err := writeTx(output, &merged)
	return err
}
