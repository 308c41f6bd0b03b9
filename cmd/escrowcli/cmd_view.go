package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/cmd/escrowd/app"
	"github.com/iov-one/weave-escrow/x/escrow"
)

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Decode and display transaction summary. This command is helpful when reciving a
binary representation of a transaction. Before signing you should check what
kind of operation are you authorizing.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	pretty, err := json.MarshalIndent(newTxView(tx), "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = output.Write(pretty)
	return err
}

type txView struct {
	Instructions []instructionView `json:"instructions"`
	Signers      []weave.Address   `json:"signers"`
	Memo         string            `json:"memo,omitempty"`
}

type instructionView struct {
	Program   string              `json:"program,omitempty"`
	ProgramID weave.Address       `json:"program_id"`
	Accounts  []weave.AccountMeta `json:"accounts"`
	Data      string              `json:"data"`
	Operation string              `json:"operation,omitempty"`
	Amount    uint64              `json:"amount,omitempty"`
}

func newTxView(tx *app.Tx) txView {
	view := txView{
		Instructions: make([]instructionView, 0, len(tx.Instructions)),
		Signers:      make([]weave.Address, 0, len(tx.Signatures)),
		Memo:         tx.Memo,
	}
	for _, ix := range tx.Instructions {
		iv := instructionView{
			Program:   programName(ix.ProgramID),
			ProgramID: ix.ProgramID,
			Accounts:  ix.Accounts,
			Data:      hex.EncodeToString(ix.Data),
		}
		if ix.ProgramID.Equals(escrow.ProgramID) {
			if decoded, err := escrow.UnpackInstruction(ix.Data); err == nil {
				iv.Operation = decoded.Tag.String()
				iv.Amount = decoded.Amount
			}
		}
		view.Instructions = append(view.Instructions, iv)
	}
	for _, sig := range tx.Signatures {
		if sig.Pubkey != nil {
			view.Signers = append(view.Signers, sig.Pubkey.Address())
		}
	}
	return view
}
