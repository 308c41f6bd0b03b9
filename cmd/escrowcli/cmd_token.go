package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/cmd/escrowd/app"
	"github.com/iov-one/weave-escrow/x/token"
)

func cmdInitTokenAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction binding an allocated token account to a mint and an
owner. The account must be assigned to the token program, hold exactly the
size of a token account and be rent exempt.

Combine with create-account using the merge command to do both at once.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl = flAddress(fl, "account", "", "Address of the token account.")
		mintFl    = flAddress(fl, "mint", "", "Address of the mint.")
		ownerFl   = flAddress(fl, "owner", "", "Address that owns the tokens held by the account.")
	)
	fl.Parse(args)

	if err := requireAddresses(map[string]weave.Address{
		"account": *accountFl,
		"mint":    *mintFl,
		"owner":   *ownerFl,
	}); err != nil {
		return err
	}

	tx := &app.Tx{
		Instructions: []weave.Instruction{
			token.InitializeAccount(*accountFl, *mintFl, *ownerFl),
		},
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdSendTokens(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction moving tokens between two token accounts of the same
mint. The owner of the source account must sign it.
`)
		fl.PrintDefaults()
	}
	var (
		srcFl       = flAddress(fl, "src", "", "Token account the tokens are taken from.")
		destFl      = flAddress(fl, "dest", "", "Token account the tokens are paid into.")
		authorityFl = flAddress(fl, "authority", "", "Owner of the source token account.")
		amountFl    = fl.Uint64("amount", 0, "Number of tokens to move.")
		memoFl      = fl.String("memo", "", "Optional memo.")
	)
	fl.Parse(args)

	if err := requireAddresses(map[string]weave.Address{
		"src":       *srcFl,
		"dest":      *destFl,
		"authority": *authorityFl,
	}); err != nil {
		return err
	}
	if *amountFl == 0 {
		return errors.New("-amount must be greater than zero")
	}

	tx := &app.Tx{
		Instructions: []weave.Instruction{
			token.Transfer(*srcFl, *destFl, *authorityFl, *amountFl),
		},
		Memo: *memoFl,
	}
	_, err := writeTx(output, tx)
	return err
}
