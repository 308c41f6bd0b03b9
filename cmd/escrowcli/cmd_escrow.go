package main

import (
	"flag"
	"fmt"
	"io"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/cmd/escrowd/app"
	"github.com/iov-one/weave-escrow/x/escrow"
)

func cmdOpenEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction opening an escrow. All tokens held by the custody token
account are offered in exchange for the given amount of tokens of another
mint, paid into the receive account.

The custody account ownership is handed over to the escrow program until the
escrow is settled. The escrow record account must be allocated beforehand,
assigned to the escrow program. Use create-account and merge to allocate it
in the same transaction. The initializer must sign.
`)
		fl.PrintDefaults()
	}
	var (
		initializerFl = flAddress(fl, "initializer", "", "Address of the initializer, owner of both token accounts.")
		custodyFl     = flAddress(fl, "custody", "", "Token account holding the offered tokens.")
		receiveFl     = flAddress(fl, "receive", "", "Token account of the initializer that receives the counter tokens.")
		escrowFl      = flAddress(fl, "escrow", "", "Account storing the escrow record.")
		amountFl      = fl.Uint64("amount", 0, "Number of counter tokens expected.")
		memoFl        = fl.String("memo", "", "Optional memo.")
	)
	fl.Parse(args)

	if err := requireAddresses(map[string]weave.Address{
		"initializer": *initializerFl,
		"custody":     *custodyFl,
		"receive":     *receiveFl,
		"escrow":      *escrowFl,
	}); err != nil {
		return err
	}

	tx := &app.Tx{
		Instructions: []weave.Instruction{
			escrow.NewInitEscrowInstruction(*initializerFl, *custodyFl, *receiveFl, *escrowFl, *amountFl),
		},
		Memo: *memoFl,
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdSettleEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction settling an open escrow. The taker pays the expected
counter tokens to the initializer and receives all tokens held in custody.
The custody and the escrow record accounts are closed and their lamports
returned to the initializer.

The amount must match the custody balance, so that the taker cannot be
served less than what was seen. The taker must sign.
`)
		fl.PrintDefaults()
	}
	var (
		takerFl              = flAddress(fl, "taker", "", "Address of the taker, owner of both taker token accounts.")
		sendFl               = flAddress(fl, "send", "", "Token account of the taker paying the counter tokens.")
		receiveFl            = flAddress(fl, "receive", "", "Token account of the taker receiving the tokens held in custody.")
		custodyFl            = flAddress(fl, "custody", "", "Custody token account of the escrow.")
		initializerFl        = flAddress(fl, "initializer", "", "Address of the initializer of the escrow.")
		initializerReceiveFl = flAddress(fl, "initializer-receive", "", "Token account of the initializer receiving the counter tokens.")
		escrowFl             = flAddress(fl, "escrow", "", "Account storing the escrow record.")
		amountFl             = fl.Uint64("amount", 0, "Custody balance the taker expects to receive.")
		memoFl               = fl.String("memo", "", "Optional memo.")
	)
	fl.Parse(args)

	if err := requireAddresses(map[string]weave.Address{
		"taker":               *takerFl,
		"send":                *sendFl,
		"receive":             *receiveFl,
		"custody":             *custodyFl,
		"initializer":         *initializerFl,
		"initializer-receive": *initializerReceiveFl,
		"escrow":              *escrowFl,
	}); err != nil {
		return err
	}

	tx := &app.Tx{
		Instructions: []weave.Instruction{
			escrow.NewExchangeInstruction(*takerFl, *sendFl, *receiveFl, *custodyFl,
				*initializerFl, *initializerReceiveFl, *escrowFl, *amountFl),
		},
		Memo: *memoFl,
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdCustodyAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the address of the authority that owns the custody token accounts of
all open escrows. No private key exists for this address.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	addr, _ := escrow.CustodyAuthority(escrow.ProgramID)
	_, err := fmt.Fprintln(output, addr)
	return err
}
