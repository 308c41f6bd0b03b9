package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/cmd/escrowd/app"
	"github.com/iov-one/weave-escrow/x/rent"
	"github.com/iov-one/weave-escrow/x/system"
)

func cmdCreateAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction allocating a new account, funded by a system account and
assigned to a program. Both the funder and the new account must sign it.

Use rent-exempt command to learn how many lamports the account needs.
`)
		fl.PrintDefaults()
	}
	var (
		funderFl   = flAddress(fl, "funder", "", "Address of the system account paying for the new account.")
		accountFl  = flAddress(fl, "account", "", "Address of the account to create.")
		ownerFl    = flAddress(fl, "owner", "token", "Program the account is assigned to. A program name or an address.")
		lamportsFl = fl.Uint64("lamports", 0, "Lamports moved to the new account.")
		spaceFl    = fl.Uint64("space", 0, "Data size of the new account in bytes.")
		memoFl     = fl.String("memo", "", "Optional memo.")
	)
	fl.Parse(args)

	if err := requireAddresses(map[string]weave.Address{
		"funder":  *funderFl,
		"account": *accountFl,
		"owner":   *ownerFl,
	}); err != nil {
		return err
	}
	if *lamportsFl == 0 {
		return errors.New("-lamports must be greater than zero")
	}

	tx := &app.Tx{
		Instructions: []weave.Instruction{
			system.CreateAccount(*funderFl, *accountFl, *lamportsFl, *spaceFl, *ownerFl),
		},
		Memo: *memoFl,
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdTransfer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction moving lamports from a system account to any account.
The source account must sign it.

A transaction is executed at most once. Two transfers with the same accounts
and amount are the same transaction, use a different -memo for each of them.
`)
		fl.PrintDefaults()
	}
	var (
		fromFl     = flAddress(fl, "from", "", "Address of the system account that lamports are taken from.")
		toFl       = flAddress(fl, "to", "", "Address of the recipient.")
		lamportsFl = fl.Uint64("lamports", 0, "Lamports to move.")
		memoFl     = fl.String("memo", "", "Optional memo. Makes otherwise identical transfers distinct.")
	)
	fl.Parse(args)

	if err := requireAddresses(map[string]weave.Address{
		"from": *fromFl,
		"to":   *toFl,
	}); err != nil {
		return err
	}

	tx := &app.Tx{
		Instructions: []weave.Instruction{
			system.Transfer(*fromFl, *toFl, *lamportsFl),
		},
		Memo: *memoFl,
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdRentExempt(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the minimum balance of an account holding the given amount of data, so
that it is exempt from rent. Rent parameters are read from the chain.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use ESCROWCLI_TM_ADDR environment variable to set it.")
		spaceFl = fl.Int("space", 0, "Data size of the account in bytes.")
	)
	fl.Parse(args)

	if *spaceFl < 0 {
		return errors.New("-space must not be negative")
	}

	info, err := newClient(*tmAddrFl).GetAccount(rent.SysvarID)
	if err != nil {
		return fmt.Errorf("cannot fetch rent sysvar: %s", err)
	}
	r, err := rent.FromAccountInfo(info)
	if err != nil {
		return fmt.Errorf("cannot decode rent sysvar: %s", err)
	}
	_, err = fmt.Fprintln(output, r.MinimumBalance(*spaceFl))
	return err
}
