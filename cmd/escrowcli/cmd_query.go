package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/x/escrow"
	"github.com/iov-one/weave-escrow/x/rent"
	"github.com/iov-one/weave-escrow/x/token"
)

func cmdQueryAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Fetch an account and print it as JSON. Data of mints, token accounts, escrow
records and the rent sysvar is decoded.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use ESCROWCLI_TM_ADDR environment variable to set it.")
		addressFl = flAddress(fl, "address", "", "Address of the account.")
	)
	fl.Parse(args)

	if err := requireAddresses(map[string]weave.Address{"address": *addressFl}); err != nil {
		return err
	}

	info, err := newClient(*tmAddrFl).GetAccount(*addressFl)
	if err != nil {
		return fmt.Errorf("cannot fetch account: %s", err)
	}
	pretty, err := json.MarshalIndent(newAccountView(info), "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = output.Write(pretty)
	return err
}

type accountView struct {
	Address  weave.Address `json:"address"`
	Lamports uint64        `json:"lamports"`
	Owner    weave.Address `json:"owner"`
	Program  string        `json:"program,omitempty"`
	// Kind names the decoded Data. Raw hex data is kept when the account
	// cannot be decoded.
	Kind    string      `json:"kind,omitempty"`
	Decoded interface{} `json:"decoded,omitempty"`
	Data    string      `json:"data,omitempty"`
}

func newAccountView(info *weave.AccountInfo) accountView {
	view := accountView{
		Address:  info.Key,
		Lamports: info.Lamports,
		Owner:    info.Owner,
		Program:  programName(info.Owner),
	}
	view.Kind, view.Decoded = decodeAccountData(info)
	if view.Decoded == nil {
		view.Data = hex.EncodeToString(info.Data)
	}
	return view
}

// decodeAccountData returns the name and the content of the account data,
// or nil when the data is not understood.
func decodeAccountData(info *weave.AccountInfo) (string, interface{}) {
	switch {
	case info.Key.Equals(rent.SysvarID):
		if r, err := rent.FromAccountInfo(info); err == nil {
			return "rent", r
		}
	case info.Owner.Equals(token.ProgramID) && len(info.Data) == token.MintLen:
		if m, err := token.UnpackMint(info.Data); err == nil {
			return "mint", m
		}
	case info.Owner.Equals(token.ProgramID) && len(info.Data) == token.AccountLen:
		if a, err := token.UnpackAccount(info.Data); err == nil {
			return "token_account", a
		}
	case info.Owner.Equals(escrow.ProgramID):
		if e, err := escrow.Unpack(info.Data); err == nil {
			return "escrow", e
		}
	}
	return "", nil
}
