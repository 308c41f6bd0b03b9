package escrow

import (
	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
)

// openAccounts are the accounts of InitEscrow, in order.
type openAccounts struct {
	Initializer        *weave.AccountInfo
	Custody            *weave.AccountInfo
	InitializerReceive *weave.AccountInfo
	Record             *weave.AccountInfo
	Rent               *weave.AccountInfo
	TokenProgram       *weave.AccountInfo
}

func parseOpenAccounts(accounts []*weave.AccountInfo) (*openAccounts, error) {
	if len(accounts) < 6 {
		return nil, errors.Wrapf(errors.ErrNotEnoughAccountKeys, "open needs 6 accounts, got %d", len(accounts))
	}
	return &openAccounts{
		Initializer:        accounts[0],
		Custody:            accounts[1],
		InitializerReceive: accounts[2],
		Record:             accounts[3],
		Rent:               accounts[4],
		TokenProgram:       accounts[5],
	}, nil
}

// settleAccounts are the accounts of Exchange, in order.
type settleAccounts struct {
	Taker              *weave.AccountInfo
	TakerSend          *weave.AccountInfo
	TakerReceive       *weave.AccountInfo
	Custody            *weave.AccountInfo
	Initializer        *weave.AccountInfo
	InitializerReceive *weave.AccountInfo
	Record             *weave.AccountInfo
	TokenProgram       *weave.AccountInfo
	Authority          *weave.AccountInfo
}

func parseSettleAccounts(accounts []*weave.AccountInfo) (*settleAccounts, error) {
	if len(accounts) < 9 {
		return nil, errors.Wrapf(errors.ErrNotEnoughAccountKeys, "settle needs 9 accounts, got %d", len(accounts))
	}
	return &settleAccounts{
		Taker:              accounts[0],
		TakerSend:          accounts[1],
		TakerReceive:       accounts[2],
		Custody:            accounts[3],
		Initializer:        accounts[4],
		InitializerReceive: accounts[5],
		Record:             accounts[6],
		TokenProgram:       accounts[7],
		Authority:          accounts[8],
	}, nil
}
