package system

import (
	"encoding/binary"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/runtime"
)

const (
	createAccountTag byte = 0
	transferTag      byte = 1

	createAccountLen = 1 + 8 + 8 + 20
	transferLen      = 1 + 8
)

// CreateAccountMsg funds a new account and assigns it to Owner.
type CreateAccountMsg struct {
	Lamports uint64
	Space    uint64
	Owner    weave.Address
}

// TransferMsg moves lamports between two accounts.
type TransferMsg struct {
	Lamports uint64
}

// CreateAccount returns an instruction creating newAccount with space bytes
// of data, owned by owner. Both the funder and the new account sign.
func CreateAccount(funder, newAccount weave.Address, lamports, space uint64, owner weave.Address) weave.Instruction {
	data := make([]byte, createAccountLen)
	data[0] = createAccountTag
	binary.LittleEndian.PutUint64(data[1:], lamports)
	binary.LittleEndian.PutUint64(data[9:], space)
	copy(data[17:], owner)
	return weave.Instruction{
		ProgramID: runtime.SystemProgramID,
		Accounts: []weave.AccountMeta{
			weave.NewAccountMeta(funder, true),
			weave.NewAccountMeta(newAccount, true),
		},
		Data: data,
	}
}

// Transfer returns an instruction moving lamports from one system account
// to any account.
func Transfer(from, to weave.Address, lamports uint64) weave.Instruction {
	data := make([]byte, transferLen)
	data[0] = transferTag
	binary.LittleEndian.PutUint64(data[1:], lamports)
	return weave.Instruction{
		ProgramID: runtime.SystemProgramID,
		Accounts: []weave.AccountMeta{
			weave.NewAccountMeta(from, true),
			weave.NewAccountMeta(to, false),
		},
		Data: data,
	}
}

// decodeInstruction returns a *CreateAccountMsg or a *TransferMsg.
func decodeInstruction(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "empty")
	}
	switch data[0] {
	case createAccountTag:
		if len(data) != createAccountLen {
			return nil, errors.Wrapf(errors.ErrInvalidInstruction, "create account of %d bytes", len(data))
		}
		return &CreateAccountMsg{
			Lamports: binary.LittleEndian.Uint64(data[1:]),
			Space:    binary.LittleEndian.Uint64(data[9:]),
			Owner:    append(weave.Address{}, data[17:]...),
		}, nil
	case transferTag:
		if len(data) != transferLen {
			return nil, errors.Wrapf(errors.ErrInvalidInstruction, "transfer of %d bytes", len(data))
		}
		return &TransferMsg{Lamports: binary.LittleEndian.Uint64(data[1:])}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", data[0])
	}
}
