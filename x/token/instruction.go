package token

import (
	"encoding/binary"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/x/rent"
)

// ProgramID is the address the token program is registered under.
var ProgramID = weave.ProgramAddress("token")

const (
	initializeMintTag byte = iota
	initializeAccountTag
	mintToTag
	transferTag
	setAuthorityTag
	closeAccountTag
)

// AuthorityType selects which authority SetAuthority replaces.
type AuthorityType uint8

const (
	// MintTokens is the authority allowed to issue tokens of a mint.
	MintTokens AuthorityType = iota
	// AccountOwner is the owner of a token account.
	AccountOwner
)

// InitializeMintMsg binds a blank mint account to its authority.
type InitializeMintMsg struct {
	Decimals      uint8
	MintAuthority weave.Address
}

// InitializeAccountMsg binds a blank token account to a mint and an owner.
type InitializeAccountMsg struct{}

// MintToMsg issues new tokens.
type MintToMsg struct {
	Amount uint64
}

// TransferMsg moves tokens between two accounts of the same mint.
type TransferMsg struct {
	Amount uint64
}

// SetAuthorityMsg replaces an authority. An empty NewAuthority is only
// allowed for MintTokens and fixes the supply.
type SetAuthorityMsg struct {
	AuthorityType AuthorityType
	NewAuthority  weave.Address
}

// CloseAccountMsg destroys an empty token account.
type CloseAccountMsg struct{}

// InitializeMint returns an instruction initializing the mint account.
func InitializeMint(mint, authority weave.Address, decimals uint8) weave.Instruction {
	data := make([]byte, 2+20)
	data[0] = initializeMintTag
	data[1] = decimals
	copy(data[2:], authority)
	return weave.Instruction{
		ProgramID: ProgramID,
		Accounts: []weave.AccountMeta{
			weave.NewAccountMeta(mint, false),
			weave.NewReadonlyAccountMeta(rent.SysvarID, false),
		},
		Data: data,
	}
}

// InitializeAccount returns an instruction binding a token account to a
// mint and an owner.
func InitializeAccount(account, mint, owner weave.Address) weave.Instruction {
	return weave.Instruction{
		ProgramID: ProgramID,
		Accounts: []weave.AccountMeta{
			weave.NewAccountMeta(account, false),
			weave.NewReadonlyAccountMeta(mint, false),
			weave.NewReadonlyAccountMeta(owner, false),
			weave.NewReadonlyAccountMeta(rent.SysvarID, false),
		},
		Data: []byte{initializeAccountTag},
	}
}

// MintTo returns an instruction issuing amount tokens into dest.
func MintTo(mint, dest, authority weave.Address, amount uint64) weave.Instruction {
	return weave.Instruction{
		ProgramID: ProgramID,
		Accounts: []weave.AccountMeta{
			weave.NewAccountMeta(mint, false),
			weave.NewAccountMeta(dest, false),
			weave.NewReadonlyAccountMeta(authority, true),
		},
		Data: amountData(mintToTag, amount),
	}
}

// Transfer returns an instruction moving amount tokens from src to dest,
// authorized by the owner of src.
func Transfer(src, dest, authority weave.Address, amount uint64) weave.Instruction {
	return weave.Instruction{
		ProgramID: ProgramID,
		Accounts: []weave.AccountMeta{
			weave.NewAccountMeta(src, false),
			weave.NewAccountMeta(dest, false),
			weave.NewReadonlyAccountMeta(authority, true),
		},
		Data: amountData(transferTag, amount),
	}
}

// SetAuthority returns an instruction replacing an authority of account,
// which is a mint or a token account.
func SetAuthority(account, current weave.Address, typ AuthorityType, newAuthority weave.Address) weave.Instruction {
	data := make([]byte, 2+20)
	data[0] = setAuthorityTag
	data[1] = byte(typ)
	copy(data[2:], newAuthority)
	return weave.Instruction{
		ProgramID: ProgramID,
		Accounts: []weave.AccountMeta{
			weave.NewAccountMeta(account, false),
			weave.NewReadonlyAccountMeta(current, true),
		},
		Data: data,
	}
}

// CloseAccount returns an instruction closing an empty token account and
// sending its lamports to dest.
func CloseAccount(account, dest, authority weave.Address) weave.Instruction {
	return weave.Instruction{
		ProgramID: ProgramID,
		Accounts: []weave.AccountMeta{
			weave.NewAccountMeta(account, false),
			weave.NewAccountMeta(dest, false),
			weave.NewReadonlyAccountMeta(authority, true),
		},
		Data: []byte{closeAccountTag},
	}
}

func amountData(tag byte, amount uint64) []byte {
	data := make([]byte, 9)
	data[0] = tag
	binary.LittleEndian.PutUint64(data[1:], amount)
	return data
}

// decodeInstruction returns a pointer to one of the *Msg types.
func decodeInstruction(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "empty")
	}
	tag, rest := data[0], data[1:]
	switch tag {
	case initializeMintTag:
		if len(rest) != 21 {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "initialize mint")
		}
		return &InitializeMintMsg{Decimals: rest[0], MintAuthority: getAddress(rest[1:])}, nil
	case initializeAccountTag:
		if len(rest) != 0 {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "initialize account")
		}
		return &InitializeAccountMsg{}, nil
	case mintToTag, transferTag:
		if len(rest) != 8 {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "amount")
		}
		amount := binary.LittleEndian.Uint64(rest)
		if tag == mintToTag {
			return &MintToMsg{Amount: amount}, nil
		}
		return &TransferMsg{Amount: amount}, nil
	case setAuthorityTag:
		if len(rest) != 21 {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "set authority")
		}
		typ := AuthorityType(rest[0])
		if typ > AccountOwner {
			return nil, errors.Wrapf(errors.ErrInvalidInstruction, "authority type %d", typ)
		}
		return &SetAuthorityMsg{AuthorityType: typ, NewAuthority: getAddress(rest[1:])}, nil
	case closeAccountTag:
		if len(rest) != 0 {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "close account")
		}
		return &CloseAccountMsg{}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", tag)
	}
}
