package escrow

import (
	"encoding/binary"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/x/rent"
	"github.com/iov-one/weave-escrow/x/token"
)

// ProgramID is the address the escrow program is registered under.
var ProgramID = weave.ProgramAddress("escrow")

// InstructionTag selects the escrow operation.
type InstructionTag byte

const (
	// InitEscrow opens an escrow.
	InitEscrow InstructionTag = 0
	// Exchange settles an escrow.
	Exchange InstructionTag = 1
)

func (t InstructionTag) String() string {
	switch t {
	case InitEscrow:
		return "InitEscrow"
	case Exchange:
		return "Exchange"
	}
	return "Unknown"
}

const instructionLen = 1 + 8

// Instruction is a decoded escrow instruction. For InitEscrow the amount
// is the number of counter tokens expected; for Exchange it is the custody
// balance the taker expects to receive.
type Instruction struct {
	Tag    InstructionTag
	Amount uint64
}

// Pack encodes the instruction as the tag byte and the little endian
// amount.
func (ix Instruction) Pack() []byte {
	data := make([]byte, instructionLen)
	data[0] = byte(ix.Tag)
	binary.LittleEndian.PutUint64(data[1:], ix.Amount)
	return data
}

// UnpackInstruction decodes instruction data.
func UnpackInstruction(data []byte) (*Instruction, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "empty")
	}
	tag := InstructionTag(data[0])
	if tag != InitEscrow && tag != Exchange {
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", data[0])
	}
	if len(data) != instructionLen {
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "%s amount of %d bytes", tag, len(data)-1)
	}
	return &Instruction{Tag: tag, Amount: binary.LittleEndian.Uint64(data[1:])}, nil
}

// NewInitEscrowInstruction returns an instruction opening an escrow that
// offers the tokens held by custody for amount tokens paid into receive.
// The record account must be owned by the escrow program, rent exempt and
// EscrowLen bytes long.
func NewInitEscrowInstruction(initializer, custody, receive, record weave.Address, amount uint64) weave.Instruction {
	return weave.Instruction{
		ProgramID: ProgramID,
		Accounts: []weave.AccountMeta{
			weave.NewReadonlyAccountMeta(initializer, true),
			weave.NewAccountMeta(custody, false),
			weave.NewReadonlyAccountMeta(receive, false),
			weave.NewAccountMeta(record, false),
			weave.NewReadonlyAccountMeta(rent.SysvarID, false),
			weave.NewReadonlyAccountMeta(token.ProgramID, false),
		},
		Data: Instruction{Tag: InitEscrow, Amount: amount}.Pack(),
	}
}

// NewExchangeInstruction returns an instruction settling the escrow held
// in record. amount is the custody balance the taker expects.
func NewExchangeInstruction(taker, takerSend, takerReceive, custody, initializer, initializerReceive, record weave.Address, amount uint64) weave.Instruction {
	authority, _ := CustodyAuthority(ProgramID)
	return weave.Instruction{
		ProgramID: ProgramID,
		Accounts: []weave.AccountMeta{
			weave.NewReadonlyAccountMeta(taker, true),
			weave.NewAccountMeta(takerSend, false),
			weave.NewAccountMeta(takerReceive, false),
			weave.NewAccountMeta(custody, false),
			weave.NewAccountMeta(initializer, false),
			weave.NewAccountMeta(initializerReceive, false),
			weave.NewAccountMeta(record, false),
			weave.NewReadonlyAccountMeta(token.ProgramID, false),
			weave.NewReadonlyAccountMeta(authority, false),
		},
		Data: Instruction{Tag: Exchange, Amount: amount}.Pack(),
	}
}
