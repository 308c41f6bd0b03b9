package escrow

import (
	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/runtime"
	"github.com/iov-one/weave-escrow/x/rent"
	"github.com/iov-one/weave-escrow/x/token"
)

// Program is the escrow program.
type Program struct {
	id weave.Address
}

var _ weave.Program = Program{}

// NewProgram returns the escrow program acting as id. Custody authorities
// are derived from id, so it must be the address the program is registered
// under.
func NewProgram(id weave.Address) Program {
	return Program{id: id}
}

// RegisterProgram adds the escrow program to the runtime.
func RegisterProgram(r *runtime.Runtime) {
	r.Register("escrow", ProgramID, NewProgram(ProgramID))
}

// Process executes an escrow instruction.
func (p Program) Process(ctx weave.Context, host weave.Invoker, accounts []*weave.AccountInfo, data []byte) error {
	ix, err := UnpackInstruction(data)
	if err != nil {
		return err
	}
	weave.GetLogger(ctx).Debug("Instruction: " + ix.Tag.String())
	switch ix.Tag {
	case InitEscrow:
		return p.open(ctx, host, accounts, ix.Amount)
	case Exchange:
		return p.settle(ctx, host, accounts, ix.Amount)
	}
	return errors.Wrapf(errors.ErrHuman, "unhandled tag %d", ix.Tag)
}

// open records the terms of a new escrow and hands the custody account
// over to the derived authority.
func (p Program) open(ctx weave.Context, host weave.Invoker, accounts []*weave.AccountInfo, amount uint64) error {
	acc, err := parseOpenAccounts(accounts)
	if err != nil {
		return err
	}
	if !acc.Initializer.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "initializer %s", acc.Initializer.Key)
	}
	if !acc.InitializerReceive.Owner.Equals(token.ProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "receive account %s", acc.InitializerReceive.Key)
	}
	if !acc.Record.Owner.Equals(p.id) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "escrow record %s", acc.Record.Key)
	}
	r, err := rent.FromAccountInfo(acc.Rent)
	if err != nil {
		return err
	}
	if !r.IsExempt(acc.Record.Lamports, len(acc.Record.Data)) {
		return errors.Wrapf(ErrNotRentExempt, "%d lamports", acc.Record.Lamports)
	}
	state, err := UnpackUnchecked(acc.Record.Data)
	if err != nil {
		return err
	}
	if state.IsInitialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "escrow record %s", acc.Record.Key)
	}
	if !acc.TokenProgram.Key.Equals(token.ProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "token program %s", acc.TokenProgram.Key)
	}

	state.IsInitialized = true
	state.InitializerPubkey = acc.Initializer.Key.Clone()
	state.TempTokenAccountPubkey = acc.Custody.Key.Clone()
	state.InitializerTokenToReceiveAccountPubkey = acc.InitializerReceive.Key.Clone()
	state.ExpectedAmount = amount
	if err := state.Pack(acc.Record.Data); err != nil {
		return err
	}

	authority, _ := CustodyAuthority(p.id)
	weave.GetLogger(ctx).Debug("Transferring custody account ownership", "custody", acc.Custody.Key, "authority", authority)
	ix := token.SetAuthority(acc.Custody.Key, acc.Initializer.Key, token.AccountOwner, authority)
	return host.Invoke(ctx, ix, accounts)
}

// settle completes the swap and destroys the escrow. amount is the custody
// balance the taker expects to receive.
func (p Program) settle(ctx weave.Context, host weave.Invoker, accounts []*weave.AccountInfo, amount uint64) error {
	acc, err := parseSettleAccounts(accounts)
	if err != nil {
		return err
	}
	if !acc.Taker.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "taker %s", acc.Taker.Key)
	}

	custody, err := tokenAccount(acc.Custody)
	if err != nil {
		return errors.Wrap(err, "custody")
	}
	if custody.Amount != amount {
		return errors.Wrapf(ErrExpectedAmountMismatch, "custody holds %d, taker expects %d", custody.Amount, amount)
	}

	if !acc.Record.Owner.Equals(p.id) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "escrow record %s", acc.Record.Key)
	}
	state, err := Unpack(acc.Record.Data)
	if err != nil {
		return err
	}

	takerSend, err := tokenAccount(acc.TakerSend)
	if err != nil {
		return errors.Wrap(err, "taker send account")
	}
	if takerSend.Amount < state.ExpectedAmount {
		return errors.Wrapf(ErrExpectedAmountMismatch, "taker holds %d, escrow expects %d", takerSend.Amount, state.ExpectedAmount)
	}

	if !state.InitializerPubkey.Equals(acc.Initializer.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer")
	}
	if !state.TempTokenAccountPubkey.Equals(acc.Custody.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "custody account")
	}
	if !state.InitializerTokenToReceiveAccountPubkey.Equals(acc.InitializerReceive.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer receive account")
	}

	if !acc.TokenProgram.Key.Equals(token.ProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "token program %s", acc.TokenProgram.Key)
	}
	if authority, _ := CustodyAuthority(p.id); !acc.Authority.Key.Equals(authority) {
		return errors.Wrapf(errors.ErrInvalidArgument, "custody authority %s", acc.Authority.Key)
	}

	log := weave.GetLogger(ctx)

	log.Debug("Paying the initializer", "amount", state.ExpectedAmount)
	pay := token.Transfer(acc.TakerSend.Key, acc.InitializerReceive.Key, acc.Taker.Key, state.ExpectedAmount)
	if err := host.Invoke(ctx, pay, accounts); err != nil {
		return err
	}

	authority, proof := CustodyAuthority(p.id)

	log.Debug("Releasing custody tokens to the taker", "amount", amount)
	release := token.Transfer(acc.Custody.Key, acc.TakerReceive.Key, authority, amount)
	if err := host.InvokeSigned(ctx, release, accounts, proof); err != nil {
		return err
	}

	log.Debug("Closing the custody account")
	closing := token.CloseAccount(acc.Custody.Key, acc.Initializer.Key, authority)
	if err := host.InvokeSigned(ctx, closing, accounts, proof); err != nil {
		return err
	}

	log.Debug("Closing the escrow record")
	lamports := acc.Initializer.Lamports + acc.Record.Lamports
	if lamports < acc.Initializer.Lamports {
		return errors.Wrap(ErrAmountOverflow, "initializer lamports")
	}
	acc.Initializer.Lamports = lamports
	acc.Record.Lamports = 0
	acc.Record.Data = nil
	return nil
}

// tokenAccount decodes a token account, which must be owned by the token
// program.
func tokenAccount(info *weave.AccountInfo) (*token.Account, error) {
	if !info.Owner.Equals(token.ProgramID) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "account %s", info.Key)
	}
	return token.UnpackAccount(info.Data)
}
