package system

import (
	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/runtime"
)

// maxSpace limits the data size of a created account.
const maxSpace = 10 * 1024 * 1024

// Program is the system program.
type Program struct{}

var _ weave.Program = Program{}

// RegisterProgram adds the system program to the runtime.
func RegisterProgram(r *runtime.Runtime) {
	r.Register("system", runtime.SystemProgramID, Program{})
}

// Process executes a system instruction.
func (Program) Process(ctx weave.Context, host weave.Invoker, accounts []*weave.AccountInfo, data []byte) error {
	msg, err := decodeInstruction(data)
	if err != nil {
		return err
	}
	if len(accounts) < 2 {
		return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "got %d accounts", len(accounts))
	}
	switch msg := msg.(type) {
	case *CreateAccountMsg:
		weave.GetLogger(ctx).Debug("Instruction: CreateAccount")
		return createAccount(accounts[0], accounts[1], msg)
	case *TransferMsg:
		weave.GetLogger(ctx).Debug("Instruction: Transfer")
		return transfer(accounts[0], accounts[1], msg.Lamports)
	}
	return errors.Wrapf(errors.ErrHuman, "unhandled %T", msg)
}

func createAccount(funder, acc *weave.AccountInfo, msg *CreateAccountMsg) error {
	if !acc.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "new account %s", acc.Key)
	}
	if acc.Lamports != 0 || len(acc.Data) != 0 || !acc.Owner.Equals(runtime.SystemProgramID) {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "account %s in use", acc.Key)
	}
	if err := msg.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if msg.Space > maxSpace {
		return errors.Wrapf(errors.ErrInvalidArgument, "space %d", msg.Space)
	}
	if err := transfer(funder, acc, msg.Lamports); err != nil {
		return err
	}
	acc.Owner = msg.Owner.Clone()
	acc.Data = make([]byte, msg.Space)
	return nil
}

func transfer(from, to *weave.AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "funding account %s", from.Key)
	}
	if !from.Owner.Equals(runtime.SystemProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "funding account %s", from.Key)
	}
	if from == to {
		return nil
	}
	if from.Lamports < lamports {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%d < %d", from.Lamports, lamports)
	}
	if to.Lamports+lamports < to.Lamports {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	from.Lamports -= lamports
	to.Lamports += lamports
	return nil
}
