package runtime

import (
	"github.com/iov-one/weave-escrow/errors"
)

// Runtime verification failures. A transaction that triggers any of them is
// rejected as a whole.
var (
	ErrReadonlyModified      = errors.Register(40, "read only account modified")
	ErrExternalDataModified  = errors.Register(41, "account not owned by the program modified")
	ErrExternalLamportSpend  = errors.Register(42, "lamports spent from an account not owned by the program")
	ErrUnbalancedInstruction = errors.Register(43, "sum of account balances changed")
	ErrPrivilegeEscalation   = errors.Register(44, "cross program invocation escalates privileges")
	ErrUnknownProgram        = errors.Register(45, "unknown program")
	ErrCallDepth             = errors.Register(46, "cross program invocation too deep")
)
