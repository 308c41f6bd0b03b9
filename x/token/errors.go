package token

import (
	"github.com/iov-one/weave-escrow/errors"
)

var (
	ErrMintMismatch   = errors.Register(101, "token account belongs to another mint")
	ErrOwnerMismatch  = errors.Register(102, "authority does not match the recorded owner")
	ErrNotRentExempt  = errors.Register(103, "account is not rent exempt")
	ErrNonZeroBalance = errors.Register(104, "token account still holds tokens")
	ErrFixedSupply    = errors.Register(105, "mint has no minting authority")
)
