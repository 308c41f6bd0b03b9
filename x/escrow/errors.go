package escrow

import (
	"github.com/iov-one/weave-escrow/errors"
)

var (
	ErrNotRentExempt          = errors.Register(110, "escrow record is not rent exempt")
	ErrExpectedAmountMismatch = errors.Register(111, "amount does not match the escrow")
	ErrAmountOverflow         = errors.Register(112, "lamport amount overflow")
)
