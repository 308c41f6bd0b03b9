package weavetest

import (
	weave "github.com/iov-one/weave-escrow"
)

// Account is a helper to build an account view for program tests.
func Account(key, owner weave.Address, lamports uint64, data []byte) *weave.AccountInfo {
	return &weave.AccountInfo{
		Key:        key,
		IsWritable: true,
		Lamports:   lamports,
		Owner:      owner,
		Data:       data,
	}
}
