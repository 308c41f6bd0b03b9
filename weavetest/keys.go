package weavetest

import (
	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() weave.Condition {
	return NewKey().PublicKey().Condition()
}

// NewSigner returns a fresh signature condition together with its address.
func NewSigner() (weave.Condition, weave.Address) {
	c := NewCondition()
	return c, c.Address()
}
