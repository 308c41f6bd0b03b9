package escrow

import (
	weave "github.com/iov-one/weave-escrow"
)

// custodySeed is shared by every escrow of a program: one authority owns
// all custody accounts, each bound to its record by address.
var custodySeed = []byte("escrow")

// CustodyAuthority returns the address owning the custody token accounts
// of the program, and the proof the program signs for it with.
func CustodyAuthority(programID weave.Address) (weave.Address, weave.Condition) {
	return weave.DeriveAuthority(programID, custodySeed)
}
