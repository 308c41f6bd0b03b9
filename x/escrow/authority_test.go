package escrow

import (
	"testing"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/weavetest/assert"
)

func TestCustodyAuthority(t *testing.T) {
	addr, proof := CustodyAuthority(ProgramID)
	again, proofAgain := CustodyAuthority(ProgramID)
	assert.Equal(t, addr, again)
	assert.Equal(t, proof, proofAgain)
	assert.Equal(t, addr, proof.Address())
	assert.Equal(t, true, proof.DerivedBy(ProgramID))

	other, otherProof := CustodyAuthority(weave.ProgramAddress("another"))
	assert.Equal(t, false, addr.Equals(other))
	assert.Equal(t, false, otherProof.DerivedBy(ProgramID))
}
