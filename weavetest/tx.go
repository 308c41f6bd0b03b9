package weavetest

import (
	"encoding/json"

	weave "github.com/iov-one/weave-escrow"
)

// Tx represents a weave transaction carrying a list of instructions.
type Tx struct {
	// Instructions are returned by GetInstructions.
	Instructions []weave.Instruction
	// Raw if set is returned by Marshal. Otherwise the instructions are
	// serialized, so that two transactions with the same instructions
	// have the same binary form.
	Raw []byte
	// Err if set is returned by any method call.
	Err error
}

var _ weave.Tx = (*Tx)(nil)

// NewTx returns a transaction executing given instructions in order.
func NewTx(ixs ...weave.Instruction) *Tx {
	return &Tx{Instructions: ixs}
}

func (tx *Tx) GetInstructions() ([]weave.Instruction, error) {
	return tx.Instructions, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	if tx.Raw != nil {
		return tx.Raw, nil
	}
	return json.Marshal(tx.Instructions)
}
