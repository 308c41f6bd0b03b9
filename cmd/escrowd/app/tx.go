package app

import (
	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/crypto"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/x/sigs"
)

// maxMemoSize is the longest memo a transaction may carry.
const maxMemoSize = 128

// Tx is the transaction accepted by the escrow chain: a list of
// instructions executed all or nothing, signed by every account that
// must authorize them.
type Tx struct {
	Instructions []weave.Instruction
	Signatures   []*sigs.StdSignature
	Memo         string
}

var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetInstructions returns the instructions in execution order.
func (tx *Tx) GetInstructions() ([]weave.Instruction, error) {
	if len(tx.Instructions) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "no instructions")
	}
	return tx.Instructions, nil
}

// GetSignatures returns the signatures signing this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the canonical byte representation of the
// transaction without its signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	return encodeTx(tx, false)
}

// Validate checks the transaction can be executed at all.
func (tx *Tx) Validate() error {
	if len(tx.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo longer than %d", maxMemoSize)
	}
	if len(tx.Instructions) == 0 {
		return errors.Wrap(errors.ErrInput, "no instructions")
	}
	for i, ix := range tx.Instructions {
		if err := ix.Validate(); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	for i, sig := range tx.Signatures {
		if sig == nil {
			return errors.Wrapf(errors.ErrInput, "signature %d is empty", i)
		}
	}
	return nil
}

// Marshal serializes the transaction with protobuf.
func (tx *Tx) Marshal() ([]byte, error) {
	return encodeTx(tx, true)
}

// Unmarshal deserializes a protobuf encoded transaction.
func (tx *Tx) Unmarshal(raw []byte) error {
	return decodeTx(raw, tx)
}

// Sign appends a signature of signer for the given chain.
func (tx *Tx) Sign(signer crypto.Signer, chainID string) error {
	sig, err := sigs.SignTx(signer, tx, chainID)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
