package sigs

import (
	weave "github.com/iov-one/weave-escrow"
)

// StdTx signs over a fixed payload.
type StdTx struct {
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ weave.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Payload: payload}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}

func (tx *StdTx) GetInstructions() ([]weave.Instruction, error) {
	return nil, nil
}

func (tx *StdTx) Marshal() ([]byte, error) {
	return tx.Payload, nil
}

func (tx *StdTx) Unmarshal(raw []byte) error {
	tx.Payload = raw
	return nil
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []weave.Condition
}

var _ weave.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (weave.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return weave.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (weave.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return weave.DeliverResult{}, nil
}
