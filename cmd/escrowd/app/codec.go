package app

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/x/sigs"
)

// txMsg is the protobuf wire form of a Tx. Signatures are embedded
// messages, kept as their serialized form so x/sigs owns their encoding.
type txMsg struct {
	Instructions []*instructionMsg `protobuf:"bytes,1,rep,name=instructions,proto3" json:"instructions,omitempty"`
	Signatures   [][]byte          `protobuf:"bytes,2,rep,name=signatures,proto3" json:"signatures,omitempty"`
	Memo         string            `protobuf:"bytes,3,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *txMsg) Reset()         { *m = txMsg{} }
func (m *txMsg) String() string { return proto.CompactTextString(m) }
func (*txMsg) ProtoMessage()    {}

type instructionMsg struct {
	ProgramID []byte            `protobuf:"bytes,1,opt,name=program_id,json=programId,proto3" json:"program_id,omitempty"`
	Accounts  []*accountMetaMsg `protobuf:"bytes,2,rep,name=accounts,proto3" json:"accounts,omitempty"`
	Data      []byte            `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *instructionMsg) Reset()         { *m = instructionMsg{} }
func (m *instructionMsg) String() string { return proto.CompactTextString(m) }
func (*instructionMsg) ProtoMessage()    {}

type accountMetaMsg struct {
	Address    []byte `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	IsSigner   bool   `protobuf:"varint,2,opt,name=is_signer,json=isSigner,proto3" json:"is_signer,omitempty"`
	IsWritable bool   `protobuf:"varint,3,opt,name=is_writable,json=isWritable,proto3" json:"is_writable,omitempty"`
}

func (m *accountMetaMsg) Reset()         { *m = accountMetaMsg{} }
func (m *accountMetaMsg) String() string { return proto.CompactTextString(m) }
func (*accountMetaMsg) ProtoMessage()    {}

// encodeTx builds the wire form of the transaction. Signatures are only
// included when withSigs is set.
func encodeTx(tx *Tx, withSigs bool) ([]byte, error) {
	msg := txMsg{
		Instructions: make([]*instructionMsg, len(tx.Instructions)),
		Memo:         tx.Memo,
	}
	for i, ix := range tx.Instructions {
		im := &instructionMsg{
			ProgramID: ix.ProgramID,
			Accounts:  make([]*accountMetaMsg, len(ix.Accounts)),
			Data:      ix.Data,
		}
		for j, m := range ix.Accounts {
			im.Accounts[j] = &accountMetaMsg{
				Address:    m.Address,
				IsSigner:   m.IsSigner,
				IsWritable: m.IsWritable,
			}
		}
		msg.Instructions[i] = im
	}
	if withSigs {
		for i, sig := range tx.Signatures {
			if sig == nil {
				return nil, errors.Wrapf(errors.ErrInput, "signature %d is empty", i)
			}
			raw, err := sig.Marshal()
			if err != nil {
				return nil, errors.Wrapf(err, "signature %d", i)
			}
			msg.Signatures = append(msg.Signatures, raw)
		}
	}
	return proto.Marshal(&msg)
}

// decodeTx fills tx from its wire form.
func decodeTx(raw []byte, tx *Tx) error {
	var msg txMsg
	if err := proto.Unmarshal(raw, &msg); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*tx = Tx{Memo: msg.Memo}
	for i, im := range msg.Instructions {
		if im == nil {
			return errors.Wrapf(errors.ErrInput, "instruction %d is empty", i)
		}
		ix := weave.Instruction{
			ProgramID: weave.Address(im.ProgramID),
			Data:      im.Data,
		}
		for _, m := range im.Accounts {
			if m == nil {
				return errors.Wrapf(errors.ErrInput, "instruction %d: empty account", i)
			}
			ix.Accounts = append(ix.Accounts, weave.AccountMeta{
				Address:    weave.Address(m.Address),
				IsSigner:   m.IsSigner,
				IsWritable: m.IsWritable,
			})
		}
		tx.Instructions = append(tx.Instructions, ix)
	}
	for i, raw := range msg.Signatures {
		var sig sigs.StdSignature
		if err := sig.Unmarshal(raw); err != nil {
			return errors.Wrapf(err, "signature %d", i)
		}
		tx.Signatures = append(tx.Signatures, &sig)
	}
	return nil
}
