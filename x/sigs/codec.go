package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-escrow/crypto"
	"github.com/iov-one/weave-escrow/errors"
)

// signatureMsg is the protobuf wire form of a StdSignature.
type signatureMsg struct {
	Pubkey    []byte `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature []byte `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *signatureMsg) Reset()         { *m = signatureMsg{} }
func (m *signatureMsg) String() string { return proto.CompactTextString(m) }
func (*signatureMsg) ProtoMessage()    {}

// Marshal serializes the signature with protobuf.
func (s *StdSignature) Marshal() ([]byte, error) {
	var msg signatureMsg
	if s.Pubkey != nil {
		msg.Pubkey = s.Pubkey.Ed25519
	}
	if s.Signature != nil {
		msg.Signature = s.Signature.Ed25519
	}
	return proto.Marshal(&msg)
}

// Unmarshal deserializes a protobuf encoded signature.
func (s *StdSignature) Unmarshal(raw []byte) error {
	var msg signatureMsg
	if err := proto.Unmarshal(raw, &msg); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*s = StdSignature{}
	if len(msg.Pubkey) > 0 {
		s.Pubkey = &crypto.PublicKey{Ed25519: msg.Pubkey}
	}
	if len(msg.Signature) > 0 {
		s.Signature = &crypto.Signature{Ed25519: msg.Signature}
	}
	return nil
}
