package crypto

import (
	weave "github.com/iov-one/weave-escrow"
	amino "github.com/tendermint/go-amino"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

var cdc = amino.NewCodec()

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() weave.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is the public part of a key pair. Only ed25519 is supported.
type PublicKey struct {
	Ed25519 []byte
}

// PrivateKey holds the secret part of a key pair.
type PrivateKey struct {
	Ed25519 []byte
}

// Signature is a detached signature created with a PrivateKey.
type Signature struct {
	Ed25519 []byte
}

// Address returns the address of the signature condition of this key, or
// nil for an empty key.
func (p *PublicKey) Address() weave.Address {
	return p.Condition().Address()
}

// Marshal serializes the key with amino.
func (p *PublicKey) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

// Unmarshal deserializes an amino encoded key.
func (p *PublicKey) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

// Marshal serializes the key with amino.
func (p *PrivateKey) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

// Unmarshal deserializes an amino encoded key.
func (p *PrivateKey) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

// Marshal serializes the signature with amino.
func (s *Signature) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

// Unmarshal deserializes an amino encoded signature.
func (s *Signature) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}
