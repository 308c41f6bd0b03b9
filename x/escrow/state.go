package escrow

import (
	"encoding/binary"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
)

// EscrowLen is the size of an escrow record. The record account must be
// allocated with exactly this much data.
const EscrowLen = 1 + 20 + 20 + 20 + 8

// Escrow is the record of an open swap.
type Escrow struct {
	IsInitialized bool
	// InitializerPubkey is the address of the initializer account.
	InitializerPubkey weave.Address
	// TempTokenAccountPubkey is the custody token account.
	TempTokenAccountPubkey weave.Address
	// InitializerTokenToReceiveAccountPubkey receives the counter tokens.
	InitializerTokenToReceiveAccountPubkey weave.Address
	// ExpectedAmount of counter tokens the initializer wants.
	ExpectedAmount uint64
}

// Pack writes the record into dst, which must be EscrowLen bytes.
func (e *Escrow) Pack(dst []byte) error {
	if len(dst) != EscrowLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "escrow of %d bytes", len(dst))
	}
	for _, a := range []weave.Address{e.InitializerPubkey, e.TempTokenAccountPubkey, e.InitializerTokenToReceiveAccountPubkey} {
		if len(a) != 0 && len(a) != 20 {
			return errors.Wrapf(errors.ErrInvalidAccountData, "address of %d bytes", len(a))
		}
	}
	for i := range dst {
		dst[i] = 0
	}
	if e.IsInitialized {
		dst[0] = 1
	}
	copy(dst[1:21], e.InitializerPubkey)
	copy(dst[21:41], e.TempTokenAccountPubkey)
	copy(dst[41:61], e.InitializerTokenToReceiveAccountPubkey)
	binary.LittleEndian.PutUint64(dst[61:], e.ExpectedAmount)
	return nil
}

// UnpackUnchecked decodes a record that may not be initialized yet. A
// blank buffer decodes into a zero record.
func UnpackUnchecked(src []byte) (*Escrow, error) {
	if len(src) != EscrowLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "escrow of %d bytes", len(src))
	}
	var initialized bool
	switch src[0] {
	case 0:
	case 1:
		initialized = true
	default:
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "initialized flag %d", src[0])
	}
	return &Escrow{
		IsInitialized:                          initialized,
		InitializerPubkey:                      append(weave.Address{}, src[1:21]...),
		TempTokenAccountPubkey:                 append(weave.Address{}, src[21:41]...),
		InitializerTokenToReceiveAccountPubkey: append(weave.Address{}, src[41:61]...),
		ExpectedAmount:                         binary.LittleEndian.Uint64(src[61:]),
	}, nil
}

// Unpack decodes an initialized record.
func Unpack(src []byte) (*Escrow, error) {
	e, err := UnpackUnchecked(src)
	if err != nil {
		return nil, err
	}
	if !e.IsInitialized {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "escrow")
	}
	return e, nil
}
