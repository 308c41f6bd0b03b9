package token

import (
	"encoding/binary"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
)

const (
	// MintLen is the data size of a mint account.
	MintLen = 20 + 8 + 1 + 1
	// AccountLen is the data size of a token account.
	AccountLen = 20 + 20 + 8 + 1
)

// Mint describes a token.
type Mint struct {
	// MintAuthority may issue new tokens. Empty when the supply is fixed.
	MintAuthority weave.Address
	Supply        uint64
	Decimals      uint8
	IsInitialized bool
}

// Pack writes the mint into dst, which must be MintLen bytes.
func (m *Mint) Pack(dst []byte) error {
	if len(dst) != MintLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "mint of %d bytes", len(dst))
	}
	putAddress(dst[0:20], m.MintAuthority)
	binary.LittleEndian.PutUint64(dst[20:], m.Supply)
	dst[28] = m.Decimals
	dst[29] = boolByte(m.IsInitialized)
	return nil
}

// UnpackMintUnchecked decodes a mint that may not be initialized yet.
func UnpackMintUnchecked(src []byte) (*Mint, error) {
	if len(src) != MintLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "mint of %d bytes", len(src))
	}
	initialized, err := byteBool(src[29])
	if err != nil {
		return nil, err
	}
	return &Mint{
		MintAuthority: getAddress(src[0:20]),
		Supply:        binary.LittleEndian.Uint64(src[20:]),
		Decimals:      src[28],
		IsInitialized: initialized,
	}, nil
}

// UnpackMint decodes an initialized mint.
func UnpackMint(src []byte) (*Mint, error) {
	m, err := UnpackMintUnchecked(src)
	if err != nil {
		return nil, err
	}
	if !m.IsInitialized {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "mint")
	}
	return m, nil
}

// AccountState is the lifecycle of a token account.
type AccountState uint8

const (
	Uninitialized AccountState = iota
	Initialized
)

// Account is a token balance of one mint, held for Owner.
type Account struct {
	Mint   weave.Address
	Owner  weave.Address
	Amount uint64
	State  AccountState
}

// IsInitialized returns true once the account was bound to a mint.
func (a *Account) IsInitialized() bool {
	return a.State != Uninitialized
}

// Pack writes the account into dst, which must be AccountLen bytes.
func (a *Account) Pack(dst []byte) error {
	if len(dst) != AccountLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(dst))
	}
	putAddress(dst[0:20], a.Mint)
	putAddress(dst[20:40], a.Owner)
	binary.LittleEndian.PutUint64(dst[40:], a.Amount)
	dst[48] = byte(a.State)
	return nil
}

// UnpackAccountUnchecked decodes a token account that may not be
// initialized yet.
func UnpackAccountUnchecked(src []byte) (*Account, error) {
	if len(src) != AccountLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(src))
	}
	state := AccountState(src[48])
	if state > Initialized {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "token account state %d", state)
	}
	return &Account{
		Mint:   getAddress(src[0:20]),
		Owner:  getAddress(src[20:40]),
		Amount: binary.LittleEndian.Uint64(src[40:]),
		State:  state,
	}, nil
}

// UnpackAccount decodes an initialized token account.
func UnpackAccount(src []byte) (*Account, error) {
	a, err := UnpackAccountUnchecked(src)
	if err != nil {
		return nil, err
	}
	if !a.IsInitialized() {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "token account")
	}
	return a, nil
}

// putAddress writes a 20 byte address, or zeros for an empty one.
func putAddress(dst []byte, a weave.Address) {
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, a)
}

// getAddress returns nil for an all zero address.
func getAddress(src []byte) weave.Address {
	for _, b := range src {
		if b != 0 {
			return append(weave.Address{}, src...)
		}
	}
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func byteBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.Wrapf(errors.ErrInvalidAccountData, "flag %d", b)
}
