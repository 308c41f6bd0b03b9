/*
Package rent provides the rent sysvar: the chain wide price of storage
and the balance an account needs to be exempt from paying it.
*/
package rent

import (
	"encoding/binary"
	"math/bits"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/runtime"
)

const (
	// AccountStorageOverhead is charged for every account on top of its
	// data.
	AccountStorageOverhead = 128

	// Len is the size of the sysvar data.
	Len = 16

	DefaultLamportsPerByteYear     = 3480
	DefaultExemptionThresholdYears = 2
)

// SysvarID is the address of the rent sysvar account.
var SysvarID = weave.SysvarAddress("rent")

// Rent is the storage price configuration.
type Rent struct {
	LamportsPerByteYear     uint64 `json:"lamports_per_byte_year"`
	ExemptionThresholdYears uint64 `json:"exemption_threshold_years"`
}

// Default returns the rent configuration used when genesis sets none.
func Default() Rent {
	return Rent{
		LamportsPerByteYear:     DefaultLamportsPerByteYear,
		ExemptionThresholdYears: DefaultExemptionThresholdYears,
	}
}

// MinimumBalance returns the lamports an account holding dataLen bytes
// needs to be rent exempt. The result saturates at the maximum uint64.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	size := uint64(AccountStorageOverhead) + uint64(dataLen)
	hi, perByte := bits.Mul64(size, r.LamportsPerByteYear)
	if hi != 0 {
		return ^uint64(0)
	}
	hi, total := bits.Mul64(perByte, r.ExemptionThresholdYears)
	if hi != 0 {
		return ^uint64(0)
	}
	return total
}

// IsExempt returns true if lamports cover the minimum balance of an
// account holding dataLen bytes.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// Pack encodes the sysvar data.
func (r Rent) Pack() []byte {
	raw := make([]byte, Len)
	binary.LittleEndian.PutUint64(raw, r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(raw[8:], r.ExemptionThresholdYears)
	return raw
}

// Unpack decodes the sysvar data.
func Unpack(raw []byte) (Rent, error) {
	if len(raw) != Len {
		return Rent{}, errors.Wrapf(errors.ErrInvalidAccountData, "rent of %d bytes", len(raw))
	}
	return Rent{
		LamportsPerByteYear:     binary.LittleEndian.Uint64(raw),
		ExemptionThresholdYears: binary.LittleEndian.Uint64(raw[8:]),
	}, nil
}

// FromAccountInfo reads the rent configuration out of the sysvar account
// passed to a program. Any other account is rejected.
func FromAccountInfo(acc *weave.AccountInfo) (Rent, error) {
	if !acc.Key.Equals(SysvarID) {
		return Rent{}, errors.Wrapf(errors.ErrInvalidArgument, "%s is not the rent sysvar", acc.Key)
	}
	return Unpack(acc.Data)
}

// Initializer installs the rent sysvar at genesis.
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

// FromGenesis reads the "rent" key of the genesis app state. The default
// configuration is installed when the key is missing.
func (*Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	r := Default()
	if err := opts.ReadOptions("rent", &r); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if r.LamportsPerByteYear == 0 {
		return errors.Wrap(errors.ErrInput, "lamports per byte year must be set")
	}
	data := r.Pack()
	sysvar := &weave.AccountInfo{
		Key:      SysvarID,
		Lamports: r.MinimumBalance(len(data)),
		Owner:    SysvarOwner,
		Data:     data,
	}
	return runtime.NewAccountBucket().Store(db, sysvar)
}

// SysvarOwner owns the sysvar accounts. No program is registered under it,
// so their data never changes after genesis.
var SysvarOwner = weave.ProgramAddress("sysvar")
