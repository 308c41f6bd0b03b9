package runtime

import (
	"encoding/binary"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/orm"
)

// SystemProgramID owns every account that was never assigned to a program.
var SystemProgramID = weave.ProgramAddress("system")

// accountHeaderLen is the size of the stored account prefix:
// lamports (8 bytes little endian) followed by the owner address.
const accountHeaderLen = 8 + 20

// Account is the persisted state of an account.
type Account struct {
	Lamports uint64
	Owner    weave.Address
	Data     []byte
}

var _ orm.Model = (*Account)(nil)

// Validate ensures the account can be stored.
func (a *Account) Validate() error {
	if a.Lamports == 0 {
		return errors.Wrap(errors.ErrInput, "account without lamports")
	}
	return a.Owner.Validate()
}

// Marshal encodes the account as lamports | owner | data.
func (a *Account) Marshal() ([]byte, error) {
	if err := a.Owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	raw := make([]byte, accountHeaderLen+len(a.Data))
	binary.LittleEndian.PutUint64(raw, a.Lamports)
	copy(raw[8:], a.Owner)
	copy(raw[accountHeaderLen:], a.Data)
	return raw, nil
}

// Unmarshal decodes an account written by Marshal.
func (a *Account) Unmarshal(raw []byte) error {
	if len(raw) < accountHeaderLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "stored account of %d bytes", len(raw))
	}
	a.Lamports = binary.LittleEndian.Uint64(raw)
	a.Owner = append(weave.Address{}, raw[8:accountHeaderLen]...)
	a.Data = nil
	if len(raw) > accountHeaderLen {
		a.Data = append([]byte{}, raw[accountHeaderLen:]...)
	}
	return nil
}

// AccountBucket stores accounts by address.
type AccountBucket struct {
	orm.Bucket
}

// NewAccountBucket returns a bucket for accounts.
func NewAccountBucket() AccountBucket {
	return AccountBucket{
		Bucket: orm.NewBucket("acct", orm.NewSimpleObj(nil, new(Account))),
	}
}

// Load returns a view of the account stored under the address. A missing
// account is returned as an empty account owned by the system program.
func (b AccountBucket) Load(db weave.ReadOnlyKVStore, addr weave.Address) (*weave.AccountInfo, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "load account %s", addr)
	}
	info := &weave.AccountInfo{Key: addr.Clone()}
	if obj == nil {
		info.Owner = SystemProgramID.Clone()
		return info, nil
	}
	acc := obj.Value().(*Account)
	info.Lamports = acc.Lamports
	info.Owner = acc.Owner
	info.Data = acc.Data
	return info, nil
}

// Store persists the account view. An account without lamports is removed.
func (b AccountBucket) Store(db weave.KVStore, info *weave.AccountInfo) error {
	if info.Lamports == 0 {
		return b.Delete(db, info.Key)
	}
	acc := &Account{
		Lamports: info.Lamports,
		Owner:    info.Owner,
		Data:     info.Data,
	}
	return b.Save(db, orm.NewSimpleObj(info.Key, acc))
}
