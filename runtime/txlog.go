package runtime

import (
	"crypto/sha256"
	"encoding/binary"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/orm"
)

// TxRecord marks a transaction hash as executed.
type TxRecord struct {
	Height int64
}

var _ orm.Model = (*TxRecord)(nil)

// Validate rejects records with a negative height.
func (r *TxRecord) Validate() error {
	if r.Height < 0 {
		return errors.Wrap(errors.ErrInput, "negative height")
	}
	return nil
}

// Marshal encodes the height as 8 big endian bytes.
func (r *TxRecord) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(r.Height))
	return raw, nil
}

// Unmarshal decodes a record written by Marshal.
func (r *TxRecord) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrapf(errors.ErrInput, "tx record of %d bytes", len(raw))
	}
	r.Height = int64(binary.BigEndian.Uint64(raw))
	return nil
}

// TxBucket remembers the hashes of executed transactions.
type TxBucket struct {
	orm.Bucket
}

// NewTxBucket returns a bucket for executed transactions.
func NewTxBucket() TxBucket {
	return TxBucket{
		Bucket: orm.NewBucket("txs", orm.NewSimpleObj(nil, new(TxRecord))),
	}
}

// Seen returns true if a transaction with this hash was executed.
func (b TxBucket) Seen(db weave.ReadOnlyKVStore, hash []byte) (bool, error) {
	return b.Has(db, hash)
}

// Mark records the hash as executed at the given height.
func (b TxBucket) Mark(db weave.KVStore, hash []byte, height int64) error {
	return b.Save(db, orm.NewSimpleObj(hash, &TxRecord{Height: height}))
}

// signBytesTx is implemented by transactions carrying signatures. The hash
// of a signed transaction ignores the signatures, so that adding another
// signature does not make a replayed transaction look new.
type signBytesTx interface {
	GetSignBytes() ([]byte, error)
}

// TxHash returns the identity of a transaction used to reject replays.
func TxHash(tx weave.Tx) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if stx, ok := tx.(signBytesTx); ok {
		raw, err = stx.GetSignBytes()
	} else {
		raw, err = tx.Marshal()
	}
	if err != nil {
		return nil, errors.Wrap(err, "tx hash")
	}
	h := sha256.Sum256(raw)
	return h[:], nil
}
