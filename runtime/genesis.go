package runtime

import (
	"encoding/hex"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
)

// GenesisAccount is an account created at chain start.
type GenesisAccount struct {
	Address  weave.Address `json:"address"`
	Lamports uint64        `json:"lamports"`
	// Owner defaults to the system program.
	Owner weave.Address `json:"owner"`
	// Data is hex encoded.
	Data string `json:"data"`
}

// Initializer fulfils the weave.Initializer interface to load accounts from
// the genesis file.
type Initializer struct {
	accounts AccountBucket
}

var _ weave.Initializer = (*Initializer)(nil)

// NewInitializer returns an initializer writing into the account bucket.
func NewInitializer() *Initializer {
	return &Initializer{accounts: NewAccountBucket()}
}

// FromGenesis reads the "accounts" key of the genesis app state.
func (i *Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("accounts", &accounts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	for n, ga := range accounts {
		if err := ga.Address.Validate(); err != nil {
			return errors.Wrapf(err, "genesis account %d", n)
		}
		if ga.Lamports == 0 {
			return errors.Wrapf(errors.ErrInput, "genesis account %d has no lamports", n)
		}
		data, err := hex.DecodeString(ga.Data)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "genesis account %d data: %s", n, err)
		}
		owner := ga.Owner
		if len(owner) == 0 {
			owner = SystemProgramID
		}
		info := &weave.AccountInfo{
			Key:      ga.Address,
			Lamports: ga.Lamports,
			Owner:    owner,
			Data:     data,
		}
		if err := i.accounts.Store(db, info); err != nil {
			return errors.Wrapf(err, "genesis account %d", n)
		}
	}
	return nil
}

// RegisterQuery exposes stored accounts under /accounts.
func RegisterQuery(qr weave.QueryRouter) {
	NewAccountBucket().Register("accounts", qr)
}
