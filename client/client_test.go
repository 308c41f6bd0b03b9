package client_test

import (
	"encoding/json"
	"testing"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/client"
	escrowd "github.com/iov-one/weave-escrow/cmd/escrowd/app"
	"github.com/iov-one/weave-escrow/crypto"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/runtime"
	"github.com/iov-one/weave-escrow/weavetest/assert"
	"github.com/iov-one/weave-escrow/x/rent"
	"github.com/iov-one/weave-escrow/x/system"
	"github.com/prometheus/client_golang/prometheus"
	tmtypes "github.com/tendermint/tendermint/types"
)

const chainID = "escrow-client-test"

func newLocalClient(t *testing.T, accounts ...runtime.GenesisAccount) *client.Client {
	t.Helper()

	stack, err := escrowd.Stack(prometheus.NewRegistry())
	assert.Nil(t, err)
	app, err := escrowd.Application("escrowd", stack, escrowd.TxDecoder, "", false)
	assert.Nil(t, err)

	state, err := json.Marshal(escrowd.GenesisState{Rent: rent.Default(), Accounts: accounts})
	assert.Nil(t, err)
	genesis := &tmtypes.GenesisDoc{ChainID: chainID, AppState: state}
	return client.NewClient(client.NewLocalConnection(app, genesis))
}

func TestChainID(t *testing.T) {
	c := newLocalClient(t)
	got, err := c.ChainID()
	assert.Nil(t, err)
	assert.Equal(t, chainID, got)
}

func TestGetAccount(t *testing.T) {
	alice := crypto.GenPrivKeyEd25519().PublicKey().Address()
	c := newLocalClient(t, runtime.GenesisAccount{Address: alice, Lamports: 5000})

	acc, err := c.GetAccount(alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5000), acc.Lamports)
	assert.Equal(t, runtime.SystemProgramID, acc.Owner)
	assert.Equal(t, alice, acc.Key)

	missing := crypto.GenPrivKeyEd25519().PublicKey().Address()
	_, err = c.GetAccount(missing)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestAbciQueryUnknownPath(t *testing.T) {
	c := newLocalClient(t)
	_, err := c.AbciQuery("/nothing/here", []byte("x"))
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestCommitTx(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	alice := key.PublicKey().Address()
	bob := crypto.GenPrivKeyEd25519().PublicKey().Address()
	c := newLocalClient(t, runtime.GenesisAccount{Address: alice, Lamports: 5000})

	tx := &escrowd.Tx{
		Instructions: []weave.Instruction{system.Transfer(alice, bob, 1200)},
	}

	// Unsigned transaction never makes it into a block.
	_, err := c.CommitTx(tx)
	assert.IsErr(t, errors.ErrMissingSignature, err)

	assert.Nil(t, tx.Sign(key, chainID))
	res, err := c.CommitTx(tx)
	assert.Nil(t, err)
	if len(res.ID) == 0 {
		t.Fatal("transaction id not set")
	}
	if res.Height < 1 {
		t.Fatalf("unexpected height %d", res.Height)
	}

	acc, err := c.GetAccount(bob)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1200), acc.Lamports)
	acc, err = c.GetAccount(alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3800), acc.Lamports)

	// The same transaction cannot be executed twice.
	_, err = c.CommitTx(tx)
	assert.IsErr(t, errors.ErrDuplicate, err)
}
