package client

import (
	"github.com/iov-one/weave-escrow/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/rpc/client/mock"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// LocalConnection runs an application in process, without a node. Every
// transaction broadcast with BroadcastTxCommit is committed in its own
// block. It is meant for tests and is not safe for concurrent use.
type LocalConnection struct {
	mock.ABCIApp
	genesis *tmtypes.GenesisDoc
	height  int64
}

var _ Conn = (*LocalConnection)(nil)

// NewLocalConnection initializes the application from the genesis and
// commits the first block.
func NewLocalConnection(app abci.Application, genesis *tmtypes.GenesisDoc) *LocalConnection {
	app.InitChain(abci.RequestInitChain{
		ChainId:       genesis.ChainID,
		AppStateBytes: genesis.AppState,
	})
	c := &LocalConnection{
		ABCIApp: mock.ABCIApp{App: app},
		genesis: genesis,
	}
	c.commit()
	return c
}

// Genesis returns the genesis the application was initialized with.
func (c *LocalConnection) Genesis() (*ctypes.ResultGenesis, error) {
	return &ctypes.ResultGenesis{Genesis: c.genesis}, nil
}

// BroadcastTxCommit checks and delivers the transaction, then commits the
// block. A transaction failing CheckTx is never delivered.
func (c *LocalConnection) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	if len(tx) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty transaction")
	}
	res := &ctypes.ResultBroadcastTxCommit{Hash: tx.Hash()}
	res.CheckTx = c.App.CheckTx(tx)
	if res.CheckTx.IsErr() {
		return res, nil
	}
	res.DeliverTx = c.App.DeliverTx(tx)
	res.Height = c.height
	c.commit()
	return res, nil
}

func (c *LocalConnection) commit() {
	c.App.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.App.Commit()
	c.height++
	c.App.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: c.genesis.ChainID, Height: c.height},
	})
}
