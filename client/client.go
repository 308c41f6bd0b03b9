package client

import (
	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/app"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/runtime"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TransactionID is the hash used to identify the transaction
type TransactionID = cmn.HexBytes

// CommitResult is returned once a transaction is included in a block.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result weave.DeliverResult
}

// AbciResponse contains a query result:
// a (possibly empty) list of key-value pairs, and the height
// at which it queried
type AbciResponse struct {
	Models []weave.Model
	Height int64
}

// Client is a tendermint client wrapped to provide simple access to the
// accounts and transactions of an escrow chain.
type Client struct {
	conn Conn
}

// NewClient wraps a Client around an existing tendermint connection.
func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// ChainID returns the chain id declared in the genesis of the node.
func (c *Client) ChainID() (string, error) {
	gen, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrapf(errors.ErrNetwork, "genesis: %s", err)
	}
	return gen.Genesis.ChainID, nil
}

// AbciQuery calls abci query on tendermint rpc,
// verifies if it is an error or empty, and if there is
// data pulls out the ResultSets from keys and values into
// a useful AbciResponse struct
func (c *Client) AbciQuery(path string, data []byte) (AbciResponse, error) {
	var out AbciResponse

	q, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return out, errors.Wrapf(errors.ErrNetwork, "query: %s", err)
	}
	resp := q.Response
	if resp.IsErr() {
		return out, errors.ABCIError(resp.Code, resp.Log)
	}
	out.Height = resp.Height

	if len(resp.Key) == 0 {
		return out, nil
	}

	var keys, vals app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return out, err
	}
	if err := vals.Unmarshal(resp.Value); err != nil {
		return out, err
	}
	out.Models, err = app.JoinResults(&keys, &vals)
	return out, err
}

// GetAccount returns the stored state of an account. An account that holds
// no lamports does not exist and ErrNotFound is returned.
func (c *Client) GetAccount(addr weave.Address) (*weave.AccountInfo, error) {
	resp, err := c.AbciQuery("/accounts", addr)
	if err != nil {
		return nil, err
	}
	if len(resp.Models) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	var acc runtime.Account
	if err := acc.Unmarshal(resp.Models[0].Value); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &weave.AccountInfo{
		Key:      addr,
		Lamports: acc.Lamports,
		Owner:    acc.Owner,
		Data:     acc.Data,
	}, nil
}

// CommitTx submits the transaction and waits until it is included in a
// block. A transaction rejected by CheckTx or DeliverTx returns the error
// reported by the node.
func (c *Client) CommitTx(tx weave.Tx) (*CommitResult, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	res, err := c.conn.BroadcastTxCommit(tmtypes.Tx(bz))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast tx: %s", err)
	}
	if res.CheckTx.IsErr() {
		return nil, errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log)
	}
	if res.DeliverTx.IsErr() {
		return nil, errors.ABCIError(res.DeliverTx.Code, res.DeliverTx.Log)
	}
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Result: weave.DeliverResult{
			Data:    res.DeliverTx.Data,
			Log:     res.DeliverTx.Log,
			Tags:    res.DeliverTx.Tags,
			GasUsed: res.DeliverTx.GasUsed,
		},
	}, nil
}
