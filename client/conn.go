package client

import (
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

// Conn is the part of a tendermint rpc client that Client relies on.
// Both the http client and the mock clients of tendermint satisfy it.
type Conn interface {
	rpcclient.ABCIClient
	Genesis() (*ctypes.ResultGenesis, error)
}

var _ Conn = (*rpcclient.HTTP)(nil)

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) Conn {
	return rpcclient.NewHTTP(remote, "/websocket")
}
