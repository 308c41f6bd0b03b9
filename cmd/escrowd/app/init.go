package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/app"
	"github.com/iov-one/weave-escrow/crypto"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/runtime"
	"github.com/iov-one/weave-escrow/x/rent"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// defaultLamports funds the genesis account when no amount is given.
const defaultLamports = 1000000000000

// GenesisState is the app_state of the genesis file.
type GenesisState struct {
	Rent     rent.Rent                `json:"rent"`
	Accounts []runtime.GenesisAccount `json:"accounts"`
}

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// Arguments are an optional address and an optional amount of lamports.
// Without an address a new key is generated and its hex encoded private
// key is printed, so the account can be used right away.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr weave.Address
	if len(args) > 0 {
		a, err := weave.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "address")
		}
		addr = a
	} else {
		key := crypto.GenPrivKeyEd25519()
		addr = key.PublicKey().Address()
		fmt.Println(hex.EncodeToString(key.Ed25519))
	}

	lamports := uint64(defaultLamports)
	if len(args) > 1 {
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "lamports: %s", err)
		}
		lamports = n
	}

	state := GenesisState{
		Rent: rent.Default(),
		Accounts: []runtime.GenesisAccount{
			{Address: addr, Lamports: lamports},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "abci.db")
	}

	stack, err := Stack(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	application, err := Application("escrowd", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	return DecorateApp(application, logger), nil
}

// DecorateApp adds a Logger to an Application
func DecorateApp(application app.BaseApp, logger log.Logger) app.BaseApp {
	application.WithLogger(logger)
	return application
}
