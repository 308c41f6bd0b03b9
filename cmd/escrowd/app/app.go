/*
Package app links together all the various components
to construct the escrowd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/app"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/orm"
	"github.com/iov-one/weave-escrow/runtime"
	"github.com/iov-one/weave-escrow/store/iavl"
	"github.com/iov-one/weave-escrow/x"
	"github.com/iov-one/weave-escrow/x/escrow"
	"github.com/iov-one/weave-escrow/x/rent"
	"github.com/iov-one/weave-escrow/x/sigs"
	"github.com/iov-one/weave-escrow/x/system"
	"github.com/iov-one/weave-escrow/x/token"
	"github.com/iov-one/weave-escrow/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		sigs.NewDecorator(),
		utils.NewProgramTagger(),
		// bad tx don't affect state
		utils.NewSavepoint().OnCheck().OnDeliver(),
	)
}

// Runtime returns the runtime with all programs of the chain registered.
func Runtime(authFn x.Authenticator) *runtime.Runtime {
	r := runtime.NewRuntime(authFn)
	system.RegisterProgram(r)
	token.RegisterProgram(r)
	escrow.RegisterProgram(r)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/accounts" and "/"
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		runtime.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Initializer loads the rent configuration and the accounts from genesis.
func Initializer() weave.Initializer {
	return app.ChainInitializers(
		&rent.Initializer{},
		runtime.NewInitializer(),
	)
}

// Stack wires up the runtime with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) (weave.Handler, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := utils.NewMetrics(reg)
	if err != nil {
		return nil, errors.Wrap(err, "metrics")
	}
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Runtime(authFn)), nil
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h weave.Handler,
	tx weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx).WithInit(Initializer())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
