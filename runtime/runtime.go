/*
Package runtime executes the instructions of a transaction against the
registered programs.

Every instruction references its accounts by position. The runtime loads
them, runs the program and verifies what the program did: read only
accounts are unchanged, accounts the program does not own keep their data
and never lose lamports, and the lamport total is conserved. Programs may
call other programs through the Invoker they receive; the same checks apply
to every nested call.

A transaction is all or nothing. Account changes live in memory until the
last instruction succeeded and are then written to the store. Any failure,
including one in a nested call, drops every change of the transaction.
*/
package runtime

import (
	"encoding/hex"
	"fmt"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// maxCallDepth limits nesting of cross program invocations, top level
	// instruction included.
	maxCallDepth = 4

	instructionCost = 100
)

// Runtime dispatches instructions to programs and makes their effects
// atomic. It is the Handler of the application.
type Runtime struct {
	auth     x.Authenticator
	programs map[string]weave.Program
	names    map[string]string
	accounts AccountBucket
	txs      TxBucket
}

var _ weave.Handler = (*Runtime)(nil)

// NewRuntime returns a runtime without programs. Signer privileges of top
// level instructions are granted by auth.
func NewRuntime(auth x.Authenticator) *Runtime {
	return &Runtime{
		auth:     auth,
		programs: make(map[string]weave.Program),
		names:    make(map[string]string),
		accounts: NewAccountBucket(),
		txs:      NewTxBucket(),
	}
}

// Register makes a program callable under the given address.
// panics if the address is taken.
func (r *Runtime) Register(name string, id weave.Address, p weave.Program) {
	key := string(id)
	if _, ok := r.programs[key]; ok {
		panic(fmt.Sprintf("program %s already registered", id))
	}
	r.programs[key] = p
	r.names[key] = name
}

// programName returns a readable name of the program, for logs.
func (r *Runtime) programName(id weave.Address) string {
	if n, ok := r.names[string(id)]; ok {
		return n
	}
	return id.String()
}

// Accounts returns the bucket the runtime keeps accounts in.
func (r *Runtime) Accounts() AccountBucket {
	return r.accounts
}

// Check runs the transaction without persisting anything.
func (r *Runtime) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.CheckResult, error) {
	n, _, err := r.execute(ctx, db, tx, false)
	if err != nil {
		return weave.CheckResult{}, err
	}
	return weave.NewCheck(int64(n*instructionCost), ""), nil
}

// Deliver runs the transaction and persists its effects.
func (r *Runtime) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.DeliverResult, error) {
	n, hash, err := r.execute(ctx, db, tx, true)
	if err != nil {
		return weave.DeliverResult{}, err
	}
	return weave.DeliverResult{
		Data: hash,
		Log:  fmt.Sprintf("executed %d instructions", n),
		Tags: []common.KVPair{
			{Key: []byte("tx.hash"), Value: []byte(hex.EncodeToString(hash))},
		},
	}, nil
}

func (r *Runtime) execute(ctx weave.Context, db weave.KVStore, tx weave.Tx, commit bool) (int, []byte, error) {
	ixs, err := tx.GetInstructions()
	if err != nil {
		return 0, nil, errors.Wrap(err, "instructions")
	}
	if len(ixs) == 0 {
		return 0, nil, errors.Wrap(errors.ErrInput, "no instructions")
	}

	hash, err := TxHash(tx)
	if err != nil {
		return 0, nil, err
	}
	switch seen, err := r.txs.Seen(db, hash); {
	case err != nil:
		return 0, nil, err
	case seen:
		return 0, nil, errors.Wrapf(errors.ErrDuplicate, "transaction %X", hash)
	}

	e := newExecution(r, db)
	for i, ix := range ixs {
		if err := e.instruction(ctx, ix); err != nil {
			return 0, nil, errors.Wrapf(err, "instruction %d", i)
		}
	}

	if !commit {
		return len(ixs), hash, nil
	}
	if err := e.flush(db); err != nil {
		return 0, nil, err
	}
	height, _ := weave.GetHeight(ctx)
	if err := r.txs.Mark(db, hash, height); err != nil {
		return 0, nil, err
	}
	return len(ixs), hash, nil
}
