package escrow

import (
	"context"
	"testing"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/runtime"
	"github.com/iov-one/weave-escrow/store"
	"github.com/iov-one/weave-escrow/weavetest"
	"github.com/iov-one/weave-escrow/x/rent"
	"github.com/iov-one/weave-escrow/x/system"
	"github.com/iov-one/weave-escrow/x/token"
	"github.com/stretchr/testify/require"
)

// fixture is a runtime with the system, token and escrow programs.
type fixture struct {
	t    testing.TB
	rt   *runtime.Runtime
	auth *weavetest.CtxAuth
	db   weave.CacheableKVStore
	// txs makes every transaction unique, so that the same instructions
	// can be sent again.
	txs int
}

func newFixture(t testing.TB) *fixture {
	auth := &weavetest.CtxAuth{Key: "auth"}
	rt := runtime.NewRuntime(auth)
	system.RegisterProgram(rt)
	token.RegisterProgram(rt)
	RegisterProgram(rt)
	db := store.MemStore()
	require.NoError(t, (&rent.Initializer{}).FromGenesis(weave.Options{}, db))
	return &fixture{t: t, rt: rt, auth: auth, db: db}
}

func (f *fixture) store(info *weave.AccountInfo) {
	f.t.Helper()
	require.NoError(f.t, f.rt.Accounts().Store(f.db, info))
}

func (f *fixture) load(addr weave.Address) *weave.AccountInfo {
	f.t.Helper()
	info, err := f.rt.Accounts().Load(f.db, addr)
	require.NoError(f.t, err)
	return info
}

func (f *fixture) exists(addr weave.Address) bool {
	f.t.Helper()
	has, err := f.rt.Accounts().Has(f.db, addr)
	require.NoError(f.t, err)
	return has
}

func (f *fixture) wallet(lamports uint64) (weave.Condition, weave.Address) {
	cond, addr := weavetest.NewSigner()
	f.store(weavetest.Account(addr, runtime.SystemProgramID, lamports, nil))
	return cond, addr
}

func (f *fixture) mint() weave.Address {
	addr := weavetest.NewCondition().Address()
	data := make([]byte, token.MintLen)
	m := token.Mint{MintAuthority: weavetest.NewCondition().Address(), Supply: 1 << 32, IsInitialized: true}
	require.NoError(f.t, m.Pack(data))
	f.store(weavetest.Account(addr, token.ProgramID, rent.Default().MinimumBalance(token.MintLen), data))
	return addr
}

func (f *fixture) tokenAccount(mint, owner weave.Address, amount uint64) weave.Address {
	addr := weavetest.NewCondition().Address()
	data := make([]byte, token.AccountLen)
	a := token.Account{Mint: mint, Owner: owner, Amount: amount, State: token.Initialized}
	require.NoError(f.t, a.Pack(data))
	f.store(weavetest.Account(addr, token.ProgramID, rent.Default().MinimumBalance(token.AccountLen), data))
	return addr
}

func (f *fixture) tokens(addr weave.Address) uint64 {
	f.t.Helper()
	acc, err := token.UnpackAccount(f.load(addr).Data)
	require.NoError(f.t, err)
	return acc.Amount
}

func (f *fixture) deliver(signers []weave.Condition, ixs ...weave.Instruction) error {
	f.txs++
	tx := weavetest.NewTx(ixs...)
	tx.Raw = []byte{byte(f.txs >> 8), byte(f.txs)}
	return f.deliverTx(signers, tx)
}

func (f *fixture) deliverTx(signers []weave.Condition, tx weave.Tx) error {
	ctx := f.auth.SetConditions(context.Background(), signers...)
	_, err := f.rt.Deliver(ctx, f.db, tx)
	return err
}

// deal is an open escrow trading X tokens for Y tokens.
type deal struct {
	initCond    weave.Condition
	initializer weave.Address
	takerCond   weave.Condition
	taker       weave.Address

	mintX, mintY weave.Address

	initX         weave.Address
	initReceiveY  weave.Address
	custody       weave.Address
	record        weave.Address
	takerSendY    weave.Address
	takerReceiveX weave.Address
}

// openDeal opens an escrow offering offer X tokens for expect Y tokens. The
// taker holds takerY Y tokens.
func (f *fixture) openDeal(offer, expect, takerY uint64) *deal {
	f.t.Helper()
	d := &deal{mintX: f.mint(), mintY: f.mint()}
	d.initCond, d.initializer = f.wallet(10000000)
	d.takerCond, d.taker = f.wallet(10000000)

	d.initX = f.tokenAccount(d.mintX, d.initializer, offer)
	d.initReceiveY = f.tokenAccount(d.mintY, d.initializer, 0)
	d.takerSendY = f.tokenAccount(d.mintY, d.taker, takerY)
	d.takerReceiveX = f.tokenAccount(d.mintX, d.taker, 0)

	custodyCond, custody := weavetest.NewSigner()
	recordCond, record := weavetest.NewSigner()
	d.custody, d.record = custody, record

	r := rent.Default()
	err := f.deliver([]weave.Condition{d.initCond, custodyCond, recordCond},
		system.CreateAccount(d.initializer, custody, r.MinimumBalance(token.AccountLen), token.AccountLen, token.ProgramID),
		token.InitializeAccount(custody, d.mintX, d.initializer),
		token.Transfer(d.initX, custody, d.initializer, offer),
		system.CreateAccount(d.initializer, record, r.MinimumBalance(EscrowLen), EscrowLen, ProgramID),
		NewInitEscrowInstruction(d.initializer, custody, d.initReceiveY, record, expect),
	)
	require.NoError(f.t, err)
	return d
}

func (d *deal) exchange(amount uint64) weave.Instruction {
	return NewExchangeInstruction(d.taker, d.takerSendY, d.takerReceiveX, d.custody, d.initializer, d.initReceiveY, d.record, amount)
}
