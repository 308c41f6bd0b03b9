package runtime

import (
	"bytes"
	"math/bits"
	"sort"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/x"
)

// privilege is what an instruction grants on one account.
type privilege struct {
	signer   bool
	writable bool
}

// frame is one running program: a top level instruction or a nested call.
type frame struct {
	program weave.Address
	// privileges holds every account view available to the program.
	privileges map[*weave.AccountInfo]privilege
	// pre is the state of each account when the program started, or when
	// it last handed control to a nested call.
	pre map[*weave.AccountInfo]*weave.AccountInfo
}

// execution holds the state of a single transaction.
type execution struct {
	rt       *Runtime
	db       weave.ReadOnlyKVStore
	loaded   map[string]*weave.AccountInfo
	original map[string]*weave.AccountInfo
	stack    []*frame
}

var _ weave.Invoker = (*execution)(nil)

func newExecution(rt *Runtime, db weave.ReadOnlyKVStore) *execution {
	return &execution{
		rt:       rt,
		db:       db,
		loaded:   make(map[string]*weave.AccountInfo),
		original: make(map[string]*weave.AccountInfo),
	}
}

// account returns the shared view of an account, loading it on first use.
func (e *execution) account(addr weave.Address) (*weave.AccountInfo, error) {
	if a, ok := e.loaded[string(addr)]; ok {
		return a, nil
	}
	a, err := e.rt.accounts.Load(e.db, addr)
	if err != nil {
		return nil, err
	}
	e.loaded[string(addr)] = a
	e.original[string(addr)] = a.Clone()
	return a, nil
}

// instruction runs a top level instruction. Signer privilege requires the
// account to be authenticated in the context.
func (e *execution) instruction(ctx weave.Context, ix weave.Instruction) error {
	if err := ix.Validate(); err != nil {
		return err
	}
	views := make([]*weave.AccountInfo, len(ix.Accounts))
	privs := make(map[*weave.AccountInfo]privilege, len(ix.Accounts))
	for i, m := range ix.Accounts {
		if m.IsSigner {
			if err := x.RequireSigner(ctx, e.rt.auth, m.Address); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
		a, err := e.account(m.Address)
		if err != nil {
			return err
		}
		p := privs[a]
		p.signer = p.signer || m.IsSigner
		p.writable = p.writable || m.IsWritable
		privs[a] = p
		views[i] = a
	}
	return e.run(ctx, ix.ProgramID, views, privs, ix.Data)
}

// Invoke calls a program with the privileges of the calling program.
func (e *execution) Invoke(ctx weave.Context, ix weave.Instruction, accounts []*weave.AccountInfo) error {
	return e.InvokeSigned(ctx, ix, accounts)
}

// InvokeSigned calls a program. Accounts whose address is derived from one
// of the proofs are signers in the called program.
func (e *execution) InvokeSigned(ctx weave.Context, ix weave.Instruction, accounts []*weave.AccountInfo, proofs ...weave.Condition) error {
	if len(e.stack) == 0 {
		return errors.Wrap(errors.ErrHuman, "invoke outside of a program")
	}
	if err := ix.Validate(); err != nil {
		return err
	}
	caller := e.stack[len(e.stack)-1]

	derived := make(map[string]bool, len(proofs))
	for _, p := range proofs {
		if !p.DerivedBy(caller.program) {
			return errors.Wrapf(ErrPrivilegeEscalation, "proof %s not derived by the caller", p)
		}
		derived[string(p.Address())] = true
	}

	views := make([]*weave.AccountInfo, len(ix.Accounts))
	privs := make(map[*weave.AccountInfo]privilege, len(ix.Accounts))
	for i, m := range ix.Accounts {
		a := findAccount(accounts, m.Address)
		if a == nil {
			return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s not provided", m.Address)
		}
		cp, ok := caller.privileges[a]
		if !ok {
			return errors.Wrapf(ErrPrivilegeEscalation, "account %s not available to the caller", m.Address)
		}
		if m.IsWritable && !cp.writable {
			return errors.Wrapf(ErrPrivilegeEscalation, "account %s is not writable", m.Address)
		}
		if m.IsSigner && !cp.signer && !derived[string(m.Address)] {
			return errors.Wrapf(ErrPrivilegeEscalation, "account %s is not a signer", m.Address)
		}
		p := privs[a]
		p.signer = p.signer || m.IsSigner
		p.writable = p.writable || m.IsWritable
		privs[a] = p
		views[i] = a
	}

	// Changes made by the caller so far are verified now and become the
	// new baseline, so that the callee effects are not attributed to it.
	if err := caller.verify(); err != nil {
		return err
	}
	caller.snapshot()

	if err := e.run(ctx, ix.ProgramID, views, privs, ix.Data); err != nil {
		return err
	}
	caller.snapshot()
	return nil
}

// run executes a program with the given privileges and verifies the result.
func (e *execution) run(ctx weave.Context, programID weave.Address, views []*weave.AccountInfo, privs map[*weave.AccountInfo]privilege, data []byte) error {
	prog, ok := e.rt.programs[string(programID)]
	if !ok {
		return errors.Wrapf(ErrUnknownProgram, "program %s", programID)
	}
	if len(e.stack) >= maxCallDepth {
		return errors.Wrapf(ErrCallDepth, "depth %d", len(e.stack))
	}

	// Flags are per call; the caller flags come back once we return.
	saved := make(map[*weave.AccountInfo]privilege, len(privs))
	for a, p := range privs {
		saved[a] = privilege{signer: a.IsSigner, writable: a.IsWritable}
		a.IsSigner = p.signer
		a.IsWritable = p.writable
	}
	defer func() {
		for a, p := range saved {
			a.IsSigner = p.signer
			a.IsWritable = p.writable
		}
	}()

	f := &frame{program: programID, privileges: privs}
	f.snapshot()

	ctx = weave.WithLogInfo(ctx, "program", e.rt.programName(programID))
	weave.GetLogger(ctx).Debug("Invoke", "depth", len(e.stack)+1)

	e.stack = append(e.stack, f)
	err := prog.Process(ctx, e, views, data)
	e.stack = e.stack[:len(e.stack)-1]
	if err != nil {
		return err
	}
	return f.verify()
}

// snapshot records the current state of every account of the frame.
func (f *frame) snapshot() {
	f.pre = make(map[*weave.AccountInfo]*weave.AccountInfo, len(f.privileges))
	for a := range f.privileges {
		f.pre[a] = a.Clone()
	}
}

// verify compares the accounts of the frame with the recorded state.
func (f *frame) verify() error {
	var (
		preHi, preLo   uint64
		postHi, postLo uint64
	)
	for a, p := range f.privileges {
		pre := f.pre[a]
		changed := a.Lamports != pre.Lamports ||
			!a.Owner.Equals(pre.Owner) ||
			!bytes.Equal(a.Data, pre.Data)

		if !p.writable && changed {
			return errors.Wrapf(ErrReadonlyModified, "account %s", a.Key)
		}
		if !pre.Owner.Equals(f.program) {
			if !a.Owner.Equals(pre.Owner) || !bytes.Equal(a.Data, pre.Data) {
				return errors.Wrapf(ErrExternalDataModified, "account %s", a.Key)
			}
			if a.Lamports < pre.Lamports {
				return errors.Wrapf(ErrExternalLamportSpend, "account %s", a.Key)
			}
		}
		preHi, preLo = add128(preHi, preLo, pre.Lamports)
		postHi, postLo = add128(postHi, postLo, a.Lamports)
	}
	if preHi != postHi || preLo != postLo {
		return errors.Wrap(ErrUnbalancedInstruction, "lamports created or destroyed")
	}
	return nil
}

func add128(hi, lo, v uint64) (uint64, uint64) {
	lo, carry := bits.Add64(lo, v, 0)
	return hi + carry, lo
}

func findAccount(accounts []*weave.AccountInfo, addr weave.Address) *weave.AccountInfo {
	for _, a := range accounts {
		if a != nil && a.Key.Equals(addr) {
			return a
		}
	}
	return nil
}

// flush writes every changed account to the store, in address order.
func (e *execution) flush(db weave.KVStore) error {
	keys := make([]string, 0, len(e.loaded))
	for k := range e.loaded {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		a, orig := e.loaded[k], e.original[k]
		if a.Lamports == orig.Lamports && a.Owner.Equals(orig.Owner) && bytes.Equal(a.Data, orig.Data) {
			continue
		}
		if err := e.rt.accounts.Store(db, a); err != nil {
			return errors.Wrapf(err, "store account %s", a.Key)
		}
	}
	return nil
}
