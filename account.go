package weave

// AccountInfo is the view of a single account handed to a program while it
// processes an instruction. Programs mutate Lamports, Owner and Data in place.
// The runtime verifies the changes once the program returns, and persists
// them only if the whole transaction succeeds.
//
// When an instruction references the same address more than once, all
// positions share the same *AccountInfo.
type AccountInfo struct {
	Key        Address
	IsSigner   bool
	IsWritable bool
	Lamports   uint64
	Owner      Address
	Data       []byte
}

// Clone returns a deep copy of the account, sharing no memory with it.
func (a *AccountInfo) Clone() *AccountInfo {
	cpy := *a
	cpy.Key = a.Key.Clone()
	cpy.Owner = a.Owner.Clone()
	if a.Data != nil {
		cpy.Data = append([]byte{}, a.Data...)
	}
	return &cpy
}

// AccountMeta references an account by position in an instruction, together
// with the privileges the instruction requires for it.
type AccountMeta struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta returns a meta of a writable account.
func NewAccountMeta(addr Address, isSigner bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: isSigner, IsWritable: true}
}

// NewReadonlyAccountMeta returns a meta of an account the instruction only
// reads.
func NewReadonlyAccountMeta(addr Address, isSigner bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: isSigner, IsWritable: false}
}

// Instruction is a single call to a program. Accounts are positional: each
// program documents what it expects at each index.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}

// Validate returns an error if the instruction cannot be routed.
func (ix Instruction) Validate() error {
	if err := ix.ProgramID.Validate(); err != nil {
		return err
	}
	for _, m := range ix.Accounts {
		if err := m.Address.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Program processes instructions addressed to it.
//
// accounts holds the resolved accounts in the order the instruction listed
// them. A program must not keep references to them after it returns.
type Program interface {
	Process(ctx Context, host Invoker, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(ctx Context, host Invoker, accounts []*AccountInfo, data []byte) error

// Process calls f.
func (f ProgramFunc) Process(ctx Context, host Invoker, accounts []*AccountInfo, data []byte) error {
	return f(ctx, host, accounts, data)
}

// Invoker is the host surface available to a running program for calling
// other programs. accounts must contain every account the instruction
// references, as handed to the caller.
type Invoker interface {
	// Invoke calls another program with the privileges of the caller.
	Invoke(ctx Context, ix Instruction, accounts []*AccountInfo) error

	// InvokeSigned calls another program and additionally grants signer
	// privilege to every account whose address is derived from one of the
	// proofs. A proof is only honored if it was derived for the calling
	// program.
	InvokeSigned(ctx Context, ix Instruction, accounts []*AccountInfo, proofs ...Condition) error
}
