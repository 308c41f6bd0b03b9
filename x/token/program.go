package token

import (
	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/runtime"
	"github.com/iov-one/weave-escrow/x/rent"
)

// Program is the token program.
type Program struct{}

var _ weave.Program = Program{}

// RegisterProgram adds the token program to the runtime.
func RegisterProgram(r *runtime.Runtime) {
	r.Register("token", ProgramID, Program{})
}

// Process executes a token instruction.
func (Program) Process(ctx weave.Context, host weave.Invoker, accounts []*weave.AccountInfo, data []byte) error {
	msg, err := decodeInstruction(data)
	if err != nil {
		return err
	}
	log := weave.GetLogger(ctx)
	switch msg := msg.(type) {
	case *InitializeMintMsg:
		log.Debug("Instruction: InitializeMint")
		return initializeMint(accounts, msg)
	case *InitializeAccountMsg:
		log.Debug("Instruction: InitializeAccount")
		return initializeAccount(accounts)
	case *MintToMsg:
		log.Debug("Instruction: MintTo")
		return mintTo(accounts, msg)
	case *TransferMsg:
		log.Debug("Instruction: Transfer")
		return transfer(accounts, msg)
	case *SetAuthorityMsg:
		log.Debug("Instruction: SetAuthority")
		return setAuthority(accounts, msg)
	case *CloseAccountMsg:
		log.Debug("Instruction: CloseAccount")
		return closeAccount(accounts)
	}
	return errors.Wrapf(errors.ErrHuman, "unhandled %T", msg)
}

func initializeMint(accounts []*weave.AccountInfo, msg *InitializeMintMsg) error {
	if err := requireAccounts(accounts, 2); err != nil {
		return err
	}
	mintInfo, rentInfo := accounts[0], accounts[1]
	if err := ownedByProgram(mintInfo); err != nil {
		return err
	}
	mint, err := UnpackMintUnchecked(mintInfo.Data)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "mint %s", mintInfo.Key)
	}
	if err := rentExempt(rentInfo, mintInfo); err != nil {
		return err
	}
	if err := msg.MintAuthority.Validate(); err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, "mint authority")
	}
	mint.MintAuthority = msg.MintAuthority
	mint.Decimals = msg.Decimals
	mint.IsInitialized = true
	return mint.Pack(mintInfo.Data)
}

func initializeAccount(accounts []*weave.AccountInfo) error {
	if err := requireAccounts(accounts, 4); err != nil {
		return err
	}
	accInfo, mintInfo, ownerInfo, rentInfo := accounts[0], accounts[1], accounts[2], accounts[3]
	if err := ownedByProgram(accInfo); err != nil {
		return err
	}
	acc, err := UnpackAccountUnchecked(accInfo.Data)
	if err != nil {
		return err
	}
	if acc.IsInitialized() {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "token account %s", accInfo.Key)
	}
	if err := rentExempt(rentInfo, accInfo); err != nil {
		return err
	}
	if err := ownedByProgram(mintInfo); err != nil {
		return err
	}
	if _, err := UnpackMint(mintInfo.Data); err != nil {
		return err
	}
	acc.Mint = mintInfo.Key.Clone()
	acc.Owner = ownerInfo.Key.Clone()
	acc.Amount = 0
	acc.State = Initialized
	return acc.Pack(accInfo.Data)
}

func mintTo(accounts []*weave.AccountInfo, msg *MintToMsg) error {
	if err := requireAccounts(accounts, 3); err != nil {
		return err
	}
	mintInfo, destInfo, authority := accounts[0], accounts[1], accounts[2]
	mint, err := loadMint(mintInfo)
	if err != nil {
		return err
	}
	dest, err := loadAccount(destInfo)
	if err != nil {
		return err
	}
	if !dest.Mint.Equals(mintInfo.Key) {
		return errors.Wrapf(ErrMintMismatch, "account %s", destInfo.Key)
	}
	if len(mint.MintAuthority) == 0 {
		return errors.Wrapf(ErrFixedSupply, "mint %s", mintInfo.Key)
	}
	if err := checkAuthority(authority, mint.MintAuthority); err != nil {
		return err
	}
	if mint.Supply+msg.Amount < mint.Supply || dest.Amount+msg.Amount < dest.Amount {
		return errors.Wrap(errors.ErrOverflow, "mint to")
	}
	mint.Supply += msg.Amount
	dest.Amount += msg.Amount
	if err := mint.Pack(mintInfo.Data); err != nil {
		return err
	}
	return dest.Pack(destInfo.Data)
}

func transfer(accounts []*weave.AccountInfo, msg *TransferMsg) error {
	if err := requireAccounts(accounts, 3); err != nil {
		return err
	}
	srcInfo, destInfo, authority := accounts[0], accounts[1], accounts[2]
	src, err := loadAccount(srcInfo)
	if err != nil {
		return err
	}
	dest, err := loadAccount(destInfo)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dest.Mint) {
		return errors.Wrapf(ErrMintMismatch, "from %s to %s", srcInfo.Key, destInfo.Key)
	}
	if err := checkAuthority(authority, src.Owner); err != nil {
		return err
	}
	if src.Amount < msg.Amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%d < %d", src.Amount, msg.Amount)
	}
	if srcInfo == destInfo {
		return nil
	}
	if dest.Amount+msg.Amount < dest.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	src.Amount -= msg.Amount
	dest.Amount += msg.Amount
	if err := src.Pack(srcInfo.Data); err != nil {
		return err
	}
	return dest.Pack(destInfo.Data)
}

func setAuthority(accounts []*weave.AccountInfo, msg *SetAuthorityMsg) error {
	if err := requireAccounts(accounts, 2); err != nil {
		return err
	}
	info, current := accounts[0], accounts[1]
	switch msg.AuthorityType {
	case AccountOwner:
		acc, err := loadAccount(info)
		if err != nil {
			return err
		}
		if err := checkAuthority(current, acc.Owner); err != nil {
			return err
		}
		if err := msg.NewAuthority.Validate(); err != nil {
			return errors.Wrap(errors.ErrInvalidArgument, "token account must have an owner")
		}
		acc.Owner = msg.NewAuthority
		return acc.Pack(info.Data)
	case MintTokens:
		mint, err := loadMint(info)
		if err != nil {
			return err
		}
		if len(mint.MintAuthority) == 0 {
			return errors.Wrapf(ErrFixedSupply, "mint %s", info.Key)
		}
		if err := checkAuthority(current, mint.MintAuthority); err != nil {
			return err
		}
		mint.MintAuthority = msg.NewAuthority
		return mint.Pack(info.Data)
	}
	return errors.Wrapf(errors.ErrInvalidInstruction, "authority type %d", msg.AuthorityType)
}

func closeAccount(accounts []*weave.AccountInfo) error {
	if err := requireAccounts(accounts, 3); err != nil {
		return err
	}
	info, destInfo, authority := accounts[0], accounts[1], accounts[2]
	acc, err := loadAccount(info)
	if err != nil {
		return err
	}
	if err := checkAuthority(authority, acc.Owner); err != nil {
		return err
	}
	if acc.Amount != 0 {
		return errors.Wrapf(ErrNonZeroBalance, "%d tokens left", acc.Amount)
	}
	if info == destInfo {
		return errors.Wrap(errors.ErrInvalidArgument, "closing into itself")
	}
	if destInfo.Lamports+info.Lamports < destInfo.Lamports {
		return errors.Wrap(errors.ErrOverflow, "destination lamports")
	}
	destInfo.Lamports += info.Lamports
	info.Lamports = 0
	info.Data = nil
	return nil
}

func requireAccounts(accounts []*weave.AccountInfo, n int) error {
	if len(accounts) < n {
		return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "want %d, got %d", n, len(accounts))
	}
	return nil
}

func ownedByProgram(info *weave.AccountInfo) error {
	if !info.Owner.Equals(ProgramID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "account %s", info.Key)
	}
	return nil
}

func loadMint(info *weave.AccountInfo) (*Mint, error) {
	if err := ownedByProgram(info); err != nil {
		return nil, err
	}
	return UnpackMint(info.Data)
}

func loadAccount(info *weave.AccountInfo) (*Account, error) {
	if err := ownedByProgram(info); err != nil {
		return nil, err
	}
	return UnpackAccount(info.Data)
}

// checkAuthority ensures the authority account signed and is the expected
// one.
func checkAuthority(authority *weave.AccountInfo, want weave.Address) error {
	if !authority.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "authority %s", authority.Key)
	}
	if !authority.Key.Equals(want) {
		return errors.Wrapf(ErrOwnerMismatch, "authority %s", authority.Key)
	}
	return nil
}

func rentExempt(rentInfo, info *weave.AccountInfo) error {
	r, err := rent.FromAccountInfo(rentInfo)
	if err != nil {
		return err
	}
	if !r.IsExempt(info.Lamports, len(info.Data)) {
		return errors.Wrapf(ErrNotRentExempt, "account %s", info.Key)
	}
	return nil
}
