package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/client"
	escrowd "github.com/iov-one/weave-escrow/cmd/escrowd/app"
	"github.com/iov-one/weave-escrow/crypto"
	"github.com/iov-one/weave-escrow/runtime"
	"github.com/iov-one/weave-escrow/weavetest/assert"
	"github.com/iov-one/weave-escrow/x/escrow"
	"github.com/iov-one/weave-escrow/x/rent"
	"github.com/iov-one/weave-escrow/x/token"
	"github.com/prometheus/client_golang/prometheus"
	tmtypes "github.com/tendermint/tendermint/types"
)

const testChainID = "escrowcli-test"

// useLocalChain makes all commands talk to an in-process escrowd
// application started from the given accounts.
func useLocalChain(t *testing.T, accounts ...runtime.GenesisAccount) (cleanup func()) {
	t.Helper()

	stack, err := escrowd.Stack(prometheus.NewRegistry())
	assert.Nil(t, err)
	app, err := escrowd.Application("escrowd", stack, escrowd.TxDecoder, "", false)
	assert.Nil(t, err)
	state, err := json.Marshal(escrowd.GenesisState{Rent: rent.Default(), Accounts: accounts})
	assert.Nil(t, err)
	conn := client.NewLocalConnection(app, &tmtypes.GenesisDoc{ChainID: testChainID, AppState: state})

	prev := newClient
	newClient = func(string) *client.Client { return client.NewClient(conn) }
	return func() { newClient = prev }
}

// keyring stores private keys in a temporary directory.
type keyring struct {
	t   *testing.T
	dir string
}

func newKeyring(t *testing.T) *keyring {
	dir, err := ioutil.TempDir("", "escrowcli-keys")
	assert.Nil(t, err)
	return &keyring{t: t, dir: dir}
}

// add creates a new key and returns its address and file path.
func (k *keyring) add(name string) (weave.Address, string) {
	k.t.Helper()
	key := crypto.GenPrivKeyEd25519()
	path := filepath.Join(k.dir, name)
	assert.Nil(k.t, crypto.SavePrivateKey(key, path, false))
	return key.PublicKey().Address(), path
}

func (k *keyring) close() {
	os.RemoveAll(k.dir)
}

// run executes a command and returns what it wrote.
func run(t *testing.T, cmd func(io.Reader, io.Writer, []string) error, input []byte, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	if err := cmd(bytes.NewReader(input), &out, args); err != nil {
		t.Fatalf("command %v failed: %s", args, err)
	}
	return out.Bytes()
}

func genesisTokenAccount(t *testing.T, addr, mint, owner weave.Address, amount uint64) runtime.GenesisAccount {
	t.Helper()
	data := make([]byte, token.AccountLen)
	a := token.Account{Mint: mint, Owner: owner, Amount: amount, State: token.Initialized}
	assert.Nil(t, a.Pack(data))
	return runtime.GenesisAccount{
		Address:  addr,
		Lamports: rent.Default().MinimumBalance(token.AccountLen),
		Owner:    token.ProgramID,
		Data:     hex.EncodeToString(data),
	}
}

func genesisMint(t *testing.T, addr, authority weave.Address) runtime.GenesisAccount {
	t.Helper()
	data := make([]byte, token.MintLen)
	m := token.Mint{MintAuthority: authority, Supply: 1000, IsInitialized: true}
	assert.Nil(t, m.Pack(data))
	return runtime.GenesisAccount{
		Address:  addr,
		Lamports: rent.Default().MinimumBalance(token.MintLen),
		Owner:    token.ProgramID,
		Data:     hex.EncodeToString(data),
	}
}

// queryAccount returns the decoded JSON view of an account.
func queryAccount(t *testing.T, addr weave.Address) map[string]interface{} {
	t.Helper()
	raw := run(t, cmdQueryAccount, nil, "-address", addr.String())
	var view map[string]interface{}
	assert.Nil(t, json.Unmarshal(raw, &view))
	return view
}

func tokenAmount(t *testing.T, addr weave.Address) float64 {
	t.Helper()
	view := queryAccount(t, addr)
	assert.Equal(t, "token_account", view["kind"])
	return view["decoded"].(map[string]interface{})["Amount"].(float64)
}

func TestEscrowPipeline(t *testing.T) {
	keys := newKeyring(t)
	defer keys.close()

	alice, aliceKey := keys.add("alice")
	bob, bobKey := keys.add("bob")
	custody, custodyKey := keys.add("custody")
	record, recordKey := keys.add("record")

	mintX, mintY := newAddress(t), newAddress(t)
	aliceX, aliceY := newAddress(t), newAddress(t)
	bobX, bobY := newAddress(t), newAddress(t)

	defer useLocalChain(t,
		runtime.GenesisAccount{Address: alice, Lamports: 1000000000},
		runtime.GenesisAccount{Address: bob, Lamports: 1000000000},
		genesisMint(t, mintX, alice),
		genesisMint(t, mintY, bob),
		genesisTokenAccount(t, aliceX, mintX, alice, 100),
		genesisTokenAccount(t, aliceY, mintY, alice, 0),
		genesisTokenAccount(t, bobX, mintX, bob, 0),
		genesisTokenAccount(t, bobY, mintY, bob, 50),
	)()

	tokenRent := strings.TrimSpace(string(run(t, cmdRentExempt, nil, "-space", fmt.Sprint(token.AccountLen))))
	assert.Equal(t, fmt.Sprint(rent.Default().MinimumBalance(token.AccountLen)), tokenRent)
	escrowRent := strings.TrimSpace(string(run(t, cmdRentExempt, nil, "-space", fmt.Sprint(escrow.EscrowLen))))

	// Alice moves 100 X into a fresh custody account and asks for 50 Y.
	var parts []byte
	parts = append(parts, run(t, cmdCreateAccount, nil,
		"-funder", alice.String(), "-account", custody.String(),
		"-lamports", tokenRent, "-space", fmt.Sprint(token.AccountLen), "-owner", "token")...)
	parts = append(parts, run(t, cmdInitTokenAccount, nil,
		"-account", custody.String(), "-mint", mintX.String(), "-owner", alice.String())...)
	parts = append(parts, run(t, cmdSendTokens, nil,
		"-src", aliceX.String(), "-dest", custody.String(), "-authority", alice.String(), "-amount", "100")...)
	parts = append(parts, run(t, cmdCreateAccount, nil,
		"-funder", alice.String(), "-account", record.String(),
		"-lamports", escrowRent, "-space", fmt.Sprint(escrow.EscrowLen), "-owner", "escrow")...)
	parts = append(parts, run(t, cmdOpenEscrow, nil,
		"-initializer", alice.String(), "-custody", custody.String(),
		"-receive", aliceY.String(), "-escrow", record.String(), "-amount", "50")...)

	open := run(t, cmdMerge, parts)
	open = run(t, cmdSignTransaction, open, "-key", aliceKey)
	open = run(t, cmdSignTransaction, open, "-key", custodyKey)

	// The record account did not sign yet.
	if err := cmdSubmitTransaction(bytes.NewReader(open), ioutil.Discard, nil); err == nil {
		t.Fatal("want missing signature error")
	}

	open = run(t, cmdSignTransaction, open, "-key", recordKey, "-chain", testChainID)
	out := strings.Fields(string(run(t, cmdSubmitTransaction, open)))
	assert.Equal(t, 2, len(out))
	if h, err := strconv.Atoi(out[1]); err != nil || h < 1 {
		t.Fatalf("unexpected height %q", out[1])
	}

	view := queryAccount(t, record)
	assert.Equal(t, "escrow", view["kind"])
	assert.Equal(t, "escrow", view["program"])
	assert.Equal(t, float64(50), view["decoded"].(map[string]interface{})["ExpectedAmount"])
	assert.Equal(t, float64(100), tokenAmount(t, custody))

	// Bob pays 50 Y and receives the 100 X held in custody.
	settle := run(t, cmdSettleEscrow, nil,
		"-taker", bob.String(), "-send", bobY.String(), "-receive", bobX.String(),
		"-custody", custody.String(), "-initializer", alice.String(),
		"-initializer-receive", aliceY.String(), "-escrow", record.String(), "-amount", "100")
	settle = run(t, cmdSignTransaction, settle, "-key", bobKey)
	run(t, cmdSubmitTransaction, settle)

	assert.Equal(t, float64(50), tokenAmount(t, aliceY))
	assert.Equal(t, float64(100), tokenAmount(t, bobX))
	assert.Equal(t, float64(0), tokenAmount(t, bobY))

	// Custody and record are closed.
	for _, closed := range []weave.Address{custody, record} {
		if err := cmdQueryAccount(nil, ioutil.Discard, []string{"-address", closed.String()}); err == nil {
			t.Fatalf("account %s still exists", closed)
		}
	}

	// Settling twice is rejected.
	if err := cmdSubmitTransaction(bytes.NewReader(settle), ioutil.Discard, nil); err == nil {
		t.Fatal("want error")
	}
}

func TestTransferAndQuery(t *testing.T) {
	keys := newKeyring(t)
	defer keys.close()
	alice, aliceKey := keys.add("alice")
	bob := newAddress(t)

	defer useLocalChain(t, runtime.GenesisAccount{Address: alice, Lamports: 5000})()

	tx := run(t, cmdTransfer, nil, "-from", alice.String(), "-to", bob.String(), "-lamports", "2000")
	tx = run(t, cmdSignTransaction, tx, "-key", aliceKey)
	run(t, cmdSubmitTransaction, tx)

	view := queryAccount(t, bob)
	assert.Equal(t, float64(2000), view["lamports"])
	assert.Equal(t, "system", view["program"])
	view = queryAccount(t, alice)
	assert.Equal(t, float64(3000), view["lamports"])

	view = queryAccount(t, rent.SysvarID)
	assert.Equal(t, "rent", view["kind"])
}

func TestRepeatedTransferNeedsDistinctMemo(t *testing.T) {
	keys := newKeyring(t)
	defer keys.close()
	alice, aliceKey := keys.add("alice")
	bob := newAddress(t)

	defer useLocalChain(t, runtime.GenesisAccount{Address: alice, Lamports: 5000})()

	transfer := func(memo string) []byte {
		tx := run(t, cmdTransfer, nil, "-from", alice.String(), "-to", bob.String(), "-lamports", "100", "-memo", memo)
		return run(t, cmdSignTransaction, tx, "-key", aliceKey)
	}

	run(t, cmdSubmitTransaction, transfer("first"))

	// The very same transfer is executed only once.
	err := cmdSubmitTransaction(bytes.NewReader(transfer("first")), ioutil.Discard, nil)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("want duplicate error, got %v", err)
	}

	run(t, cmdSubmitTransaction, transfer("second"))

	view := queryAccount(t, bob)
	assert.Equal(t, float64(200), view["lamports"])
}
