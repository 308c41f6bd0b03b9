package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"strings"
	"testing"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/weavetest"
	"github.com/iov-one/weave-escrow/weavetest/assert"
	"github.com/iov-one/weave-escrow/x/escrow"
	"github.com/iov-one/weave-escrow/x/system"
	"github.com/iov-one/weave-escrow/x/token"
)

func newAddress(t testing.TB) weave.Address {
	t.Helper()
	return weavetest.NewCondition().Address()
}

func TestOpenEscrow(t *testing.T) {
	initializer, custody, receive, record := newAddress(t), newAddress(t), newAddress(t), newAddress(t)

	var out bytes.Buffer
	err := cmdOpenEscrow(nil, &out, []string{
		"-initializer", initializer.String(),
		"-custody", custody.String(),
		"-receive", receive.String(),
		"-escrow", record.String(),
		"-amount", "50",
		"-memo", "x for y",
	})
	assert.Nil(t, err)

	tx, _, err := readTx(&out)
	assert.Nil(t, err)
	assert.Equal(t, "x for y", tx.Memo)
	want := escrow.NewInitEscrowInstruction(initializer, custody, receive, record, 50)
	assert.Equal(t, []weave.Instruction{want}, tx.Instructions)
}

func TestOpenEscrowMissingFlags(t *testing.T) {
	err := cmdOpenEscrow(nil, ioutil.Discard, []string{
		"-initializer", newAddress(t).String(),
		"-amount", "50",
	})
	if err == nil {
		t.Fatal("want error")
	}
	assert.Equal(t, "required flags not set: -custody, -escrow, -receive", err.Error())
}

func TestSettleEscrow(t *testing.T) {
	taker, send, receive := newAddress(t), newAddress(t), newAddress(t)
	custody, initializer, initializerReceive, record := newAddress(t), newAddress(t), newAddress(t), newAddress(t)

	var out bytes.Buffer
	err := cmdSettleEscrow(nil, &out, []string{
		"-taker", taker.String(),
		"-send", send.String(),
		"-receive", receive.String(),
		"-custody", custody.String(),
		"-initializer", initializer.String(),
		"-initializer-receive", initializerReceive.String(),
		"-escrow", record.String(),
		"-amount", "100",
	})
	assert.Nil(t, err)

	tx, _, err := readTx(&out)
	assert.Nil(t, err)
	want := escrow.NewExchangeInstruction(taker, send, receive, custody, initializer, initializerReceive, record, 100)
	assert.Equal(t, []weave.Instruction{want}, tx.Instructions)
}

func TestCustodyAddress(t *testing.T) {
	var out bytes.Buffer
	assert.Nil(t, cmdCustodyAddress(nil, &out, nil))
	authority, _ := escrow.CustodyAuthority(escrow.ProgramID)
	assert.Equal(t, authority.String(), strings.TrimSpace(out.String()))
}

func TestMergeAndView(t *testing.T) {
	funder, account, mint, owner := newAddress(t), newAddress(t), newAddress(t), newAddress(t)

	var input bytes.Buffer
	assert.Nil(t, cmdCreateAccount(nil, &input, []string{
		"-funder", funder.String(),
		"-account", account.String(),
		"-lamports", "1000",
		"-space", "49",
		"-memo", "allocate",
	}))
	assert.Nil(t, cmdInitTokenAccount(nil, &input, []string{
		"-account", account.String(),
		"-mint", mint.String(),
		"-owner", owner.String(),
	}))
	assert.Nil(t, cmdOpenEscrow(nil, &input, []string{
		"-initializer", owner.String(),
		"-custody", account.String(),
		"-receive", newAddress(t).String(),
		"-escrow", newAddress(t).String(),
		"-amount", "7",
		"-memo", "open",
	}))

	var merged bytes.Buffer
	assert.Nil(t, cmdMerge(&input, &merged, nil))

	raw := append([]byte{}, merged.Bytes()...)
	tx, _, err := readTx(bytes.NewReader(raw))
	assert.Nil(t, err)
	assert.Equal(t, "allocate; open", tx.Memo)
	assert.Equal(t, 3, len(tx.Instructions))
	assert.Equal(t, system.CreateAccount(funder, account, 1000, 49, token.ProgramID), tx.Instructions[0])
	assert.Equal(t, token.InitializeAccount(account, mint, owner), tx.Instructions[1])

	var out bytes.Buffer
	assert.Nil(t, cmdTransactionView(bytes.NewReader(raw), &out, nil))
	var view struct {
		Memo         string
		Instructions []struct {
			Program   string
			Operation string
			Amount    uint64
		}
	}
	assert.Nil(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, "allocate; open", view.Memo)
	assert.Equal(t, "system", view.Instructions[0].Program)
	assert.Equal(t, "token", view.Instructions[1].Program)
	assert.Equal(t, "escrow", view.Instructions[2].Program)
	assert.Equal(t, "InitEscrow", view.Instructions[2].Operation)
	assert.Equal(t, uint64(7), view.Instructions[2].Amount)

	// Nothing to merge.
	if err := cmdMerge(bytes.NewReader(nil), ioutil.Discard, nil); err == nil {
		t.Fatal("want error")
	}
}
