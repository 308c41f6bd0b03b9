package app

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/crypto"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/runtime"
	"github.com/iov-one/weave-escrow/weavetest/assert"
	"github.com/iov-one/weave-escrow/x/sigs"
	"github.com/iov-one/weave-escrow/x/system"
)

func TestTxDecoder(t *testing.T) {
	from, to := newAddress(), newAddress()
	key := crypto.GenPrivKeyEd25519()

	tx := &Tx{
		Instructions: []weave.Instruction{system.Transfer(from, to, 5)},
		Memo:         "rent",
	}
	assert.Nil(t, tx.Sign(key, testChainID))
	raw, err := tx.Marshal()
	assert.Nil(t, err)

	decoded, err := TxDecoder(raw)
	assert.Nil(t, err)
	got := decoded.(*Tx)
	assert.Equal(t, "rent", got.Memo)
	assert.Equal(t, 1, len(got.Signatures))
	ixs, err := got.GetInstructions()
	assert.Nil(t, err)
	assert.Equal(t, runtime.SystemProgramID, ixs[0].ProgramID)

	// the signature verifies after decoding
	signers, err := sigs.VerifyTxSignatures(got, testChainID)
	assert.Nil(t, err)
	assert.Equal(t, []weave.Condition{key.PublicKey().Condition()}, signers)

	_, err = TxDecoder([]byte{0xFF, 0x01})
	assert.IsErr(t, errors.ErrInput, err)

	empty, err := (&Tx{}).Marshal()
	assert.Nil(t, err)
	_, err = TxDecoder(empty)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestSignBytesIgnoreSignatures(t *testing.T) {
	tx := &Tx{Instructions: []weave.Instruction{system.Transfer(newAddress(), newAddress(), 1)}}
	unsigned, err := tx.GetSignBytes()
	assert.Nil(t, err)
	hash, err := runtime.TxHash(tx)
	assert.Nil(t, err)

	assert.Nil(t, tx.Sign(crypto.GenPrivKeyEd25519(), testChainID))
	assert.Nil(t, tx.Sign(crypto.GenPrivKeyEd25519(), testChainID))
	signed, err := tx.GetSignBytes()
	assert.Nil(t, err)
	assert.Equal(t, unsigned, signed)

	// adding signatures does not make a transaction new
	signedHash, err := runtime.TxHash(tx)
	assert.Nil(t, err)
	assert.Equal(t, hash, signedHash)

	// the memo is signed
	tx.Memo = "other"
	memo, err := tx.GetSignBytes()
	assert.Nil(t, err)
	assert.Equal(t, false, string(memo) == string(unsigned))
}

func TestTxValidate(t *testing.T) {
	ix := system.Transfer(newAddress(), newAddress(), 1)
	cases := map[string]struct {
		tx      Tx
		wantErr *errors.Error
	}{
		"valid": {
			tx: Tx{Instructions: []weave.Instruction{ix}},
		},
		"no instructions": {
			tx:      Tx{},
			wantErr: errors.ErrInput,
		},
		"memo too long": {
			tx:      Tx{Instructions: []weave.Instruction{ix}, Memo: string(make([]byte, maxMemoSize+1))},
			wantErr: errors.ErrInput,
		},
		"empty signature": {
			tx:      Tx{Instructions: []weave.Instruction{ix}, Signatures: []*sigs.StdSignature{nil}},
			wantErr: errors.ErrInput,
		},
		"invalid instruction": {
			tx:      Tx{Instructions: []weave.Instruction{{ProgramID: weave.Address{1}}}},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.tx.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestTxWireFormat(t *testing.T) {
	from, to := newAddress(), newAddress()
	key := crypto.GenPrivKeyEd25519()

	src := &Tx{Instructions: []weave.Instruction{system.Transfer(from, to, 9)}}
	assert.Nil(t, src.Sign(key, testChainID))
	sigRaw, err := src.Signatures[0].Marshal()
	assert.Nil(t, err)

	// A message built field by field decodes into the same transaction.
	ix := src.Instructions[0]
	msg := txMsg{
		Instructions: []*instructionMsg{{
			ProgramID: ix.ProgramID,
			Accounts: []*accountMetaMsg{
				{Address: ix.Accounts[0].Address, IsSigner: true, IsWritable: true},
				{Address: ix.Accounts[1].Address, IsWritable: true},
			},
			Data: ix.Data,
		}},
		Signatures: [][]byte{sigRaw},
		Memo:       "wire",
	}
	raw, err := proto.Marshal(&msg)
	assert.Nil(t, err)

	var got Tx
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, "wire", got.Memo)
	assert.Equal(t, ix.ProgramID, got.Instructions[0].ProgramID)
	assert.Equal(t, ix.Accounts, got.Instructions[0].Accounts)
	assert.Equal(t, ix.Data, got.Instructions[0].Data)
	assert.Equal(t, src.Signatures, got.Signatures)

	// Encoding is stable, so the sign bytes of the decoded copy match.
	src.Memo = "wire"
	want, err := src.GetSignBytes()
	assert.Nil(t, err)
	have, err := got.GetSignBytes()
	assert.Nil(t, err)
	assert.Equal(t, want, have)

	// A nil signature cannot be serialized.
	got.Signatures = append(got.Signatures, nil)
	_, err = got.Marshal()
	assert.IsErr(t, errors.ErrInput, err)
}
