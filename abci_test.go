package weave_test

import (
	"fmt"
	"strings"
	"testing"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/common"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err   error
		debug bool
		msg   string
		code  uint32
	}{
		"stdlib error is hidden": {
			err:  fmt.Errorf("base"),
			msg:  "internal error",
			code: 1,
		},
		"stdlib error in debug mode": {
			err:   fmt.Errorf("base"),
			debug: true,
			msg:   "base",
			code:  1,
		},
		"registered error": {
			err:  errors.Wrap(errors.ErrMissingSignature, "initializer"),
			msg:  "initializer: missing required signature",
			code: 20,
		},
		"registered error in debug mode carries no stack": {
			err:   errors.Wrap(errors.ErrMissingSignature, "taker"),
			debug: true,
			msg:   ": taker: missing required signature",
			code:  20,
		},
		"custody error": {
			err:  errors.ErrIncorrectProgramID.New("custody"),
			msg:  "custody: incorrect program id",
			code: 21,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := weave.DeliverTxError(tc.err, tc.debug)
			assert.True(t, dres.IsErr())
			assert.Equal(t, tc.code, dres.Code)
			assert.True(t, strings.HasSuffix(dres.Log, tc.msg), dres.Log)
			assert.True(t, strings.HasPrefix(dres.Log, "cannot deliver tx"), dres.Log)

			cres := weave.CheckTxError(tc.err, tc.debug)
			assert.True(t, cres.IsErr())
			assert.Equal(t, tc.code, cres.Code)
			assert.True(t, strings.HasSuffix(cres.Log, tc.msg), cres.Log)
			assert.True(t, strings.HasPrefix(cres.Log, "cannot check tx"), cres.Log)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	tags := []common.KVPair{{Key: []byte("tx.hash"), Value: []byte("abcd")}}
	dres := weave.DeliverResult{Data: d, Log: msg, Tags: tags}
	ad := dres.ToABCI()
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Equal(t, tags, ad.Tags)
	assert.False(t, ad.IsErr())

	c, gas := "aok", int64(12345)
	cres := weave.NewCheck(gas, c)
	ac := cres.ToABCI()
	assert.Equal(t, c, ac.Log)
	assert.Equal(t, gas, ac.GasWanted)
	assert.Empty(t, ac.Data)
}

func TestOrError(t *testing.T) {
	dres := weave.DeliverOrError(weave.DeliverResult{Log: "fine"}, nil, false)
	assert.False(t, dres.IsErr())
	assert.Equal(t, "fine", dres.Log)

	dres = weave.DeliverOrError(weave.DeliverResult{Log: "fine"}, errors.ErrInsufficientFunds, false)
	assert.True(t, dres.IsErr())
	assert.Equal(t, uint32(28), dres.Code)

	cres := weave.CheckOrError(weave.NewCheck(5, ""), nil, false)
	assert.False(t, cres.IsErr())
	assert.Equal(t, int64(5), cres.GasWanted)

	cres = weave.CheckOrError(weave.NewCheck(5, ""), errors.ErrNotEnoughAccountKeys, false)
	assert.Equal(t, uint32(26), cres.Code)
}
