package utils

import (
	"context"
	"testing"

	weave "github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/store"
	"github.com/iov-one/weave-escrow/weavetest/assert"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    Savepoint
		err     error
		check   bool
		written [][]byte
		missing [][]byte
	}{
		"savepoint off keeps partial writes": {
			save:    NewSavepoint(),
			err:     errors.ErrInput,
			check:   true,
			written: [][]byte{ok, nk},
		},
		"savepoint on check rolls back": {
			save:    NewSavepoint().OnCheck(),
			err:     errors.ErrInput,
			check:   true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint on deliver rolls back": {
			save:    NewSavepoint().OnDeliver(),
			err:     errors.ErrInput,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation keeps both": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			err:     errors.ErrInput,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			err:     errors.ErrInput,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			assert.Nil(t, kv.Set(ok, ov))

			h := writeHandler{key: nk, value: nv, err: tc.err}
			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, h)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, h)
			}
			if tc.err != nil {
				assert.IsErr(t, tc.err, err)
			} else {
				assert.Nil(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				assert.Nil(t, err)
				assert.Equal(t, true, has)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				assert.Nil(t, err)
				assert.Equal(t, false, has)
			}
		})
	}
}

// writeHandler writes the key, value pair and returns the error (may be nil)
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ weave.Handler = writeHandler{}

func (h writeHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (weave.CheckResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return weave.CheckResult{}, err
	}
	return weave.CheckResult{}, h.err
}

func (h writeHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (weave.DeliverResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return weave.DeliverResult{}, err
	}
	return weave.DeliverResult{}, h.err
}
