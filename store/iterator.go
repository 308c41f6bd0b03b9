package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/weave-escrow/errors"
)

// collectBtree returns all cached items within [start, end), in the requested
// order. Deleted items are kept so they can shadow the parent store.
func collectBtree(bt *btree.BTree, start, end []byte, ascending bool) []keyer {
	var items []keyer
	add := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(add)
	case start == nil:
		bt.AscendLessThan(bkey{end}, add)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, add)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, add)
	}
	if !ascending {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// mergeIterators drains the parent iterator and overlays the cached items on
// top of it. Cached writes win over the parent, cached deletes hide it.
func mergeIterators(parent Iterator, cached []keyer, ascending bool) (Iterator, error) {
	defer parent.Release()

	var (
		res    []Model
		pos    int
		before = func(a, b []byte) bool {
			if ascending {
				return bytes.Compare(a, b) < 0
			}
			return bytes.Compare(a, b) > 0
		}
	)

	emit := func(item keyer) {
		if set, ok := item.(setItem); ok {
			res = append(res, Pair(set.key, set.value))
		}
	}

	key, value, err := parent.Next()
	for ; err == nil; key, value, err = parent.Next() {
		for pos < len(cached) && before(cached[pos].Key(), key) {
			emit(cached[pos])
			pos++
		}
		if pos < len(cached) && bytes.Equal(cached[pos].Key(), key) {
			emit(cached[pos])
			pos++
			continue
		}
		res = append(res, Pair(key, value))
	}
	if !errors.ErrIteratorDone.Is(err) {
		return nil, err
	}
	for ; pos < len(cached); pos++ {
		emit(cached[pos])
	}
	return NewSliceIterator(res), nil
}
