package utils

import (
	"context"
	"testing"

	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/store"
	"github.com/iov-one/weave-escrow/weavetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	db := store.MemStore()

	_, err = m.Check(ctx, db, nil, &weavetest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, nil, &weavetest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, nil, &weavetest.Handler{DeliverErr: errors.ErrDuplicate})
	require.Error(t, err)
	_, err = m.Deliver(ctx, db, nil, &weavetest.Handler{DeliverErr: errors.ErrDuplicate})
	require.Error(t, err)

	require.Equal(t, float64(1), testutil.ToFloat64(m.txs.WithLabelValues("check", "0")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.txs.WithLabelValues("deliver", "0")))
	require.Equal(t, float64(2), testutil.ToFloat64(m.txs.WithLabelValues("deliver", "5")))

	// Collectors can be registered only once.
	_, err = NewMetrics(reg)
	require.Error(t, err)
}
