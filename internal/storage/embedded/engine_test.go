package embedded

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/kvdb/internal/dberr"
	"github.com/dreamware/kvdb/internal/storage"
)

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(Options{
		DataDir:    t.TempDir(),
		Registerer: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, e.Close()) })
	return e
}

func TestEngineSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)

	_, err := e.Transact(ctx, func(tx storage.Txn) (any, error) {
		return nil, tx.Set([]byte("users/john"), []byte(`{"name":"john"}`))
	})
	require.NoError(t, err)

	_, err = e.Transact(ctx, func(tx storage.Txn) (any, error) {
		v, ok, err := tx.Get(ctx, []byte("users/john"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, `{"name":"john"}`, string(v))
		return nil, nil
	})
	require.NoError(t, err)
}

func TestEngineAbortDoesNotFlush(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)

	boom := dberr.Abort(errUserFacing{"rejected"})
	_, err := e.Transact(ctx, func(tx storage.Txn) (any, error) {
		_ = tx.Set([]byte("doomed"), []byte("x"))
		return nil, boom
	})
	require.True(t, dberr.IsAbort(err))

	_, err = e.Transact(ctx, func(tx storage.Txn) (any, error) {
		_, ok, err := tx.Get(ctx, []byte("doomed"))
		require.NoError(t, err)
		require.False(t, ok)
		return nil, nil
	})
	require.NoError(t, err)
}

type errUserFacing struct{ msg string }

func (e errUserFacing) Error() string { return e.msg }

func TestEngineRangeScanRespectsBoundsAndOrder(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)

	_, err := e.Transact(ctx, func(tx storage.Txn) (any, error) {
		for _, k := range []string{"a", "b", "c", "d"} {
			if err := tx.Set([]byte(k), []byte(k)); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	require.NoError(t, err)

	var got []string
	_, err = e.Transact(ctx, func(tx storage.Txn) (any, error) {
		q := storage.RangeQuery{
			Start: storage.ExcludedBound([]byte("a")),
			End:   storage.ExcludedBound([]byte("d")),
		}
		return nil, tx.ForEachInRange(ctx, q, func(k, v []byte) (bool, error) {
			got = append(got, string(k))
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c"}, got)
}

func TestEngineCounterIncrementAndDecrement(t *testing.T) {
	ctx := context.Background()
	e := openTestEngine(t)

	_, err := e.Transact(ctx, func(tx storage.Txn) (any, error) {
		return nil, tx.CounterIncrement(ctx, []byte("visits"), 5)
	})
	require.NoError(t, err)

	_, err = e.Transact(ctx, func(tx storage.Txn) (any, error) {
		return nil, tx.CounterDecrement(ctx, []byte("visits"), 2)
	})
	require.NoError(t, err)

	_, err = e.Transact(ctx, func(tx storage.Txn) (any, error) {
		v, ok, err := tx.CounterGet(ctx, []byte("visits"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint64(3), v)
		return nil, nil
	})
	require.NoError(t, err)
}
