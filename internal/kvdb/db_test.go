package kvdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dreamware/kvdb/internal/resourcename"
	"github.com/dreamware/kvdb/internal/storage"
)

func newTestDB() *UnifiedDB {
	return &UnifiedDB{eng: storage.NewFakeEngine()}
}

func TestTransactSetAndGet(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()
	name := resourcename.New("users/john")

	_, err := Transact(ctx, db, func(tx *UnifiedTx) (any, error) {
		return nil, tx.Set(name, []byte("alice"))
	})
	require.NoError(t, err)

	val, err := Transact(ctx, db, func(tx *UnifiedTx) (string, error) {
		v, found, err := tx.Get(ctx, name)
		require.NoError(t, err)
		require.True(t, found)
		return string(v), nil
	})
	require.NoError(t, err)
	require.Equal(t, "alice", val)
}

func TestTransactAbortDiscardsWrites(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()
	name := resourcename.New("users/john")
	sentinel := errFakeAbort{}

	_, err := Transact(ctx, db, func(tx *UnifiedTx) (any, error) {
		require.NoError(t, tx.Set(name, []byte("alice")))
		return nil, sentinel
	})
	require.Error(t, err)

	_, err = Transact(ctx, db, func(tx *UnifiedTx) (any, error) {
		_, found, err := tx.Get(ctx, name)
		require.NoError(t, err)
		require.False(t, found)
		return nil, nil
	})
	require.NoError(t, err)
}

type errFakeAbort struct{}

func (errFakeAbort) Error() string { return "aborted" }

func TestForEachInRangeOverUnifiedTx(t *testing.T) {
	db := newTestDB()
	ctx := context.Background()

	_, err := Transact(ctx, db, func(tx *UnifiedTx) (any, error) {
		for _, id := range []string{"a", "b", "c"} {
			if err := tx.Set(resourcename.New("users/"+id), []byte(id)); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	require.NoError(t, err)

	var got []string
	_, err = Transact(ctx, db, func(tx *UnifiedTx) (any, error) {
		q, berr := NewRangeQuery().BeginningWith(resourcename.New("users")).Build()
		if berr != nil {
			return nil, berr
		}
		return nil, tx.ForEachInRange(ctx, q, func(k, v []byte) (bool, error) {
			got = append(got, string(v))
			return true, nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, got)
}
