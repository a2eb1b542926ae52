package kvdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dreamware/kvdb/internal/resourcename"
	"github.com/dreamware/kvdb/internal/storage"
)

func TestRangeQueryBuilderCompilesBounds(t *testing.T) {
	a := resourcename.New("users/a")
	b := resourcename.New("users/b")

	q, err := NewRangeQuery().FromKey(a).ToKey(b).Build()
	require.NoError(t, err)
	require.Equal(t, storage.Included, q.Start.Kind)
	require.Equal(t, a.Bytes(), q.Start.Key)
	require.Equal(t, storage.Included, q.End.Kind)
	require.Equal(t, b.Bytes(), q.End.Key)

	q, err = NewRangeQuery().AfterKey(a).BeforeKey(b).Build()
	require.NoError(t, err)
	require.Equal(t, storage.Excluded, q.Start.Kind)
	require.Equal(t, storage.Excluded, q.End.Kind)
}

func TestRangeQueryBuilderBeginningWith(t *testing.T) {
	users := resourcename.New("users")
	q, err := NewRangeQuery().BeginningWith(users).Build()
	require.NoError(t, err)
	require.Equal(t, storage.Excluded, q.Start.Kind)
	require.Equal(t, users.Bytes(), q.Start.Key)
	require.Equal(t, storage.Excluded, q.End.Kind)
	require.Equal(t, users.NextBytewise().Bytes(), q.End.Key)
}

func TestRangeQueryBuilderReverseAndLimit(t *testing.T) {
	a := resourcename.New("users/a")
	q, err := NewRangeQuery().FromKey(a).Reverse().Limit(3).Build()
	require.NoError(t, err)
	require.True(t, q.Reverse)
	require.NotNil(t, q.Limit)
	require.Equal(t, 3, *q.Limit)
}

func TestRangeQueryBuilderRejectsUnbounded(t *testing.T) {
	_, err := NewRangeQuery().Build()
	require.ErrorIs(t, err, ErrUnboundedRange)
}
