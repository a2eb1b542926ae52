package kvdb

import (
	"context"

	"github.com/dreamware/kvdb/internal/resourcename"
	"github.com/dreamware/kvdb/internal/storage"
)

// UnifiedTx is the transaction handle passed into a Transact closure. It
// wraps whichever engine's native storage.Txn the enclosing Transact call
// is running against.
type UnifiedTx struct {
	txn storage.Txn
}

// Get reads the value stored at name. The second return is false if name
// has no value (distinct from an empty value).
func (tx *UnifiedTx) Get(ctx context.Context, name resourcename.ResourceName) ([]byte, bool, error) {
	return tx.txn.Get(ctx, name.Bytes())
}

// Set stages value at name, visible to later reads in this transaction.
func (tx *UnifiedTx) Set(name resourcename.ResourceName, value []byte) error {
	return tx.txn.Set(name.Bytes(), value)
}

// Clear stages the removal of name.
func (tx *UnifiedTx) Clear(name resourcename.ResourceName) error {
	return tx.txn.Clear(name.Bytes())
}

// ForEachInRange runs a compiled RangeQueryBuilder query, invoking fn with
// the raw key and value bytes of each pair in range order. fn returns false
// to stop iteration early.
func (tx *UnifiedTx) ForEachInRange(ctx context.Context, q storage.RangeQuery, fn func(key, value []byte) (bool, error)) error {
	return tx.txn.ForEachInRange(ctx, q, fn)
}

// Counter returns a cached counter handle for name, scoped to this
// transaction.
func (tx *UnifiedTx) Counter(name resourcename.ResourceName) *Counter {
	return &Counter{tx: tx.txn, key: name.Bytes()}
}
