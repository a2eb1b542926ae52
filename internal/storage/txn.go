package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is a sentinel a Txn never returns: Get and CounterGet
// report absence with their bool return instead. No engine in this module
// returns or wraps it; the embedded engine checks mdbx.ErrNotFound
// directly.
var ErrKeyNotFound = errors.New("storage: key not found")

// RangeFunc is called once per key/value pair a range scan visits, in scan
// order. Returning false stops the scan early without error; returning a
// non-nil error stops the scan and surfaces that error from the enclosing
// Txn.ForEachInRange call.
type RangeFunc func(key, value []byte) (bool, error)

// Txn is the per-attempt transaction handle both engines hand to a
// transaction closure. See doc.go for the contract every method must
// honor.
type Txn interface {
	// Get returns the value for key and true, or nil and false if absent.
	// Reflects any prior Set/Clear issued through this same Txn.
	Get(ctx context.Context, key []byte) ([]byte, bool, error)

	// Set stages key to value. Visible to later Get/ForEachInRange calls
	// on this Txn; durable only once the enclosing Transact call returns
	// without error.
	Set(key, value []byte) error

	// Clear stages key for deletion, the same way Set stages a write.
	Clear(key []byte) error

	// ForEachInRange walks q, invoking fn for every key/value pair found
	// in scan order.
	ForEachInRange(ctx context.Context, q RangeQuery, fn RangeFunc) error

	// CounterGet returns the current value of the counter at key and
	// true, or 0 and false if the counter has never been written.
	CounterGet(ctx context.Context, key []byte) (uint64, bool, error)

	// CounterIncrement adds delta to the counter at key, creating it at
	// delta if absent.
	CounterIncrement(ctx context.Context, key []byte, delta uint64) error

	// CounterDecrement subtracts delta from the counter at key, creating
	// it at a wrapped or saturated value per the engine's own semantics
	// if absent; embedded and distributed engines document their own
	// underflow behavior.
	CounterDecrement(ctx context.Context, key []byte, delta uint64) error
}
