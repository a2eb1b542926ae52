package kvdb

import (
	"context"
	"math"

	"github.com/dreamware/kvdb/internal/storage"
)

// Counter is a client-side cache over one engine counter key, scoped to a
// single transaction. It avoids a repeated engine round-trip for Get once
// the value has been read; Increment/Decrement keep an already-read value
// up to date but do not fill an empty cache.
//
// The original design (see counter.rs in the grounding notes) uses an
// AtomicU64 with a sentinel unset value because its Counter is shared by
// reference across concurrently polled futures on the same transaction.
// Go's transactions are consumed by exactly one goroutine at a time (see
// SPEC_FULL.md's concurrency section), so a plain bool flag is sufficient
// here; there is no concurrent access to race against.
type Counter struct {
	tx  storage.Txn
	key []byte

	fetched bool
	value   uint64
}

// Get returns the counter's current value within this transaction,
// defaulting to 0 if it has never been set. The result reflects this
// transaction's own increments and decrements (read-your-writes).
func (c *Counter) Get(ctx context.Context) (uint64, error) {
	if c.fetched {
		return c.value, nil
	}
	v, _, err := c.tx.CounterGet(ctx, c.key)
	if err != nil {
		return 0, err
	}
	c.fetched = true
	c.value = v
	return v, nil
}

// Increment issues an atomic increment of n against the engine, and, if
// the value is already cached, updates the local view optimistically. The
// local cache saturates at math.MaxUint64 rather than wrapping.
func (c *Counter) Increment(ctx context.Context, n uint64) error {
	if err := c.tx.CounterIncrement(ctx, c.key, n); err != nil {
		return err
	}
	if c.fetched {
		if n > math.MaxUint64-c.value {
			c.value = math.MaxUint64
		} else {
			c.value += n
		}
	}
	return nil
}

// Decrement issues an atomic decrement of n against the engine, and, if
// the value is already cached, updates the local view optimistically. The
// local cache saturates at 0 rather than wrapping.
func (c *Counter) Decrement(ctx context.Context, n uint64) error {
	if err := c.tx.CounterDecrement(ctx, c.key, n); err != nil {
		return err
	}
	if c.fetched {
		if n > c.value {
			c.value = 0
		} else {
			c.value -= n
		}
	}
	return nil
}

// IncrementByOne is Increment(ctx, 1).
func (c *Counter) IncrementByOne(ctx context.Context) error {
	return c.Increment(ctx, 1)
}

// DecrementOnce is Decrement(ctx, 1).
func (c *Counter) DecrementOnce(ctx context.Context) error {
	return c.Decrement(ctx, 1)
}
