// Package embedded implements the single-node storage engine backed by
// libmdbx (github.com/erigontech/mdbx-go), satisfying internal/storage.Txn.
//
// # Overview
//
// Engine owns one mdbx environment and two named tables inside it, one for
// ordinary values and one for counters.
// Transact opens a native read-write mdbx transaction, runs the caller's
// closure against a txn that stages writes in memory, and on a successful
// return flushes the staged batch into the native transaction before
// committing it.
//
//	┌────────────────────────────────────────────┐
//	│                  Engine                      │
//	│  Transact(ctx, fn) -> open native txn,       │
//	│  run fn(txn), flush staged batch, commit     │
//	└────────────────────────────────────────────┘
//	                      │
//	                      ▼
//	┌────────────────────────────────────────────┐
//	│                    txn                        │
//	│  staged writes/deletes checked before        │
//	│  falling back to the native cursor            │
//	└────────────────────────────────────────────┘
//	                      │
//	                      ▼
//	┌────────────────────────────────────────────┐
//	│              mdbx native txn                  │
//	│  B+tree storage, snapshot isolation            │
//	└────────────────────────────────────────────┘
//
// # Isolation
//
// mdbx gives every transaction snapshot isolation: a read transaction sees
// a consistent point-in-time view, and a write transaction's reads see its
// own uncommitted writes. This engine layers a staged write batch on top
// of that: Set and Clear calls are held in memory until the enclosing
// Transact call's closure returns without error, at which point they are
// flushed into the native mdbx transaction in one pass and committed. Get
// and ForEachInRange consult the staged batch before falling back to the
// native transaction, giving read-your-writes within a single Transact
// call without touching disk for every intermediate write.
//
// # Range scans
//
// ForEachInRange opens a native cursor positioned at the query's start key
// and always walks forward, applying inRangeStart/inRangeEnd on every row so
// that a Bound's Kind (Included or Excluded) is honored precisely at both
// ends. It collects the whole in-range result in memory, merges in any
// staged writes and removes staged deletes, sorts the keys, and reverses
// them when Reverse is set before invoking the callback; Limit is applied
// while delivering. This engine does not use the distributed engine's
// chunked prefetch.
//
// # Counters
//
// Counters live in their own named table, separate from ordinary values,
// each stored as an 8-byte big-endian uint64. CounterIncrement and
// CounterDecrement record a per-transaction delta in counterDeltas;
// CounterGet adds the staged delta to the committed value, and flush
// writes base plus delta back with a plain Put. The result is not clamped:
// a decrement below zero wraps around the uint64 range.
//
// # Retries
//
// mdbx transaction failures (disk I/O errors, map-full, corruption) are
// not transient in the way a distributed store's conflicts are. Transact
// never retries; a failure is wrapped in dberr.Storage and returned
// directly to the caller.
//
// # Future extensions
//
//   - A read-only Transact variant backed by mdbx's dedicated read
//     transactions, to avoid taking a write lock for pure read workloads.
//   - Database size and map-resize metrics alongside the operation counters
//     already exposed through metrics.go.
package embedded
