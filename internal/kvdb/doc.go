// Package kvdb is the unified façade over the embedded and distributed
// storage engines. It dispatches to whichever engine a UnifiedDB was opened
// against, and layers resource-name-keyed helpers, a client-side counter
// cache, and a typed collection value layer on top of the shared
// internal/storage.Txn contract.
//
// # Overview
//
//	┌───────────────────────────────────────────┐
//	│                 UnifiedDB                    │
//	│  Embedded(path) / Temporary(dir) /           │
//	│  Distributed(opts)                            │
//	└───────────────────────────────────────────┘
//	                     │ Transact[T](ctx, db, fn)
//	                     ▼
//	┌───────────────────────────────────────────┐
//	│                 UnifiedTx                    │
//	│  Get / Set / Clear / ForEachInRange /         │
//	│  Counter(name) -> *Counter                    │
//	└───────────────────────────────────────────┘
//	           │                        │
//	           ▼                        ▼
//	┌───────────────────┐    ┌───────────────────────┐
//	│      Counter        │    │  Collection[T, PT]      │
//	│  cached uint64,      │    │  Get/Set/Clear/Range     │
//	│  saturating add/sub  │    │  over a resource-name     │
//	│                      │    │  subtree                  │
//	└───────────────────┘    └───────────────────────┘
//
// Unlike a tagged-enum transaction handle, UnifiedTx holds a plain
// storage.Txn: both engines' native transaction types already satisfy that
// interface, so there is no "wrong variant" to guard against at this layer.
//
// # Generic Transact
//
// Transact is a free function, not a UnifiedDB method, because Go methods
// cannot introduce their own type parameters. It boxes the caller's typed
// closure result through the engine's any-typed Transact and unboxes it on
// return; a type-assertion failure there indicates the engine returned
// something other than what the closure produced, which can only happen if
// this package's own plumbing is broken, so it panics rather than
// returning an error a caller could plausibly handle.
//
// # Counters
//
// Counter is a thin client-side cache over one counter key scoped to a
// single transaction: once Get has been called, subsequent Get calls on the
// same Counter value reuse the cached result instead of issuing another
// engine round-trip. Increment and Decrement always send their delta to
// the engine and only update the cache if Get has already filled it; the
// cached value saturates at math.MaxUint64 and at 0, while the delta sent
// to the engine is unclamped. A Get that has to reach the engine returns
// the engine's own (unclamped) view of the counter.
//
// # Collections
//
// Collection[T, PT] is the typed value layer: it encodes entities behind a
// one-byte metadata prefix (currently always v1Metadata) so that a future
// encoding revision has somewhere to signal itself, and decodes fail-fast
// on Range, aborting the whole scan the moment one stored value does not
// decode cleanly rather than silently skipping it.
//
// # Future extensions
//
//   - A metadata byte beyond v1Metadata once a second encoding (e.g. a
//     schema-versioned protobuf) needs to coexist with existing data.
//   - A Collection.RangeStream variant returning an iterator instead of a
//     fully materialized slice, for subtrees too large to hold in memory.
package kvdb
