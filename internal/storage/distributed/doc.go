// Package distributed implements the cluster storage engine backed by
// FoundationDB (github.com/apple/foundationdb/bindings/go), satisfying
// internal/storage.Txn.
//
// # Overview
//
// Engine wraps a FoundationDB database handle behind the same Transact
// closure pattern the embedded engine uses: callers pass a function that
// receives a storage.Txn and returns a result, and Engine handles opening
// the native transaction, running the closure (possibly more than once),
// and committing or retrying as FoundationDB's own conflict detection
// dictates.
//
//	┌───────────────────────────────────────────┐
//	│                 Engine                     │
//	│  Transact(ctx, fn) -> newBackend(), then    │
//	│  retry loop around fn(txn) + Commit()      │
//	└───────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌───────────────────────────────────────────┐
//	│                  txn                       │
//	│  staged writes/deletes/counterDeltas       │
//	│  flushed into backend on successful return │
//	└───────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌───────────────────────────────────────────┐
//	│         backend (fdbBackend / fake)        │
//	│  Get / Set / Clear / Add / GetRange /      │
//	│  Commit / OnError                          │
//	└───────────────────────────────────────────┘
//
// The backend interface exists so engine_test.go can exercise Engine's
// retry loop and txn's range-scan merge logic against an in-memory
// fakeBackend, without a live FoundationDB cluster.
//
// # Strict serializability and retries
//
// Every FoundationDB transaction is strictly serializable: a commit can
// fail because another transaction raced it, in which case the cluster
// reports a retryable error and the transaction's own OnError call decides
// whether retrying makes sense. Unlike the embedded engine, Transact here
// hand-rolls a bounded retry loop (DefaultRetryLimit attempts) around the
// closure instead of trusting the cluster's own unlimited-retry helper,
// so a systemic failure surfaces to the caller instead of looping forever.
//
// Closures run inside this loop must be idempotent: a commit conflict
// re-runs the closure from scratch against a fresh transaction attempt, and
// any side effect the closure had beyond writes issued through its Txn
// (for instance, an in-memory counter incremented outside of CounterGet)
// would be applied once per attempt rather than once per logical commit.
//
// # Counters are not read-your-writes at the engine level
//
// FoundationDB's atomic add mutation is applied at commit time; a Get
// issued after an Add in the same transaction does not observe the
// pending delta. This engine tracks every CounterIncrement/Decrement
// delta issued through a given Txn locally and adds it on top of the
// value read from the cluster, giving the read-your-writes view the
// unified API promises without relying on atomic ops for it. The delta is
// still flushed as a native atomic add at commit time rather than as a
// plain Set of the observed total, so two transactions incrementing the
// same counter concurrently do not conflict with each other.
//
// # Range scans
//
// ForEachInRange pages through the cluster in chunks, overlapping the
// fetch of chunk N+1 with the caller's processing of chunk N on a
// background goroutine. Returning false from the callback stops
// iteration; a prefetch already in flight is not cancelled: the scan waits
// for it to finish and discards its result. A prefetch error is only
// surfaced if the chunk being processed when it arrives still wants to
// continue, since an ending iteration has no use for it.
//
// A RangeQuery's Bound.Kind is translated into the inclusive-begin,
// exclusive-end shape GetRange expects before the first fetch: an Excluded
// start is pushed one byte past the boundary key (successor), and an
// Included end is likewise pushed one byte past, so that the boundary key
// is correctly excluded or included regardless of whether it happens to
// exist in the store. Pagination continuation (nextBounds) uses the same
// successor helper to resume strictly after the last key returned.
//
// Writes and deletes staged in the current transaction are merged into
// each page via a sorted merge-join (mergeChunk) against the native rows,
// with the staged overlay taking precedence at equal keys since it
// reflects a write issued later in the same transaction than anything
// already committed to the cluster.
//
// # Future extensions
//
//   - A configurable prefetch depth beyond one chunk ahead, for workloads
//     whose callback processing is slow relative to network round-trips.
//   - Snapshot reads (FoundationDB's read-only, non-conflicting transaction
//     mode) for scans that do not need strict serializability.
package distributed
