// Package storage defines the transaction contract shared by every storage
// engine this module can run against, plus the supporting types (range
// queries, bounds) that contract is expressed in terms of.
//
// # Overview
//
// internal/kvdb, the resource-name-keyed façade the rest of this module is
// built on, is written entirely against the Txn interface defined here. It
// imports internal/storage/embedded and internal/storage/distributed only
// for construction (kvdb.Embedded, kvdb.Distributed); once a UnifiedDB is
// open, every Get/Set/Clear/ForEachInRange/Counter call flows through Txn,
// and kvdb has no code path that behaves differently depending on which
// concrete engine is underneath.
//
// # Architecture
//
//	┌──────────────────────────────────────────┐
//	│             internal/kvdb                 │
//	│   UnifiedDB / UnifiedTx / Counter /       │
//	│   Collection / RangeQueryBuilder          │
//	└──────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌──────────────────────────────────────────┐
//	│           internal/storage.Txn            │
//	│   Get / Set / Clear / ForEachInRange /    │
//	│   CounterGet / CounterIncrement / ...     │
//	└──────────────────────────────────────────┘
//	                     │
//	        ┌────────────┴────────────┐
//	        ▼                         ▼
//	┌───────────────┐         ┌────────────────────┐
//	│   embedded     │         │    distributed     │
//	│  (libmdbx,     │         │  (FoundationDB,    │
//	│  single node)  │         │  strictly serial.) │
//	└───────────────┘         └────────────────────┘
//
// # Contract
//
// Both engines expose the same Txn interface inside a transaction closure:
// get/set/clear on single keys, a bounded range scan with an early-stop
// callback, and a counter primitive with atomic increment/decrement. The
// concrete engines satisfy it in very different ways. The embedded engine
// overlays an in-memory staged write batch on top of B+tree reads for
// read-your-writes, while the distributed engine streams paged range
// results with one-chunk-ahead prefetch. internal/kvdb never needs to know
// which engine it is talking to.
//
// # Range queries and bounds
//
// RangeQuery expresses a scan as a [Start, End) pair of Bound values, each
// tagged Unbounded, Included, or Excluded. internal/kvdb's RangeQueryBuilder
// is the only place callers construct these directly. Every ForEachInRange
// implementation must honor Kind precisely: a Bound's Kind is not merely a
// hint about where to start scanning, it determines whether the boundary
// key itself belongs to the result set. Translating this incorrectly at an
// engine boundary, for instance passing an Excluded start straight through
// to an underlying range primitive that only understands inclusive
// begin/exclusive end, silently turns an exact-key exclusion into an
// inclusion.
//
// # Retries
//
// A transaction closure may run more than once. The embedded engine never
// retries (its failures are never transient), but the distributed engine
// retries a closure up to its retry budget when the engine reports a
// retryable storage failure. Closures must therefore be free of
// non-idempotent side effects beyond the keys they write through the Txn
// they were handed.
//
// # Errors
//
// Txn methods return plain errors. Each engine's Transact classifies what a
// closure returns with internal/dberr: an Abort is a caller-logic rejection
// the runner never retries, and any other error is reported as Storage,
// which the distributed runner may retry.
//
// # Counters
//
// CounterGet, CounterIncrement, and CounterDecrement operate on a uint64
// counter per key. The engines store it differently: the embedded engine
// keeps 8-byte big-endian values in a table separate from ordinary values,
// and the distributed engine keeps 8-byte little-endian values (the
// encoding FoundationDB's atomic add uses) at an ordinary key. Both engines
// provide read-your-writes for counters within a single transaction the
// same way: they track per-transaction deltas locally and add them onto the
// committed value on read. The distributed engine needs this because
// FoundationDB's native atomic add mutation is only visible to readers
// after commit.
//
// # Testing
//
// This package also defines FakeEngine (memoryengine.go), an in-memory
// implementation of the same contract used throughout internal/kvdb's test
// suite in place of either real engine. It has no persistence and no
// retries; it exists purely so kvdb-level tests can exercise transaction
// semantics without standing up libmdbx or FoundationDB.
package storage
