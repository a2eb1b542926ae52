// Package dberr is the two-tier error taxonomy shared by every transactional
// API in this module.
//
// Every operation that can fail inside a transaction closure returns one of:
//
//   - Abort(E): the caller's own logic rejected the operation. Non-retryable;
//     the transaction runner propagates it to the caller verbatim.
//   - Storage(error): the storage engine reported a failure. Opaque but
//     downcastable via errors.As to the engine-native error for diagnostics;
//     the distributed runner may retry it up to its budget.
//
// A third case, InvariantViolation, signals a condition this module
// guarantees cannot happen by construction. It panics rather than returning
// an error, since no caller could meaningfully recover from a violated
// internal invariant. No code in this module currently calls it;
// kvdb.Transact's own result type-assertion check panics directly.
//
// # Overview
//
//	result, err := engine.Transact(ctx, func(tx storage.Txn) (any, error) {
//	    v, found, err := tx.Get(ctx, key)
//	    if err != nil {
//	        return nil, err // Storage or Abort, propagated as-is
//	    }
//	    if !found {
//	        return nil, dberr.Abort(ErrNotFound) // caller-logic rejection
//	    }
//	    return v, nil
//	})
//
// IsAbort and IsStorage let a caller (or the distributed engine's own retry
// loop) distinguish the two cases without depending on the concrete wrapped
// error type; the wrapped engine-native error is still reachable via plain
// errors.As against the caller's own error type.
package dberr
