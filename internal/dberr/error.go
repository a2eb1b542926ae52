package dberr

import (
	"errors"
	"fmt"
)

// abortMarker is implemented by every error constructed with Abort, letting
// IsAbort classify an error without knowing its concrete type parameter.
type abortMarker interface {
	abortMarker()
}

// storageMarker is implemented by every error constructed with Storage (or
// WrapStorage), letting IsStorage classify an error the same way.
type storageMarker interface {
	storageMarker()
}

// AbortError wraps a caller-chosen logical failure. The transaction runner
// never retries an AbortError; it is returned to the caller verbatim.
type AbortError[E error] struct {
	Err E
}

// Abort wraps err as a non-retryable transaction abort.
func Abort[E error](err E) error {
	return &AbortError[E]{Err: err}
}

func (e *AbortError[E]) Error() string { return e.Err.Error() }
func (e *AbortError[E]) Unwrap() error { return e.Err }
func (e *AbortError[E]) abortMarker()  {}

// IsAbort reports whether err (or anything it wraps) was constructed with
// Abort.
func IsAbort(err error) bool {
	var m abortMarker
	return errors.As(err, &m)
}

// StorageError wraps an engine-reported failure. It is opaque but
// downcastable: callers can use errors.As to recover the engine-native
// error for diagnostics, and the distributed runner retries it up to its
// budget before surfacing it.
type StorageError struct {
	Err error
}

// Storage wraps err as a (potentially retryable) storage failure.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Err: err}
}

// WrapStorage is an alias for Storage kept for readability at call sites
// that are already inside engine code (e.g. "return nil, dberr.WrapStorage(err)").
func WrapStorage(err error) error { return Storage(err) }

func (e *StorageError) Error() string  { return fmt.Sprintf("storage: %s", e.Err) }
func (e *StorageError) Unwrap() error  { return e.Err }
func (e *StorageError) storageMarker() {}

// IsStorage reports whether err (or anything it wraps) was constructed with
// Storage.
func IsStorage(err error) bool {
	var m storageMarker
	return errors.As(err, &m)
}

// DecodeError reports that value bytes failed to decode into the entity
// type the caller requested. It is always surfaced wrapped in Abort, since a
// malformed value is a logical failure the runner must not retry.
type DecodeError struct {
	Key    string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode %s: %s", e.Key, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// InvariantViolation signals a condition the module guarantees cannot
// happen by construction (e.g. a closure returning a UnifiedTx variant that
// does not match the engine that created it). It is a hard process failure,
// not a recoverable DbResult, so it panics rather than returning an error.
func InvariantViolation(format string, args ...any) {
	panic("dberr: invariant violation: " + fmt.Sprintf(format, args...))
}
