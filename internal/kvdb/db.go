package kvdb

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dreamware/kvdb/internal/storage"
	"github.com/dreamware/kvdb/internal/storage/distributed"
	"github.com/dreamware/kvdb/internal/storage/embedded"
)

// engine is the minimal surface both concrete engines already implement;
// UnifiedDB needs nothing beyond it.
type engine interface {
	Transact(ctx context.Context, fn func(storage.Txn) (any, error)) (any, error)
}

// UnifiedDB is a handle to either the embedded or the distributed storage
// engine, chosen once at construction.
type UnifiedDB struct {
	eng engine
}

// Embedded opens or creates an embedded (libmdbx) store rooted at path.
func Embedded(path string, logger zerolog.Logger, registerer prometheus.Registerer) (*UnifiedDB, error) {
	eng, err := embedded.Open(embedded.Options{DataDir: path, Logger: logger, Registerer: registerer})
	if err != nil {
		return nil, fmt.Errorf("kvdb: open embedded store: %w", err)
	}
	return &UnifiedDB{eng: eng}, nil
}

// Temporary opens an ephemeral embedded store in dir, for tests. dir must
// already exist (e.g. t.TempDir()).
func Temporary(dir string) (*UnifiedDB, error) {
	return Embedded(dir, zerolog.Nop(), prometheus.NewRegistry())
}

// distributedSingleton guards against opening more than one distributed
// engine per process, matching FoundationDB's own once-per-process network
// initialization.
var distributedSingleton bool

// Distributed connects to the FoundationDB cluster described by opts. It is
// a process-wide singleton: calling it more than once returns an error.
func Distributed(opts distributed.Options) (*UnifiedDB, error) {
	if distributedSingleton {
		return nil, fmt.Errorf("kvdb: a distributed engine is already open in this process")
	}
	eng, err := distributed.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("kvdb: open distributed store: %w", err)
	}
	distributedSingleton = true
	return &UnifiedDB{eng: eng}, nil
}

// Transact runs fn against a fresh transaction, dispatching to the
// underlying engine's own retry and commit semantics. The boxed result from
// fn is type-asserted back to T; a mismatched T is a programmer error and
// panics.
func Transact[T any](ctx context.Context, db *UnifiedDB, fn func(*UnifiedTx) (T, error)) (T, error) {
	raw, err := db.eng.Transact(ctx, func(t storage.Txn) (any, error) {
		v, ferr := fn(&UnifiedTx{txn: t})
		return v, ferr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if raw == nil {
		var zero T
		return zero, nil
	}
	v, ok := raw.(T)
	if !ok {
		panic(fmt.Sprintf("kvdb: Transact: closure result %T does not match requested type", raw))
	}
	return v, nil
}
