package embedded

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/erigontech/mdbx-go/mdbx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dreamware/kvdb/internal/dberr"
	"github.com/dreamware/kvdb/internal/storage"
)

const (
	dataTable    = "kvdb-data"
	counterTable = "kvdb-counters"
)

// Engine is the single-node storage engine, backed by a libmdbx
// environment rooted at one data directory.
type Engine struct {
	env        *mdbx.Env
	dataDBI    mdbx.DBI
	counterDBI mdbx.DBI
	log        zerolog.Logger
	metrics    *metrics
}

// Options configures Open.
type Options struct {
	// DataDir is the directory holding the mdbx data and lock files. It
	// is created if it does not already exist.
	DataDir string
	// Logger receives structured diagnostics. Defaults to a no-op
	// logger, matching every other component in this module.
	Logger zerolog.Logger
	// Registerer receives the engine's Prometheus collectors. Defaults
	// to prometheus.DefaultRegisterer; pass a fresh prometheus.NewRegistry()
	// in tests to avoid duplicate registration panics.
	Registerer prometheus.Registerer
}

// Open creates, if necessary, and opens an mdbx environment at opts.DataDir.
func Open(opts Options) (*Engine, error) {
	if opts.DataDir == "" {
		return nil, fmt.Errorf("embedded: DataDir must not be empty")
	}
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("embedded: create data dir: %w", err)
	}
	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	env, err := mdbx.NewEnv()
	if err != nil {
		return nil, fmt.Errorf("embedded: new env: %w", err)
	}
	if err := env.SetMaxDBs(2); err != nil {
		env.Close()
		return nil, fmt.Errorf("embedded: set max dbs: %w", err)
	}
	if err := env.Open(opts.DataDir, 0, 0o644); err != nil {
		env.Close()
		return nil, fmt.Errorf("embedded: open %s: %w", opts.DataDir, err)
	}

	e := &Engine{
		env:     env,
		log:     opts.Logger,
		metrics: newMetrics(registerer),
	}

	if err := env.Update(func(txn *mdbx.Txn) error {
		var err error
		e.dataDBI, err = txn.OpenDBISimple(dataTable, mdbx.Create)
		if err != nil {
			return err
		}
		e.counterDBI, err = txn.OpenDBISimple(counterTable, mdbx.Create)
		return err
	}); err != nil {
		env.Close()
		return nil, fmt.Errorf("embedded: open tables: %w", err)
	}

	return e, nil
}

// Close releases the mdbx environment. Further calls to Transact after
// Close panic, matching mdbx's own behavior on a closed environment.
func (e *Engine) Close() error {
	e.env.Close()
	return nil
}

// Transact runs fn once against a fresh libmdbx write transaction,
// flushing its staged batch and committing if fn returns a nil error.
// It never retries: an mdbx failure is not transient.
func (e *Engine) Transact(ctx context.Context, fn func(storage.Txn) (any, error)) (any, error) {
	start := time.Now()
	var result any

	err := e.env.Update(func(native *mdbx.Txn) error {
		tx := newTxn(native, e.dataDBI, e.counterDBI)
		r, ferr := fn(tx)
		if ferr != nil {
			return ferr
		}
		if flushErr := tx.flush(); flushErr != nil {
			e.metrics.flushErrorsTotal.Inc()
			return dberr.Storage(flushErr)
		}
		result = r
		return nil
	})

	e.metrics.transactionSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := "abort"
		if dberr.IsStorage(err) {
			outcome = "storage_error"
		}
		e.metrics.transactionsTotal.WithLabelValues(outcome).Inc()
		if !dberr.IsAbort(err) && !dberr.IsStorage(err) {
			return nil, dberr.Storage(fmt.Errorf("embedded: mdbx transaction: %w", err))
		}
		return nil, err
	}

	e.metrics.transactionsTotal.WithLabelValues("committed").Inc()
	return result, nil
}
