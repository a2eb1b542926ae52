package distributed

import (
	"context"
	"errors"
	"time"

	"github.com/apple/foundationdb/bindings/go/src/fdb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dreamware/kvdb/internal/dberr"
	"github.com/dreamware/kvdb/internal/storage"
)

// DefaultRetryLimit is the number of commit attempts Transact makes before
// giving up and surfacing the last storage error.
const DefaultRetryLimit = 5

// Engine is the cluster storage engine. A process may open at most one
// Engine, matching FoundationDB's own once-per-process network init.
type Engine struct {
	db      fdb.Database
	log     zerolog.Logger
	metrics *metrics

	newBackend func() (backend, error)
}

// Options configures Open.
type Options struct {
	// ClusterFile points at the fdb.cluster file describing how to reach
	// the cluster. Empty uses FoundationDB's default discovery.
	ClusterFile string
	Logger      zerolog.Logger
	Registerer  prometheus.Registerer
}

// Open boots the FoundationDB client network and connects to the cluster
// described by opts.ClusterFile. It must be called at most once per
// process; the returned Engine should live for the process lifetime.
func Open(opts Options) (*Engine, error) {
	fdb.MustAPIVersion(720)

	var db fdb.Database
	var err error
	if opts.ClusterFile != "" {
		db, err = fdb.OpenDatabase(opts.ClusterFile)
	} else {
		db, err = fdb.OpenDefault()
	}
	if err != nil {
		return nil, dberr.Storage(err)
	}

	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	e := &Engine{db: db, log: opts.Logger, metrics: newMetrics(registerer)}
	e.newBackend = func() (backend, error) {
		tr, err := db.CreateTransaction()
		if err != nil {
			return nil, err
		}
		return &fdbBackend{tr: tr}, nil
	}
	return e, nil
}

// Transact runs fn against the cluster, making at most DefaultRetryLimit
// attempts when the cluster reports a retryable commit or storage failure.
// An Abort error from fn is never retried.
func (e *Engine) Transact(ctx context.Context, fn func(storage.Txn) (any, error)) (any, error) {
	start := time.Now()
	defer func() { e.metrics.transactionSeconds.Observe(time.Since(start).Seconds()) }()

	b, err := e.newBackend()
	if err != nil {
		e.metrics.transactionsTotal.WithLabelValues("connect_error").Inc()
		return nil, dberr.Storage(err)
	}

	attemptsLeft := DefaultRetryLimit

	for {
		tx := newTxn(ctx, b)
		result, ferr := fn(tx)

		if ferr == nil {
			if flushErr := tx.flush(); flushErr != nil {
				ferr = dberr.Storage(flushErr)
			}
		}

		if ferr == nil {
			if commitErr := b.Commit(); commitErr != nil {
				attemptsLeft--
				if attemptsLeft <= 0 {
					e.metrics.transactionsTotal.WithLabelValues("retry_exhausted").Inc()
					return nil, dberr.Storage(commitErr)
				}
				if onErr := b.OnError(commitErr); onErr != nil {
					e.metrics.transactionsTotal.WithLabelValues("unrecoverable").Inc()
					return nil, dberr.Storage(onErr)
				}
				e.metrics.retriesTotal.Inc()
				continue
			}
			e.metrics.transactionsTotal.WithLabelValues("committed").Inc()
			return result, nil
		}

		if dberr.IsAbort(ferr) {
			e.metrics.transactionsTotal.WithLabelValues("abort").Inc()
			return nil, ferr
		}

		// Storage error (or an unclassified error from fn, treated the
		// same way): consult the cluster about whether it is worth
		// retrying.
		attemptsLeft--
		if attemptsLeft <= 0 {
			e.metrics.transactionsTotal.WithLabelValues("retry_exhausted").Inc()
			return nil, dberr.Storage(ferr)
		}
		if onErr := b.OnError(unwrapStorageCause(ferr)); onErr != nil {
			e.metrics.transactionsTotal.WithLabelValues("unrecoverable").Inc()
			return nil, dberr.Storage(onErr)
		}
		e.metrics.retriesTotal.Inc()
	}
}

func unwrapStorageCause(err error) error {
	var se *dberr.StorageError
	if errors.As(err, &se) {
		return se.Err
	}
	return err
}
