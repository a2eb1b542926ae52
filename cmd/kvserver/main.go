// Package main implements kvserver, an HTTP gateway over the unified
// key-value database: resource-name-keyed get/set/clear, bounded range
// scans, and counter increments, backed by either the embedded (libmdbx)
// or distributed (FoundationDB) storage engine.
//
// Configuration (environment variables):
//   - KVSERVER_ADDR: listen address (default ":8090")
//   - KVSERVER_ENGINE: "embedded" or "distributed" (default "embedded")
//   - KVSERVER_DATA_DIR: data directory for the embedded engine (required
//     when KVSERVER_ENGINE=embedded)
//   - KVSERVER_FDB_CLUSTER_FILE: cluster file for the distributed engine
//     (optional; empty uses FoundationDB's default discovery)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dreamware/kvdb/internal/kvdb"
	"github.com/dreamware/kvdb/internal/resourcename"
	"github.com/dreamware/kvdb/internal/storage/distributed"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	addr := getenv("KVSERVER_ADDR", ":8090")
	engineKind := getenv("KVSERVER_ENGINE", "embedded")

	db, err := openDB(engineKind, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("engine", engineKind).Msg("failed to open storage engine")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &server{db: db, log: logger}
	mux.HandleFunc("/v1/entry", srv.handleEntry)
	mux.HandleFunc("/v1/range", srv.handleRange)
	mux.HandleFunc("/v1/counter", srv.handleCounter)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Str("engine", engineKind).Msg("kvserver listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("kvserver stopped")
}

func openDB(kind string, logger zerolog.Logger) (*kvdb.UnifiedDB, error) {
	switch kind {
	case "embedded":
		dataDir := mustGetenv("KVSERVER_DATA_DIR")
		return kvdb.Embedded(dataDir, logger, prometheus.DefaultRegisterer)
	case "distributed":
		return kvdb.Distributed(distributed.Options{
			ClusterFile: os.Getenv("KVSERVER_FDB_CLUSTER_FILE"),
			Logger:      logger,
			Registerer:  prometheus.DefaultRegisterer,
		})
	default:
		logger.Fatal().Str("engine", kind).Msg(`KVSERVER_ENGINE must be "embedded" or "distributed"`)
		return nil, nil
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		os.Stderr.WriteString("kvserver: missing required environment variable " + k + "\n")
		os.Exit(1)
	}
	return v
}

// server holds the shared state for kvserver's HTTP handlers.
type server struct {
	db  *kvdb.UnifiedDB
	log zerolog.Logger
}

func parseName(w http.ResponseWriter, r *http.Request) (resourcename.ResourceName, bool) {
	raw := r.URL.Query().Get("name")
	if raw == "" {
		http.Error(w, "missing name query parameter", http.StatusBadRequest)
		return resourcename.ResourceName{}, false
	}
	return safeResourceName(w, raw)
}

// safeResourceName builds a ResourceName from raw, translating the
// package's panic-on-malformed-input contract into an HTTP 400 instead of
// crashing the request goroutine.
func safeResourceName(w http.ResponseWriter, raw string) (resourcename.ResourceName, bool) {
	var name resourcename.ResourceName
	var panicked bool
	func() {
		defer func() {
			if recover() != nil {
				panicked = true
			}
		}()
		name = resourcename.New(raw)
	}()
	if panicked {
		http.Error(w, "invalid resource name", http.StatusBadRequest)
		return resourcename.ResourceName{}, false
	}
	return name, true
}

func readAll(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%q is not a positive integer", s)
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return 0, fmt.Errorf("%q must be greater than zero", s)
	}
	return n, nil
}

// handleEntry serves GET (read), PUT (write), and DELETE (clear) on a
// single resource name given by the "name" query parameter.
func (s *server) handleEntry(w http.ResponseWriter, r *http.Request) {
	name, ok := parseName(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		var found bool
		value, err := kvdb.Transact(ctx, s.db, func(tx *kvdb.UnifiedTx) ([]byte, error) {
			v, ok, err := tx.Get(ctx, name)
			found = ok
			return v, err
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		if !found {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(value)

	case http.MethodPut:
		body, err := readAll(r)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		_, err = kvdb.Transact(ctx, s.db, func(tx *kvdb.UnifiedTx) (any, error) {
			return nil, tx.Set(name, body)
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		_, err := kvdb.Transact(ctx, s.db, func(tx *kvdb.UnifiedTx) (any, error) {
			return nil, tx.Clear(name)
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type rangeEntry struct {
	Key   string `json:"key"`
	Value []byte `json:"value"`
}

// handleRange serves GET /v1/range?beginning_with=...&reverse=&limit=,
// scanning the subtree rooted at the given resource name.
func (s *server) handleRange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	prefix := r.URL.Query().Get("beginning_with")
	if prefix == "" {
		http.Error(w, "missing beginning_with query parameter", http.StatusBadRequest)
		return
	}
	name, ok := safeResourceName(w, prefix)
	if !ok {
		return
	}

	b := kvdb.NewRangeQuery().BeginningWith(name)
	if r.URL.Query().Get("reverse") == "true" {
		b.Reverse()
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := parsePositiveInt(limitStr)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		b.Limit(n)
	}
	q, err := b.Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	entries, err := kvdb.Transact(ctx, s.db, func(tx *kvdb.UnifiedTx) ([]rangeEntry, error) {
		var out []rangeEntry
		scanErr := tx.ForEachInRange(ctx, q, func(k, v []byte) (bool, error) {
			out = append(out, rangeEntry{Key: string(k), Value: append([]byte(nil), v...)})
			return true, nil
		})
		return out, scanErr
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

// handleCounter serves GET (read) and POST (increment/decrement) against a
// counter keyed by the "name" query parameter. POST bodies carry
// {"delta": n}; a positive delta increments, a negative delta decrements.
func (s *server) handleCounter(w http.ResponseWriter, r *http.Request) {
	name, ok := parseName(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		v, err := kvdb.Transact(ctx, s.db, func(tx *kvdb.UnifiedTx) (uint64, error) {
			return tx.Counter(name).Get(ctx)
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]uint64{"value": v})

	case http.MethodPost:
		var req struct {
			Delta int64 `json:"delta"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		v, err := kvdb.Transact(ctx, s.db, func(tx *kvdb.UnifiedTx) (uint64, error) {
			c := tx.Counter(name)
			if req.Delta >= 0 {
				if err := c.Increment(ctx, uint64(req.Delta)); err != nil {
					return 0, err
				}
			} else {
				if err := c.Decrement(ctx, uint64(-req.Delta)); err != nil {
					return 0, err
				}
			}
			return c.Get(ctx)
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]uint64{"value": v})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("request failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
