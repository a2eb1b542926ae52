package storage

import (
	"bytes"
	"context"
	"sort"
	"sync"
)

// FakeEngine is an in-memory storage engine satisfying the same Txn
// contract as the embedded and distributed engines, used to unit test
// internal/kvdb without a real libmdbx environment or FoundationDB
// cluster. It never retries a closure, matching the embedded engine's
// semantics.
//
// FakeEngine is safe for concurrent use; each Transact call serializes
// behind a single mutex, which is adequate for tests but not a
// performance model for either real engine.
type FakeEngine struct {
	mu       sync.Mutex
	values   map[string][]byte
	counters map[string]uint64
}

// NewFakeEngine returns an empty FakeEngine.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		values:   make(map[string][]byte),
		counters: make(map[string]uint64),
	}
}

// Transact runs fn once against a fresh view of the store, applying its
// staged writes atomically if fn returns a nil error.
func (e *FakeEngine) Transact(ctx context.Context, fn func(Txn) (any, error)) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx := &fakeTxn{
		engine:        e,
		writes:        make(map[string][]byte),
		deletes:       make(map[string]bool),
		counterDeltas: make(map[string]int64),
	}

	result, err := fn(tx)
	if err != nil {
		return nil, err
	}
	tx.apply()
	return result, nil
}

type fakeTxn struct {
	engine        *FakeEngine
	writes        map[string][]byte
	deletes       map[string]bool
	counterDeltas map[string]int64
}

func (t *fakeTxn) apply() {
	e := t.engine
	for k, v := range t.writes {
		e.values[k] = v
	}
	for k := range t.deletes {
		delete(e.values, k)
	}
	for k, delta := range t.counterDeltas {
		cur := e.counters[k]
		e.counters[k] = uint64(int64(cur) + delta)
	}
}

func (t *fakeTxn) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	k := string(key)
	if t.deletes[k] {
		return nil, false, nil
	}
	if v, ok := t.writes[k]; ok {
		return append([]byte(nil), v...), true, nil
	}
	v, ok := t.engine.values[k]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (t *fakeTxn) Set(key, value []byte) error {
	k := string(key)
	t.writes[k] = append([]byte(nil), value...)
	delete(t.deletes, k)
	return nil
}

func (t *fakeTxn) Clear(key []byte) error {
	k := string(key)
	delete(t.writes, k)
	t.deletes[k] = true
	return nil
}

func (t *fakeTxn) ForEachInRange(ctx context.Context, q RangeQuery, fn RangeFunc) error {
	merged := make(map[string][]byte, len(t.engine.values))
	for k, v := range t.engine.values {
		merged[k] = v
	}
	for k, v := range t.writes {
		merged[k] = v
	}
	for k := range t.deletes {
		delete(merged, k)
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		if inRange(q, []byte(k)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if q.Reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	count := 0
	for _, k := range keys {
		if q.Limit != nil && count >= *q.Limit {
			break
		}
		cont, err := fn([]byte(k), merged[k])
		if err != nil {
			return err
		}
		count++
		if !cont {
			break
		}
	}
	return nil
}

func inRange(q RangeQuery, key []byte) bool {
	switch q.Start.Kind {
	case Included:
		if bytes.Compare(key, q.Start.Key) < 0 {
			return false
		}
	case Excluded:
		if bytes.Compare(key, q.Start.Key) <= 0 {
			return false
		}
	}
	switch q.End.Kind {
	case Included:
		if bytes.Compare(key, q.End.Key) > 0 {
			return false
		}
	case Excluded:
		if bytes.Compare(key, q.End.Key) >= 0 {
			return false
		}
	}
	return true
}

func (t *fakeTxn) CounterGet(ctx context.Context, key []byte) (uint64, bool, error) {
	k := string(key)
	if delta, staged := t.counterDeltas[k]; staged {
		base, existed := t.engine.counters[k]
		if !existed && delta == 0 {
			return 0, false, nil
		}
		return uint64(int64(base) + delta), true, nil
	}
	v, ok := t.engine.counters[k]
	return v, ok, nil
}

func (t *fakeTxn) CounterIncrement(ctx context.Context, key []byte, delta uint64) error {
	t.counterDeltas[string(key)] += int64(delta)
	return nil
}

func (t *fakeTxn) CounterDecrement(ctx context.Context, key []byte, delta uint64) error {
	t.counterDeltas[string(key)] -= int64(delta)
	return nil
}
