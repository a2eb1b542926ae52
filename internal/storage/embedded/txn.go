package embedded

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/erigontech/mdbx-go/mdbx"

	"github.com/dreamware/kvdb/internal/storage"
)

// txn is the staged-batch transaction handle for one Transact call. Set
// and Clear accumulate in writes/deletes and counterDeltas; Get and
// ForEachInRange consult them before falling back to the native mdbx
// transaction. flush applies the staged batch into the native transaction
// once the caller's closure has returned successfully.
type txn struct {
	native     *mdbx.Txn
	dataDBI    mdbx.DBI
	counterDBI mdbx.DBI

	writes        map[string][]byte
	deletes       map[string]bool
	counterDeltas map[string]int64
}

func newTxn(native *mdbx.Txn, dataDBI, counterDBI mdbx.DBI) *txn {
	return &txn{
		native:        native,
		dataDBI:       dataDBI,
		counterDBI:    counterDBI,
		writes:        make(map[string][]byte),
		deletes:       make(map[string]bool),
		counterDeltas: make(map[string]int64),
	}
}

var _ storage.Txn = (*txn)(nil)

func (t *txn) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	k := string(key)
	if t.deletes[k] {
		return nil, false, nil
	}
	if v, ok := t.writes[k]; ok {
		return cloneBytes(v), true, nil
	}

	v, err := t.native.Get(t.dataDBI, key)
	if err != nil {
		if errors.Is(err, mdbx.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("embedded: get: %w", err)
	}
	return cloneBytes(v), true, nil
}

func (t *txn) Set(key, value []byte) error {
	k := string(key)
	t.writes[k] = cloneBytes(value)
	delete(t.deletes, k)
	return nil
}

func (t *txn) Clear(key []byte) error {
	k := string(key)
	delete(t.writes, k)
	t.deletes[k] = true
	return nil
}

// ForEachInRange walks q by scanning a bounded native mdbx cursor range and
// overlaying the staged batch's writes and deletes on top, since the
// embedded engine's staged batch is small enough to merge in memory for
// every scan (unlike the distributed engine's paged, prefetching scan).
func (t *txn) ForEachInRange(ctx context.Context, q storage.RangeQuery, fn storage.RangeFunc) error {
	merged := make(map[string][]byte)

	cursor, err := t.native.OpenCursor(t.dataDBI)
	if err != nil {
		return fmt.Errorf("embedded: open cursor: %w", err)
	}
	defer cursor.Close()

	seekKey := q.Start.Key
	op := mdbx.SetRange
	if seekKey == nil {
		op = mdbx.First
	}
	for k, v, err := cursor.Get(seekKey, nil, op); ; k, v, err = cursor.Get(nil, nil, mdbx.Next) {
		if err != nil {
			if errors.Is(err, mdbx.ErrNotFound) {
				break
			}
			return fmt.Errorf("embedded: cursor scan: %w", err)
		}
		if !inRangeEnd(q, k) {
			break
		}
		if inRangeStart(q, k) {
			merged[string(k)] = cloneBytes(v)
		}
	}

	for k, v := range t.writes {
		if inRange(q, []byte(k)) {
			merged[k] = v
		}
	}
	for k := range t.deletes {
		delete(merged, k)
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
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

func inRangeStart(q storage.RangeQuery, key []byte) bool {
	switch q.Start.Kind {
	case storage.Included:
		return bytes.Compare(key, q.Start.Key) >= 0
	case storage.Excluded:
		return bytes.Compare(key, q.Start.Key) > 0
	default:
		return true
	}
}

func inRangeEnd(q storage.RangeQuery, key []byte) bool {
	switch q.End.Kind {
	case storage.Included:
		return bytes.Compare(key, q.End.Key) <= 0
	case storage.Excluded:
		return bytes.Compare(key, q.End.Key) < 0
	default:
		return true
	}
}

func inRange(q storage.RangeQuery, key []byte) bool {
	return inRangeStart(q, key) && inRangeEnd(q, key)
}

func (t *txn) CounterGet(ctx context.Context, key []byte) (uint64, bool, error) {
	k := string(key)
	base, existed, err := t.rawCounter(key)
	if err != nil {
		return 0, false, err
	}
	delta, staged := t.counterDeltas[k]
	if !staged {
		return base, existed, nil
	}
	if !existed && delta == 0 {
		return 0, false, nil
	}
	return uint64(int64(base) + delta), true, nil
}

func (t *txn) rawCounter(key []byte) (uint64, bool, error) {
	v, err := t.native.Get(t.counterDBI, key)
	if err != nil {
		if errors.Is(err, mdbx.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("embedded: counter get: %w", err)
	}
	if len(v) != 8 {
		return 0, false, fmt.Errorf("embedded: counter %q has invalid width %d", key, len(v))
	}
	return binary.BigEndian.Uint64(v), true, nil
}

func (t *txn) CounterIncrement(ctx context.Context, key []byte, delta uint64) error {
	t.counterDeltas[string(key)] += int64(delta)
	return nil
}

func (t *txn) CounterDecrement(ctx context.Context, key []byte, delta uint64) error {
	t.counterDeltas[string(key)] -= int64(delta)
	return nil
}

// flush applies the staged write batch and counter deltas into the native
// mdbx transaction. Called once, after the caller's closure has returned
// successfully; the native transaction then commits as part of env.Update.
func (t *txn) flush() error {
	for k, v := range t.writes {
		if err := t.native.Put(t.dataDBI, []byte(k), v, 0); err != nil {
			return fmt.Errorf("embedded: flush put %q: %w", k, err)
		}
	}
	for k := range t.deletes {
		if err := t.native.Del(t.dataDBI, []byte(k), nil); err != nil && !errors.Is(err, mdbx.ErrNotFound) {
			return fmt.Errorf("embedded: flush delete %q: %w", k, err)
		}
	}
	for k, delta := range t.counterDeltas {
		base, _, err := t.rawCounter([]byte(k))
		if err != nil {
			return err
		}
		next := uint64(int64(base) + delta)
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, next)
		if err := t.native.Put(t.counterDBI, []byte(k), buf, 0); err != nil {
			return fmt.Errorf("embedded: flush counter %q: %w", k, err)
		}
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
