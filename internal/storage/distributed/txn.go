package distributed

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/dreamware/kvdb/internal/storage"
)

const rangeChunkSize = 1000

// txn is the staged-batch transaction handle for one Transact attempt.
// See doc.go for why counter deltas are tracked here instead of
// relying on the cluster's atomic add to be read-your-writes.
type txn struct {
	ctx context.Context
	b   backend

	writes        map[string][]byte
	deletes       map[string]bool
	counterDeltas map[string]int64
}

func newTxn(ctx context.Context, b backend) *txn {
	return &txn{
		ctx:           ctx,
		b:             b,
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

	v, err := t.b.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("distributed: get: %w", err)
	}
	if v == nil {
		return nil, false, nil
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

// chunkResult is what a background prefetch delivers back to the scan
// loop: either a page of rows, or the error the fetch failed with.
type chunkResult struct {
	rows []keyValue
	err  error
}

// ForEachInRange pages through the cluster range described by q,
// overlapping the fetch of the next page with the caller's processing of
// the current one. See doc.go for the overlap and error-surfacing rules.
func (t *txn) ForEachInRange(ctx context.Context, q storage.RangeQuery, fn storage.RangeFunc) error {
	overlay := t.sortedOverlayKeys(q)
	overlayIdx := 0

	begin, end := q.Start.Key, q.End.Key
	if begin == nil {
		begin = []byte{}
	}
	if end == nil {
		end = []byte{0xFF, 0xFF, 0xFF, 0xFF}
	}
	// GetRange always resolves its [lo, hi) pair as inclusive-begin,
	// exclusive-end; translate Excluded/Included bounds into that shape
	// the same way nextBounds does for pagination.
	if q.Start.Kind == storage.Excluded {
		begin = successor(begin)
	}
	if q.End.Kind == storage.Included {
		end = successor(end)
	}
	cursorBegin, cursorEnd := begin, end

	fetch := func(lo, hi []byte) chunkResult {
		rows, err := t.b.GetRange(lo, hi, rangeChunkSize, q.Reverse)
		return chunkResult{rows: rows, err: err}
	}

	curr := fetch(cursorBegin, cursorEnd)
	count := 0

	for curr.err == nil && (len(curr.rows) > 0 || overlayIdx < len(overlay)) {
		hasMore := len(curr.rows) == rangeChunkSize
		var nextCh chan chunkResult
		if hasMore {
			nextCh = make(chan chunkResult, 1)
			lo, hi := nextBounds(curr.rows, cursorBegin, cursorEnd, q.Reverse)
			go func() { nextCh <- fetch(lo, hi) }()
		}

		rows := curr.rows
		if len(t.deletes) > 0 {
			rows = filterDeleted(rows, t.deletes)
		}
		merged, newOverlayIdx := mergeChunk(rows, overlay, overlayIdx, q.Reverse, !hasMore)
		overlayIdx = newOverlayIdx

		wantMore := true
		var cbErr error
		for _, kv := range merged {
			if q.Limit != nil && count >= *q.Limit {
				wantMore = false
				break
			}
			var cont bool
			cont, cbErr = fn(kv.Key, kv.Value)
			count++
			if cbErr != nil || !cont {
				wantMore = false
				break
			}
		}

		if !hasMore {
			return cbErr
		}

		next := <-nextCh
		if cbErr != nil {
			return cbErr
		}
		if !wantMore {
			// Iteration is ending; a prefetch error at this point is of
			// no further use to the caller.
			return nil
		}
		if next.err != nil {
			return next.err
		}
		curr = next
	}

	return curr.err
}

// nextBounds computes the [lo, hi) selector for the chunk following rows,
// continuing from the last key returned (exclusive) toward the original
// range's far boundary.
func nextBounds(rows []keyValue, begin, end []byte, reverse bool) ([]byte, []byte) {
	if len(rows) == 0 {
		return begin, end
	}
	last := rows[len(rows)-1].Key
	if reverse {
		return begin, last
	}
	return successor(last), end
}

func successor(key []byte) []byte {
	out := make([]byte, len(key)+1)
	copy(out, key)
	return out
}

// sortedOverlayKeys returns this txn's staged (non-deleted) keys that
// fall inside q, sorted to match q's scan direction.
func (t *txn) sortedOverlayKeys(q storage.RangeQuery) []keyValue {
	var out []keyValue
	for k, v := range t.writes {
		if inRange(q, []byte(k)) {
			out = append(out, keyValue{Key: []byte(k), Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Reverse {
			return bytes.Compare(out[i].Key, out[j].Key) > 0
		}
		return bytes.Compare(out[i].Key, out[j].Key) < 0
	})
	return out
}

// filterDeleted drops any row whose key this txn has staged for deletion.
func filterDeleted(rows []keyValue, deletes map[string]bool) []keyValue {
	out := rows[:0:0]
	for _, r := range rows {
		if !deletes[string(r.Key)] {
			out = append(out, r)
		}
	}
	return out
}

// mergeChunk merges a native page with the portion of the sorted overlay
// slice that falls within (or before, in reverse) the page's key range, a
// standard sorted merge-join. An overlay entry takes precedence over a
// native row at the same key, since it reflects a write staged later in
// this same transaction. Returns the merged rows and the overlay index to
// resume from on the next page.
func mergeChunk(rows []keyValue, overlay []keyValue, overlayIdx int, reverse, isLastChunk bool) ([]keyValue, int) {
	less := func(a, b []byte) bool {
		if reverse {
			return bytes.Compare(a, b) > 0
		}
		return bytes.Compare(a, b) < 0
	}

	end := overlayIdx
	if isLastChunk {
		end = len(overlay)
	} else if len(rows) > 0 {
		boundary := rows[len(rows)-1].Key
		for end < len(overlay) && !less(boundary, overlay[end].Key) {
			end++
		}
	}

	merged := make([]keyValue, 0, len(rows)+(end-overlayIdx))
	ri, oi := 0, overlayIdx
	for ri < len(rows) || oi < end {
		switch {
		case ri >= len(rows):
			merged = append(merged, overlay[oi])
			oi++
		case oi >= end:
			merged = append(merged, rows[ri])
			ri++
		case bytes.Equal(rows[ri].Key, overlay[oi].Key):
			merged = append(merged, overlay[oi])
			ri++
			oi++
		case less(overlay[oi].Key, rows[ri].Key):
			merged = append(merged, overlay[oi])
			oi++
		default:
			merged = append(merged, rows[ri])
			ri++
		}
	}
	return merged, end
}

func inRange(q storage.RangeQuery, key []byte) bool {
	switch q.Start.Kind {
	case storage.Included:
		if bytes.Compare(key, q.Start.Key) < 0 {
			return false
		}
	case storage.Excluded:
		if bytes.Compare(key, q.Start.Key) <= 0 {
			return false
		}
	}
	switch q.End.Kind {
	case storage.Included:
		if bytes.Compare(key, q.End.Key) > 0 {
			return false
		}
	case storage.Excluded:
		if bytes.Compare(key, q.End.Key) >= 0 {
			return false
		}
	}
	return true
}

func (t *txn) CounterGet(ctx context.Context, key []byte) (uint64, bool, error) {
	k := string(key)
	v, err := t.b.Get(key)
	if err != nil {
		return 0, false, fmt.Errorf("distributed: counter get: %w", err)
	}
	var base uint64
	existed := v != nil
	if existed {
		if len(v) != 8 {
			return 0, false, fmt.Errorf("distributed: counter %q has invalid width %d", key, len(v))
		}
		base = binary.LittleEndian.Uint64(v)
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

func (t *txn) CounterIncrement(ctx context.Context, key []byte, delta uint64) error {
	t.counterDeltas[string(key)] += int64(delta)
	return nil
}

func (t *txn) CounterDecrement(ctx context.Context, key []byte, delta uint64) error {
	t.counterDeltas[string(key)] -= int64(delta)
	return nil
}

// flush applies the staged write batch into the backend. Counter deltas
// are issued as native atomic adds, which FoundationDB resolves without
// creating a write-write conflict between concurrent counter updates.
func (t *txn) flush() error {
	for k, v := range t.writes {
		t.b.Set([]byte(k), v)
	}
	for k := range t.deletes {
		t.b.Clear([]byte(k))
	}
	for k, delta := range t.counterDeltas {
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(delta))
		t.b.Add([]byte(k), buf)
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
