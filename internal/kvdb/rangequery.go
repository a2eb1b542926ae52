package kvdb

import (
	"github.com/dreamware/kvdb/internal/resourcename"
	"github.com/dreamware/kvdb/internal/storage"
)

// RangeQueryBuilder composes a bounded scan over resource-name-keyed data.
// Zero value has unbounded start and end; Build rejects a query with
// neither bound, so a builder never compiles a scan of the entire key space
// (the engines themselves accept a fully unbounded storage.RangeQuery).
type RangeQueryBuilder struct {
	start   storage.Bound
	end     storage.Bound
	reverse bool
	limit   *int
}

// NewRangeQuery returns an empty builder.
func NewRangeQuery() *RangeQueryBuilder {
	return &RangeQueryBuilder{}
}

// FromKey starts the scan at k, inclusive.
func (b *RangeQueryBuilder) FromKey(k resourcename.ResourceName) *RangeQueryBuilder {
	b.start = storage.IncludedBound(k.Bytes())
	return b
}

// AfterKey starts the scan strictly after k.
func (b *RangeQueryBuilder) AfterKey(k resourcename.ResourceName) *RangeQueryBuilder {
	b.start = storage.ExcludedBound(k.Bytes())
	return b
}

// ToKey ends the scan at k, inclusive.
func (b *RangeQueryBuilder) ToKey(k resourcename.ResourceName) *RangeQueryBuilder {
	b.end = storage.IncludedBound(k.Bytes())
	return b
}

// BeforeKey ends the scan strictly before k.
func (b *RangeQueryBuilder) BeforeKey(k resourcename.ResourceName) *RangeQueryBuilder {
	b.end = storage.ExcludedBound(k.Bytes())
	return b
}

// BeginningWith restricts the scan to keys whose bytes begin with k,
// excluding k itself: k's children and their descendants, and also any
// name that merely extends k's last token (for k = "users", "users2/x" is
// in range). The exclusive upper bound is k.NextBytewise(), the smallest
// name that sorts after every name prefixed by k.
func (b *RangeQueryBuilder) BeginningWith(k resourcename.ResourceName) *RangeQueryBuilder {
	b.start = storage.ExcludedBound(k.Bytes())
	b.end = storage.ExcludedBound(k.NextBytewise().Bytes())
	return b
}

// Reverse walks the range from End toward Start.
func (b *RangeQueryBuilder) Reverse() *RangeQueryBuilder {
	b.reverse = true
	return b
}

// Limit caps the number of pairs the scan delivers.
func (b *RangeQueryBuilder) Limit(n int) *RangeQueryBuilder {
	b.limit = &n
	return b
}

// ErrUnboundedRange is returned when a builder with no start and no end
// bound is compiled.
var ErrUnboundedRange = unboundedRangeError{}

type unboundedRangeError struct{}

func (unboundedRangeError) Error() string {
	return "kvdb: range query has neither a start nor an end bound"
}

// Build compiles the accumulated bounds into a storage.RangeQuery.
func (b *RangeQueryBuilder) Build() (storage.RangeQuery, error) {
	if b.start.Kind == storage.Unbounded && b.end.Kind == storage.Unbounded {
		return storage.RangeQuery{}, ErrUnboundedRange
	}
	q := storage.RangeQuery{Start: b.start, End: b.end, Reverse: b.reverse}
	if b.limit != nil {
		n := *b.limit
		q.Limit = &n
	}
	return q, nil
}
