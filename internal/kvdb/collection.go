package kvdb

import (
	"context"
	"fmt"

	"github.com/dreamware/kvdb/internal/dberr"
	"github.com/dreamware/kvdb/internal/resourcename"
)

// Collection is a typed value layer over a resource-name-keyed subtree: a
// collection name identifies the set of entities, and each member's full
// name (the collection's Item) is the storage key for its encoded value.
//
// PT ties the value type T to a pointer receiver implementing both Entity
// (for encoding) and Unmarshal (for decoding), the common Go idiom for
// attaching methods to a type parameter without boxing T itself in an
// interface.
type Collection[T any, PT interface {
	*T
	Entity
	Unmarshal([]byte) error
}] struct {
	tx   *UnifiedTx
	name resourcename.ResourceName
}

// NewCollection scopes a Collection to name within tx. name must be a
// collection name (see resourcename.ResourceName.IsCollection).
func NewCollection[T any, PT interface {
	*T
	Entity
	Unmarshal([]byte) error
}](tx *UnifiedTx, name resourcename.ResourceName) *Collection[T, PT] {
	if !name.IsCollection() {
		panic(fmt.Sprintf("kvdb: %q is not a collection name", name.String()))
	}
	return &Collection[T, PT]{tx: tx, name: name}
}

// Get decodes the entity stored at id, or returns found=false if absent.
func (c *Collection[T, PT]) Get(ctx context.Context, id any) (*T, bool, error) {
	raw, found, err := c.tx.Get(ctx, c.name.Item(id))
	if err != nil || !found {
		return nil, found, err
	}
	v, err := decodeValue[T, PT](c.name.Item(id).String(), raw)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Set encodes and stores entity at id.
func (c *Collection[T, PT]) Set(ctx context.Context, id any, entity PT) error {
	body, err := entity.Marshal()
	if err != nil {
		return dberr.Abort(fmt.Errorf("kvdb: marshal entity for %q: %w", c.name.Item(id).String(), err))
	}
	encoded := make([]byte, 0, len(body)+1)
	encoded = append(encoded, v1Metadata)
	encoded = append(encoded, body...)
	return c.tx.Set(c.name.Item(id), encoded)
}

// Clear removes the entity at id.
func (c *Collection[T, PT]) Clear(ctx context.Context, id any) error {
	return c.tx.Clear(c.name.Item(id))
}

// Range decodes every entry in BeginningWith(collection name), in key order:
// the collection's members, their descendants, and any other key sharing
// the collection name as a byte prefix.
// It fails fast: the first entry that fails to decode aborts the scan and
// the error (wrapped as an Abort) is returned immediately, discarding
// whatever has been accumulated so far. This resolves, in the Go port, a
// range-decoding path the source material left unfinished.
func (c *Collection[T, PT]) Range(ctx context.Context, opts ...func(*RangeQueryBuilder)) ([]*T, error) {
	b := NewRangeQuery().BeginningWith(c.name)
	for _, opt := range opts {
		opt(b)
	}
	q, err := b.Build()
	if err != nil {
		return nil, err
	}

	var out []*T
	err = c.tx.ForEachInRange(ctx, q, func(key, value []byte) (bool, error) {
		v, derr := decodeValue[T, PT](string(key), value)
		if derr != nil {
			return false, derr
		}
		out = append(out, v)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decodeValue verifies the metadata prefix and decodes the remaining bytes
// into a fresh *T via PT's Unmarshal. Any failure is surfaced as an Abort,
// since a malformed stored value is a logical failure, not a retryable one.
func decodeValue[T any, PT interface {
	*T
	Entity
	Unmarshal([]byte) error
}](key string, raw []byte) (*T, error) {
	if len(raw) == 0 {
		return nil, dberr.Abort(&dberr.DecodeError{Key: key, Reason: "empty value"})
	}
	if raw[0] != v1Metadata {
		return nil, dberr.Abort(&dberr.DecodeError{Key: key, Reason: fmt.Sprintf("unknown metadata byte 0x%02x", raw[0])})
	}

	v := new(T)
	pt := PT(v)
	if err := pt.Unmarshal(raw[1:]); err != nil {
		return nil, dberr.Abort(&dberr.DecodeError{Key: key, Reason: "unmarshal", Err: err})
	}
	return v, nil
}
