// Package resourcename implements the hierarchical key type used to address
// every entity and collection stored through the unified database layer.
//
// # Overview
//
// A resource name is a slash-separated string of alternating segment/value
// tokens, e.g. "users/john/repos/linux". Names with an even number of
// tokens name an entity (the trailing token is a value); names with an odd
// number of tokens name a collection (the trailing token is a segment).
//
// # Layout
//
//	┌──────────────────────────────────────────┐
//	│ "users"  /  "john"  /  "repos" / "linux"  │
//	│  segment    value     segment    value    │
//	└──────────────────────────────────────────┘
//	entity: users/john              (2 tokens)
//	entity: users/john/repos/linux  (4 tokens)
//	collection: users               (1 token)
//	collection: users/john/repos    (3 tokens)
//
// # Internal representation
//
// A ResourceName stores the backing string once plus the byte offsets of
// every '/' delimiter, with a synthetic leading offset of 0. This split
// table lets parent(), segments(), type() and id() slice the backing
// string directly instead of re-scanning it on every call. Instances are
// cheap to copy (a string header plus a small int slice) and are never
// mutated in place — every derivation (child, item, next-bytewise)
// produces a new value.
package resourcename
