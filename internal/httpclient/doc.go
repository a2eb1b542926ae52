// Package httpclient provides generic JSON-over-HTTP helpers that a client
// can use to talk to a running kvserver instance over its HTTP gateway.
// Nothing else in this module imports it.
//
// # Scope
//
// This package knows nothing about resource names, range queries, or
// counters — it is deliberately generic: encode a request body as JSON, POST
// or GET or DELETE it, decode the JSON response into a caller-supplied
// pointer. cmd/kvserver's own HTTP handlers define the actual wire shapes
// (rangeEntry, the counter delta body, and so on); this package just moves
// bytes.
//
// # Timeouts
//
// Every call goes through a shared *http.Client with a fixed request
// timeout. There is no per-call override: a caller that needs a longer
// deadline should use context cancellation upstream of the request rather
// than expecting this package to offer a knob for it.
//
// # Errors
//
// A response with status 300 or above is surfaced as an error carrying the
// method, URL and status code (the response body is not included), not
// silently decoded as if it were a success payload.
// Decode failures (malformed JSON) are returned as-is from encoding/json,
// since there is no ambiguity to disambiguate at this layer the way there is
// with a storage engine's retryable-vs-abort split.
//
// # Future extensions
//
//   - Retry-with-backoff for idempotent GET/DELETE calls against a
//     transiently unavailable kvserver instance.
//   - A round-tripper that injects request tracing headers, once kvserver
//     grows distributed tracing.
package httpclient
