// Package marketdata implements the external data providers the
// portfolio engine depends on: the ISIN-to-symbol master, equity quote
// lookup, the mutual fund scheme directory with NAV histories, and the
// benchmark index series.
//
// All providers are plain HTTP clients with bounded timeouts and
// shared-client rate limiting. The slow-moving directories (symbol
// master, scheme directory, benchmark series) sit behind explicit
// read-through TTL caches that tolerate concurrent readers and refresh
// under a single writer, so a half-built map is never served. A failed
// refresh serves the previous value rather than failing the request;
// these directories change rarely enough that stale beats absent.
package marketdata
