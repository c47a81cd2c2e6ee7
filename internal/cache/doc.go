// Package cache implements a single-process, in-memory key–value cache for
// fronting slow or rate-limited upstreams.
//
// Design goals:
//   - Bounded memory: fixed entry capacity with LRU eviction
//   - Bounded staleness: per-entry TTL with lazy expiry (plus an optional
//     background sweep)
//   - Request coalescing: concurrent misses for one key share a single load
//   - Explicit data structures (map + doubly-linked list), one mutex for
//     bookkeeping only, never held across a load
//   - Injected clock so expiry is testable without sleeping
package cache
