package cache

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoaderFunc produces the value for a key on a cache miss, typically by
// calling the upstream provider. Implementations must honor ctx cancellation;
// the cache itself imposes no timeout.
type LoaderFunc[V any] func(ctx context.Context) (V, error)

// Config controls capacity, staleness and maintenance behavior.
//
// Capacity and TTL must both be positive; New rejects anything else so a
// misconfigured cache fails at startup, not on the request path.
type Config struct {
	// Capacity is the maximum number of live entries.
	Capacity int
	// TTL is the lifetime applied to every stored entry.
	TTL time.Duration
	// CleanupInterval, when positive, enables a background sweep of expired
	// entries. Lazy expiry on access works either way; the sweep only tightens
	// the memory bound for keys that are written once and never read again.
	CleanupInterval time.Duration
	// Clock overrides time.Now. Used by tests to drive TTL deterministically.
	Clock func() time.Time
}

var (
	ErrInvalidCapacity = errors.New("cache: capacity must be positive")
	ErrInvalidTTL      = errors.New("cache: ttl must be positive")
	ErrClosed          = errors.New("cache: closed")
)

// Cache is a concurrency-safe, bounded in-memory key→value store combining
// LRU recency tracking, per-entry expiry and single-flight loading.
//
// The structure is deliberately mechanical: a map gives O(1) lookup and a
// doubly-linked list maintains recency order. The mutex covers only that
// bookkeeping; it is never held across a loader call. Concurrent misses for
// the same key are collapsed into one loader invocation whose outcome is
// shared by every waiter.
//
// Cache owns its background goroutine (if enabled). Call Close to stop it.
type Cache[V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[string]*list.Element
	order *list.List // Front = most recently used, Back = least recently used

	flights singleflight.Group

	hits      uint64
	misses    uint64
	evictions uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	cleanupEvery time.Duration
	closed       bool
}

// entry is what LRU list elements hold. The key lives here too because
// eviction starts from the list tail.
type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Stats is a point-in-time snapshot suitable for health reporting.
// Entries counts only unexpired entries.
type Stats struct {
	Capacity   int    `json:"capacity"`
	TTLSeconds int64  `json:"ttl_seconds"`
	Entries    int    `json:"entries"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Evictions  uint64 `json:"evictions"`
}

// New constructs a cache and starts background maintenance when enabled.
func New[V any](cfg Config) (*Cache[V], error) {
	if cfg.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if cfg.TTL <= 0 {
		return nil, ErrInvalidTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache[V]{
		capacity:     cfg.Capacity,
		ttl:          cfg.TTL,
		now:          clock,
		items:        make(map[string]*list.Element),
		order:        list.New(),
		ctx:          ctx,
		cancel:       cancel,
		cleanupEvery: cfg.CleanupInterval,
	}

	if c.cleanupEvery > 0 {
		c.wg.Add(1)
		go c.sweepLoop()
	}
	return c, nil
}

// Close stops background goroutines. Safe to call multiple times.
// A closed cache rejects further GetOrLoad calls with ErrClosed.
func (c *Cache[V]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()

	// Cancel outside the lock so shutdown never blocks a caller mid-lookup.
	cancel()
	c.wg.Wait()
	return nil
}

// GetOrLoad returns the cached value for key, loading it via load on a miss.
//
// Hit: the entry is bumped to most-recently-used and its value returned
// without invoking load. Expired entries count as misses and are removed.
//
// Miss: concurrent callers for the same key share a single load; exactly one
// loader runs and every waiter receives its value or its error. A successful
// load is stored with expiry now+TTL, evicting the least-recently-used entry
// first if the insert would exceed capacity. A failed load is never cached,
// so the next call for the same key retries the loader.
//
// The loader runs with the context of the caller that started the flight.
// If that context is cancelled the flight still resolves, delivering the
// cancellation error to every joined waiter.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load LoaderFunc[V]) (V, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if c.isClosed() {
		return zero, ErrClosed
	}

	if v, ok := c.lookup(key); ok {
		return v, nil
	}
	c.recordMiss()

	v, err, _ := c.flights.Do(key, func() (any, error) {
		// A flight that completed between our miss and joining the group may
		// already have filled the entry; prefer it over a fresh load.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, v)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(V), nil
}

// Len returns the number of resident entries, including expired ones that
// have not been swept or touched yet.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns resident keys in MRU → LRU order. Debug/test helper.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*entry[V]).key)
	}
	return out
}

// Clear drops every entry. Counters are kept.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Stats reports a consistent snapshot for health endpoints.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	live := 0
	for _, el := range c.items {
		if el.Value.(*entry[V]).expiresAt.After(now) {
			live++
		}
	}
	return Stats{
		Capacity:   c.capacity,
		TTLSeconds: int64(c.ttl / time.Second),
		Entries:    live,
		Hits:       c.hits,
		Misses:     c.misses,
		Evictions:  c.evictions,
	}
}

// recordMiss is separate from lookup because a miss probes the map twice
// (once before joining a flight, once inside it) but is one logical miss.
func (c *Cache[V]) recordMiss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

func (c *Cache[V]) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// lookup is the hit path: present and unexpired bumps recency and returns the
// value; expired removes the entry and reports a miss.
func (c *Cache[V]) lookup(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[V])
	if !e.expiresAt.After(c.now()) {
		c.removeLocked(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return e.value, true
}

// store inserts or refreshes key as most-recently-used with expiry now+TTL,
// evicting from the LRU end first so the entry count never settles above
// capacity. Values are replaced, never mutated in place.
func (c *Cache[V]) store(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		// Shutdown raced the load. The waiters still get the value; it just
		// isn't retained.
		return
	}

	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.evictForInsertLocked()
	el := c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = el
}

// evictForInsertLocked makes room for one new entry. Expired entries are
// reclaimed first so live keys keep strict LRU semantics among themselves.
func (c *Cache[V]) evictForInsertLocked() {
	if len(c.items) < c.capacity {
		return
	}
	c.removeExpiredLocked(c.now())
	for len(c.items) >= c.capacity {
		el := c.order.Back()
		if el == nil {
			return
		}
		c.removeLocked(el)
		c.evictions++
	}
}

func (c *Cache[V]) removeLocked(el *list.Element) {
	e := el.Value.(*entry[V])
	delete(c.items, e.key)
	c.order.Remove(el)
}

// removeExpiredLocked drops all expired entries. O(n) full scan, intentionally
// simple; capacity is small (hundreds, not millions).
func (c *Cache[V]) removeExpiredLocked(now time.Time) int {
	removed := 0
	var next *list.Element
	for el := c.order.Front(); el != nil; el = next {
		next = el.Next()
		if !el.Value.(*entry[V]).expiresAt.After(now) {
			c.removeLocked(el)
			removed++
		}
	}
	return removed
}
