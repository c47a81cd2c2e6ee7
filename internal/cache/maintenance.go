package cache

import "time"

// sweepLoop periodically removes expired entries.
//
// Lazy expiry alone keeps results correct, but a key that is written once and
// never read again would sit in memory until LRU pressure reaches it. The
// ticker-based full scan trades O(n) work for predictability; no per-entry
// timers to own.
func (c *Cache[V]) sweepLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			c.removeExpiredLocked(c.now())
			c.mu.Unlock()
		}
	}
}
