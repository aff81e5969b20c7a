package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
// A zero expiresAt means the entry never expires.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a goroutine-safe map-backed cache with per-item TTL.
// Cleanup is lazy; call PurgeExpired to reclaim memory eagerly.
type TTLCache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]
}

// New constructs an empty TTLCache.
func New[K comparable, V any]() *TTLCache[K, V] {
	return &TTLCache[K, V]{items: make(map[K]entry[V])}
}

// now is a small indirection to allow test stubbing.
var now = time.Now

func (e entry[V]) expired(at time.Time) bool {
	return !e.expiresAt.IsZero() && at.After(e.expiresAt)
}

// Get returns the value and whether it was present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	e, ok := c.items[key]
	if !ok || e.expired(now()) {
		return zero, false
	}
	return e.value, true
}

// Set stores the value with an optional TTL. If ttl <= 0, the entry does not expire.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = entry[V]{value: value, expiresAt: exp}
}

// GetOrSet returns the cached value for key, computing and storing it via
// fill on a miss. fill runs under the write lock, so concurrent misses for
// the same key compute once.
func (c *TTLCache[K, V]) GetOrSet(key K, ttl time.Duration, fill func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check: another goroutine may have filled between the unlock and here.
	if e, ok := c.items[key]; ok && !e.expired(now()) {
		return e.value, nil
	}
	v, err := fill()
	if err != nil {
		var zero V
		return zero, err
	}
	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = entry[V]{value: v, expiresAt: exp}
	return v, nil
}

// Delete removes a key if present.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len returns the number of non-expired items currently stored.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	at := now()
	for _, e := range c.items {
		if !e.expired(at) {
			n++
		}
	}
	return n
}

// Clear removes all entries.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]entry[V])
}

// PurgeExpired scans and removes expired entries.
func (c *TTLCache[K, V]) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := now()
	for k, e := range c.items {
		if e.expired(at) {
			delete(c.items, k)
		}
	}
}

// Keys returns the keys of all non-expired entries, in no particular order.
func (c *TTLCache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()
	at := now()
	keys := make([]K, 0, len(c.items))
	for k, e := range c.items {
		if !e.expired(at) {
			keys = append(keys, k)
		}
	}
	return keys
}
