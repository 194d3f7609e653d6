package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry stores a cached value and the time it was (last) inserted.
type entry[K comparable, V any] struct {
	key        K
	value      V
	insertedAt time.Time
}

type evicted[K comparable, V any] struct {
	key    K
	value  V
	reason EvictionReason
}

// Options controls construction of an ExpiringCache.
type Options[K comparable, V any] struct {
	// MaxEntries caps the number of stored entries. Zero or less means unbounded.
	MaxEntries int

	// TTL is how long an entry stays readable after it was put. Zero or less means forever.
	TTL time.Duration

	// OnEvicted, if set, is called for every entry removed by expiry, capacity
	// pressure or Delete. It runs after the cache lock is released.
	OnEvicted func(key K, value V, reason EvictionReason)
}

// ExpiringCache is a map-backed cache with one TTL for all entries and a cap on
// the entry count. When full it drops expired entries first, then the oldest
// inserted one. Expired entries are never returned, whether or not they have
// been purged yet.
type ExpiringCache[K comparable, V any] struct {
	mu sync.RWMutex

	items map[K]*list.Element
	// order holds *entry values oldest first. Put moves an overwritten key to
	// the back, so with a shared TTL expired entries always form a prefix.
	order *list.List

	maxEntries int
	ttl        time.Duration
	onEvicted  func(K, V, EvictionReason)
}

// NewExpiringCache constructs an empty ExpiringCache.
func NewExpiringCache[K comparable, V any](opts Options[K, V]) *ExpiringCache[K, V] {
	return &ExpiringCache[K, V]{
		items:      make(map[K]*list.Element),
		order:      list.New(),
		maxEntries: opts.MaxEntries,
		ttl:        opts.TTL,
		onEvicted:  opts.OnEvicted,
	}
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

func (c *ExpiringCache[K, V]) expired(e *entry[K, V], ts time.Time) bool {
	return c.ttl > 0 && ts.Sub(e.insertedAt) > c.ttl
}

// Get implements Cache.Get.
func (c *ExpiringCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if c.expired(e, now()) {
		// treat as miss; removal happens on the next write or sweep
		return zero, false
	}
	return e.value, true
}

// Put implements Cache.Put.
func (c *ExpiringCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	ts := now()
	gone := c.purgeLocked(ts, nil)

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.insertedAt = ts
		c.order.MoveToBack(el)
		c.mu.Unlock()
		c.notify(gone)
		return
	}

	for c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		e := c.removeLocked(c.order.Front())
		gone = append(gone, evicted[K, V]{key: e.key, value: e.value, reason: ReasonCapacity})
	}
	c.items[key] = c.order.PushBack(&entry[K, V]{key: key, value: value, insertedAt: ts})
	c.mu.Unlock()
	c.notify(gone)
}

// Delete implements Cache.Delete.
func (c *ExpiringCache[K, V]) Delete(key K) {
	c.mu.Lock()
	el, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	e := c.removeLocked(el)
	c.mu.Unlock()
	c.notify([]evicted[K, V]{{key: e.key, value: e.value, reason: ReasonDeleted}})
}

// Has implements Cache.Has.
func (c *ExpiringCache[K, V]) Has(key K) bool {
	_, ok := c.Get(key)
	return ok
}

// Len implements Cache.Len. It counts only non-expired entries.
func (c *ExpiringCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ts := now()
	stale := 0
	for el := c.order.Front(); el != nil; el = el.Next() {
		if !c.expired(el.Value.(*entry[K, V]), ts) {
			break
		}
		stale++
	}
	return len(c.items) - stale
}

// Clear implements Cache.Clear. OnEvicted is not called.
func (c *ExpiringCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element)
	c.order.Init()
}

// PurgeExpired implements Cache.PurgeExpired.
func (c *ExpiringCache[K, V]) PurgeExpired() int {
	c.mu.Lock()
	gone := c.purgeLocked(now(), nil)
	c.mu.Unlock()
	c.notify(gone)
	return len(gone)
}

// StartJanitor runs PurgeExpired every interval in a background goroutine.
// The returned stop function blocks until the goroutine has exited and may be
// called more than once. A non-positive interval starts nothing.
func (c *ExpiringCache[K, V]) StartJanitor(interval time.Duration) (stop func()) {
	if interval <= 0 || c.ttl <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.PurgeExpired()
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		<-exited
	}
}

func (c *ExpiringCache[K, V]) purgeLocked(ts time.Time, gone []evicted[K, V]) []evicted[K, V] {
	if c.ttl <= 0 {
		return gone
	}
	for el := c.order.Front(); el != nil; el = c.order.Front() {
		if !c.expired(el.Value.(*entry[K, V]), ts) {
			break
		}
		e := c.removeLocked(el)
		gone = append(gone, evicted[K, V]{key: e.key, value: e.value, reason: ReasonExpired})
	}
	return gone
}

func (c *ExpiringCache[K, V]) removeLocked(el *list.Element) *entry[K, V] {
	e := c.order.Remove(el).(*entry[K, V])
	delete(c.items, e.key)
	return e
}

func (c *ExpiringCache[K, V]) notify(gone []evicted[K, V]) {
	if c.onEvicted == nil {
		return
	}
	for _, g := range gone {
		c.onEvicted(g.key, g.value, g.reason)
	}
}

// Ensure ExpiringCache implements Cache at compile time.
var _ Cache[any, any] = (*ExpiringCache[any, any])(nil)
