// Package cache provides LRU caches used to keep fetched passages and
// parsed local corpora in memory.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a generic LRU cache interface.
type Cache[K comparable, V any] interface {
	// Get retrieves a value from the cache.
	Get(key K) (V, bool)

	// Put stores a value in the cache.
	Put(key K, value V)

	// Remove removes a value from the cache.
	Remove(key K)

	// Clear removes all entries from the cache.
	Clear()

	// Len returns the number of entries in the cache.
	Len() int

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	Size       int
	MaxSize    int
	TotalBytes int64
}

// HitRate returns hits as a fraction of all lookups, or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Config contains cache configuration options.
type Config struct {
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int

	// TTL is the time-to-live for entries (0 = no expiration).
	TTL time.Duration

	// OnEvict is called when an entry is evicted or removed.
	OnEvict func(key, value interface{})

	// Now replaces time.Now for expiry checks.
	Now func() time.Time
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize: 512,
		TTL:     time.Hour,
	}
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// lruCache is a thread-safe LRU cache implementation.
type lruCache[K comparable, V any] struct {
	mu        sync.RWMutex
	config    Config
	entries   map[K]*list.Element
	evictList *list.List
	stats     Stats
}

// NewLRUCache creates a new LRU cache with the given configuration.
func NewLRUCache[K comparable, V any](config Config) Cache[K, V] {
	return newLRU[K, V](config)
}

func newLRU[K comparable, V any](config Config) *lruCache[K, V] {
	if config.MaxSize < 0 {
		config.MaxSize = 0
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &lruCache[K, V]{
		config:    config,
		entries:   make(map[K]*list.Element),
		evictList: list.New(),
	}
}

// Get retrieves a value from the cache.
func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}

	e := ent.Value.(*entry[K, V])
	if c.config.TTL > 0 && c.config.Now().After(e.expiresAt) {
		c.removeElement(ent)
		c.stats.Misses++
		var zero V
		return zero, false
	}

	c.evictList.MoveToFront(ent)
	c.stats.Hits++
	return e.value, true
}

// Put stores a value in the cache.
func (c *lruCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(ent)
		e := ent.Value.(*entry[K, V])
		e.value = value
		if c.config.TTL > 0 {
			e.expiresAt = c.config.Now().Add(c.config.TTL)
		}
		return
	}

	e := &entry[K, V]{
		key:   key,
		value: value,
	}
	if c.config.TTL > 0 {
		e.expiresAt = c.config.Now().Add(c.config.TTL)
	}

	ent := c.evictList.PushFront(e)
	c.entries[key] = ent

	if c.config.MaxSize > 0 && c.evictList.Len() > c.config.MaxSize {
		c.removeOldest()
	}
}

// Remove removes a value from the cache.
func (c *lruCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.removeElement(ent)
	}
}

// Clear removes all entries from the cache. OnEvict is not called.
func (c *lruCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element)
	c.evictList.Init()
	c.stats.Size = 0
}

// Len returns the number of entries in the cache.
func (c *lruCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.evictList.Len()
}

// Stats returns cache statistics.
func (c *lruCache[K, V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.stats
	s.Size = c.evictList.Len()
	s.MaxSize = c.config.MaxSize
	return s
}

// evictOldest drops the least recently used entry.
func (c *lruCache[K, V]) evictOldest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeOldest()
}

func (c *lruCache[K, V]) removeOldest() {
	ent := c.evictList.Back()
	if ent != nil {
		c.removeElement(ent)
		c.stats.Evictions++
	}
}

func (c *lruCache[K, V]) removeElement(ent *list.Element) {
	c.evictList.Remove(ent)
	e := ent.Value.(*entry[K, V])
	delete(c.entries, e.key)

	if c.config.OnEvict != nil {
		c.config.OnEvict(e.key, e.value)
	}
}

// BoundedCache is an LRU cache with a total byte budget in addition to the
// entry limit. Values larger than the whole budget are not cached.
type BoundedCache[K comparable, V any] struct {
	mu          sync.Mutex
	lru         *lruCache[K, V]
	sizes       map[K]int64
	maxBytes    int64
	currentSize int64
	sizeFunc    func(V) int64
}

// NewBoundedCache creates a new cache with both entry count and byte size
// limits. A maxBytes of 0 disables the byte limit.
func NewBoundedCache[K comparable, V any](config Config, maxBytes int64, sizeFunc func(V) int64) *BoundedCache[K, V] {
	c := &BoundedCache[K, V]{
		sizes:    make(map[K]int64),
		maxBytes: maxBytes,
		sizeFunc: sizeFunc,
	}

	onEvict := config.OnEvict
	config.OnEvict = func(key, value interface{}) {
		k := key.(K)
		c.currentSize -= c.sizes[k]
		delete(c.sizes, k)
		if onEvict != nil {
			onEvict(key, value)
		}
	}
	c.lru = newLRU[K, V](config)
	return c
}

// Get retrieves a value from the cache.
func (c *BoundedCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

// Put stores a value, evicting least recently used entries until the byte
// budget is met.
func (c *BoundedCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := c.sizeFunc(value)
	if c.maxBytes > 0 && size > c.maxBytes {
		c.lru.Remove(key)
		return
	}

	if old, ok := c.sizes[key]; ok {
		c.currentSize -= old
	}
	c.lru.Put(key, value)
	c.sizes[key] = size
	c.currentSize += size

	for c.maxBytes > 0 && c.currentSize > c.maxBytes && c.lru.Len() > 1 {
		c.lru.evictOldest()
	}
}

// Remove removes a value from the cache.
func (c *BoundedCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// Clear removes all entries from the cache.
func (c *BoundedCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Clear()
	c.sizes = make(map[K]int64)
	c.currentSize = 0
}

// Len returns the number of entries in the cache.
func (c *BoundedCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns cache statistics including the bytes held.
func (c *BoundedCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lru.Stats()
	s.TotalBytes = c.currentSize
	return s
}

var _ Cache[string, int] = (*BoundedCache[string, int])(nil)
