// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

import (
	"fmt"
	"sync"

	"github.com/luxfi/lrucache"
)

var _ lrucache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)

// Cache is a thread-safe LRU cache holding at most a fixed number of entries.
//
// Get refreshes recency and therefore takes the write lock, like Put, Remove
// and Clear. Contains, Len, Capacity, PortionFilled and Keys only take the read
// lock and never change recency.
type Cache[K comparable, V any] struct {
	lock     sync.RWMutex
	capacity int
	index    map[K]int32
	order    *list[K, V]
	onEvict  func(K, V)
}

// NewCache creates a new LRU cache holding at most capacity entries.
func NewCache[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity < 1 || capacity > maxCapacity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	c := &Cache[K, V]{
		capacity: capacity,
		index:    make(map[K]int32),
		order:    newList[K, V](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewCacheWithOnEvict creates cache with eviction callback
func NewCacheWithOnEvict[K comparable, V any](capacity int, onEvict func(K, V)) (*Cache[K, V], error) {
	return NewCache(capacity, WithOnEvict(onEvict))
}

// Put inserts an element into the cache. An existing key has its value
// replaced and becomes the most recently used entry. A new key in a full cache
// first evicts the least recently used entry.
func (c *Cache[K, V]) Put(key K, value V) {
	c.lock.Lock()

	if h, ok := c.index[key]; ok {
		c.order.at(h).value = value
		c.order.moveToFront(h)
		c.lock.Unlock()
		return
	}

	var (
		evicted      bool
		evictedKey   K
		evictedValue V
	)
	if len(c.index) >= c.capacity {
		if h, ok := c.order.evictTail(); ok {
			n := c.order.at(h)
			evicted, evictedKey, evictedValue = true, n.key, n.value
			delete(c.index, n.key)
			c.order.release(h)
		}
	}

	h := c.order.alloc(key, value)
	c.order.pushFront(h)
	c.index[key] = h
	c.lock.Unlock()

	if evicted && c.onEvict != nil {
		c.onEvict(evictedKey, evictedValue)
	}
}

// Get returns the entry with the key, if it exists, and marks it as the most
// recently used entry. A miss does not insert anything.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	h, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.moveToFront(h)
	return c.order.at(h).value, true
}

// Remove deletes the entry with the key and returns its value, if it existed.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	h, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	value := c.order.at(h).value
	delete(c.index, key)
	c.order.unlink(h)
	c.order.release(h)
	return value, true
}

// Contains reports whether the key is present. Recency is not affected.
func (c *Cache[K, V]) Contains(key K) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	_, ok := c.index[key]
	return ok
}

// Clear removes all entries. The capacity is unchanged.
func (c *Cache[K, V]) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()

	clear(c.index)
	c.order.reset()
}

// Len returns the number of elements in the cache.
func (c *Cache[K, V]) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.index)
}

// Capacity returns the maximum number of elements the cache holds.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// PortionFilled returns fraction of cache currently filled.
func (c *Cache[K, V]) PortionFilled() float64 {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return float64(len(c.index)) / float64(c.capacity)
}

// Keys returns the cached keys ordered from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.order.keys()
}
