// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

import (
	"fmt"
	"sync"

	"github.com/luxfi/lrucache"
)

var _ lrucache.Cacher[struct{}, struct{}] = (*SizedCache[struct{}, struct{}])(nil)

// SizedCache is an LRU cache bounded by total size rather than entry count.
type SizedCache[K comparable, V any] struct {
	lock        sync.RWMutex
	maxSize     int
	currentSize int
	sizeFn      func(K, V) int
	index       map[K]int32
	order       *list[K, sizedEntry[V]]
}

type sizedEntry[V any] struct {
	value V
	size  int
}

// NewSizedCache creates a size-bounded LRU cache. sizeFn reports the weight of
// an entry; a nil sizeFn weighs every entry 1 and weights below 1 count as 1,
// so the entry count never exceeds maxSize.
func NewSizedCache[K comparable, V any](maxSize int, sizeFn func(K, V) int) (*SizedCache[K, V], error) {
	if maxSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, maxSize)
	}
	if sizeFn == nil {
		sizeFn = func(K, V) int { return 1 }
	}
	return &SizedCache[K, V]{
		maxSize: maxSize,
		sizeFn:  sizeFn,
		index:   make(map[K]int32),
		order:   newList[K, sizedEntry[V]](),
	}, nil
}

// Put inserts or replaces a value, evicting least recently used entries until
// it fits. An entry larger than the cache is not stored; any previous value
// for its key is dropped.
func (c *SizedCache[K, V]) Put(key K, value V) {
	entrySize := max(c.sizeFn(key, value), 1)

	c.lock.Lock()
	defer c.lock.Unlock()

	if h, ok := c.index[key]; ok {
		c.removeLocked(h)
	}
	if entrySize > c.maxSize {
		return
	}

	for c.currentSize > c.maxSize-entrySize {
		h, ok := c.order.evictTail()
		if !ok {
			break
		}
		n := c.order.at(h)
		c.currentSize -= n.value.size
		delete(c.index, n.key)
		c.order.release(h)
	}

	h := c.order.alloc(key, sizedEntry[V]{value: value, size: entrySize})
	c.order.pushFront(h)
	c.index[key] = h
	c.currentSize += entrySize
}

// Get retrieves a value and marks it as most recently used.
func (c *SizedCache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	h, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.moveToFront(h)
	return c.order.at(h).value.value, true
}

// Remove deletes a key from the cache and returns its value.
func (c *SizedCache[K, V]) Remove(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	h, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	value := c.order.at(h).value.value
	c.removeLocked(h)
	return value, true
}

func (c *SizedCache[K, V]) removeLocked(h int32) {
	n := c.order.at(h)
	c.currentSize -= n.value.size
	delete(c.index, n.key)
	c.order.unlink(h)
	c.order.release(h)
}

// Contains reports whether the key is present without touching recency.
func (c *SizedCache[K, V]) Contains(key K) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	_, ok := c.index[key]
	return ok
}

// Clear removes all entries.
func (c *SizedCache[K, V]) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()

	clear(c.index)
	c.order.reset()
	c.currentSize = 0
}

// Len returns number of entries.
func (c *SizedCache[K, V]) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.index)
}

// Size returns the total weight of the cached entries.
func (c *SizedCache[K, V]) Size() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.currentSize
}

// PortionFilled returns the ratio of size used to max size.
func (c *SizedCache[K, V]) PortionFilled() float64 {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return float64(c.currentSize) / float64(c.maxSize)
}
