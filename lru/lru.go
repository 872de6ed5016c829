// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lru provides thread-safe, fixed-capacity LRU cache implementations.
//
// Every cache in this package keeps two structures under one lock: an index
// from key to entry handle, and a recency list ordered from most recently used
// (head) to least recently used (tail). Entries live in an arena owned by the
// list and are addressed by int32 handles, so neither structure holds pointers
// into the other.
package lru

import (
	"errors"
	"math"
)

// maxCapacity is the largest capacity addressable by an int32 handle.
const maxCapacity = math.MaxInt32

// ErrInvalidCapacity is returned when a cache is constructed with a capacity
// outside [1, math.MaxInt32].
var ErrInvalidCapacity = errors.New("invalid cache capacity")

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithOnEvict registers a callback invoked for every entry evicted to make
// room for a new key. It is not called for Remove, Clear, or value
// replacement. The callback runs after the cache lock is released and may call
// back into the cache.
func WithOnEvict[K comparable, V any](onEvict func(K, V)) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onEvict = onEvict
	}
}
