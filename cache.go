// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lrucache defines the contract shared by the bounded caches in this
// module.
package lrucache

// Cacher acts as a bounded, concurrency safe key value store.
type Cacher[K comparable, V any] interface {
	// Put inserts an element into the cache, replacing the value of an
	// existing key.
	Put(key K, value V)

	// Get returns the entry with the key, if it exists.
	Get(key K) (V, bool)

	// Remove deletes the entry with the key and returns its value, if it
	// existed.
	Remove(key K) (V, bool)

	// Contains reports whether the key is present without touching recency.
	Contains(key K) bool

	// Clear removes all entries from the cache.
	Clear()

	// Len returns the number of elements in the cache.
	Len() int

	// PortionFilled returns fraction of cache currently filled (0 --> 1).
	PortionFilled() float64
}
