// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bytecache provides a byte-slice cache bounded by total key and
// value bytes. Keys are spread over independent LRU shards by murmur3 hash, so
// recency is tracked per shard rather than globally.
package bytecache

import (
	"fmt"
	"sync/atomic"

	"github.com/spaolacci/murmur3"

	"github.com/luxfi/lrucache/lru"
)

const (
	numShards = 256
	shardMask = numShards - 1
)

// Stats contains cache performance metrics.
type Stats struct {
	EntriesCount uint64
	BytesSize    uint64
	GetCalls     uint64
	SetCalls     uint64
	Misses       uint64
}

// Cache is a sharded LRU byte cache.
type Cache struct {
	shards   [numShards]*lru.SizedCache[string, []byte]
	maxBytes int64
	getCalls atomic.Uint64
	setCalls atomic.Uint64
	misses   atomic.Uint64
}

func entrySize(k string, v []byte) int {
	return len(k) + len(v)
}

// New creates a new byte cache with the given max size in bytes. Each shard
// receives an equal share of at least one byte.
func New(maxBytes int) (*Cache, error) {
	if maxBytes < 1 {
		return nil, fmt.Errorf("%w: %d", lru.ErrInvalidCapacity, maxBytes)
	}
	c := &Cache{maxBytes: int64(maxBytes)}
	perShard := max(maxBytes/numShards, 1)
	for i := range c.shards {
		shard, err := lru.NewSizedCache(perShard, entrySize)
		if err != nil {
			return nil, err
		}
		c.shards[i] = shard
	}
	return c, nil
}

// shardIndex hashes through the streaming digest, which reads key by index
// rather than by raw pointer arithmetic past its end.
func shardIndex(key []byte) uint32 {
	h := murmur3.New32()
	_, _ = h.Write(key)
	return h.Sum32() & shardMask
}

func (c *Cache) shard(key []byte) *lru.SizedCache[string, []byte] {
	return c.shards[shardIndex(key)]
}

// Reset clears all cached entries.
func (c *Cache) Reset() {
	for _, s := range c.shards {
		s.Clear()
	}
}

// Del removes a key from the cache.
func (c *Cache) Del(key []byte) {
	c.shard(key).Remove(string(key))
}

// Has reports whether a key exists. Recency is not affected.
func (c *Cache) Has(key []byte) bool {
	return c.shard(key).Contains(string(key))
}

// HasGet appends the value to dst[:0] and reports whether it exists. A nil dst
// yields a freshly allocated copy.
func (c *Cache) HasGet(dst, key []byte) ([]byte, bool) {
	c.getCalls.Add(1)
	val, ok := c.shard(key).Get(string(key))
	if !ok {
		c.misses.Add(1)
		if dst == nil {
			return nil, false
		}
		return dst[:0], false
	}
	if dst == nil {
		return append([]byte(nil), val...), true
	}
	return append(dst[:0], val...), true
}

// Get looks up a value by key, copying into dst if provided.
func (c *Cache) Get(dst, key []byte) []byte {
	v, _ := c.HasGet(dst, key)
	return v
}

// Set stores a copy of value. Entries larger than a shard are dropped.
func (c *Cache) Set(key, value []byte) {
	c.setCalls.Add(1)
	c.shard(key).Put(string(key), append([]byte(nil), value...))
}

// MaxBytes returns the configured byte budget.
func (c *Cache) MaxBytes() int64 {
	return c.maxBytes
}

// UpdateStats populates the provided stats struct.
func (c *Cache) UpdateStats(s *Stats) {
	if s == nil {
		return
	}
	var entries, size uint64
	for _, sh := range c.shards {
		entries += uint64(sh.Len())
		size += uint64(sh.Size())
	}
	s.EntriesCount = entries
	s.BytesSize = size
	s.GetCalls = c.getCalls.Load()
	s.SetCalls = c.setCalls.Load()
	s.Misses = c.misses.Load()
}
