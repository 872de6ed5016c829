// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, capacity int) *Cache[string, string] {
	t.Helper()
	c, err := NewCache[string, string](capacity)
	require.NoError(t, err)
	return c
}

func TestNewCacheInvalidCapacity(t *testing.T) {
	tooLarge := maxCapacity
	tooLarge++
	for _, capacity := range []int{0, -1, tooLarge} {
		c, err := NewCache[string, string](capacity)
		require.ErrorIs(t, err, ErrInvalidCapacity)
		require.Nil(t, c)
	}
}

func TestContainerCache(t *testing.T) {
	require := require.New(t)

	cache := newTestCache(t, 3)

	// Test basic operations
	cache.Put("a", "apple")
	cache.Put("b", "banana")
	cache.Put("c", "cherry")

	require.Equal(3, cache.Len())
	require.Equal(3, cache.Capacity())
	require.Equal(1.0, cache.PortionFilled())

	// Test Get
	val, ok := cache.Get("a")
	require.True(ok)
	require.Equal("apple", val)

	// Test eviction
	cache.Put("d", "date")
	require.Equal(3, cache.Len()) // Should still be 3 after eviction

	// Test Clear
	cache.Clear()
	require.Equal(0, cache.Len())
	require.Equal(0.0, cache.PortionFilled())
	require.Equal(3, cache.Capacity())
}

func TestPutEvictsLeastRecentlyUsed(t *testing.T) {
	require := require.New(t)

	cache := newTestCache(t, 3)
	cache.Put("a", "abc")
	cache.Put("b", "bbc")
	cache.Put("c", "cbc")
	cache.Put("d", "dbc")

	require.False(cache.Contains("a"))
	require.True(cache.Contains("b"))
	require.True(cache.Contains("c"))
	require.True(cache.Contains("d"))

	// b is the new tail; replacing its value refreshes it so c goes next.
	cache.Put("b", "bbc-x")
	cache.Put("a", "abc")
	require.True(cache.Contains("b"))
	require.True(cache.Contains("a"))
	require.False(cache.Contains("c"))

	val, ok := cache.Get("b")
	require.True(ok)
	require.Equal("bbc-x", val)
}

func TestGetRefreshesRecency(t *testing.T) {
	require := require.New(t)

	cache := newTestCache(t, 3)
	cache.Put("a", "abc")
	cache.Put("b", "bbc")
	cache.Put("c", "cbc")

	val, ok := cache.Get("a")
	require.True(ok)
	require.Equal("abc", val)

	cache.Put("d", "dbc")
	require.Equal(3, cache.Len())
	require.False(cache.Contains("b"))
	require.True(cache.Contains("a"))

	val, ok = cache.Get("a")
	require.True(ok)
	require.Equal("abc", val)

	cache.Put("a", "abc-x")
	val, ok = cache.Get("a")
	require.True(ok)
	require.Equal("abc-x", val)
}

func TestGetPromotedKeyEvictedLast(t *testing.T) {
	require := require.New(t)

	cache := newTestCache(t, 4)
	for _, k := range []string{"a", "b", "c", "d"} {
		cache.Put(k, k)
	}
	_, ok := cache.Get("a")
	require.True(ok)

	for i, k := range []string{"e", "f", "g"} {
		cache.Put(k, k)
		require.True(cache.Contains("a"), "a evicted after %d inserts", i+1)
	}
	cache.Put("h", "h")
	require.False(cache.Contains("a"))
}

func TestGetMissDoesNotInsert(t *testing.T) {
	require := require.New(t)

	cache := newTestCache(t, 2)
	val, ok := cache.Get("missing")
	require.False(ok)
	require.Empty(val)
	require.Zero(cache.Len())
	require.False(cache.Contains("missing"))
}

func TestZeroValueIsDistinctFromMiss(t *testing.T) {
	require := require.New(t)

	cache, err := NewCache[string, *int](2)
	require.NoError(err)

	cache.Put("nil", nil)
	val, ok := cache.Get("nil")
	require.True(ok)
	require.Nil(val)

	val, ok = cache.Get("absent")
	require.False(ok)
	require.Nil(val)
}

func TestCapacityOne(t *testing.T) {
	require := require.New(t)

	cache := newTestCache(t, 1)
	cache.Put("a", "abc")
	cache.Put("b", "bbc")

	require.Equal(1, cache.Len())
	require.True(cache.Contains("b"))
	require.False(cache.Contains("a"))
}

func TestRemove(t *testing.T) {
	require := require.New(t)

	cache := newTestCache(t, 3)
	cache.Put("a", "abc")
	cache.Put("b", "bbc")
	cache.Put("c", "cbc")

	val, ok := cache.Remove("b")
	require.True(ok)
	require.Equal("bbc", val)
	require.Equal(2, cache.Len())

	_, ok = cache.Remove("b")
	require.False(ok)
	require.Equal(2, cache.Len())

	cache.Put("d", "dbc")
	require.False(cache.Contains("b"))
	require.True(cache.Contains("d"))
	require.True(cache.Contains("a"))
	require.True(cache.Contains("c"))
	require.Equal(3, cache.Len())
}

func TestRemoveHeadAndTail(t *testing.T) {
	require := require.New(t)

	cache := newTestCache(t, 3)
	cache.Put("a", "abc")
	cache.Put("b", "bbc")
	cache.Put("c", "cbc")

	_, ok := cache.Remove("a")
	require.True(ok)
	_, ok = cache.Remove("c")
	require.True(ok)
	require.Equal([]string{"b"}, cache.Keys())

	_, ok = cache.Remove("b")
	require.True(ok)
	require.Empty(cache.Keys())

	cache.Put("d", "dbc")
	require.Equal([]string{"d"}, cache.Keys())
}

func TestContainsAndLenDoNotTouchRecency(t *testing.T) {
	require := require.New(t)

	cache := newTestCache(t, 2)
	cache.Put("a", "abc")
	cache.Put("b", "bbc")

	require.True(cache.Contains("a"))
	require.Equal(2, cache.Len())
	require.Equal([]string{"b", "a"}, cache.Keys())

	cache.Put("c", "cbc")
	require.False(cache.Contains("a"))
	require.Equal([]string{"c", "b"}, cache.Keys())
}

func TestClearThenRefill(t *testing.T) {
	require := require.New(t)

	cache := newTestCache(t, 2)
	cache.Put("a", "abc")
	cache.Put("b", "bbc")
	cache.Clear()

	require.Zero(cache.Len())
	require.False(cache.Contains("a"))

	cache.Put("c", "cbc")
	cache.Put("d", "dbc")
	cache.Put("e", "ebc")
	require.Equal(2, cache.Len())
	require.Equal([]string{"e", "d"}, cache.Keys())
}

func TestCapacityBound(t *testing.T) {
	require := require.New(t)

	cache, err := NewCache[int, int](7)
	require.NoError(err)
	for i := 0; i < 100; i++ {
		cache.Put(i%13, i)
		require.LessOrEqual(cache.Len(), 7)
		require.Len(cache.Keys(), cache.Len())
	}
}

func TestCacheWithEvictionCallback(t *testing.T) {
	require := require.New(t)

	evicted := make([]string, 0)
	cache, err := NewCacheWithOnEvict(2, func(k, _ string) {
		evicted = append(evicted, k)
	})
	require.NoError(err)

	cache.Put("x", "value-x")
	cache.Put("y", "value-y")
	cache.Put("x", "value-x2") // Replacement is not an eviction
	cache.Put("z", "value-z")  // Should evict 'y'
	cache.Remove("x")          // Removal is not an eviction
	cache.Clear()

	require.Equal([]string{"y"}, evicted)
}

func TestEvictionCallbackMayReenterCache(t *testing.T) {
	require := require.New(t)

	var cache *Cache[string, string]
	var seen []int
	cache, err := NewCache(1, WithOnEvict(func(string, string) {
		seen = append(seen, cache.Len())
	}))
	require.NoError(err)

	cache.Put("a", "abc")
	cache.Put("b", "bbc")
	require.Equal([]int{1}, seen)
}

func TestConcurrentAccess(t *testing.T) {
	const (
		capacity = 64
		workers  = 16
		ops      = 2000
	)
	require := require.New(t)

	cache, err := NewCache[string, int](capacity)
	require.NoError(err)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				key := strconv.Itoa((w*ops + i) % (capacity * 2))
				switch i % 5 {
				case 0, 1:
					cache.Put(key, i)
				case 2:
					cache.Get(key)
				case 3:
					cache.Contains(key)
				case 4:
					if i%50 == 4 {
						cache.Remove(key)
					}
					_ = cache.Len()
				}
			}
		}(w)
	}
	wg.Wait()

	require.LessOrEqual(cache.Len(), capacity)
	keys := cache.Keys()
	require.Len(keys, cache.Len())
	for _, k := range keys {
		require.True(cache.Contains(k))
	}
}

func BenchmarkCachePut(b *testing.B) {
	cache, err := NewCache[int, int](1024)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Put(i, i)
	}
}

func BenchmarkCacheGetParallel(b *testing.B) {
	cache, err := NewCache[int, int](1024)
	require.NoError(b, err)
	for i := 0; i < 1024; i++ {
		cache.Put(i, i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			cache.Get(i % 1024)
			i++
		}
	})
}
