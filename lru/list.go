// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

// nilHandle marks an absent link.
const nilHandle int32 = -1

// node is a cache entry stored in the list arena.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  int32
	next  int32
}

// list is a doubly-linked recency list over an arena of nodes. head is the
// most recently used entry and tail the least recently used.
//
// list is not safe for concurrent use; the owning cache serializes access.
type list[K comparable, V any] struct {
	nodes []node[K, V]
	free  []int32
	head  int32
	tail  int32
	len   int
}

func newList[K comparable, V any]() *list[K, V] {
	return &list[K, V]{
		head: nilHandle,
		tail: nilHandle,
	}
}

// alloc stores key and value in a free arena slot and returns its handle. The
// returned node is not linked.
func (l *list[K, V]) alloc(key K, value V) int32 {
	n := node[K, V]{
		key:   key,
		value: value,
		prev:  nilHandle,
		next:  nilHandle,
	}
	if last := len(l.free) - 1; last >= 0 {
		h := l.free[last]
		l.free = l.free[:last]
		l.nodes[h] = n
		return h
	}
	l.nodes = append(l.nodes, n)
	return int32(len(l.nodes) - 1)
}

// release returns an unlinked node's slot to the free list, dropping its key
// and value so they can be collected.
func (l *list[K, V]) release(h int32) {
	l.nodes[h] = node[K, V]{prev: nilHandle, next: nilHandle}
	l.free = append(l.free, h)
}

func (l *list[K, V]) at(h int32) *node[K, V] {
	return &l.nodes[h]
}

func (l *list[K, V]) pushFront(h int32) {
	n := &l.nodes[h]
	n.prev = nilHandle
	n.next = l.head
	if l.head != nilHandle {
		l.nodes[l.head].prev = h
	} else {
		l.tail = h
	}
	l.head = h
	l.len++
}

func (l *list[K, V]) unlink(h int32) {
	n := &l.nodes[h]
	if n.prev != nilHandle {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nilHandle {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nilHandle, nilHandle
	l.len--
}

func (l *list[K, V]) moveToFront(h int32) {
	if l.head == h {
		return
	}
	l.unlink(h)
	l.pushFront(h)
}

// evictTail unlinks the least recently used node and returns its handle. The
// slot stays allocated until the caller releases it.
func (l *list[K, V]) evictTail() (int32, bool) {
	h := l.tail
	if h == nilHandle {
		return nilHandle, false
	}
	l.unlink(h)
	return h, true
}

// reset empties the list and the arena.
func (l *list[K, V]) reset() {
	clear(l.nodes)
	l.nodes = l.nodes[:0]
	l.free = l.free[:0]
	l.head, l.tail = nilHandle, nilHandle
	l.len = 0
}

// keys returns the keys from most to least recently used.
func (l *list[K, V]) keys() []K {
	out := make([]K, 0, l.len)
	for h := l.head; h != nilHandle; h = l.nodes[h].next {
		out = append(out, l.nodes[h].key)
	}
	return out
}
