// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metercacher provides metered cache implementations.
package metercacher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/lrucache"
)

var _ lrucache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)

// Cache wraps a Cacher with metrics.
type Cache[K comparable, V any] struct {
	lrucache.Cacher[K, V]
	metrics *cacheMetrics
}

// New creates a new metered cache wrapper. Metrics are registered on registry
// under namespace; a registration error is returned together with a usable
// wrapper.
func New[K comparable, V any](
	namespace string,
	registry prometheus.Registerer,
	c lrucache.Cacher[K, V],
) (*Cache[K, V], error) {
	metrics, err := newMetrics(namespace, registry)
	return &Cache[K, V]{
		Cacher:  c,
		metrics: metrics,
	}, err
}

func (c *Cache[K, V]) Put(key K, value V) {
	start := time.Now()
	c.Cacher.Put(key, value)
	putDuration := time.Since(start)

	c.metrics.putCount.Inc()
	c.metrics.putTime.Add(float64(putDuration))
	c.updateFill()
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	start := time.Now()
	value, has := c.Cacher.Get(key)
	getDuration := time.Since(start)

	labels := missLabels
	if has {
		labels = hitLabels
	}
	c.metrics.getCount.With(labels).Inc()
	c.metrics.getTime.With(labels).Add(float64(getDuration))

	return value, has
}

func (c *Cache[K, V]) Remove(key K) (V, bool) {
	value, has := c.Cacher.Remove(key)

	if has {
		c.metrics.removeCount.With(hitLabels).Inc()
	} else {
		c.metrics.removeCount.With(missLabels).Inc()
	}
	c.updateFill()

	return value, has
}

func (c *Cache[_, _]) Clear() {
	c.Cacher.Clear()
	c.updateFill()
}

func (c *Cache[_, _]) updateFill() {
	c.metrics.len.Set(float64(c.Cacher.Len()))
	c.metrics.portionFilled.Set(c.Cacher.PortionFilled())
}
