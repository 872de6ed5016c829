// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metercacher

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultLabel = "result"
	hitResult   = "hit"
	missResult  = "miss"
)

var (
	resultLabels = []string{resultLabel}
	hitLabels    = prometheus.Labels{
		resultLabel: hitResult,
	}
	missLabels = prometheus.Labels{
		resultLabel: missResult,
	}
)

type cacheMetrics struct {
	getCount *prometheus.CounterVec
	getTime  *prometheus.CounterVec

	putCount prometheus.Counter
	putTime  prometheus.Counter

	removeCount *prometheus.CounterVec

	len           prometheus.Gauge
	portionFilled prometheus.Gauge
}

func newMetrics(
	namespace string,
	reg prometheus.Registerer,
) (*cacheMetrics, error) {
	m := &cacheMetrics{
		getCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "get_count",
				Help:      "number of get calls",
			},
			resultLabels,
		),
		getTime: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "get_time",
				Help:      "time spent (ns) in get calls",
			},
			resultLabels,
		),
		putCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "put_count",
			Help:      "number of put calls",
		}),
		putTime: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "put_time",
			Help:      "time spent (ns) in put calls",
		}),
		removeCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remove_count",
				Help:      "number of remove calls",
			},
			resultLabels,
		),
		len: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "len",
			Help:      "number of entries",
		}),
		portionFilled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "portion_filled",
			Help:      "fraction of cache filled",
		}),
	}
	err := errors.Join(
		reg.Register(m.getCount),
		reg.Register(m.getTime),
		reg.Register(m.putCount),
		reg.Register(m.putTime),
		reg.Register(m.removeCount),
		reg.Register(m.len),
		reg.Register(m.portionFilled),
	)
	return m, err
}
