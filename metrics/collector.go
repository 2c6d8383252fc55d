// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package metrics exports channel events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/0x5a17ed/corochan"
)

// Collector counts channel events. It implements both
// [corochan.Observer] and [prometheus.Collector], so one Collector
// can observe any number of channels and be registered once.
type Collector struct {
	pairings    *prometheus.CounterVec
	suspensions *prometheus.CounterVec
	poisoned    *prometheus.CounterVec
	closes      *prometheus.CounterVec
}

var _ corochan.Observer = (*Collector)(nil)

// NewCollector returns a Collector with metrics named under namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		pairings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pairings_total",
				Help:      "Operations completed by taking a parked counterpart.",
			},
			[]string{"channel", "side"},
		),
		suspensions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suspensions_total",
				Help:      "Operations parked waiting for a counterpart.",
			},
			[]string{"channel", "side"},
		),
		poisoned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "poisoned_total",
				Help:      "Operations failed because the channel closed.",
			},
			[]string{"channel", "side"},
		),
		closes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "closes_total",
				Help:      "Channels closed.",
			},
			[]string{"channel"},
		),
	}
}

func (c *Collector) Paired(channel string, s corochan.Side) {
	c.pairings.WithLabelValues(channel, s.String()).Inc()
}

func (c *Collector) Suspended(channel string, s corochan.Side) {
	c.suspensions.WithLabelValues(channel, s.String()).Inc()
}

func (c *Collector) Poisoned(channel string, s corochan.Side) {
	c.poisoned.WithLabelValues(channel, s.String()).Inc()
}

func (c *Collector) Closed(channel string) {
	c.closes.WithLabelValues(channel).Inc()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.pairings.Describe(ch)
	c.suspensions.Describe(ch)
	c.poisoned.Describe(ch)
	c.closes.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.pairings.Collect(ch)
	c.suspensions.Collect(ch)
	c.poisoned.Collect(ch)
	c.closes.Collect(ch)
}
