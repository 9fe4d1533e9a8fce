// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/pharmanetd/fault"
)

const namespace = "pharmanet"

// Metrics - all collectors, registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	transactions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	connections  prometheus.Gauge
	published    *prometheus.CounterVec
}

// New - create and register the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "transactions executed by function and result kind",
		}, []string{"function", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transaction_duration_seconds",
			Help:      "time from dispatch to commit or abort",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"function"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rpc_connections",
			Help:      "currently open client connections",
		}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "committed transaction events by delivery result",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.transactions,
		m.duration,
		m.connections,
		m.published,
		collectors.NewGoCollector(),
	)
	return m
}

// Transaction - record one executed transaction
func (m *Metrics) Transaction(function string, err error, elapsed time.Duration) {
	kind := fault.Kind(err)
	if "" == kind {
		kind = "OK"
	}
	m.transactions.WithLabelValues(function, kind).Inc()
	m.duration.WithLabelValues(function).Observe(elapsed.Seconds())
}

// Connected - a client connection was opened
func (m *Metrics) Connected() {
	m.connections.Inc()
}

// Disconnected - a client connection was closed
func (m *Metrics) Disconnected() {
	m.connections.Dec()
}

// Published - an event was queued, or dropped because the queue was full
func (m *Metrics) Published(queued bool) {
	if queued {
		m.published.WithLabelValues("queued").Inc()
	} else {
		m.published.WithLabelValues("dropped").Inc()
	}
}

// Handler - HTTP handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry - for gathering in tests and embedding
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
