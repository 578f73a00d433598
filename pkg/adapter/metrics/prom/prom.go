// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package prom exports the booking, review, and HTTP metrics in the
// Prometheus exposition format. Metrics are kept on a dedicated
// registry, so independent instances may coexist in tests.
package prom

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crweb"

// Metrics implements the bookingsuc.Recorder and reviewsuc.Recorder
// interfaces, in addition to recording the HTTP requests.
type Metrics struct {
	registry *prometheus.Registry

	bookingsCreated   *prometheus.CounterVec
	bookingsReleased  *prometheus.CounterVec
	bookingDecisions  *prometheus.CounterVec
	bookingsCompleted prometheus.Counter
	reviewsWritten    *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// New creates and registers all metrics. Go runtime and process
// collectors are registered too if withRuntime is true.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(
				collectors.ProcessCollectorOpts{},
			),
		)
	}
	m := &Metrics{
		registry: reg,
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Number of booking creation attempts by result.",
		}, []string{"result"}),
		bookingsReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_released_total",
			Help:      "Number of cancelled or deleted bookings.",
		}, []string{"op", "stock_restored"}),
		bookingDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_decisions_total",
			Help:      "Number of admin approvals and rejections.",
		}, []string{"decision"}),
		bookingsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_completed_total",
			Help:      "Number of bookings completed by the scheduler.",
		}),
		reviewsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_written_total",
			Help:      "Number of review write operations.",
		}, []string{"op"}),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "route", "status"},
		),
	}
	reg.MustRegister(
		m.bookingsCreated, m.bookingsReleased, m.bookingDecisions,
		m.bookingsCompleted, m.reviewsWritten, m.requestDuration,
	)
	return m
}

// Handler serves the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) BookingCreated(ok bool) {
	result := "rejected"
	if ok {
		result = "created"
	}
	m.bookingsCreated.WithLabelValues(result).Inc()
}

func (m *Metrics) BookingCancelled(stockRestored bool) {
	m.bookingsReleased.WithLabelValues(
		"cancel", strconv.FormatBool(stockRestored),
	).Inc()
}

func (m *Metrics) BookingDeleted(stockRestored bool) {
	m.bookingsReleased.WithLabelValues(
		"delete", strconv.FormatBool(stockRestored),
	).Inc()
}

func (m *Metrics) BookingDecision(decision string) {
	m.bookingDecisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) BookingsCompleted(n int64) {
	m.bookingsCompleted.Add(float64(n))
}

func (m *Metrics) ReviewWritten(op string) {
	m.reviewsWritten.WithLabelValues(op).Inc()
}

// ObserveRequest records an HTTP request which was served by the
// route pattern (not the raw path, keeping the labels cardinality low).
func (m *Metrics) ObserveRequest(
	method, route string, status int, d time.Duration,
) {
	if route == "" {
		route = "unmatched"
	}
	m.requestDuration.WithLabelValues(
		method, route, strconv.Itoa(status),
	).Observe(d.Seconds())
}
