// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metrics collects the Prometheus metrics of cmweb and exposes
// them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector keeps the cmweb metrics.
type Collector struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	jobRuns   *prometheus.CounterVec
	jobItems  *prometheus.CounterVec
	wsClients prometheus.Gauge
	mails     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics in reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmweb_http_requests_total",
			Help: "Number of handled HTTP requests.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cmweb_http_request_duration_seconds",
			Help:    "Latency of the handled HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmweb_job_runs_total",
			Help: "Number of background job runs.",
		}, []string{"job", "result"}),
		jobItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmweb_job_items_total",
			Help: "Number of items processed by background jobs.",
		}, []string{"job"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cmweb_ws_clients",
			Help: "Number of connected notification stream clients.",
		}),
		mails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmweb_mails_total",
			Help: "Number of transactional emails by delivery result.",
		}, []string{"template", "result"}),
	}
	reg.MustRegister(
		c.requests, c.latency, c.jobRuns, c.jobItems, c.wsClients,
		c.mails,
	)
	return c
}

// RecordRequest records one handled HTTP request. The route must be
// the matched route template and not the raw path, so the labels
// cardinality remains bounded.
func (c *Collector) RecordRequest(
	method, route string, status int, d time.Duration,
) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordJob records one run of the job background job which has
// processed n items. A non-nil err marks the run as failed.
func (c *Collector) RecordJob(job string, n int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.jobRuns.WithLabelValues(job, result).Inc()
	c.jobItems.WithLabelValues(job).Add(float64(n))
}

// RecordMail records one email delivery attempt.
func (c *Collector) RecordMail(template string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	c.mails.WithLabelValues(template, result).Inc()
}

// WSClients returns the gauge of connected websocket clients.
func (c *Collector) WSClients() prometheus.Gauge {
	return c.wsClients
}

// Handler returns the scraping endpoint handler.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
