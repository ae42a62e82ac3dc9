// Package metrics holds the Prometheus collectors for the HTTP surface and
// the voice pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "goalvoice"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	webhooks      *prometheus.CounterVec
	goalsExtract  prometheus.Counter
	goalsPersist  *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// MustNew creates the collectors and registers them with reg, panicking on
// registration errors.
func MustNew(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route pattern and status code.",
			},
			[]string{"route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route pattern.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		webhooks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "voice",
				Name:      "webhooks_total",
				Help:      "Voice webhooks by final pipeline state.",
			},
			[]string{"state"},
		),
		goalsExtract: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "voice",
				Name:      "goals_extracted_total",
				Help:      "Goal candidates produced by the extractor.",
			},
		),
		goalsPersist: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "voice",
				Name:      "goals_persisted_total",
				Help:      "Goal inserts by outcome.",
			},
			[]string{"outcome"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "voice",
				Name:      "notifications_total",
				Help:      "Relay notifications by outcome.",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.webhooks,
		m.goalsExtract,
		m.goalsPersist,
		m.notifications,
	)

	return m
}

func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Webhook counts one webhook invocation ending in state.
func (m *Metrics) Webhook(state string) {
	if m == nil {
		return
	}
	m.webhooks.WithLabelValues(state).Inc()
}

func (m *Metrics) GoalsExtracted(n int) {
	if m == nil {
		return
	}
	m.goalsExtract.Add(float64(n))
}

func (m *Metrics) GoalPersisted(ok bool) {
	if m == nil {
		return
	}
	m.goalsPersist.WithLabelValues(outcome(ok)).Inc()
}

func (m *Metrics) Notification(ok bool) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(outcome(ok)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
