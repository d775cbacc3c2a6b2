// Package metrics exposes Prometheus instrumentation for the scheduler
// daemon: tick cadence, notification dispatch and agent task outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the scheduler's Prometheus collectors.
type Metrics struct {
	registry prometheus.Registerer

	ticksTotal         prometheus.Counter
	tickDuration       prometheus.Histogram
	notificationsTotal *prometheus.CounterVec
	agentTasksTotal    *prometheus.CounterVec
	overdueReminders   prometheus.Gauge
}

// New registers the scheduler collectors on reg (the default registerer
// when nil) under the given namespace.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		registry: reg,
		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scheduler_ticks_total",
				Help:      "Total number of scheduler ticks",
			},
		),
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scheduler_tick_duration_seconds",
				Help:      "Duration of scheduler ticks",
				Buckets:   []float64{.001, .01, .1, .5, 1, 5, 30, 60, 300, 600},
			},
		),
		notificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of dispatched notifications",
			},
			[]string{"kind", "delivered"},
		),
		agentTasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "agent_tasks_total",
				Help:      "Total number of executed agent tasks",
			},
			[]string{"status"},
		),
		overdueReminders: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "overdue_reminders",
				Help:      "Number of overdue reminders seen on the last tick",
			},
		),
	}

	reg.MustRegister(
		m.ticksTotal,
		m.tickDuration,
		m.notificationsTotal,
		m.agentTasksTotal,
		m.overdueReminders,
	)

	return m
}

// RecordTick records one completed scheduler tick.
func (m *Metrics) RecordTick(d time.Duration) {
	m.ticksTotal.Inc()
	m.tickDuration.Observe(d.Seconds())
}

// RecordNotification records a dispatched notification of the given kind
// ("due" or "nudge") and whether it was delivered natively.
func (m *Metrics) RecordNotification(kind string, delivered bool) {
	deliveredLabel := "false"
	if delivered {
		deliveredLabel = "true"
	}
	m.notificationsTotal.WithLabelValues(kind, deliveredLabel).Inc()
}

// RecordAgentTask records an agent task outcome.
func (m *Metrics) RecordAgentTask(status string) {
	m.agentTasksTotal.WithLabelValues(status).Inc()
}

// SetOverdue records the overdue reminder count observed on a tick.
func (m *Metrics) SetOverdue(n int) {
	m.overdueReminders.Set(float64(n))
}
