//go:build !solution

// Package metrics exposes Prometheus collectors for the shared resource lock.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Rogov-KS/readwrite/rwmutex"
)

const namespace = "readwrite"

// Lock collects lock activity. A nil *Lock is valid and records nothing.
type Lock struct {
	Acquired     *prometheus.CounterVec
	WaitSeconds  *prometheus.HistogramVec
	PacingErrors *prometheus.CounterVec
}

// NewLock creates the collectors and registers them in reg.
func NewLock(reg prometheus.Registerer) *Lock {
	m := &Lock{
		Acquired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_acquired_total",
			Help:      "Number of times the lock was acquired, by mode.",
		}, []string{"mode"}),
		WaitSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for lock admission, by mode.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"mode"}),
		PacingErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_pacing_errors_total",
			Help:      "Interrupted pacing delays, by agent role.",
		}, []string{"role"}),
	}

	reg.MustRegister(m.Acquired, m.WaitSeconds, m.PacingErrors)
	return m
}

// ObserveAcquire counts one admission in mode ("read" or "write") that took wait.
func (m *Lock) ObserveAcquire(mode string, wait time.Duration) {
	if m == nil {
		return
	}
	m.Acquired.WithLabelValues(mode).Inc()
	m.WaitSeconds.WithLabelValues(mode).Observe(wait.Seconds())
}

// PacingError counts one interrupted pacing delay of an agent with role.
func (m *Lock) PacingError(role string) {
	if m == nil {
		return
	}
	m.PacingErrors.WithLabelValues(role).Inc()
}

// StateCollector reports the lock state at scrape time. Every scrape takes
// one snapshot, so the reported gauges are consistent with each other.
type StateCollector struct {
	stats func() rwmutex.Stats

	activeReaders *prometheus.Desc
	writerActive  *prometheus.Desc
	waiting       *prometheus.Desc
}

// NewStateCollector returns a collector over stats, usually Resource.Stats.
func NewStateCollector(stats func() rwmutex.Stats) *StateCollector {
	return &StateCollector{
		stats: stats,
		activeReaders: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "lock_active_readers"),
			"Readers currently holding shared access.",
			nil, nil,
		),
		writerActive: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "lock_writer_active"),
			"1 while a writer holds exclusive access.",
			nil, nil,
		),
		waiting: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "lock_waiting"),
			"Agents queued for admission, by mode.",
			[]string{"mode"}, nil,
		),
	}
}

func (c *StateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.activeReaders
	ch <- c.writerActive
	ch <- c.waiting
}

func (c *StateCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()

	writer := 0.0
	if s.WriterActive {
		writer = 1
	}

	ch <- prometheus.MustNewConstMetric(c.activeReaders, prometheus.GaugeValue, float64(s.ActiveReaders))
	ch <- prometheus.MustNewConstMetric(c.writerActive, prometheus.GaugeValue, writer)
	ch <- prometheus.MustNewConstMetric(c.waiting, prometheus.GaugeValue, float64(s.WaitingReaders), "read")
	ch <- prometheus.MustNewConstMetric(c.waiting, prometheus.GaugeValue, float64(s.WaitingWriters), "write")
}
