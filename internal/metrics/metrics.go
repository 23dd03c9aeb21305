package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "madrasah"

// Metrics groups the collectors the services report to. A nil *Metrics is
// valid and records nothing, which keeps unit tests free of registries.
type Metrics struct {
	Classifications *prometheus.CounterVec
	SyncRecords     *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	PayrollItems    *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	QueueDepth      prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attendance",
			Name:      "classifications_total",
			Help:      "Attendance classifications by resulting status.",
		}, []string{"status", "fallback"}),
		SyncRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attendance",
			Name:      "sync_records_total",
			Help:      "Offline device records by reconciliation outcome.",
		}, []string{"outcome"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "dispatch_total",
			Help:      "Notification dispatch results.",
		}, []string{"event_type", "result"}),
		PayrollItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payroll",
			Name:      "items_processed_total",
			Help:      "Payroll items computed, by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "queue_depth",
			Help:      "Notifications waiting for a worker.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Classifications,
			m.SyncRecords,
			m.Notifications,
			m.PayrollItems,
			m.HTTPRequests,
			m.HTTPDuration,
			m.QueueDepth,
		)
	}
	return m
}

func (m *Metrics) ObserveClassification(status string, fallback bool) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(status, strconv.FormatBool(fallback)).Inc()
}

func (m *Metrics) ObserveSync(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SyncRecords.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) ObserveNotification(eventType, result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) ObservePayrollItem(outcome string) {
	if m == nil {
		return
	}
	m.PayrollItems.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
