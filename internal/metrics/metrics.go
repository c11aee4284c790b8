package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "frontdesk"

var (
	once sync.Once

	visitorsCheckedIn = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visitor_checkins_total",
			Help:      "Count of visitor check-ins.",
		},
	)

	visitorsCheckedOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visitor_checkouts_total",
			Help:      "Count of visitor check-outs by source (manual, auto).",
		},
		[]string{"source"},
	)

	activeVisitors = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_visitors",
			Help:      "Active visitors seen by the last dashboard computation.",
		},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "host_notifications_total",
			Help:      "Host notifications by outcome.",
		},
		[]string{"status"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(visitorsCheckedIn, visitorsCheckedOut, activeVisitors, notifications, httpRequests, httpDuration)
	})
}

func IncCheckIn() {
	visitorsCheckedIn.Inc()
}

func AddCheckOut(source string, n int) {
	visitorsCheckedOut.WithLabelValues(source).Add(float64(n))
}

func SetActiveVisitors(n int) {
	activeVisitors.Set(float64(n))
}

func IncNotification(status string) {
	notifications.WithLabelValues(status).Inc()
}

// ObserveHTTP records one finished request.
func ObserveHTTP(method, path, status string, seconds float64) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path, status).Observe(seconds)
}
