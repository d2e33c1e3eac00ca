// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ClockEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clock_events_total",
			Help:      "Clock-in and clock-out attempts by outcome",
		},
		[]string{"event", "result"},
	)

	PayrollRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payroll_runs_total",
			Help:      "Payroll computations by outcome",
		},
		[]string{"result"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of scheduled jobs",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job"},
	)
)

// RecordClockEvent counts a clock attempt; result is "ok" or an error code
func RecordClockEvent(event, result string) {
	ClockEventsTotal.WithLabelValues(event, result).Inc()
}

// RecordPayrollRun counts a payroll computation
func RecordPayrollRun(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	PayrollRunsTotal.WithLabelValues(result).Inc()
}

// TrackJob returns a func that observes the job duration when called
func TrackJob(job string) func() {
	start := time.Now()
	return func() {
		JobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
	}
}
