package server

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "webs",
			Name:      "render_duration_seconds",
			Help:      "Server render duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"component", "status"},
	)
	renderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webs",
			Name:      "render_errors_total",
			Help:      "Total failed server renders.",
		},
		[]string{"component"},
	)
	liveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "webs",
			Name:      "live_sessions",
			Help:      "Currently connected live sessions.",
		},
	)
)

func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(renderDuration, renderErrors, liveSessions)
	})
}

func recordRender(component, status string, d time.Duration) {
	renderDuration.WithLabelValues(component, status).Observe(d.Seconds())
}

func recordRenderError(component string) {
	renderErrors.WithLabelValues(component).Inc()
}
