package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation. A nil
// *MetricsService is valid and records nothing.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	storeOps        *prometheus.CounterVec
	registrations   prometheus.Counter
	deletions       prometheus.Counter
	exports         *prometheus.CounterVec
	sessions        prometheus.Gauge
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	storeOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "record_store_operations_total",
		Help: "Record store loads and saves by result",
	}, []string{"operation", "result"})

	registrations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_registered_total",
		Help: "Enrollments created through the registration form",
	})

	deletions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_deleted_total",
		Help: "Enrollments removed from the listing",
	})

	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollment_exports_total",
		Help: "Generated listing exports by format",
	}, []string{"format"})

	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "listing_sessions_active",
		Help: "Listing sessions currently held in memory",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storeOps, registrations, deletions, exports, sessions, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		storeOps:        storeOps,
		registrations:   registrations,
		deletions:       deletions,
		exports:         exports,
		sessions:        sessions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveStoreOperation counts a record store load or save.
func (m *MetricsService) ObserveStoreOperation(operation, result string) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(operation, result).Inc()
}

// RecordRegistration counts a persisted registration.
func (m *MetricsService) RecordRegistration() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

// RecordDeletion counts a persisted deletion.
func (m *MetricsService) RecordDeletion() {
	if m == nil {
		return
	}
	m.deletions.Inc()
}

// RecordExport counts a generated export.
func (m *MetricsService) RecordExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

// SetActiveSessions publishes the number of live listing sessions.
func (m *MetricsService) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}
