// Package metrics provides centralized Prometheus metrics registry for TrackOdds.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trackodds"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Total number of requests rejected by the rate limiter",
	})
	StoreQueryFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_query_failures_total",
		Help:      "Total number of store reads that failed and fell back to a default",
	}, []string{"query"})
	StoreRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_requests_total",
		Help:      "Total number of requests sent to the hosted store",
	}, []string{"table", "status"})
	LiveMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_messages_total",
		Help:      "Total number of odds board messages pushed to live clients",
	})
)

// Gauge metrics
var (
	LiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_connections",
		Help:      "Number of open live odds connections",
	})
	BoardDrivers = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "board_drivers",
		Help:      "Drivers on the last odds board built, split by whether they have odds",
	}, []string{"has_odds"})
)

// Histogram metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	StoreQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_query_duration_seconds",
		Help:      "Duration of store reads in seconds",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"query"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		// Register counter metrics
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(RateLimitedTotal)
		registry.MustRegister(StoreQueryFailuresTotal)
		registry.MustRegister(StoreRequestsTotal)
		registry.MustRegister(LiveMessagesTotal)

		// Register gauge metrics
		registry.MustRegister(LiveConnections)
		registry.MustRegister(BoardDrivers)

		// Register histogram metrics
		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(StoreQueryDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(method, route string, status int, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordRateLimited records a request rejected by the rate limiter.
func RecordRateLimited() {
	RateLimitedTotal.Inc()
}

// RecordStoreQuery records the duration of a store read.
func RecordStoreQuery(query string, durationSeconds float64) {
	StoreQueryDuration.WithLabelValues(query).Observe(durationSeconds)
}

// RecordStoreQueryFailure records a store read that degraded to its default.
func RecordStoreQueryFailure(query string) {
	StoreQueryFailuresTotal.WithLabelValues(query).Inc()
}

// RecordStoreRequest records a request to the hosted store.
func RecordStoreRequest(table string, status int) {
	StoreRequestsTotal.WithLabelValues(table, strconv.Itoa(status)).Inc()
}

// UpdateBoardDrivers sets the board size gauges.
func UpdateBoardDrivers(withOdds, withoutOdds int) {
	BoardDrivers.WithLabelValues("true").Set(float64(withOdds))
	BoardDrivers.WithLabelValues("false").Set(float64(withoutOdds))
}

// LiveConnectionOpened increments the open live connection gauge.
func LiveConnectionOpened() {
	LiveConnections.Inc()
}

// LiveConnectionClosed decrements the open live connection gauge.
func LiveConnectionClosed() {
	LiveConnections.Dec()
}

// RecordLiveMessage records a board pushed to a live client.
func RecordLiveMessage() {
	LiveMessagesTotal.Inc()
}
