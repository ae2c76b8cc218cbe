// Package metrics provides the centralized Prometheus metrics registry for the engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "predictsports"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of ensemble predictions served",
	}, []string{"confidence"})
	PredictionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_errors_total",
		Help:      "Total number of failed prediction requests",
	}, []string{"reason"})
	CacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Prediction cache lookups by backend and result",
	}, []string{"backend", "result"})
	PredictionsStoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_stored_total",
		Help:      "Total number of prediction records persisted",
	})
)

// Gauge metrics
var (
	CacheItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_items",
		Help:      "Number of entries in the in-memory prediction cache",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Prediction cache hit ratio",
	})
	ModelAgreement = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_model_agreement",
		Help:      "Model agreement of the most recent prediction",
	})
)

// Histogram metrics
var (
	PredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_duration_seconds",
		Help:      "Duration of engine predictions in seconds",
		Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
	})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "code"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionErrorsTotal)
		registry.MustRegister(CacheRequestsTotal)
		registry.MustRegister(PredictionsStoredTotal)

		registry.MustRegister(CacheItems)
		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(ModelAgreement)

		registry.MustRegister(PredictionDuration)
		registry.MustRegister(HTTPRequestDuration)

		registry.MustRegister(prometheus.NewGoCollector())
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

// RecordPrediction records a served prediction.
func RecordPrediction(confidence string, agreement, durationSeconds float64) {
	PredictionsTotal.WithLabelValues(confidence).Inc()
	ModelAgreement.Set(agreement)
	PredictionDuration.Observe(durationSeconds)
}

// RecordPredictionError records a failed prediction request.
func RecordPredictionError(reason string) {
	PredictionErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordCacheLookup records a cache hit or miss for a backend.
func RecordCacheLookup(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(backend, result).Inc()
}

// RecordPredictionStored records a persisted prediction.
func RecordPredictionStored() {
	PredictionsStoredTotal.Inc()
}

// UpdateCacheStats updates the cache size and hit ratio gauges.
func UpdateCacheStats(items int, hitRatio float64) {
	CacheItems.Set(float64(items))
	CacheHitRatio.Set(hitRatio)
}

// RecordHTTPRequest records the duration of an HTTP request.
func RecordHTTPRequest(route, code string, durationSeconds float64) {
	HTTPRequestDuration.WithLabelValues(route, code).Observe(durationSeconds)
}
