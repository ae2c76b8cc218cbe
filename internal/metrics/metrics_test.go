package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(PredictionsTotal.WithLabelValues("high"))

	RecordPrediction("high", 0.93, 0.0002)

	assert.Equal(t, before+1, testutil.ToFloat64(PredictionsTotal.WithLabelValues("high")))
	assert.Equal(t, 0.93, testutil.ToFloat64(ModelAgreement))
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()
	hits := testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("memory", "hit"))
	misses := testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("memory", "miss"))

	RecordCacheLookup("memory", true)
	RecordCacheLookup("memory", false)
	RecordCacheLookup("memory", false)

	assert.Equal(t, hits+1, testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("memory", "hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("memory", "miss")))
}

func TestUpdateCacheStats(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name  string
		items int
		ratio float64
	}{
		{name: "empty cache", items: 0, ratio: 0},
		{name: "warm cache", items: 120, ratio: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			UpdateCacheStats(tt.items, tt.ratio)
			assert.Equal(t, float64(tt.items), testutil.ToFloat64(CacheItems))
			assert.Equal(t, tt.ratio, testutil.ToFloat64(CacheHitRatio))
		})
	}
}

func TestRecordErrorsDoNotPanic(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPredictionError("validation")
		RecordPredictionStored()
		RecordHTTPRequest("/predictions/predict", "200", 0.01)
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	RecordPrediction("low", 0.5, 0.0001)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "predictsports_predictions_total")
}
