package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/predictsports-engine/internal/models"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newLogger(buf, "debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = newLogger(buf, "nonsense", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level")
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newLogger(buf, "info", "production")
	log.Info("hello")

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "hello", entry["msg"])
}

func TestPredictionLoggerPrediction(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogPrediction("1_vs_2", &models.EnsembleResult{
		OutcomeDistribution: models.OutcomeDistribution{HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2},
		ModelAgreement:      0.9,
		Confidence:          models.ConfidenceMedium,
	}, true, 1.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "prediction", logEntry["component"])
	assert.Equal(t, "1_vs_2", logEntry["match_id"])
	assert.Equal(t, "medium", logEntry["confidence"])
	assert.Equal(t, true, logEntry["cache_hit"])
}

func TestPredictionLoggerError(t *testing.T) {
	log, buf := setupTestLogger()
	NewPredictionLogger(log).LogPredictionError("1_vs_2", "invalid input")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "invalid input", logEntry["error_reason"])
}

func TestAuditLoggerPredictionStored(t *testing.T) {
	log, buf := setupTestLogger()
	NewAuditLogger(log).LogPredictionStored("rec-1", "1_vs_2", "1.0.0")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "rec-1", logEntry["record_id"])
}

func BenchmarkPredictionLogger(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	predictionLogger := NewPredictionLogger(log)
	result := &models.EnsembleResult{Confidence: models.ConfidenceHigh}

	for i := 0; i < b.N; i++ {
		predictionLogger.LogPrediction("1_vs_2", result, false, 0.2)
	}
}
