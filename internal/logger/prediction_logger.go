// Package logger provides prediction-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/predictsports-engine/internal/models"
)

// PredictionLogger provides dedicated logging for engine requests.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPrediction logs a completed prediction.
func (pl *PredictionLogger) LogPrediction(matchID string, result *models.EnsembleResult, cacheHit bool, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"match_id":        matchID,
		"home_win":        result.HomeWin,
		"draw":            result.Draw,
		"away_win":        result.AwayWin,
		"model_agreement": result.ModelAgreement,
		"confidence":      result.Confidence,
		"cache_hit":       cacheHit,
		"latency_ms":      latencyMs,
	}).Info("Prediction completed")
}

// LogPredictionError logs a failed prediction.
func (pl *PredictionLogger) LogPredictionError(matchID string, reason string) {
	pl.WithFields(logrus.Fields{
		"match_id":     matchID,
		"error_reason": reason,
	}).Error("Prediction failed")
}

// LogCacheEvent logs a cache operation at debug level.
func (pl *PredictionLogger) LogCacheEvent(operation, key string, hit bool) {
	pl.WithFields(logrus.Fields{
		"operation": operation,
		"cache_key": key,
		"hit":       hit,
	}).Debug("Prediction cache event")
}
