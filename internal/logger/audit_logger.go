// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPredictionStored logs a persisted prediction record.
func (al *AuditLogger) LogPredictionStored(recordID, matchID, modelVersion string) {
	al.WithFields(logrus.Fields{
		"record_id":     recordID,
		"match_id":      matchID,
		"model_version": modelVersion,
	}).Info("Prediction stored")
}

// LogConfigLoaded logs which configuration the process started with.
func (al *AuditLogger) LogConfigLoaded(environment, source string, secretsOverlay bool) {
	al.WithFields(logrus.Fields{
		"environment":     environment,
		"source":          source,
		"secrets_overlay": secretsOverlay,
	}).Info("Configuration loaded")
}
