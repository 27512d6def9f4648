package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// QueryLogger records store reads and the fallbacks used when they fail.
type QueryLogger struct {
	*logrus.Entry
}

// NewQueryLogger creates a new store query logger.
func NewQueryLogger(baseLogger *logrus.Logger) *QueryLogger {
	return &QueryLogger{
		Entry: baseLogger.WithField("component", "store"),
	}
}

// LogQueryFailure logs a failed read.
func (ql *QueryLogger) LogQueryFailure(query string, err error) {
	ql.WithFields(logrus.Fields{
		"query": query,
		"error": err.Error(),
	}).Error("Store query failed")
}

// LogFallback logs the default value substituted for a failed read.
func (ql *QueryLogger) LogFallback(query, fallback string) {
	ql.WithFields(logrus.Fields{
		"query":    query,
		"fallback": fallback,
	}).Warn("Using fallback value")
}

// LogQueryComplete logs a successful read.
func (ql *QueryLogger) LogQueryComplete(query string, rows int, duration time.Duration) {
	ql.WithFields(logrus.Fields{
		"query":       query,
		"rows":        rows,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	}).Debug("Store query completed")
}
