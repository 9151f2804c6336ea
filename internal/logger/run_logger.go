// Package logger provides run-specific logging for scheduled pipeline jobs.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RunLogger provides dedicated logging for scheduled pipeline runs.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run logger.
func NewRunLogger(baseLogger *logrus.Logger, job string) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("job", job),
	}
}

// LogRunStarted logs the start of a scheduled run.
func (rl *RunLogger) LogRunStarted() {
	rl.WithField("event_type", "run_started").Info("Scheduled run started")
}

// LogRunCompleted logs a completed run with its counters.
func (rl *RunLogger) LogRunCompleted(gamesProcessed, recordsSkipped, betsGraded int, duration time.Duration) {
	rl.WithFields(logrus.Fields{
		"event_type":      "run_completed",
		"games_processed": gamesProcessed,
		"records_skipped": recordsSkipped,
		"bets_graded":     betsGraded,
		"duration_ms":     duration.Milliseconds(),
	}).Info("Scheduled run completed")
}

// LogRunFailed logs a run that aborted and rolled back. The next scheduled
// trigger is the retry.
func (rl *RunLogger) LogRunFailed(err error, duration time.Duration) {
	rl.WithFields(logrus.Fields{
		"event_type":  "run_failed",
		"error":       err.Error(),
		"duration_ms": duration.Milliseconds(),
	}).Error("Scheduled run failed; state rolled back")
}

// LogRecordSkipped logs a single malformed upstream record being skipped.
func (rl *RunLogger) LogRecordSkipped(externalID, reason string) {
	rl.WithFields(logrus.Fields{
		"event_type":  "record_skipped",
		"external_id": externalID,
		"reason":      reason,
	}).Warn("Skipped upstream record")
}

// LogFetchFailed logs a provider fetch failure treated as zero records.
func (rl *RunLogger) LogFetchFailed(err error) {
	rl.WithFields(logrus.Fields{
		"event_type": "fetch_failed",
		"error":      err.Error(),
	}).Warn("Provider fetch failed; run proceeds with zero records")
}
