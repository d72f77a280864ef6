package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/hidvid/traderpark/backend/pkg/logger"
)

// cronLogger routes robfig/cron's internal logs through our logger.
// cron's Info messages (schedule, wake, run) are per-tick noise and go to debug.
type cronLogger struct {
	log *logger.Logger
}

var _ cron.Logger = cronLogger{}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.WithFields(kvFields(keysAndValues)).Debug("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.WithError(err).WithFields(kvFields(keysAndValues)).Error("cron: " + msg)
}

// kvFields turns cron's alternating key/value list into log fields
func kvFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	if len(keysAndValues)%2 == 1 {
		fields["extra"] = keysAndValues[len(keysAndValues)-1]
	}
	return fields
}
