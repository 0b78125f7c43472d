package scheduler

import (
	log "github.com/sirupsen/logrus"
)

// cronLogger adapts logrus to the cron.Logger interface
type cronLogger struct {
	entry *log.Entry
}

func newCronLogger() cronLogger {
	return cronLogger{entry: log.WithField("component", "cron")}
}

// Info is used by cron for routine scheduling messages, which are noisy at info level
func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(keysAndValues []interface{}) log.Fields {
	f := make(log.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		f[key] = keysAndValues[i+1]
	}
	return f
}
