package logging

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

var sentryEnabled bool

// Setup configures the global logger and, when dsn is set, Sentry.
func Setup(level, environment, dsn string) error {
	logrus.SetOutput(os.Stdout)
	if environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	if dsn == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return err
	}
	sentryEnabled = true
	return nil
}

// Flush waits for buffered Sentry events.
func Flush() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}

// LogError logs errors with structured context to both console and Sentry.
func LogError(errorType string, err error, fields map[string]interface{}) {
	entry := logrus.WithFields(logrus.Fields{
		"error_type": errorType,
		"error":      err.Error(),
	})
	for k, v := range fields {
		entry = entry.WithField(k, v)
	}
	entry.Error("Error occurred")

	if !sentryEnabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_type", errorType)
		for k, v := range fields {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// LogEvent logs an event and leaves a Sentry breadcrumb.
func LogEvent(eventType string, data map[string]interface{}) {
	entry := logrus.WithField("event_type", eventType)
	for k, v := range data {
		entry = entry.WithField(k, v)
	}
	entry.Info("Event occurred")

	if sentryEnabled {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Type:      "info",
			Category:  eventType,
			Data:      data,
			Timestamp: time.Now(),
		})
	}
}
