// Package logging owns the process-wide structured logger.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance. It works with defaults before Init
// is called, so tests and early startup paths never nil-check it.
var Log = logrus.New()

// Init configures the global logger from the given level and environment.
// Production and staging log JSON; everything else logs human-readable
// text.
func Init(level, environment string) {
	Log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		Log.Warnf("invalid log level %q, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)

	switch strings.ToLower(environment) {
	case "production", "staging":
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
}
