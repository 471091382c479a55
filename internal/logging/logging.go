// Package logging builds the logrus logger shared by the command line and
// the tool server.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvLevel overrides the configured level when set.
const EnvLevel = "OBJECT_MEASURE_LOG_LEVEL"

// New returns a logger writing to w at level. An unknown level falls back
// to info. format may force "text" or "json"; when empty, debug logging is
// human-readable text and every other level is JSON.
func New(level, format string, w io.Writer) *logrus.Logger {
	if env := os.Getenv(EnvLevel); env != "" {
		level = env
	}

	logger := logrus.New()
	logger.SetOutput(w)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	text := lvl >= logrus.DebugLevel
	switch format {
	case "text":
		text = true
	case "json":
		text = false
	}

	if text {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}

// Discard returns a logger that drops everything. Used by tests and by
// library callers that pass no logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
