package commands

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// Logger adapts a logrus entry to acsf.Logger.
type Logger struct {
	entry *logrus.Entry
}

var _ acsf.Logger = (*Logger)(nil)

// NewLogger returns a text logger on out. Debug enables request and response
// tracing from the transport.
func NewLogger(out io.Writer, debug bool) *Logger {
	logrusLog := logrus.New()
	logrusLog.Out = out // stderr keeps stdout clean for command output.
	logrusLog.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if debug {
		logrusLog.SetLevel(logrus.DebugLevel)
	}

	return &Logger{entry: logrus.NewEntry(logrusLog)}
}

// Debug implements acsf.Logger.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

// Info implements acsf.Logger.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

// Warn implements acsf.Logger.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

// Error implements acsf.Logger.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Error(msg)
}
