// Package logger provides the process-wide logger used by every ramfs
// component. It keeps a small printf-style API and delegates formatting,
// levels and output handling to logrus.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(textFormatter())
	return l
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}

// SetLevel sets the minimum level: DEBUG, INFO, WARN or ERROR
// (case-insensitive). Unknown values leave the level unchanged.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		log.SetLevel(logrus.DebugLevel)
	case "INFO":
		log.SetLevel(logrus.InfoLevel)
	case "WARN":
		log.SetLevel(logrus.WarnLevel)
	case "ERROR":
		log.SetLevel(logrus.ErrorLevel)
	}
}

// SetFormat selects the output format: "text" or "json".
func SetFormat(format string) {
	switch strings.ToLower(format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(textFormatter())
	}
}

// SetOutput redirects log output, e.g. to a file or os.Stderr.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Debug logs at debug level.
func Debug(format string, v ...any) {
	log.Debugf(format, v...)
}

// Info logs at info level.
func Info(format string, v ...any) {
	log.Infof(format, v...)
}

// Warn logs at warn level.
func Warn(format string, v ...any) {
	log.Warnf(format, v...)
}

// Error logs at error level.
func Error(format string, v ...any) {
	log.Errorf(format, v...)
}
