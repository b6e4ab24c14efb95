package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogrusLogger implements Logger on top of logrus.
type LogrusLogger struct {
	entry *logrus.Entry
}

// New creates a logrus-backed logger writing to out (stderr when nil).
func New(out io.Writer, opts Options) *LogrusLogger {
	if out == nil {
		out = os.Stderr
	}

	base := logrus.New()
	base.Out = out
	base.Level = parseLevel(opts.Level)

	if strings.EqualFold(opts.Format, "text") || opts.Pretty {
		base.Formatter = &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			ForceColors:     opts.Pretty,
		}
	} else {
		base.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	}

	return &LogrusLogger{entry: logrus.NewEntry(base)}
}

// NewDefaultLogger creates a JSON logger at the level named by LOG_LEVEL.
func NewDefaultLogger() Logger {
	return New(os.Stderr, Options{Level: GetLogLevel(), Format: "json"})
}

// Debug logs a debug message
func (l *LogrusLogger) Debug(msg string, fields ...interface{}) {
	l.withArgs(fields).Debug(msg)
}

// Info logs an info message
func (l *LogrusLogger) Info(msg string, fields ...interface{}) {
	l.withArgs(fields).Info(msg)
}

// Warn logs a warning message
func (l *LogrusLogger) Warn(msg string, fields ...interface{}) {
	l.withArgs(fields).Warn(msg)
}

// Error logs an error message
func (l *LogrusLogger) Error(msg string, fields ...interface{}) {
	l.withArgs(fields).Error(msg)
}

// SetLevel sets the logging level. Unknown names are ignored.
func (l *LogrusLogger) SetLevel(level string) {
	if lvl, err := logrus.ParseLevel(normalizeLevel(level)); err == nil {
		l.entry.Logger.SetLevel(lvl)
	}
}

// WithField returns a logger with an additional field
func (l *LogrusLogger) WithField(key string, value interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithField(key, value)}
}

// WithFields returns a logger with additional fields
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// With returns a logger with additional fields
func (l *LogrusLogger) With(fields ...Field) Logger {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return &LogrusLogger{entry: l.entry.WithFields(lf)}
}

// withArgs accepts Field values and alternating key/value pairs in any mix.
func (l *LogrusLogger) withArgs(args []interface{}) *logrus.Entry {
	if len(args) == 0 {
		return l.entry
	}

	fields := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case Field:
			fields[v.Key] = v.Value
		case error:
			fields[logrus.ErrorKey] = v.Error()
		default:
			if i+1 >= len(args) {
				fields["_extra"] = v
				continue
			}
			fields[fmt.Sprint(v)] = args[i+1]
			i++
		}
	}
	return l.entry.WithFields(fields)
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(normalizeLevel(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return "info"
	}
	return level
}

// GetLogLevel gets the current log level from environment
func GetLogLevel() string {
	if level := os.Getenv("STOREFRONT_LOG_LEVEL"); level != "" {
		return level
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}
