package logger

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

// LogrusLogger implements the ports.Logger interface on top of logrus.
type LogrusLogger struct {
	logger *logrus.Logger
}

// Config holds configuration for the logrus adapter.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // "text" or "json"
}

// New creates a logrus-backed logger writing to stderr.
func New(cfg Config) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &LogrusLogger{logger: l}
}

func (l *LogrusLogger) entry(fields ...map[string]interface{}) *logrus.Entry {
	if len(fields) > 0 && fields[0] != nil {
		return l.logger.WithFields(logrus.Fields(fields[0]))
	}
	return logrus.NewEntry(l.logger)
}

// Debug logs a message at Debug level.
func (l *LogrusLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.entry(fields...).Debug(msg)
}

// Info logs a message at Info level.
func (l *LogrusLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.entry(fields...).Info(msg)
}

// Warn logs a message at Warning level.
func (l *LogrusLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.entry(fields...).Warn(msg)
}

// Error logs an error message at Error level.
func (l *LogrusLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	e := l.entry(fields...)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}
