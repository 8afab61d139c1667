package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a JSON logger writing to stderr so command output on
// stdout stays parseable.
func New(service string, verbose bool) *Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return newLogger(service, os.Stderr, level)
}

func newLogger(service string, w io.Writer, level slog.Level) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// GenerateRequestID returns a unique id correlating the log lines of one
// user-triggered flow.
func GenerateRequestID() string {
	return uuid.NewString()
}

func (l *Logger) Info(action, requestID, message string) {
	l.log(slog.LevelInfo, action, requestID, message, nil)
}

func (l *Logger) Debug(action, requestID, message string) {
	l.log(slog.LevelDebug, action, requestID, message, nil)
}

func (l *Logger) Error(action, requestID, message string, err error) {
	l.log(slog.LevelError, action, requestID, message, err)
}

func (l *Logger) log(level slog.Level, action, requestID, message string, err error) {
	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
		))
	}
	l.handler.LogAttrs(context.TODO(), level, message, attrs...)
}
