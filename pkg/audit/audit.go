// Package audit writes an append-only trail of sync runs and admin actions
// through a dedicated zap logger, separate from the application log.
package audit

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of audited event
type EventType string

const (
	EventSyncStarted    EventType = "sync_started"
	EventSyncFinished   EventType = "sync_finished"
	EventSyncSkipped    EventType = "sync_skipped"
	EventSyncFailed     EventType = "sync_failed"
	EventJobsExported   EventType = "jobs_exported"
	EventDigestSent     EventType = "digest_sent"
	EventResumeUploaded EventType = "resume_uploaded"
	EventAdminDenied    EventType = "admin_denied"
)

type Event struct {
	Type      EventType
	ActorID   string // user id, or "system" for scheduled runs
	RequestID string
	Details   map[string]any
}

type Logger struct {
	zap         *zap.Logger
	serviceName string
	environment string
}

// New builds a production zap logger writing ISO8601 JSON to stdout.
func New(serviceName string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return &Logger{zap: logger, serviceName: serviceName, environment: environment()}
}

// NewWithZap wraps an existing zap logger; tests pass zap.NewNop() or an observer.
func NewWithZap(z *zap.Logger) *Logger {
	return &Logger{zap: z, serviceName: "test", environment: "test"}
}

func (l *Logger) Log(ctx context.Context, e Event) {
	if l == nil {
		return
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.String("event", string(e.Type)),
		zap.Time("at", time.Now().UTC()),
	}
	if e.ActorID != "" {
		fields = append(fields, zap.String("actor_id", e.ActorID))
	}
	if e.RequestID != "" {
		fields = append(fields, zap.String("request_id", e.RequestID))
	}
	if len(e.Details) > 0 {
		fields = append(fields, zap.Any("details", e.Details))
	}

	switch e.Type {
	case EventSyncFailed, EventAdminDenied:
		l.zap.Warn("audit", fields...)
	default:
		l.zap.Info("audit", fields...)
	}
}

func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.zap.Sync()
}

func environment() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "development"
}
