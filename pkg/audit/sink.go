package audit

import (
	"context"

	"go.uber.org/zap"
)

// Sink defines the interface for append-only audit event destinations.
type Sink interface {
	// Write appends an audit event to the sink.
	Write(ctx context.Context, event *Event) error

	// Close releases any resources held by the sink.
	Close() error

	// Name returns the sink's identifier.
	Name() string
}

// LogSink writes audit events to a structured logger. It doubles as the
// local diagnostic fallback when a network sink is unavailable.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a new LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("audit")}
}

// Write logs the audit event.
func (s *LogSink) Write(_ context.Context, event *Event) error {
	s.logger.Info("audit_event", eventFields(event)...)
	return nil
}

func eventFields(event *Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_kind", string(event.Kind)),
		zap.String("severity", string(event.Severity)),
		zap.Time("timestamp", event.Timestamp),
		zap.String("actor", event.Actor),
		zap.String("device_fingerprint", event.Enrichment.DeviceFingerprint),
		zap.String("principal_id", event.Enrichment.PrincipalIdentifier),
		zap.String("app_name", event.Enrichment.App.Name),
		zap.String("app_version", event.Enrichment.App.Version),
		zap.String("app_path", event.Enrichment.App.Path),
		zap.String("app_sha256", event.Enrichment.App.SHA256),
	}

	if event.Subject.Account != "" {
		fields = append(fields, zap.String("account", event.Subject.Account))
	}
	if event.Subject.Holder != "" {
		fields = append(fields, zap.String("holder", event.Subject.Holder))
	}
	if event.Amount != nil {
		fields = append(fields, zap.String("amount", formatAmount(*event.Amount)))
	}
	if event.Reason != "" {
		fields = append(fields, zap.String("reason", event.Reason))
	}
	if event.Approver != "" {
		fields = append(fields, zap.String("approver", event.Approver))
	}
	return fields
}

// Close is a no-op for LogSink.
func (s *LogSink) Close() error {
	return nil
}

// Name returns the sink identifier.
func (s *LogSink) Name() string {
	return "log"
}
