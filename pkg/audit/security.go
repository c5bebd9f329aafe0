// Package audit writes security-relevant catalog events as structured JSON
// log entries for SIEM consumption.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/middleware"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when a mapping identifier looks like
	// SQL injection.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventCredentialChange is logged when a stored connection URL is created,
	// replaced or removed.
	EventCredentialChange SecurityEventType = "credential_change"
)

// SecurityEvent is one auditable event.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	RequestID string            `json:"request_id,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// InjectionDetails describes a rejected mapping identifier.
type InjectionDetails struct {
	ElementID   int64  `json:"element_id"`
	Field       string `json:"field"`
	Value       string `json:"value"`
	Fingerprint string `json:"fingerprint,omitempty"` // libinjection fingerprint
	Reason      string `json:"reason"`
}

// CredentialDetails describes a change to a database config's connection URL.
// The URL itself is never logged.
type CredentialDetails struct {
	DatabaseConfigID int64  `json:"database_config_id"`
	Action           string `json:"action"` // created, updated, deleted
	Scheme           string `json:"scheme,omitempty"`
}

// SecurityAuditor logs security events under the "security_audit" logger.
type SecurityAuditor struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{
		logger: logger.Named("security_audit"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// LogInjectionAttempt records a rejected identifier at ERROR level with
// critical severity.
func (a *SecurityAuditor) LogInjectionAttempt(ctx context.Context, details InjectionDetails) {
	event := a.event(ctx, EventSQLInjectionAttempt, "critical", details)

	a.logger.Error("SQL injection attempt detected",
		zap.String("event_json", a.marshal(event)),
		zap.String("request_id", event.RequestID),
		zap.Int64("element_id", details.ElementID),
		zap.String("field", details.Field),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("severity", event.Severity),
	)
}

// LogCredentialChange records a connection URL change at INFO level.
func (a *SecurityAuditor) LogCredentialChange(ctx context.Context, details CredentialDetails) {
	event := a.event(ctx, EventCredentialChange, "info", details)

	a.logger.Info("Connection credentials changed",
		zap.String("event_json", a.marshal(event)),
		zap.String("request_id", event.RequestID),
		zap.Int64("database_config_id", details.DatabaseConfigID),
		zap.String("action", details.Action),
		zap.String("severity", event.Severity),
	)
}

func (a *SecurityAuditor) event(ctx context.Context, t SecurityEventType, severity string, details any) SecurityEvent {
	return SecurityEvent{
		Timestamp: a.now(),
		EventType: t,
		RequestID: middleware.RequestIDFromContext(ctx),
		Details:   details,
		Severity:  severity,
	}
}

func (a *SecurityAuditor) marshal(event SecurityEvent) string {
	// Known field types; marshaling cannot fail.
	b, _ := json.Marshal(event)
	return string(b)
}
