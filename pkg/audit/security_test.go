package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ekaya-inc/element-catalog/pkg/middleware"
)

func setupTestAuditor(t *testing.T) (*SecurityAuditor, *observer.ObservedLogs) {
	t.Helper()
	core, recorded := observer.New(zapcore.DebugLevel)
	a := NewSecurityAuditor(zap.New(core))
	a.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return a, recorded
}

func TestLogInjectionAttempt(t *testing.T) {
	auditor, recorded := setupTestAuditor(t)
	ctx := middleware.WithRequestID(context.Background(), "req-42")

	auditor.LogInjectionAttempt(ctx, InjectionDetails{
		ElementID:   7,
		Field:       "tableName",
		Value:       "users; DROP TABLE users",
		Fingerprint: "n;Tn",
		Reason:      "contains SQL injection pattern",
	})

	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "security_audit", entry.LoggerName)

	fields := entry.ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, int64(7), fields["element_id"])
	assert.Equal(t, "critical", fields["severity"])

	var event map[string]any
	require.NoError(t, json.Unmarshal([]byte(fields["event_json"].(string)), &event))
	assert.Equal(t, "sql_injection_attempt", event["event_type"])
	assert.Equal(t, "2026-01-02T03:04:05Z", event["timestamp"])
	details := event["details"].(map[string]any)
	assert.Equal(t, "tableName", details["field"])
}

func TestLogCredentialChange(t *testing.T) {
	auditor, recorded := setupTestAuditor(t)

	auditor.LogCredentialChange(context.Background(), CredentialDetails{
		DatabaseConfigID: 3,
		Action:           "updated",
		Scheme:           "postgres",
	})

	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "updated", entry.ContextMap()["action"])
	assert.NotContains(t, entry.ContextMap()["event_json"], "request_id")
}
